package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/logger"
	healthuc "github.com/cinematch/cinematch/internal/usecase/health"
	recommenduc "github.com/cinematch/cinematch/internal/usecase/recommend"
)

// errorCode identifies an API error category.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeMovieNotFound    errorCode = "movie_not_found"
	codeEngineNotReady   errorCode = "engine_not_ready"
	codeInternalError    errorCode = "internal_error"
)

// errorResponse is the JSON body returned for all API errors.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// movieRequest is the body of both recommendation endpoints.
type movieRequest struct {
	Movie string `json:"movie"`
}

// titlesResponse is the compact recommendation payload: matched title plus
// the recommended titles in rank order.
type titlesResponse struct {
	MatchedMovie    string   `json:"matched_movies"`
	Recommendations []string `json:"recommendations"`
}

// Server exposes the recommendation engine over HTTP.
type Server struct {
	recommender   *recommenduc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	topK          int
	staticDir     string
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. topK bounds the recommendation list
// size; staticDir is the frontend asset root (may be empty).
func NewServer(
	recommender *recommenduc.Service,
	health *healthuc.Service,
	topK int,
	staticDir string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		recommender: recommender,
		health:      health,
		topK:        topK,
		staticDir:   staticDir,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMovieNotFound, http.StatusNotFound, codeMovieNotFound),
		sentinelHandler(domain.ErrEmptyCatalog, http.StatusServiceUnavailable, codeEngineNotReady),
		sentinelHandler(domain.ErrVectorizerError, http.StatusBadGateway, codeInternalError),
	}
	return s
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Post("/recommendation", s.Recommendation)
	r.Post("/movies-with-posters", s.MoviesWithPosters)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Get("/", s.Root)
	if s.staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}
}

// Recommendation handles POST /recommendation. Returns the matched title and
// the recommended titles without poster enrichment.
func (s *Server) Recommendation(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeMovieRequest(w, r)
	if !ok {
		return
	}

	rec, err := s.recommender.Recommend(r.Context(), query, s.topK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	titles := make([]string, len(rec.Movies))
	for i, m := range rec.Movies {
		titles[i] = m.Title
	}

	writeJSON(w, http.StatusOK, titlesResponse{
		MatchedMovie:    rec.MatchedTitle,
		Recommendations: titles,
	})
}

// MoviesWithPosters handles POST /movies-with-posters. Returns full movie
// detail including best-effort poster URLs.
func (s *Server) MoviesWithPosters(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeMovieRequest(w, r)
	if !ok {
		return
	}

	rec, err := s.recommender.RecommendWithPosters(r.Context(), query, s.topK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Root serves the frontend index page when a static dir is configured.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	if s.staticDir != "" {
		index := filepath.Join(s.staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			http.ServeFile(w, r, index)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "CineMatch - Movie Recommendation API"})
}

func (s *Server) decodeMovieRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req movieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return "", false
	}
	if strings.TrimSpace(req.Movie) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Movie title is required")
		return "", false
	}
	return req.Movie, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMovieNotFound,
		domain.ErrEmptyCatalog,
		domain.ErrVectorizerError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
