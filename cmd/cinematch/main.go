package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/config"
	"github.com/cinematch/cinematch/internal/db"
	dbRedis "github.com/cinematch/cinematch/internal/db/redis"
	"github.com/cinematch/cinematch/internal/domain"
	"github.com/cinematch/cinematch/internal/engine"
	logpkg "github.com/cinematch/cinematch/internal/logger"
	"github.com/cinematch/cinematch/internal/metrics"
	posterrepo "github.com/cinematch/cinematch/internal/repository/poster"
	chiTransport "github.com/cinematch/cinematch/internal/transport/chi"
	"github.com/cinematch/cinematch/internal/transport/tmdb"
	healthuc "github.com/cinematch/cinematch/internal/usecase/health"
	recommenduc "github.com/cinematch/cinematch/internal/usecase/recommend"
	"github.com/cinematch/cinematch/internal/vectorizer/remote"
	"github.com/cinematch/cinematch/internal/vectorizer/tfidf"
	"github.com/cinematch/cinematch/internal/version"
)

func main() {
	// .env carries TMDB_API_KEY and friends in local development.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cinematch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("snapshot", cfg.Engine.SnapshotPath),
		zap.String("vectorizer", cfg.Engine.Vectorizer),
	)

	ctx := context.Background()

	// Optional Redis poster cache.
	var store db.Store
	if cfg.Database.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create poster cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Poster cache not ready", zap.Error(err))
		}
		logger.Info("Connected to poster cache")
	}

	metrics.RegisterEngineMetrics()

	var vectorizer domain.Vectorizer
	switch cfg.Engine.Vectorizer {
	case "remote":
		vectorizer = remote.New(&remote.Config{
			APIKey:  cfg.Engine.Remote.APIKey,
			BaseURL: cfg.Engine.Remote.BaseURL,
			Model:   cfg.Engine.Remote.Model,
			Logger:  logger,
		})
	default:
		vectorizer = tfidf.New()
	}

	cat, err := catalog.Load(cfg.Engine.SnapshotPath)
	if err != nil {
		logger.Fatal("Failed to load movie snapshot", zap.Error(err))
	}
	logger.Info("Movie snapshot loaded", zap.Int("movies", cat.Len()))

	eng, err := engine.Build(ctx, cat, vectorizer, engine.Config{
		FusionFields: cfg.Engine.FusionFields,
		MatchCutoff:  cfg.Engine.MatchCutoff,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to build similarity engine", zap.Error(err))
	}
	holder := engine.NewHolder(eng)

	// Poster fetcher chain: TMDb -> cache (optional).
	tmdbClient := tmdb.New(&tmdb.Config{
		APIKey:    cfg.TMDB.APIKey,
		BaseURL:   cfg.TMDB.BaseURL,
		ImageBase: cfg.TMDB.ImageBase,
		Timeout:   time.Duration(cfg.TMDB.TimeoutSec) * time.Second,
		Logger:    logger,
	})
	if !tmdbClient.Configured() {
		logger.Warn("TMDB_API_KEY not set, serving fallback posters only")
	}

	var posters recommenduc.PosterFetcher = tmdbClient
	if store != nil {
		posters = posterrepo.New(
			tmdbClient, store,
			time.Duration(cfg.Engine.PosterTTLSec)*time.Second,
			metrics.PosterCacheTotal, logger,
		)
	}

	recommender := recommenduc.New(holder, posters, logger).
		WithPosterTimeout(time.Duration(cfg.TMDB.TimeoutSec) * time.Second)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cat, tmdbClient, cachePinger)

	server := chiTransport.NewServer(recommender, healthSvc, cfg.Engine.TopK, cfg.Static.Dir, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line. One line per request.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
