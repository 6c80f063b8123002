package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status         Status                 `json:"status"`
	TMDBConfigured bool                   `json:"tmdb_configured"`
	MoviesLoaded   int                    `json:"movies_loaded"`
	Checks         map[string]CheckResult `json:"checks,omitempty"`
}

// Service coordinates health checks.
type Service struct {
	catalog CatalogInfo
	posters PosterProvider
	cache   CachePinger
}

// New creates a Service. posters and cache can be nil.
func New(catalog CatalogInfo, posters PosterProvider, cache CachePinger) *Service {
	return &Service{catalog: catalog, posters: posters, cache: cache}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	loaded := 0
	if s.catalog != nil {
		loaded = s.catalog.Len()
	}
	if loaded > 0 {
		checks["catalog"] = CheckOK
	} else {
		checks["catalog"] = CheckError
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks["catalog"] == CheckError {
		status = Unhealthy
	}

	configured := s.posters != nil && s.posters.Configured()

	return Report{
		Status:         status,
		TMDBConfigured: configured,
		MoviesLoaded:   loaded,
		Checks:         checks,
	}
}
