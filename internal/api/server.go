// internal/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	"financial-health-workers/internal/common/camunda"
	"financial-health-workers/internal/common/config"
	"financial-health-workers/internal/common/database"
	"financial-health-workers/internal/common/logger"
	calculatehealthscore "financial-health-workers/internal/workers/health/calculate-health-score"
	validatefinancialinputs "financial-health-workers/internal/workers/health/validate-financial-inputs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies on the scoring endpoints.
const maxBodyBytes = 1 << 20

type ScoreCalculator interface {
	Execute(ctx context.Context, input *calculatehealthscore.Input) (*calculatehealthscore.Output, error)
}

type InputValidator interface {
	Execute(ctx context.Context, input *validatefinancialinputs.Input) (*validatefinancialinputs.Output, error)
}

type ProcessStarter interface {
	StartHealthCheck(ctx context.Context, vars map[string]interface{}) (*camunda.HealthCheckStart, error)
}

type ReportReader interface {
	Get(ctx context.Context, id string) (*database.StoredReport, error)
}

// Check is one dependency probed by /ready.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Deps are the collaborators behind the routes. Reports and Processes may be
// nil; their routes then answer 503.
type Deps struct {
	Calculator ScoreCalculator
	Validator  InputValidator
	Reports    ReportReader
	Processes  ProcessStarter
	Checks     []Check
	Version    string
}

type Server struct {
	cfg    config.HTTPConfig
	deps   Deps
	logger logger.Logger
}

func NewServer(cfg config.HTTPConfig, deps Deps, log logger.Logger) *Server {
	return &Server{
		cfg:    cfg,
		deps:   deps,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	if timeout := s.requestTimeout(); timeout > 0 {
		r.Use(middleware.Timeout(timeout))
	}

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Length", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/health-score", s.handleHealthScore)
		r.Post("/validate", s.handleValidate)
		r.Post("/health-checks", s.handleStartHealthCheck)
		r.Get("/reports/{reportId}", s.handleGetReport)
		r.Get("/benchmarks/peers", s.handlePeers)
	})

	return r
}

// ListenAndServe serves Routes on cfg.Address until ctx is cancelled, then
// drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", map[string]interface{}{"address": s.cfg.Address})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestTimeout() time.Duration {
	return time.Duration(s.cfg.RequestTimeout) * time.Millisecond
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request", map[string]interface{}{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"duration":  time.Since(start).String(),
			"requestId": middleware.GetReqID(r.Context()),
		})
	})
}
