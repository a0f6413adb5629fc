// Package api implements the HTTP layer of the risk estimation backend.
// Handlers are methods on *Server. Each handler file is responsible for one
// resource group and only imports the dependencies it actually uses.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/meridianhq/meridian-backend/internal/cache"
	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
	"github.com/meridianhq/meridian-backend/internal/worker"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// Env is "production", "staging", or "development".
	Env string

	// CacheTTL bounds how long a served assessment may lag a recalculation
	// triggered elsewhere. Version-keyed cache entries already go stale on
	// profile edits; the TTL covers everything else.
	CacheTTL time.Duration

	// DemoMode exposes the demo endpoints and is reported by /healthz.
	DemoMode bool
}

// Analyzer produces an assessment for a signal on demand. Satisfied by
// *worker.Job; handlers use it for synchronous cache-miss reads.
type Analyzer interface {
	Analyze(ctx context.Context, signalID uuid.UUID) (engine.Assessment, int64, error)
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes.
	store *store.Store

	// analyzer evaluates a signal synchronously when no fresh assessment is
	// stored or cached.
	analyzer Analyzer

	// worker enqueues background recalculations.
	worker worker.Enqueuer

	// cache holds computed assessments keyed by signal and context version.
	cache cache.Store

	// validate checks request payload constraints declared via struct tags.
	validate *validator.Validate

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.Server.
func NewServer(
	q db.Querier,
	st *store.Store,
	analyzer Analyzer,
	enqueuer worker.Enqueuer,
	c cache.Store,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:        q,
		store:    st,
		analyzer: analyzer,
		worker:   enqueuer,
		cache:    c,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		cfg:      cfg,
		logger:   logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", s.handleHealthz)

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		r.Route("/signals", func(r chi.Router) {
			r.Get("/", s.handleListSignals)
			r.Route("/{signalID}", func(r chi.Router) {
				r.Get("/", s.handleGetSignal)
				r.Get("/analysis", s.handleGetAnalysis)
				r.Get("/explanation", s.handleGetExplanation)
			})
		})

		r.Post("/risk-engine/recalculate", s.handleRecalculate)

		r.Route("/demo", func(r chi.Router) {
			r.Get("/company", s.handleDemoCompany)
			r.Post("/load", s.handleDemoLoad)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"env":       s.cfg.Env,
		"demo_mode": s.cfg.DemoMode,
	})
}
