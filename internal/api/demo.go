package api

import (
	"fmt"
	"net/http"

	"github.com/meridianhq/meridian-backend/internal/demo"
)

// ─── GET /api/demo/company ───────────────────────────────────────────────────

// handleDemoCompany describes the demo company the dashboard opens with.
func (s *Server) handleDemoCompany(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.DemoMode {
		respondErr(w, http.StatusNotFound, "demo mode is disabled")
		return
	}

	cc := demo.Context()
	respond(w, http.StatusOK, map[string]any{
		"company":    cc.Company,
		"revenue":    cc.Revenue,
		"currency":   cc.Currency,
		"unit_scale": cc.UnitScale,
		"markets":    cc.Markets,
	})
}

// ─── POST /api/demo/load ─────────────────────────────────────────────────────

// handleDemoLoad seeds the demo dataset and enqueues every seeded signal for
// assessment. Idempotent: reloading upserts the same fixture rows and simply
// recomputes. Returns 202 because assessments arrive asynchronously.
func (s *Server) handleDemoLoad(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.DemoMode {
		respondErr(w, http.StatusNotFound, "demo mode is disabled")
		return
	}
	ctx := r.Context()

	dataset := demo.Dataset()
	if err := s.store.Seed(ctx, dataset); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("seed demo dataset: %w", err))
		return
	}

	enqueued := 0
	for _, sig := range dataset.Signals {
		if err := s.cache.Invalidate(ctx, sig.ID.String()); err != nil {
			s.logger.Warn("cache invalidate failed", "error", err, "signal_id", sig.ID)
		}
		if err := s.worker.Enqueue(ctx, sig.ID); err != nil {
			s.logger.Warn("enqueue failed", "error", err, "signal_id", sig.ID)
			continue
		}
		enqueued++
	}

	respond(w, http.StatusAccepted, map[string]any{
		"company":  dataset.Profile.Company,
		"signals":  len(dataset.Signals),
		"enqueued": enqueued,
	})
}
