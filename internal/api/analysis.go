package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-backend/internal/cache"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
)

// ─── GET /api/signals/:signalID/analysis ─────────────────────────────────────

// handleGetAnalysis serves the risk assessment for one signal. Read path:
// cache → stored row (if its context version matches the current profile) →
// synchronous evaluation. A synchronous result is persisted and cached before
// being returned, so the next read is cheap.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := s.signalIDParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	sig, err := s.q.GetSignalByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "signal not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get signal: %w", err))
		return
	}

	version, err := s.contextVersion(r, sig.Company)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get company profile: %w", err))
		return
	}

	key := cache.Key{SignalID: id.String(), ContextVersion: version}
	if a, err := s.cache.Get(ctx, key); err == nil {
		respond(w, http.StatusOK, a)
		return
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cache read failed", "error", err, "signal_id", id)
	}

	// A stored row only counts if it was computed against the profile version
	// the client would see now; older rows are recomputed in place.
	row, err := s.q.GetAssessmentBySignalID(ctx, id)
	if err == nil && row.ContextVersion == version {
		a, derr := store.DecodeAssessment(row)
		if derr == nil {
			s.cacheSet(r, key, a)
			respond(w, http.StatusOK, a)
			return
		}
		s.logger.Warn("stored assessment unreadable, recomputing", "error", derr, "signal_id", id)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.respondInternalErr(w, r, fmt.Errorf("get assessment: %w", err))
		return
	}

	a, gotVersion, err := s.analyzer.Analyze(ctx, id)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("analyze signal: %w", err))
		return
	}

	_, err = s.store.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID:       id,
		ContextVersion: gotVersion,
		Assessment:     a,
	})
	if err != nil && !errors.Is(err, store.ErrStaleAssessment) {
		s.respondInternalErr(w, r, fmt.Errorf("save assessment: %w", err))
		return
	}

	s.cacheSet(r, cache.Key{SignalID: id.String(), ContextVersion: gotVersion}, a)
	respond(w, http.StatusOK, a)
}

// ─── GET /api/signals/:signalID/explanation ──────────────────────────────────

// handleGetExplanation serves only the methodology block of an assessment,
// for the dashboard's "how was this computed" panel. Runs the same read path
// as the analysis endpoint.
func (s *Server) handleGetExplanation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.signalIDParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	sig, err := s.q.GetSignalByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "signal not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get signal: %w", err))
		return
	}

	version, err := s.contextVersion(r, sig.Company)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get company profile: %w", err))
		return
	}

	a, err := s.assessmentFor(r, id, version)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	if a.Methodology == nil {
		respond(w, http.StatusOK, map[string]any{
			"status":  a.Status,
			"message": a.Message,
		})
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"status":      a.Status,
		"methodology": a.Methodology,
	})
}

// assessmentFor resolves an assessment through cache, store, and synchronous
// evaluation, persisting any fresh result. Shared by the explanation handler.
func (s *Server) assessmentFor(r *http.Request, id uuid.UUID, version int64) (engine.Assessment, error) {
	ctx := r.Context()

	key := cache.Key{SignalID: id.String(), ContextVersion: version}
	if a, err := s.cache.Get(ctx, key); err == nil {
		return a, nil
	}

	row, err := s.q.GetAssessmentBySignalID(ctx, id)
	if err == nil && row.ContextVersion == version {
		if a, derr := store.DecodeAssessment(row); derr == nil {
			s.cacheSet(r, key, a)
			return a, nil
		}
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return engine.Assessment{}, fmt.Errorf("get assessment: %w", err)
	}

	a, gotVersion, err := s.analyzer.Analyze(ctx, id)
	if err != nil {
		return engine.Assessment{}, fmt.Errorf("analyze signal: %w", err)
	}
	_, err = s.store.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID:       id,
		ContextVersion: gotVersion,
		Assessment:     a,
	})
	if err != nil && !errors.Is(err, store.ErrStaleAssessment) {
		return engine.Assessment{}, fmt.Errorf("save assessment: %w", err)
	}
	s.cacheSet(r, cache.Key{SignalID: id.String(), ContextVersion: gotVersion}, a)
	return a, nil
}

// contextVersion returns the version of the stored profile for the company,
// or 0 when no profile row exists yet (matching what the evaluation uses).
func (s *Server) contextVersion(r *http.Request, company string) (int64, error) {
	profile, err := s.q.GetCompanyProfileByName(r.Context(), company)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return profile.Version, nil
}

// cacheSet stores an assessment and logs rather than fails on error: the
// cache is an optimization, never a correctness dependency.
func (s *Server) cacheSet(r *http.Request, key cache.Key, a engine.Assessment) {
	if err := s.cache.Set(r.Context(), key, a, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache write failed", "error", err, "key", key.String())
	}
}

// ─── POST /api/risk-engine/recalculate ───────────────────────────────────────

type recalculateRequest struct {
	// SignalID targets one signal. Omit to recalculate every signal that has
	// no assessment yet.
	SignalID string `json:"signal_id" validate:"omitempty,uuid"`
}

type recalculateResponse struct {
	Enqueued int `json:"enqueued"`
}

// handleRecalculate enqueues background re-evaluation. With a signal_id it
// drops that signal's cache entries and enqueues it; without one it enqueues
// every signal still missing an assessment.
func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req recalculateRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx := r.Context()

	if req.SignalID != "" {
		id, err := uuid.Parse(req.SignalID)
		if err != nil {
			respondErr(w, http.StatusBadRequest, "signal_id must be a UUID")
			return
		}
		if _, err := s.q.GetSignalByID(ctx, id); errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "signal not found")
			return
		} else if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("get signal: %w", err))
			return
		}
		if err := s.cache.Invalidate(ctx, id.String()); err != nil {
			s.logger.Warn("cache invalidate failed", "error", err, "signal_id", id)
		}
		if err := s.worker.Enqueue(ctx, id); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("enqueue signal: %w", err))
			return
		}
		respond(w, http.StatusAccepted, recalculateResponse{Enqueued: 1})
		return
	}

	rows, err := s.q.ListSignalsMissingAssessment(ctx, 200)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list unassessed signals: %w", err))
		return
	}
	enqueued := 0
	for _, row := range rows {
		if err := s.worker.Enqueue(ctx, row.ID); err != nil {
			s.logger.Warn("enqueue failed", "error", err, "signal_id", row.ID)
			continue
		}
		enqueued++
	}
	respond(w, http.StatusAccepted, recalculateResponse{Enqueued: enqueued})
}
