package worker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-backend/internal/cache"
	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
)

// Job holds the dependencies for the signal assessment pipeline. Each step is
// a separate method so they can be tested independently and so the Run method
// reads like a spec.
type Job struct {
	q      db.Querier
	store  *store.Store
	engine *engine.Engine
	cache  cache.Store
	logger *slog.Logger

	// demoContext, when non-nil, is used as the company context for signals
	// whose company has no stored profile. Set from demo.Context() when demo
	// mode is on; nil in production, where a missing profile legitimately
	// yields insufficient_data.
	demoContext *engine.CompanyContext
}

// NewJob constructs a Job with all required dependencies. demoContext may be
// nil.
func NewJob(
	q db.Querier,
	st *store.Store,
	eng *engine.Engine,
	c cache.Store,
	demoContext *engine.CompanyContext,
	logger *slog.Logger,
) *Job {
	return &Job{
		q:           q,
		store:       st,
		engine:      eng,
		cache:       c,
		demoContext: demoContext,
		logger:      logger,
	}
}

// Run executes the full pipeline for a single signal:
//
//  1. Load the signal from the database.
//  2. Resolve the company context (stored profile, or demo fallback).
//  3. Load precedent cases (company-specific first, category-wide fallback).
//  4. Evaluate with the engine.
//  5. Persist via store.SaveAssessment and invalidate the cache entry.
//
// Any error is returned to the Runner, which retries up to MaxRetries times
// before recording an error-status assessment.
func (j *Job) Run(ctx context.Context, signalID uuid.UUID) error {
	a, version, err := j.Analyze(ctx, signalID)
	if err != nil {
		return err
	}

	_, err = j.store.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID:       signalID,
		ContextVersion: version,
		Assessment:     a,
	})
	if errors.Is(err, store.ErrStaleAssessment) {
		// A fresher context version already landed; nothing to do.
		j.logger.Debug("job: dropped stale assessment", "signal_id", signalID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("job: save assessment: %w", err)
	}

	if err := j.cache.Invalidate(ctx, signalID.String()); err != nil {
		// Cache failures are non-fatal; version-keyed reads cannot see the
		// new row as stale anyway.
		j.logger.Warn("job: cache invalidation failed", "signal_id", signalID, "error", err)
	}

	j.logger.Info("job: assessment stored",
		"signal_id", signalID,
		"status", a.Status,
		"context_version", version,
	)
	return nil
}

// Analyze runs the evaluation pipeline without persisting. The api package
// uses this (through its Analyzer interface) to serve a cache-miss read
// synchronously. Returns the assessment and the company-context version it
// was computed against.
func (j *Job) Analyze(ctx context.Context, signalID uuid.UUID) (engine.Assessment, int64, error) {
	row, err := j.q.GetSignalByID(ctx, signalID)
	if err != nil {
		return engine.Assessment{}, 0, fmt.Errorf("job: get signal: %w", err)
	}
	sig := signalFromRow(row)

	cc, version, err := j.resolveContext(ctx, sig)
	if err != nil {
		return engine.Assessment{}, 0, err
	}

	precedents, err := j.loadPrecedents(ctx, sig)
	if err != nil {
		return engine.Assessment{}, 0, err
	}

	return j.engine.Evaluate(sig, cc, precedents), version, nil
}

// resolveContext looks up the signal company's stored profile. A missing
// profile falls back to the demo context when one is configured, otherwise
// to nil (which the engine maps to insufficient_data).
func (j *Job) resolveContext(ctx context.Context, sig engine.Signal) (*engine.CompanyContext, int64, error) {
	profile, err := j.q.GetCompanyProfileByName(ctx, sig.Company)
	if errors.Is(err, sql.ErrNoRows) {
		if j.demoContext != nil {
			j.logger.Debug("job: no profile, using demo context", "company", sig.Company)
			return j.demoContext, j.demoContext.Version, nil
		}
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("job: get company profile: %w", err)
	}

	cc := contextFromRow(profile)
	return &cc, profile.Version, nil
}

// loadPrecedents prefers cases observed against the same company; when none
// exist it widens to every case in the signal's category.
func (j *Job) loadPrecedents(ctx context.Context, sig engine.Signal) ([]engine.PrecedentCase, error) {
	rows, err := j.q.ListPrecedentsByCompany(ctx, db.ListPrecedentsByCompanyParams{
		Company:  sig.Company,
		Category: string(sig.Category),
	})
	if err != nil {
		return nil, fmt.Errorf("job: list company precedents: %w", err)
	}
	if len(rows) == 0 {
		rows, err = j.q.ListPrecedentsByCategory(ctx, string(sig.Category))
		if err != nil {
			return nil, fmt.Errorf("job: list category precedents: %w", err)
		}
	}

	out := make([]engine.PrecedentCase, len(rows))
	for i, r := range rows {
		out[i] = precedentFromRow(r)
	}
	return out, nil
}

// ─── ROW MAPPING ─────────────────────────────────────────────────────────────
// The engine package is dependency-free; db rows are mapped into its plain
// types here.

func signalFromRow(r db.Signal) engine.Signal {
	return engine.Signal{
		ID:          r.ID.String(),
		Title:       r.Title,
		Summary:     r.Summary.String,
		Category:    engine.Category(r.Category),
		Tags:        r.Tags,
		Source:      r.Source.String,
		Company:     r.Company,
		ProductLine: r.ProductLine.String,
		Timestamp:   r.OccurredAt,
	}
}

func contextFromRow(r db.CompanyProfile) engine.CompanyContext {
	return engine.CompanyContext{
		Company:     r.Company,
		Revenue:     r.Revenue,
		Currency:    r.Currency,
		UnitScale:   r.UnitScale,
		ProductLine: r.ProductLine.String,
		Markets:     r.Markets,
		Version:     r.Version,
	}
}

func precedentFromRow(r db.PrecedentCase) engine.PrecedentCase {
	return engine.PrecedentCase{
		ID:           r.ID.String(),
		Company:      r.Company,
		Category:     engine.Category(r.Category),
		Outcome:      r.Outcome,
		ActionTaken:  r.ActionTaken,
		LossFraction: r.LossFraction,
		DaysToAction: int(r.DaysToAction),
		Source:       r.Source.String,
		OccurredAt:   r.OccurredAt,
	}
}
