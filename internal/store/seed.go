package store

import (
	"context"
	"fmt"

	"github.com/meridianhq/meridian-backend/internal/db"
)

// SeedParams is one self-contained dataset: a company profile plus the
// signals and precedent cases that reference it. The demo package builds
// these; nothing in store knows which dataset it is loading.
type SeedParams struct {
	Profile    db.UpsertCompanyProfileParams
	Signals    []db.UpsertSignalParams
	Precedents []db.UpsertPrecedentCaseParams
}

// Seed loads one dataset atomically. Re-running with the same fixture IDs is
// idempotent except that any existing assessments for the seeded signals are
// dropped, forcing the worker to recompute against the (possibly bumped)
// profile version. A half-loaded dataset is never visible: any failure rolls
// the whole load back.
func (s *Store) Seed(ctx context.Context, arg SeedParams) error {
	return s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := q.UpsertCompanyProfile(ctx, arg.Profile); err != nil {
			return fmt.Errorf("Seed: upsert profile %q: %w", arg.Profile.Company, err)
		}

		for _, sig := range arg.Signals {
			if _, err := q.UpsertSignal(ctx, sig); err != nil {
				return fmt.Errorf("Seed: upsert signal %q: %w", sig.Title, err)
			}
			if err := q.DeleteAssessmentBySignalID(ctx, sig.ID); err != nil {
				return fmt.Errorf("Seed: clear assessment for signal %s: %w", sig.ID, err)
			}
		}

		for _, pc := range arg.Precedents {
			if _, err := q.UpsertPrecedentCase(ctx, pc); err != nil {
				return fmt.Errorf("Seed: upsert precedent %s: %w", pc.ID, err)
			}
		}

		return nil
	})
}
