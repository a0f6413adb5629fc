package store_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
)

// ─── TEST INFRASTRUCTURE ──────────────────────────────────────────────────────

// openTestStore returns a Store backed by DATABASE_URL. Skips if the env var
// is not set so the test suite still passes in CI without a Postgres instance.
func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set — skipping store integration tests")
	}
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if err := pool.PingContext(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("ping: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return store.New(pool, db.New(pool))
}

func seedOneSignal(t *testing.T, st *store.Store) uuid.UUID {
	t.Helper()
	sigID := uuid.New()
	err := st.Seed(context.Background(), store.SeedParams{
		Profile: db.UpsertCompanyProfileParams{
			ID:        uuid.New(),
			Company:   "store-test-" + sigID.String(),
			Revenue:   500,
			Currency:  "USD",
			UnitScale: "millions",
			Markets:   []string{"US"},
		},
		Signals: []db.UpsertSignalParams{{
			ID:         sigID,
			Title:      "integration test signal",
			Category:   "Risk",
			Tags:       []string{"test"},
			Company:    "store-test-" + sigID.String(),
			OccurredAt: time.Now().UTC(),
		}},
	})
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return sigID
}

func okAssessment() engine.Assessment {
	e, err := engine.New(engine.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e.Evaluate(
		engine.Signal{ID: "t", Category: engine.CategoryRisk, Timestamp: time.Now().UTC()},
		&engine.CompanyContext{Company: "T", Revenue: 500, Currency: "USD", UnitScale: "millions"},
		nil,
	)
}

// ─── SaveAssessment ──────────────────────────────────────────────────────────

func TestSaveAssessment_RoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sigID := seedOneSignal(t, st)

	a := okAssessment()
	row, err := st.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID:       sigID,
		ContextVersion: 1,
		Assessment:     a,
	})
	if err != nil {
		t.Fatalf("SaveAssessment: %v", err)
	}
	if row.Status != string(engine.StatusOK) {
		t.Errorf("status column = %q, want ok", row.Status)
	}

	got, err := st.Q().GetAssessmentBySignalID(ctx, sigID)
	if err != nil {
		t.Fatalf("GetAssessmentBySignalID: %v", err)
	}
	decoded, err := store.DecodeAssessment(got)
	if err != nil {
		t.Fatalf("DecodeAssessment: %v", err)
	}
	if decoded.Status != a.Status {
		t.Errorf("decoded status = %q, want %q", decoded.Status, a.Status)
	}
	if decoded.LossMin == nil || *decoded.LossMin != *a.LossMin {
		t.Errorf("decoded loss_min %v, want %v", decoded.LossMin, a.LossMin)
	}
}

func TestSaveAssessment_StaleContextVersionRejected(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sigID := seedOneSignal(t, st)
	a := okAssessment()

	if _, err := st.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID: sigID, ContextVersion: 3, Assessment: a,
	}); err != nil {
		t.Fatalf("save v3: %v", err)
	}

	_, err := st.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID: sigID, ContextVersion: 2, Assessment: a,
	})
	if !errors.Is(err, store.ErrStaleAssessment) {
		t.Fatalf("expected ErrStaleAssessment, got %v", err)
	}

	// An equal or newer version still wins.
	if _, err := st.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID: sigID, ContextVersion: 3, Assessment: a,
	}); err != nil {
		t.Fatalf("save v3 again: %v", err)
	}
}

// ─── Seed ────────────────────────────────────────────────────────────────────

func TestSeed_RerunBumpsProfileVersionAndClearsAssessments(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	sigID := seedOneSignal(t, st)

	sig, err := st.Q().GetSignalByID(ctx, sigID)
	if err != nil {
		t.Fatalf("GetSignalByID: %v", err)
	}

	profile, err := st.Q().GetCompanyProfileByName(ctx, sig.Company)
	if err != nil {
		t.Fatalf("GetCompanyProfileByName: %v", err)
	}
	firstVersion := profile.Version

	if _, err := st.SaveAssessment(ctx, store.SaveAssessmentParams{
		SignalID: sigID, ContextVersion: firstVersion, Assessment: okAssessment(),
	}); err != nil {
		t.Fatalf("SaveAssessment: %v", err)
	}

	// Re-seed the same dataset.
	err = st.Seed(ctx, store.SeedParams{
		Profile: db.UpsertCompanyProfileParams{
			ID:        uuid.New(),
			Company:   sig.Company,
			Revenue:   600,
			Currency:  "USD",
			UnitScale: "millions",
			Markets:   []string{"US"},
		},
		Signals: []db.UpsertSignalParams{{
			ID:         sigID,
			Title:      sig.Title,
			Category:   sig.Category,
			Company:    sig.Company,
			OccurredAt: sig.OccurredAt,
		}},
	})
	if err != nil {
		t.Fatalf("re-Seed: %v", err)
	}

	profile, err = st.Q().GetCompanyProfileByName(ctx, sig.Company)
	if err != nil {
		t.Fatalf("GetCompanyProfileByName after re-seed: %v", err)
	}
	if profile.Version <= firstVersion {
		t.Errorf("version = %d, want > %d after re-seed", profile.Version, firstVersion)
	}
	if profile.Revenue != 600 {
		t.Errorf("revenue = %v, want 600", profile.Revenue)
	}

	if _, err := st.Q().GetAssessmentBySignalID(ctx, sigID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected assessment cleared by re-seed, got err = %v", err)
	}
}
