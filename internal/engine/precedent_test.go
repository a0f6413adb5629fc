package engine_test

import (
	"testing"
	"time"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

func day(s string) time.Time {
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return ts
}

func approx(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

// ─── AggregatePrecedents — empty set ─────────────────────────────────────────

func TestAggregatePrecedents_EmptySetFallsBackToDefaults(t *testing.T) {
	cfg := engine.DefaultConfig()
	sig := engine.Signal{Category: engine.CategoryRisk, Timestamp: day("2026-01-15")}

	stats := cfg.AggregatePrecedents(sig, nil)

	if !stats.Defaulted {
		t.Fatal("expected Defaulted = true for empty case set")
	}
	if stats.SampleSize != 0 {
		t.Errorf("sample size = %d, want 0", stats.SampleSize)
	}
	if stats.MatchQuality != 0 {
		t.Errorf("match quality = %v, want 0", stats.MatchQuality)
	}
	// Risk prior 65 with ±20% spread.
	if !approx(stats.Probability.Low, 52) || !approx(stats.Probability.Mid, 65) || !approx(stats.Probability.High, 78) {
		t.Errorf("probability band = %+v, want 52/65/78", stats.Probability)
	}
	if stats.LossFraction != cfg.DefaultLossFractions[engine.CategoryRisk] {
		t.Errorf("loss band = %+v, want category defaults", stats.LossFraction)
	}
	if stats.Days != cfg.DefaultDays[engine.CategoryRisk] {
		t.Errorf("days band = %+v, want category defaults", stats.Days)
	}
}

// ─── AggregatePrecedents — observed statistics ───────────────────────────────

func TestAggregatePrecedents_ObservedStatistics(t *testing.T) {
	cfg := engine.DefaultConfig()
	sig := engine.Signal{Category: engine.CategoryRisk, Timestamp: day("2026-01-15")}

	cases := []engine.PrecedentCase{
		{ID: "p1", ActionTaken: true, LossFraction: 0.05, DaysToAction: 30, OccurredAt: day("2024-03-01")},
		{ID: "p2", ActionTaken: true, LossFraction: 0.10, DaysToAction: 60, OccurredAt: day("2023-06-10")},
		{ID: "p3", ActionTaken: false, LossFraction: 0.20, DaysToAction: 90, OccurredAt: day("2025-02-20")},
		{ID: "p4", ActionTaken: false, DaysToAction: 120, OccurredAt: day("2022-11-05")},
	}

	stats := cfg.AggregatePrecedents(sig, cases)

	if stats.Defaulted {
		t.Fatal("expected observed statistics, got defaults")
	}
	if stats.SampleSize != 4 {
		t.Errorf("sample size = %d, want 4", stats.SampleSize)
	}

	// Loss fractions [0.05, 0.10, 0.20]: min relaxed down, max relaxed up.
	if !approx(stats.LossFraction.Low, 0.04) {
		t.Errorf("loss low = %v, want 0.04", stats.LossFraction.Low)
	}
	if !approx(stats.LossFraction.Mid, 0.10) {
		t.Errorf("loss mid = %v, want 0.10", stats.LossFraction.Mid)
	}
	if !approx(stats.LossFraction.High, 0.24) {
		t.Errorf("loss high = %v, want 0.24", stats.LossFraction.High)
	}

	// 2 actions of 4 cases: 50% ± 20%.
	if !approx(stats.Probability.Low, 40) || !approx(stats.Probability.Mid, 50) || !approx(stats.Probability.High, 60) {
		t.Errorf("probability band = %+v, want 40/50/60", stats.Probability)
	}

	// Days [30, 60, 90, 120]: observed min/median/max.
	if stats.Days.Low != 30 || stats.Days.Mid != 75 || stats.Days.High != 120 {
		t.Errorf("days band = %+v, want 30/75/120", stats.Days)
	}

	// 4 of 8 good-sample cases (0.5 size) and all 4 within the 5-year recency
	// window of the signal date (1.0 recency): 0.7×0.5 + 0.3×1.0 = 0.65.
	if stats.MatchQuality != 0.65 {
		t.Errorf("match quality = %v, want 0.65", stats.MatchQuality)
	}
}

func TestAggregatePrecedents_RecencyMeasuredAgainstSignalTimestamp(t *testing.T) {
	cfg := engine.DefaultConfig()
	cases := []engine.PrecedentCase{
		{ID: "p1", ActionTaken: true, LossFraction: 0.1, DaysToAction: 60, OccurredAt: day("2010-01-01")},
		{ID: "p2", ActionTaken: true, LossFraction: 0.1, DaysToAction: 60, OccurredAt: day("2011-01-01")},
	}

	// For a 2012 signal both cases are recent; for a 2026 signal neither is.
	old := cfg.AggregatePrecedents(engine.Signal{Category: engine.CategoryRisk, Timestamp: day("2012-06-01")}, cases)
	recent := cfg.AggregatePrecedents(engine.Signal{Category: engine.CategoryRisk, Timestamp: day("2026-06-01")}, cases)

	if old.MatchQuality <= recent.MatchQuality {
		t.Errorf("quality for contemporaneous signal (%v) should exceed quality for a much later signal (%v)",
			old.MatchQuality, recent.MatchQuality)
	}
}

func TestAggregatePrecedents_CasesWithoutFractionsUseDefaultLossBand(t *testing.T) {
	cfg := engine.DefaultConfig()
	sig := engine.Signal{Category: engine.CategoryOperational, Timestamp: day("2026-01-15")}

	cases := []engine.PrecedentCase{
		{ID: "p1", ActionTaken: true, DaysToAction: 45, OccurredAt: day("2024-01-01")},
		{ID: "p2", ActionTaken: false, DaysToAction: 80, OccurredAt: day("2025-01-01")},
	}
	stats := cfg.AggregatePrecedents(sig, cases)

	if stats.Defaulted {
		t.Fatal("a non-empty set must produce observed stats")
	}
	if stats.LossFraction != cfg.DefaultLossFractions[engine.CategoryOperational] {
		t.Errorf("loss band = %+v, want category defaults when no case carries a fraction", stats.LossFraction)
	}
	if stats.Days.Low != 45 || stats.Days.High != 80 {
		t.Errorf("days band = %+v, want observed 45–80", stats.Days)
	}
}
