// Package engine implements the financial risk and impact estimation core:
// it turns a classified signal, optional company exposure, and a set of
// historical precedent cases into a quantified, explainable assessment.
//
// The package is intentionally dependency-free: it imports nothing from
// internal/ and can be tested without a database. Callers (worker, api) map
// their rows into the plain types in types.go.
package engine

import (
	"errors"
	"fmt"
)

// ─── SCENARIO SEVERITIES ─────────────────────────────────────────────────────

// Scenario severity fractions are fixed named constants, not configuration:
// the consuming UI hardcodes its labels around exactly three ordered
// scenarios at these levels.
const (
	SeverityFull    = 1.00 // Scenario A — no mitigation
	SeverityPartial = 0.70 // Scenario B — partial mitigation
	SeverityStrong  = 0.50 // Scenario C — strong mitigation
)

// Scenario labels shown to the caller.
const (
	LabelDoNothing         = "Do nothing"
	LabelPartialMitigation = "Partial mitigation"
	LabelStrongMitigation  = "Strong mitigation"
)

// ─── BANDS ───────────────────────────────────────────────────────────────────

// Band is a low/mid/high triple for fractional statistics.
type Band struct {
	Low, Mid, High float64
}

// DayBand is a low/mid/high triple in whole days.
type DayBand struct {
	Low, Mid, High int
}

// ─── CONFIG ──────────────────────────────────────────────────────────────────

// Config holds every calibration coefficient the engine uses. The zero value
// is not usable — start from DefaultConfig() and override selectively.
// All values are plain data so two engines with equal configs are
// byte-for-byte deterministic on equal inputs.
type Config struct {
	// ── Currency conversion ───────────────────────────────────────────────
	INRPerUSD float64 // e.g. 83.0
	EURToUSD  float64 // e.g. 1.08

	// ── Plausibility band for converted exposure (USD millions) ───────────
	// A converted figure outside [PlausibleMinUSDM, PlausibleMaxUSDM] flags
	// validation_passed = false but never blocks the computation.
	PlausibleMinUSDM float64
	PlausibleMaxUSDM float64

	// ── Large-pharma sanity rule ──────────────────────────────────────────
	// Revenue at or above LargePharmaRevenueUSDM with an estimated loss_min
	// below MinExpectedLossUSDM is flagged as likely-unrealistic output.
	LargePharmaRevenueUSDM float64
	MinExpectedLossUSDM    float64

	// ── Precedent aggregation ─────────────────────────────────────────────
	MinSampleSize      int     // below this, statistics fall back to wide default bands
	GoodSampleSize     int     // sample count at which the size component of match quality saturates
	RecencyWindowYears int     // cases within this window of the signal timestamp count as recent
	ProbSpread         float64 // ± spread applied to the observed action rate, e.g. 0.20

	// ── Category calibration ──────────────────────────────────────────────
	// Priors are action probabilities 0–100; ordinal order Risk >
	// Operational > Expansion is part of the contract, the exact values are
	// open to calibration.
	CategoryPriors       map[Category]float64
	DefaultLossFractions map[Category]Band
	DefaultDays          map[Category]DayBand

	// ── Timeline ──────────────────────────────────────────────────────────
	// Precedent days are used directly when match quality is at or above
	// this threshold; below it the band is widened toward category defaults.
	TimelineQualityThreshold float64

	// ── Confidence ────────────────────────────────────────────────────────
	// Score = validation component + context component + precedent
	// component; the three weights must sum to 100.
	WeightValidation float64
	WeightContext    float64
	WeightPrecedent  float64

	ConfidenceHighCutoff     float64 // band High at or above this score
	ConfidenceModerateCutoff float64 // band Moderate at or above this score
}

// DefaultConfig returns the production calibration.
func DefaultConfig() Config {
	return Config{
		INRPerUSD: 83.0,
		EURToUSD:  1.08,

		PlausibleMinUSDM: 0.01,
		PlausibleMaxUSDM: 100_000,

		LargePharmaRevenueUSDM: 1_000,
		MinExpectedLossUSDM:    1.0,

		MinSampleSize:      1,
		GoodSampleSize:     8,
		RecencyWindowYears: 5,
		ProbSpread:         0.20,

		CategoryPriors: map[Category]float64{
			CategoryRisk:        65,
			CategoryOperational: 45,
			CategoryExpansion:   25,
		},
		DefaultLossFractions: map[Category]Band{
			CategoryRisk:        {Low: 0.05, Mid: 0.08, High: 0.15},
			CategoryOperational: {Low: 0.02, Mid: 0.03, High: 0.08},
			CategoryExpansion:   {Low: 0.01, Mid: 0.03, High: 0.06},
		},
		DefaultDays: map[Category]DayBand{
			CategoryRisk:        {Low: 60, Mid: 120, High: 240},
			CategoryOperational: {Low: 90, Mid: 180, High: 365},
			CategoryExpansion:   {Low: 120, Mid: 240, High: 540},
		},

		TimelineQualityThreshold: 0.5,

		WeightValidation: 20,
		WeightContext:    30,
		WeightPrecedent:  50,

		ConfidenceHighCutoff:     75,
		ConfidenceModerateCutoff: 45,
	}
}

// Validate checks internal consistency. Call once at startup, not per
// evaluation.
func (c Config) Validate() error {
	var errs []error

	if c.INRPerUSD <= 0 {
		errs = append(errs, fmt.Errorf("engine config: INRPerUSD must be > 0, got %v", c.INRPerUSD))
	}
	if c.EURToUSD <= 0 {
		errs = append(errs, fmt.Errorf("engine config: EURToUSD must be > 0, got %v", c.EURToUSD))
	}
	if c.PlausibleMinUSDM < 0 || c.PlausibleMaxUSDM <= c.PlausibleMinUSDM {
		errs = append(errs, fmt.Errorf("engine config: plausibility band [%v, %v] is not ordered",
			c.PlausibleMinUSDM, c.PlausibleMaxUSDM))
	}
	if c.MinSampleSize < 0 {
		errs = append(errs, fmt.Errorf("engine config: MinSampleSize must be >= 0, got %d", c.MinSampleSize))
	}
	if c.GoodSampleSize < 1 {
		errs = append(errs, fmt.Errorf("engine config: GoodSampleSize must be >= 1, got %d", c.GoodSampleSize))
	}
	if c.ProbSpread < 0 || c.ProbSpread >= 1 {
		errs = append(errs, fmt.Errorf("engine config: ProbSpread must be in [0, 1), got %v", c.ProbSpread))
	}

	for _, cat := range []Category{CategoryRisk, CategoryOperational, CategoryExpansion} {
		prior, ok := c.CategoryPriors[cat]
		if !ok {
			errs = append(errs, fmt.Errorf("engine config: missing category prior for %q", cat))
			continue
		}
		if prior < 0 || prior > 100 {
			errs = append(errs, fmt.Errorf("engine config: prior for %q = %v out of range [0,100]", cat, prior))
		}
		if b, ok := c.DefaultLossFractions[cat]; !ok {
			errs = append(errs, fmt.Errorf("engine config: missing default loss fractions for %q", cat))
		} else if !(b.Low > 0 && b.Low <= b.Mid && b.Mid <= b.High && b.High <= 1) {
			errs = append(errs, fmt.Errorf("engine config: loss fraction band for %q = %+v is not ordered within (0,1]", cat, b))
		}
		if d, ok := c.DefaultDays[cat]; !ok {
			errs = append(errs, fmt.Errorf("engine config: missing default days for %q", cat))
		} else if !(d.Low > 0 && d.Low <= d.Mid && d.Mid <= d.High) {
			errs = append(errs, fmt.Errorf("engine config: days band for %q = %+v is not ordered", cat, d))
		}
	}

	// Ordinal contract: Risk > Operational > Expansion.
	if c.CategoryPriors[CategoryRisk] <= c.CategoryPriors[CategoryOperational] ||
		c.CategoryPriors[CategoryOperational] <= c.CategoryPriors[CategoryExpansion] {
		errs = append(errs, errors.New("engine config: category priors must satisfy Risk > Operational > Expansion"))
	}

	if c.TimelineQualityThreshold < 0 || c.TimelineQualityThreshold > 1 {
		errs = append(errs, fmt.Errorf("engine config: TimelineQualityThreshold must be in [0,1], got %v", c.TimelineQualityThreshold))
	}

	if sum := c.WeightValidation + c.WeightContext + c.WeightPrecedent; sum != 100 {
		errs = append(errs, fmt.Errorf("engine config: confidence weights must sum to 100, got %v", sum))
	}
	if !(c.ConfidenceModerateCutoff > 0 && c.ConfidenceModerateCutoff < c.ConfidenceHighCutoff && c.ConfidenceHighCutoff <= 100) {
		errs = append(errs, fmt.Errorf("engine config: confidence cutoffs [%v, %v] are not ordered within (0,100]",
			c.ConfidenceModerateCutoff, c.ConfidenceHighCutoff))
	}

	return errors.Join(errs...)
}

// bandForScore maps a confidence score to its discrete band. Pure and
// deterministic — the same score always yields the same band.
func (c Config) bandForScore(score float64) string {
	switch {
	case score >= c.ConfidenceHighCutoff:
		return BandHigh
	case score >= c.ConfidenceModerateCutoff:
		return BandModerate
	default:
		return BandLow
	}
}
