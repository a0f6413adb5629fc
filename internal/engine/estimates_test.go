package engine_test

import (
	"strings"
	"testing"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

// ─── EstimateProbability ─────────────────────────────────────────────────────

func TestEstimateProbability_DefaultedUsesPrior(t *testing.T) {
	cfg := engine.DefaultConfig()
	sig := engine.Signal{Category: engine.CategoryRisk}
	stats := cfg.AggregatePrecedents(sig, nil)

	est := cfg.EstimateProbability(sig, stats)
	if est.Value != 65 {
		t.Errorf("value = %v, want the Risk prior 65", est.Value)
	}
	if !strings.Contains(est.Basis, "category prior") {
		t.Errorf("basis %q should state the prior fallback", est.Basis)
	}
}

func TestEstimateProbability_BlendsPriorWithObservedRate(t *testing.T) {
	cfg := engine.DefaultConfig()
	sig := engine.Signal{Category: engine.CategoryRisk}
	stats := engine.PrecedentStats{
		SampleSize:   4,
		MatchQuality: 0.5,
		Probability:  engine.Band{Low: 64, Mid: 80, High: 96},
	}

	// 65 × 0.5 + 80 × 0.5 = 72.5.
	est := cfg.EstimateProbability(sig, stats)
	if est.Value != 72.5 {
		t.Errorf("value = %v, want 72.5", est.Value)
	}
	if !strings.Contains(est.Basis, "4 precedent cases") {
		t.Errorf("basis %q should cite the sample", est.Basis)
	}
}

func TestEstimateProbability_CategoryOrdering(t *testing.T) {
	cfg := engine.DefaultConfig()
	var values []float64
	for _, cat := range []engine.Category{engine.CategoryRisk, engine.CategoryOperational, engine.CategoryExpansion} {
		sig := engine.Signal{Category: cat}
		values = append(values, cfg.EstimateProbability(sig, cfg.AggregatePrecedents(sig, nil)).Value)
	}
	if !(values[0] > values[1] && values[1] > values[2]) {
		t.Errorf("prior-based probabilities %v must be ordered Risk > Operational > Expansion", values)
	}
}

// ─── CalculateLossRange ──────────────────────────────────────────────────────

func TestCalculateLossRange_WorkedExample(t *testing.T) {
	cfg := engine.DefaultConfig()
	exp := engine.Exposure{Amount: 340, Currency: "USD", Scale: engine.ScaleMillions}
	conv := cfg.Convert(exp)
	stats := engine.PrecedentStats{
		SampleSize:   3,
		MatchQuality: 0.6,
		LossFraction: engine.Band{Low: 0.10, Mid: 0.15, High: 0.20},
	}

	lr := cfg.CalculateLossRange(exp, conv, 40, stats)

	// 340 × 0.40 × 0.10 = 13.6 and 340 × 0.40 × 0.20 = 27.2.
	if lr.Min != 13.6 || lr.Max != 27.2 {
		t.Fatalf("loss range = [%v, %v], want [13.6, 27.2]", lr.Min, lr.Max)
	}
	if lr.Unit != engine.LossUnitUSDMillions {
		t.Errorf("unit = %q, want %q", lr.Unit, engine.LossUnitUSDMillions)
	}
	if lr.DisplayMin != "$14M" || lr.DisplayMax != "$27M" {
		t.Errorf("display = %q–%q, want $14M–$27M", lr.DisplayMin, lr.DisplayMax)
	}
	if !lr.ValidationPassed {
		t.Errorf("validation should pass, got %q", lr.ValidationMessage)
	}
	if !strings.Contains(lr.Breakdown.Formula, "340.00 × 0.400 × 0.100 = 13.60") {
		t.Errorf("formula %q should contain the reproducible arithmetic", lr.Breakdown.Formula)
	}
}

func TestCalculateLossRange_LargePharmaSanityRule(t *testing.T) {
	cfg := engine.DefaultConfig()
	exp := engine.Exposure{Amount: 5000, Currency: "USD", Scale: engine.ScaleMillions}
	conv := cfg.Convert(exp)
	// A tiny probability with tiny fractions pushes loss_min below $1M.
	stats := engine.PrecedentStats{
		SampleSize:   2,
		LossFraction: engine.Band{Low: 0.0001, Mid: 0.0002, High: 0.0004},
	}

	lr := cfg.CalculateLossRange(exp, conv, 10, stats)

	if lr.ValidationPassed {
		t.Fatal("large-pharma rule should flag an implausibly small loss_min")
	}
	if !strings.Contains(lr.ValidationMessage, "large pharma") {
		t.Errorf("message %q should name the rule", lr.ValidationMessage)
	}
	if lr.Min < 0 || lr.Min > lr.Max {
		t.Errorf("flagged output must still be ordered: [%v, %v]", lr.Min, lr.Max)
	}
}

func TestCalculateLossRange_IndiaMarketDualDisplay(t *testing.T) {
	cfg := engine.DefaultConfig()
	exp := engine.Exposure{
		Amount:   48000,
		Currency: "INR",
		Scale:    engine.ScaleCrore,
		Markets:  []string{"US", "India", "EU"},
	}
	conv := cfg.Convert(exp)
	stats := engine.PrecedentStats{SampleSize: 1, LossFraction: engine.Band{Low: 0.05, Mid: 0.08, High: 0.15}}

	lr := cfg.CalculateLossRange(exp, conv, 65, stats)

	if !strings.Contains(lr.DisplayMin, "₹") || !strings.Contains(lr.DisplayMin, " Cr)") {
		t.Errorf("India-market display %q should carry the INR crore form", lr.DisplayMin)
	}
	if !strings.HasPrefix(lr.DisplayMin, "$") {
		t.Errorf("display %q should lead with the USD form", lr.DisplayMin)
	}
}

// ─── EstimateTimeline ────────────────────────────────────────────────────────

func TestEstimateTimeline(t *testing.T) {
	cfg := engine.DefaultConfig()

	tests := []struct {
		name     string
		stats    engine.PrecedentStats
		wantMin  int
		wantMax  int
		wantText string
	}{
		{
			name:     "defaults when no precedents",
			stats:    engine.PrecedentStats{Defaulted: true},
			wantMin:  60,
			wantMax:  240,
			wantText: "category defaults",
		},
		{
			name: "observed band at good quality",
			stats: engine.PrecedentStats{
				SampleSize:   6,
				MatchQuality: 0.8,
				Days:         engine.DayBand{Low: 45, Mid: 90, High: 180},
			},
			wantMin:  45,
			wantMax:  180,
			wantText: "match quality 0.80",
		},
		{
			name: "widened toward defaults at low quality",
			stats: engine.PrecedentStats{
				SampleSize:   2,
				MatchQuality: 0.3,
				Days:         engine.DayBand{Low: 100, Mid: 110, High: 130},
			},
			wantMin:  60,  // category default low beats the narrow observed low
			wantMax:  240, // and the default high beats the observed high
			wantText: "widened",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := cfg.EstimateTimeline(engine.CategoryRisk, tt.stats)
			if tl.MinDays != tt.wantMin || tl.MaxDays != tt.wantMax {
				t.Errorf("window = %d–%d, want %d–%d", tl.MinDays, tl.MaxDays, tt.wantMin, tt.wantMax)
			}
			if !strings.Contains(tl.Basis, tt.wantText) {
				t.Errorf("basis %q should contain %q", tl.Basis, tt.wantText)
			}
		})
	}
}

func TestEstimateTimeline_LowQualityOnlyWidens(t *testing.T) {
	cfg := engine.DefaultConfig()
	stats := engine.PrecedentStats{
		SampleSize:   2,
		MatchQuality: 0.2,
		Days:         engine.DayBand{Low: 30, Mid: 200, High: 400},
	}
	tl := cfg.EstimateTimeline(engine.CategoryRisk, stats)
	if tl.MinDays != 30 || tl.MaxDays != 400 {
		t.Errorf("window = %d–%d; widening must never narrow the observed band", tl.MinDays, tl.MaxDays)
	}
}

// ─── ScoreConfidence ─────────────────────────────────────────────────────────

func TestScoreConfidence(t *testing.T) {
	cfg := engine.DefaultConfig()

	strong := engine.PrecedentStats{SampleSize: 10, MatchQuality: 1.0}
	none := engine.PrecedentStats{Defaulted: true}

	tests := []struct {
		name             string
		validationPassed bool
		hasContext       bool
		stats            engine.PrecedentStats
		wantScore        float64
		wantBand         string
	}{
		{"everything strong", true, true, strong, 100, engine.BandHigh},
		{"no precedents caps below High", true, true, none, 50, engine.BandModerate},
		{"failed validation degrades", false, true, strong, 85, engine.BandHigh},
		{"no context no precedents", true, false, none, 20, engine.BandLow},
		{"partial precedent quality", true, true, engine.PrecedentStats{SampleSize: 4, MatchQuality: 0.5}, 75, engine.BandHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := cfg.ScoreConfidence(tt.validationPassed, tt.hasContext, tt.stats)
			if conf.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", conf.Score, tt.wantScore)
			}
			if conf.Band != tt.wantBand {
				t.Errorf("band = %q, want %q", conf.Band, tt.wantBand)
			}
			if conf.Basis == "" {
				t.Error("basis must not be empty")
			}
		})
	}
}

// ─── BuildScenarios ──────────────────────────────────────────────────────────

func TestBuildScenarios(t *testing.T) {
	scenarios, displays := engine.BuildScenarios(13.6, 27.2, engine.FormatUSDMillions)

	if scenarios.A.LossMin != 13.6 || scenarios.A.LossMax != 27.2 {
		t.Errorf("scenario A = [%v, %v], want full [13.6, 27.2]", scenarios.A.LossMin, scenarios.A.LossMax)
	}
	if scenarios.B.LossMin != 9.52 || scenarios.B.LossMax != 19.04 {
		t.Errorf("scenario B = [%v, %v], want [9.52, 19.04]", scenarios.B.LossMin, scenarios.B.LossMax)
	}
	if scenarios.C.LossMin != 6.8 || scenarios.C.LossMax != 13.6 {
		t.Errorf("scenario C = [%v, %v], want [6.8, 13.6]", scenarios.C.LossMin, scenarios.C.LossMax)
	}

	if scenarios.A.Label != "Do nothing" ||
		scenarios.B.Label != "Partial mitigation" ||
		scenarios.C.Label != "Strong mitigation" {
		t.Errorf("labels = %q/%q/%q", scenarios.A.Label, scenarios.B.Label, scenarios.C.Label)
	}

	if displays.A.Label != scenarios.A.Label || displays.C.DisplayMax != "$14M" {
		t.Errorf("display set out of step with scenario set: %+v", displays)
	}
}
