package engine_test

import (
	"testing"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

// ─── NormalizeExposure ────────────────────────────────────────────────────────

func TestNormalizeExposure_MissingContextReturnsSentinel(t *testing.T) {
	sig := engine.Signal{ID: "sig-1", Company: "Sun Pharma", Category: engine.CategoryRisk}

	tests := []struct {
		name string
		cc   *engine.CompanyContext
	}{
		{"nil context", nil},
		{"zero revenue", &engine.CompanyContext{Company: "Sun Pharma", Revenue: 0}},
		{"negative revenue", &engine.CompanyContext{Company: "Sun Pharma", Revenue: -100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := engine.NormalizeExposure(sig, tt.cc); ok {
				t.Error("expected the no-exposure sentinel")
			}
		})
	}
}

func TestNormalizeExposure_Canonicalizes(t *testing.T) {
	sig := engine.Signal{ID: "sig-1", Company: "Signal Co"}
	exp, ok := engine.NormalizeExposure(sig, &engine.CompanyContext{
		Revenue:   48000,
		Currency:  " inr ",
		UnitScale: "Cr",
		Markets:   []string{"US", "India"},
	})
	if !ok {
		t.Fatal("expected exposure, got sentinel")
	}
	if exp.Currency != "INR" {
		t.Errorf("currency = %q, want INR", exp.Currency)
	}
	if exp.Scale != engine.ScaleCrore {
		t.Errorf("scale = %q, want crore", exp.Scale)
	}
	// With no context company the signal's company fills in.
	if exp.Company != "Signal Co" {
		t.Errorf("company = %q, want fallback to signal company", exp.Company)
	}
}

func TestNormalizeExposure_DefaultsCurrencyToUSD(t *testing.T) {
	exp, ok := engine.NormalizeExposure(engine.Signal{}, &engine.CompanyContext{Revenue: 340})
	if !ok {
		t.Fatal("expected exposure, got sentinel")
	}
	if exp.Currency != "USD" {
		t.Errorf("currency = %q, want USD", exp.Currency)
	}
	if exp.Scale != engine.ScaleMillions {
		t.Errorf("scale = %q, want millions", exp.Scale)
	}
}
