package engine_test

import (
	"strings"
	"testing"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

// ─── Convert — currency and scale table ───────────────────────────────────────

func TestConvert_CurrencyScaleTable(t *testing.T) {
	cfg := engine.DefaultConfig()

	tests := []struct {
		name     string
		amount   float64
		currency string
		scale    engine.Scale
		wantUSDM float64
	}{
		{"INR crore large pharma", 48000, "INR", engine.ScaleCrore, 5783.1325},
		{"INR millions", 830, "INR", engine.ScaleMillions, 10},
		{"INR billions", 8.3, "INR", engine.ScaleBillions, 100},
		{"INR thousands", 83000, "INR", engine.ScaleThousands, 1},
		{"USD millions passthrough", 340, "USD", engine.ScaleMillions, 340},
		{"USD billions", 1.2, "USD", engine.ScaleBillions, 1200},
		{"USD thousands", 500, "USD", engine.ScaleThousands, 0.5},
		{"EUR millions", 100, "EUR", engine.ScaleMillions, 108},
		{"EUR billions", 2, "EUR", engine.ScaleBillions, 2160},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := cfg.Convert(engine.Exposure{
				Amount:   tt.amount,
				Currency: tt.currency,
				Scale:    tt.scale,
			})
			if conv.USDMillions != tt.wantUSDM {
				t.Errorf("got %v USD M, want %v", conv.USDMillions, tt.wantUSDM)
			}
			if !conv.ValidationPassed {
				t.Errorf("expected validation to pass, got message %q", conv.ValidationMessage)
			}
			if conv.OriginalText == "" || conv.FactorText == "" {
				t.Error("conversion breakdown texts must not be empty")
			}
		})
	}
}

func TestConvert_INRCroreBreakdownTexts(t *testing.T) {
	cfg := engine.DefaultConfig()
	conv := cfg.Convert(engine.Exposure{
		Amount:   48000,
		Currency: "INR",
		Scale:    engine.ScaleCrore,
		Company:  "Sun Pharma",
	})

	if !strings.Contains(conv.OriginalText, "₹48,000 Cr") {
		t.Errorf("original text %q should carry the crore figure", conv.OriginalText)
	}
	if !strings.Contains(conv.OriginalText, "Sun Pharma") {
		t.Errorf("original text %q should name the company", conv.OriginalText)
	}
	if !strings.Contains(conv.FactorText, "1 USD = 83 INR") {
		t.Errorf("factor text %q should state the exchange rate", conv.FactorText)
	}
	if !strings.Contains(conv.FactorText, "5783.13") {
		t.Errorf("factor text %q should state the converted value", conv.FactorText)
	}
}

func TestConvert_ImplausibleMagnitudeFlagsValidation(t *testing.T) {
	cfg := engine.DefaultConfig()

	tests := []struct {
		name     string
		amount   float64
		scale    engine.Scale
		wantUSDM float64
	}{
		{"far too large", 200_000, engine.ScaleBillions, 200_000_000},
		{"far too small", 1, engine.ScaleThousands, 0.001}, // below floor
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := cfg.Convert(engine.Exposure{Amount: tt.amount, Currency: "USD", Scale: tt.scale})
			if conv.ValidationPassed {
				t.Fatalf("expected validation failure for %v USD M", conv.USDMillions)
			}
			if conv.ValidationMessage == "" {
				t.Error("validation failure must carry a message")
			}
			if conv.USDMillions != tt.wantUSDM {
				t.Errorf("converted value = %v, want %v — the true magnitude must survive a validation failure", conv.USDMillions, tt.wantUSDM)
			}
		})
	}
}

// Sub-cent exposures must not collapse to zero: the pipeline keeps running
// on a flagged conversion and the message has to state the real figure.
func TestConvert_SubCentExposureKeepsMagnitude(t *testing.T) {
	cfg := engine.DefaultConfig()
	conv := cfg.Convert(engine.Exposure{Amount: 2, Currency: "USD", Scale: engine.ScaleThousands})

	if conv.USDMillions != 0.002 {
		t.Fatalf("converted value = %v, want 0.002", conv.USDMillions)
	}
	if conv.ValidationPassed {
		t.Fatal("0.002 USD M is below the plausibility floor and must flag validation")
	}
	if !strings.Contains(conv.ValidationMessage, "0.00200") {
		t.Errorf("validation message %q should report the actual converted magnitude", conv.ValidationMessage)
	}
}

// ─── FormatUSDMillions ────────────────────────────────────────────────────────

func TestFormatUSDMillions(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "$1.2B"},
		{2000, "$2.0B"},
		{1000, "$1.0B"},
		{180, "$180M"},
		{13.6, "$14M"},
		{1, "$1M"},
		{0.5, "$500K"},
		{0.001, "$1K"},
		{0.0005, "$0.00M"},
		{0, "$0.00M"},
		{-3, "$0"},
	}
	for _, tt := range tests {
		if got := engine.FormatUSDMillions(tt.in); got != tt.want {
			t.Errorf("FormatUSDMillions(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ─── ParseScale ───────────────────────────────────────────────────────────────

func TestParseScale(t *testing.T) {
	tests := []struct {
		in   string
		want engine.Scale
	}{
		{"crore", engine.ScaleCrore},
		{"Crores", engine.ScaleCrore},
		{" Cr ", engine.ScaleCrore},
		{"billions", engine.ScaleBillions},
		{"bn", engine.ScaleBillions},
		{"thousand", engine.ScaleThousands},
		{"K", engine.ScaleThousands},
		{"millions", engine.ScaleMillions},
		{"", engine.ScaleMillions},
		{"gazillion", engine.ScaleMillions},
	}
	for _, tt := range tests {
		if got := engine.ParseScale(tt.in); got != tt.want {
			t.Errorf("ParseScale(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
