package engine

import (
	"fmt"
	"math"
)

// ─── CONVERSION ──────────────────────────────────────────────────────────────

// Conversion is the result of standardizing an exposure into USD millions,
// together with the exact steps taken so the methodology block can reproduce
// the arithmetic.
type Conversion struct {
	USDMillions float64

	// OriginalText and FactorText feed the calculation_breakdown.
	OriginalText string // e.g. "Original revenue: ₹48,000 Cr (Sun Pharma)"
	FactorText   string // e.g. "Conversion: ₹1 Cr = $0.1205 M USD (1 USD = 83 INR). → 5783.13 USD millions."

	// Validation failure is advisory, not fatal: the converted value is
	// returned either way and the rest of the pipeline still runs.
	ValidationPassed  bool
	ValidationMessage string
}

// croreToUSDMillions returns the factor for one INR crore expressed in USD
// millions: 1 crore = 1e7 INR = 1e7/INRPerUSD USD = (1e7/INRPerUSD)/1e6 M.
func (c Config) croreToUSDMillions() float64 {
	return (1e7 / c.INRPerUSD) / 1e6
}

// toUSDMillions applies the fixed scale and currency tables. USD crore is not
// a standard expression and is treated as millions, matching the upstream
// data this engine was calibrated against.
func (c Config) toUSDMillions(amount float64, currency string, scale Scale) float64 {
	if amount <= 0 {
		return 0
	}

	switch currency {
	case "INR":
		switch scale {
		case ScaleCrore:
			return amount * c.croreToUSDMillions()
		case ScaleBillions:
			return amount * 1000 / c.INRPerUSD
		case ScaleThousands:
			return amount / 1000 / c.INRPerUSD
		default: // millions
			return amount / c.INRPerUSD
		}
	case "EUR":
		switch scale {
		case ScaleBillions:
			return amount * 1000 * c.EURToUSD
		case ScaleThousands:
			return amount / 1000 * c.EURToUSD
		default: // millions; EUR crore is not a thing
			return amount * c.EURToUSD
		}
	default: // USD and anything unrecognised
		switch scale {
		case ScaleBillions:
			return amount * 1000
		case ScaleThousands:
			return amount / 1000
		default: // millions, crore
			return amount
		}
	}
}

// Convert standardizes an exposure into the canonical display unit (USD
// millions) and sanity-checks the result against the plausibility band.
//
// An out-of-band magnitude sets ValidationPassed = false with a descriptive
// message but still returns the converted value — downstream estimates are
// produced either way and the caveat travels with them.
func (c Config) Convert(exp Exposure) Conversion {
	usdM := c.toUSDMillions(exp.Amount, exp.Currency, exp.Scale)

	// Recorded at four decimals, not cents: a sub-cent magnitude must survive
	// conversion so the plausibility check can report the actual figure.
	conv := Conversion{
		USDMillions:      round4(usdM),
		ValidationPassed: true,
	}

	companySuffix := ""
	if exp.Company != "" {
		companySuffix = fmt.Sprintf(" (%s)", exp.Company)
	}

	if exp.Currency == "INR" && exp.Scale == ScaleCrore {
		conv.OriginalText = fmt.Sprintf("Original revenue: ₹%s Cr%s", formatAmount(exp.Amount), companySuffix)
		conv.FactorText = fmt.Sprintf(
			"Conversion: ₹1 Cr = $%.4f M USD (1 USD = %.0f INR). → %.2f USD millions.",
			c.croreToUSDMillions(), c.INRPerUSD, conv.USDMillions,
		)
	} else {
		conv.OriginalText = fmt.Sprintf("Original revenue: %s %s (%s)%s",
			exp.Currency, formatAmount(exp.Amount), exp.Scale, companySuffix)
		conv.FactorText = fmt.Sprintf("Standardized to USD millions: %.2f M USD.", conv.USDMillions)
	}

	if conv.USDMillions < c.PlausibleMinUSDM || conv.USDMillions > c.PlausibleMaxUSDM {
		conv.ValidationPassed = false
		conv.ValidationMessage = fmt.Sprintf(
			"Converted revenue %.5f USD M falls outside the plausible band [%.2f, %.2f]; "+
				"check the source figure's currency and scale.",
			conv.USDMillions, c.PlausibleMinUSDM, c.PlausibleMaxUSDM,
		)
	}

	return conv
}

// ─── DISPLAY FORMATTING ──────────────────────────────────────────────────────

// FormatUSDMillions renders a USD-millions figure at an appropriate scale:
// $1.2B, $180M, $500K. Values below one thousand dollars render as $x.xxM so
// the magnitude mistake is visible rather than hidden as "$0".
func FormatUSDMillions(v float64) string {
	switch {
	case v < 0:
		return "$0"
	case v >= 1000:
		return fmt.Sprintf("$%.1fB", v/1000)
	case v >= 1:
		return fmt.Sprintf("$%.0fM", v)
	case v >= 0.001:
		return fmt.Sprintf("$%.0fK", v*1000)
	default:
		return fmt.Sprintf("$%.2fM", v)
	}
}

// usdMillionsToINRCrore converts for the India dual display.
func (c Config) usdMillionsToINRCrore(usdM float64) float64 {
	if usdM <= 0 {
		return 0
	}
	return usdM * 1e6 * c.INRPerUSD / 1e7
}

// formatWithINR renders "$180M (₹1,500 Cr)" for India-market exposures.
func (c Config) formatWithINR(usdM float64) string {
	usd := FormatUSDMillions(usdM)
	cr := c.usdMillionsToINRCrore(usdM)
	if cr < 0.01 {
		return usd
	}
	if cr >= 1 {
		return fmt.Sprintf("%s (₹%s Cr)", usd, formatAmount(cr))
	}
	return fmt.Sprintf("%s (₹%.2f Cr)", usd, cr)
}

// displayFunc picks the formatter for one exposure: India-market exposures
// get the dual USD/INR form, everything else plain USD.
func (c Config) displayFunc(exp Exposure) func(float64) string {
	if exp.hasMarket("India") {
		return c.formatWithINR
	}
	return FormatUSDMillions
}

// formatAmount renders a number with thousands separators and no decimals
// when whole, e.g. 48000 → "48,000".
func formatAmount(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%g", v)
	}
	whole := int64(math.Round(v))
	s := fmt.Sprintf("%d", whole)
	// Insert separators right-to-left.
	n := len(s)
	if n <= 3 {
		return s
	}
	var out []byte
	for i, ch := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, ch)
	}
	return string(out)
}

// ─── ROUNDING HELPERS ────────────────────────────────────────────────────────

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
