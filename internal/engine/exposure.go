package engine

import "strings"

// ─── SCALE ───────────────────────────────────────────────────────────────────

// Scale is the magnitude unit a revenue figure is expressed in.
type Scale string

const (
	ScaleThousands Scale = "thousands"
	ScaleMillions  Scale = "millions"
	ScaleBillions  Scale = "billions"
	ScaleCrore     Scale = "crore"
)

// ParseScale canonicalizes a free-text scale label. Unrecognised or empty
// input defaults to millions, matching the converter's default path.
func ParseScale(raw string) Scale {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "thousand", "thousands", "k":
		return ScaleThousands
	case "billion", "billions", "b", "bn":
		return ScaleBillions
	case "crore", "crores", "cr":
		return ScaleCrore
	default:
		return ScaleMillions
	}
}

// ─── EXPOSURE ────────────────────────────────────────────────────────────────

// Exposure is the canonical exposure record extracted from a signal and its
// company context: an amount, a currency, and a magnitude scale.
type Exposure struct {
	Amount   float64
	Currency string // upper-case ISO-ish code; "USD" when unspecified
	Scale    Scale
	Company  string // for methodology text; may be empty
	Markets  []string
}

// NormalizeExposure extracts the canonical exposure record from a signal and
// its optional company context.
//
// The second return is false — the "no exposure data" sentinel — when the
// context is absent or carries no parsable revenue figure. The sentinel is
// matched exactly once, by the orchestrator, which maps it to an
// insufficient_data status; no other component re-derives the fallback.
// Never panics and has no side effects.
func NormalizeExposure(sig Signal, cc *CompanyContext) (Exposure, bool) {
	if cc == nil || cc.Revenue <= 0 {
		return Exposure{}, false
	}

	currency := strings.ToUpper(strings.TrimSpace(cc.Currency))
	if currency == "" {
		currency = "USD"
	}

	company := strings.TrimSpace(cc.Company)
	if company == "" {
		company = strings.TrimSpace(sig.Company)
	}

	return Exposure{
		Amount:   cc.Revenue,
		Currency: currency,
		Scale:    ParseScale(cc.UnitScale),
		Company:  company,
		Markets:  cc.Markets,
	}, true
}

// hasMarket reports whether the exposure's market list contains the named
// market (case-insensitive). Used to pick the display format.
func (e Exposure) hasMarket(name string) bool {
	for _, m := range e.Markets {
		if strings.EqualFold(strings.TrimSpace(m), name) {
			return true
		}
	}
	return false
}
