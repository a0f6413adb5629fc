package engine

import (
	"errors"
	"fmt"
)

// ─── METHODOLOGY ASSEMBLY ────────────────────────────────────────────────────

var errMethodologyIncomplete = errors.New("methodology basis missing")

// buildMethodology assembles the four basis strings plus the calculation
// breakdown. Every ok assessment must carry all four; an empty basis means a
// component skipped its explanation, which is a bug, so assembly fails closed
// rather than shipping a partial methodology.
func buildMethodology(loss LossRange, prob ProbabilityEstimate, tl TimelineEstimate, conf ConfidenceResult) (*Methodology, error) {
	bases := map[string]string{
		"financial":  loss.Basis,
		"risk":       prob.Basis,
		"timeline":   tl.Basis,
		"confidence": conf.Basis,
	}
	for name, basis := range bases {
		if basis == "" {
			return nil, fmt.Errorf("%w: %s", errMethodologyIncomplete, name)
		}
	}
	if loss.Breakdown.Formula == "" {
		return nil, fmt.Errorf("%w: calculation breakdown", errMethodologyIncomplete)
	}

	breakdown := loss.Breakdown
	return &Methodology{
		FinancialBasis:       loss.Basis,
		RiskBasis:            prob.Basis,
		TimelineBasis:        tl.Basis,
		ConfidenceBasis:      conf.Basis,
		CalculationBreakdown: &breakdown,
	}, nil
}
