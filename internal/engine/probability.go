package engine

import "fmt"

// ─── PROBABILITY ESTIMATOR ───────────────────────────────────────────────────

// ProbabilityEstimate is the 0–100 probability that a regulatory/competitive
// action materializes within the assessment horizon, with its basis text.
type ProbabilityEstimate struct {
	Value float64 // 0–100, one decimal
	Basis string
}

// EstimateProbability blends the category prior with the precedent-derived
// action rate, weighted by match quality. With no usable precedents the
// estimate falls back entirely to the prior and the basis says so explicitly.
//
// The caller guarantees the category has a configured prior; the orchestrator
// rejects unknown categories before this step runs.
func (c Config) EstimateProbability(sig Signal, stats PrecedentStats) ProbabilityEstimate {
	prior := c.CategoryPriors[sig.Category]

	if stats.Defaulted {
		return ProbabilityEstimate{
			Value: round1(clampPct(prior)),
			Basis: fmt.Sprintf(
				"No matching precedent cases were found; the action probability of %.0f%% "+
					"falls back entirely to the %s category prior.",
				prior, sig.Category,
			),
		}
	}

	q := stats.MatchQuality
	blended := prior*(1-q) + stats.Probability.Mid*q
	value := round1(clampPct(blended))

	return ProbabilityEstimate{
		Value: value,
		Basis: fmt.Sprintf(
			"Action probability %.1f%% combines the %s category prior (%.0f%%) with the "+
				"observed action rate across %d precedent cases (%.0f%%), weighted by "+
				"precedent match quality %.2f.",
			value, sig.Category, prior, stats.SampleSize, stats.Probability.Mid, q,
		),
	}
}
