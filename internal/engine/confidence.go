package engine

import (
	"fmt"
	"strings"
)

// ─── CONFIDENCE SCORING ──────────────────────────────────────────────────────

// ConfidenceResult is the 0–100 confidence score, its band, and the basis
// text explaining which components contributed.
type ConfidenceResult struct {
	Score float64
	Band  string
	Basis string
}

// ScoreConfidence combines three weighted components: whether the financial
// validation passed, whether company context was available, and the precedent
// match quality. Each component degrades independently; the score never
// reaches the High band without real precedent support.
func (c Config) ScoreConfidence(validationPassed, hasContext bool, stats PrecedentStats) ConfidenceResult {
	var score float64
	var parts []string

	if validationPassed {
		score += c.WeightValidation
		parts = append(parts, fmt.Sprintf("financial figures validated (+%.0f)", c.WeightValidation))
	} else {
		// A failed validation keeps a sliver of the component rather than
		// zeroing it: the figures exist, they are just suspect.
		partial := c.WeightValidation * 0.25
		score += partial
		parts = append(parts, fmt.Sprintf("financial validation flagged figures as implausible (+%.0f of %.0f)", partial, c.WeightValidation))
	}

	if hasContext {
		score += c.WeightContext
		parts = append(parts, fmt.Sprintf("company revenue context available (+%.0f)", c.WeightContext))
	} else {
		parts = append(parts, fmt.Sprintf("no company context (+0 of %.0f)", c.WeightContext))
	}

	precedent := c.WeightPrecedent * stats.MatchQuality
	score += precedent
	if stats.Defaulted {
		parts = append(parts, fmt.Sprintf("no matching precedent cases (+0 of %.0f)", c.WeightPrecedent))
	} else {
		parts = append(parts, fmt.Sprintf("precedent match quality %.2f across %d cases (+%.1f of %.0f)",
			stats.MatchQuality, stats.SampleSize, precedent, c.WeightPrecedent))
	}

	score = round1(clampPct(score))

	return ConfidenceResult{
		Score: score,
		Band:  c.bandForScore(score),
		Basis: fmt.Sprintf("Confidence %.1f/100: %s.", score, strings.Join(parts, "; ")),
	}
}
