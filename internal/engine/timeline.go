package engine

import "fmt"

// ─── TIMELINE ESTIMATOR ──────────────────────────────────────────────────────

// TimelineEstimate is the expected [min, max] days-to-action band.
type TimelineEstimate struct {
	MinDays int
	MaxDays int
	Basis   string
}

// EstimateTimeline uses the precedent days band directly when match quality
// clears the configured threshold. Below it the band is widened toward the
// category defaults to express the extra uncertainty, and the basis text says
// so; with no precedent data at all the category defaults are used verbatim.
func (c Config) EstimateTimeline(cat Category, stats PrecedentStats) TimelineEstimate {
	defaults := c.defaultDayBand(cat)

	switch {
	case stats.Defaulted:
		return TimelineEstimate{
			MinDays: defaults.Low,
			MaxDays: defaults.High,
			Basis: fmt.Sprintf(
				"No precedent timeline data; expected window of %d–%d days reflects "+
					"%s category defaults.",
				defaults.Low, defaults.High, cat,
			),
		}

	case stats.MatchQuality >= c.TimelineQualityThreshold:
		return TimelineEstimate{
			MinDays: stats.Days.Low,
			MaxDays: stats.Days.High,
			Basis: fmt.Sprintf(
				"Timeline of %d–%d days from event to action observed across %d precedent "+
					"cases (median %d days, match quality %.2f).",
				stats.Days.Low, stats.Days.High, stats.SampleSize, stats.Days.Mid, stats.MatchQuality,
			),
		}

	default:
		// Low-quality match: take the envelope of the observed band and the
		// category defaults so the window only ever widens.
		minDays := minInt(stats.Days.Low, defaults.Low)
		maxDays := maxInt(stats.Days.High, defaults.High)
		return TimelineEstimate{
			MinDays: minDays,
			MaxDays: maxDays,
			Basis: fmt.Sprintf(
				"Expected window of %d–%d days: precedent timelines from %d cases "+
					"(%d–%d days) widened toward %s category defaults because match "+
					"quality %.2f is below %.2f.",
				minDays, maxDays, stats.SampleSize, stats.Days.Low, stats.Days.High,
				cat, stats.MatchQuality, c.TimelineQualityThreshold,
			),
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
