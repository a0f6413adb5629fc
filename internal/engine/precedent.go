package engine

import (
	"math"
	"sort"
)

// ─── PRECEDENT STATISTICS ────────────────────────────────────────────────────

// PrecedentStats summarizes a set of historical analog cases into the bands
// that calibrate every downstream estimate.
//
// When Defaulted is true the bands are category-level wide defaults rather
// than observed statistics — the aggregator never fabricates precision from
// an empty or too-small sample — and MatchQuality is zero, which lowers
// confidence downstream.
type PrecedentStats struct {
	SampleSize int

	// MatchQuality in [0, 1] reflects sample size and recency relative to
	// the signal's own timestamp (not wall-clock time, so evaluation stays
	// deterministic for identical inputs).
	MatchQuality float64

	LossFraction Band    // realized loss as fraction of exposed revenue
	Probability  Band    // action probability equivalent, 0–100
	Days         DayBand // days from event to action

	Defaulted bool
}

// AggregatePrecedents reduces zero or more precedent cases into summary
// statistics for the given signal.
//
// The probability equivalent is the share of cases whose outcome was an
// actual action, with a fixed ± spread for the low/high band. Loss fractions
// and days use observed min/median/max, with the extremes relaxed by the same
// spread so a small sample does not produce a false-precision point band.
func (c Config) AggregatePrecedents(sig Signal, cases []PrecedentCase) PrecedentStats {
	if len(cases) < c.MinSampleSize || len(cases) == 0 {
		return c.defaultStats(sig.Category)
	}

	stats := PrecedentStats{SampleSize: len(cases)}

	// ── Loss fractions ────────────────────────────────────────────────────
	fractions := make([]float64, 0, len(cases))
	for _, pc := range cases {
		if pc.LossFraction > 0 && pc.LossFraction <= 1 {
			fractions = append(fractions, pc.LossFraction)
		}
	}
	if len(fractions) == 0 {
		stats.LossFraction = c.defaultLossBand(sig.Category)
	} else {
		sort.Float64s(fractions)
		stats.LossFraction = Band{
			Low:  clampFrac(fractions[0] * (1 - c.ProbSpread)),
			Mid:  median(fractions),
			High: clampFrac(fractions[len(fractions)-1] * (1 + c.ProbSpread)),
		}
	}

	// ── Action probability equivalent ─────────────────────────────────────
	actions := 0
	for _, pc := range cases {
		if pc.ActionTaken {
			actions++
		}
	}
	rate := float64(actions) / float64(len(cases)) * 100
	stats.Probability = Band{
		Low:  clampPct(rate * (1 - c.ProbSpread)),
		Mid:  clampPct(rate),
		High: clampPct(rate * (1 + c.ProbSpread)),
	}

	// ── Days to action ────────────────────────────────────────────────────
	days := make([]int, 0, len(cases))
	for _, pc := range cases {
		if pc.DaysToAction > 0 {
			days = append(days, pc.DaysToAction)
		}
	}
	if len(days) == 0 {
		stats.Days = c.defaultDayBand(sig.Category)
	} else {
		sort.Ints(days)
		stats.Days = DayBand{
			Low:  days[0],
			Mid:  medianInt(days),
			High: days[len(days)-1],
		}
	}

	// ── Match quality ─────────────────────────────────────────────────────
	// 70% sample size, 30% recency. Recency is measured against the signal
	// timestamp so the same inputs always score the same.
	sizeComponent := math.Min(float64(len(cases))/float64(c.GoodSampleSize), 1)

	recent := 0
	if !sig.Timestamp.IsZero() {
		cutoff := sig.Timestamp.AddDate(-c.RecencyWindowYears, 0, 0)
		for _, pc := range cases {
			if !pc.OccurredAt.IsZero() && pc.OccurredAt.After(cutoff) {
				recent++
			}
		}
	}
	recencyComponent := float64(recent) / float64(len(cases))

	stats.MatchQuality = round2(0.7*sizeComponent + 0.3*recencyComponent)

	return stats
}

// defaultStats is the wide-default-band fallback for an empty precedent set.
func (c Config) defaultStats(cat Category) PrecedentStats {
	prior := c.CategoryPriors[cat]
	return PrecedentStats{
		SampleSize:   0,
		MatchQuality: 0,
		LossFraction: c.defaultLossBand(cat),
		Probability: Band{
			Low:  clampPct(prior * (1 - c.ProbSpread)),
			Mid:  clampPct(prior),
			High: clampPct(prior * (1 + c.ProbSpread)),
		},
		Days:      c.defaultDayBand(cat),
		Defaulted: true,
	}
}

func (c Config) defaultLossBand(cat Category) Band {
	if b, ok := c.DefaultLossFractions[cat]; ok {
		return b
	}
	// Unknown category — fall back to the most conservative (Operational).
	return c.DefaultLossFractions[CategoryOperational]
}

func (c Config) defaultDayBand(cat Category) DayBand {
	if d, ok := c.DefaultDays[cat]; ok {
		return d
	}
	return c.DefaultDays[CategoryOperational]
}

// ─── SMALL HELPERS ───────────────────────────────────────────────────────────

// median of a sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// medianInt of a sorted slice, rounding the even-length midpoint up.
func medianInt(sorted []int) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2] + 1) / 2
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampFrac(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
