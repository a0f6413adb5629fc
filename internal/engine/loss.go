package engine

import (
	"fmt"
	"strings"
)

// ─── LOSS RANGE CALCULATOR ───────────────────────────────────────────────────

// LossRange is the [min, max] financial loss band in USD millions plus its
// display strings, basis text, and the full calculation breakdown.
type LossRange struct {
	Min, Max   float64
	DisplayMin string
	DisplayMax string
	Unit       string

	Basis     string
	Breakdown CalculationBreakdown

	// ValidationPassed folds together the conversion plausibility check and
	// the large-pharma sanity rule. Advisory only.
	ValidationPassed  bool
	ValidationMessage string
}

// CalculateLossRange computes the loss band:
//
//	loss_min = exposure × probability/100 × loss_fraction_low
//	loss_max = exposure × probability/100 × loss_fraction_high
//
// The recorded formula string contains every input at full display precision
// so a reader can reproduce the arithmetic exactly. The caller guarantees the
// exposure sentinel was already handled — this step never sees missing data.
func (c Config) CalculateLossRange(exp Exposure, conv Conversion, probability float64, stats PrecedentStats) LossRange {
	p := probability / 100
	lossMin := round2(conv.USDMillions * p * stats.LossFraction.Low)
	lossMax := round2(conv.USDMillions * p * stats.LossFraction.High)

	display := c.displayFunc(exp)

	lr := LossRange{
		Min:        lossMin,
		Max:        lossMax,
		DisplayMin: display(lossMin),
		DisplayMax: display(lossMax),
		Unit:       LossUnitUSDMillions,
	}

	// ── Validation: conversion check plus large-pharma sanity rule ────────
	lr.ValidationPassed = conv.ValidationPassed
	messages := []string{}
	if conv.ValidationMessage != "" {
		messages = append(messages, conv.ValidationMessage)
	}
	if conv.USDMillions >= c.LargePharmaRevenueUSDM && lossMin < c.MinExpectedLossUSDM {
		lr.ValidationPassed = false
		messages = append(messages, fmt.Sprintf(
			"Revenue is $%.0fM (large pharma) but estimated loss_min is below $%.0fM; "+
				"result may be unrealistic — check data quality or impact assumptions.",
			conv.USDMillions, c.MinExpectedLossUSDM,
		))
	}
	lr.ValidationMessage = strings.Join(messages, " ")

	// ── Basis text ────────────────────────────────────────────────────────
	fracSource := fmt.Sprintf("loss fractions observed across %d precedent cases", stats.SampleSize)
	if stats.Defaulted {
		fracSource = "category-default loss fractions (no precedent cases matched)"
	}
	lr.Basis = fmt.Sprintf(
		"Estimated loss of %s–%s based on standardized revenue of %.2f USD M, "+
			"action probability %.1f%%, and %s spanning %.1f%%–%.1f%%.",
		lr.DisplayMin, lr.DisplayMax, conv.USDMillions, probability,
		fracSource, stats.LossFraction.Low*100, stats.LossFraction.High*100,
	)

	// ── Calculation breakdown ─────────────────────────────────────────────
	formula := fmt.Sprintf(
		"Formula: loss = standardized_revenue × probability/100 × loss_fraction. "+
			"loss_min = %.2f × %.3f × %.3f = %.2f USD M; "+
			"loss_max = %.2f × %.3f × %.3f = %.2f USD M.",
		conv.USDMillions, p, stats.LossFraction.Low, lossMin,
		conv.USDMillions, p, stats.LossFraction.High, lossMax,
	)
	finalUnits := fmt.Sprintf(
		"Final loss range: %.2f–%.2f USD millions. Display: %s – %s.",
		lossMin, lossMax, lr.DisplayMin, lr.DisplayMax,
	)

	lr.Breakdown = CalculationBreakdown{
		OriginalRevenue:   conv.OriginalText,
		Conversion:        conv.FactorText,
		Formula:           formula,
		FinalUnits:        finalUnits,
		ValidationPassed:  boolPtr(lr.ValidationPassed),
		ValidationMessage: lr.ValidationMessage,
	}

	return lr
}
