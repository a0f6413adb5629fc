package engine

import (
	"fmt"
	"strings"
)

// ─── ORCHESTRATOR ────────────────────────────────────────────────────────────

// phase is the orchestrator's internal progress marker. Evaluation runs the
// phases strictly in order; there is no path that skips computing and still
// produces an ok assessment.
type phase int

const (
	phaseCollecting phase = iota
	phaseValidating
	phaseComputing
	phaseAssembling
	phaseDone
)

// Engine evaluates signals against a fixed calibration. Safe for concurrent
// use: Evaluate touches only its arguments and the immutable config.
type Engine struct {
	cfg Config
}

// New builds an Engine after validating the calibration.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's calibration (a copy; maps are shared but the
// engine never mutates them).
func (e *Engine) Config() Config { return e.cfg }

// Evaluate turns one classified signal, its optional company context, and a
// precedent set into an Assessment. It never panics and never returns a
// partial result: the status is ok with every figure and basis populated,
// insufficient_data with a human-readable message and no numeric fields, or
// error when an internal contract is breached.
//
// Evaluation is deterministic: equal inputs yield equal assessments. Recency
// in precedent statistics is measured against the signal timestamp, not the
// wall clock, so re-running an old signal does not drift.
func (e *Engine) Evaluate(sig Signal, cc *CompanyContext, precedents []PrecedentCase) Assessment {
	var (
		exp   Exposure
		conv  Conversion
		stats PrecedentStats
		prob  ProbabilityEstimate
		loss  LossRange
		tl    TimelineEstimate
		conf  ConfidenceResult
	)
	hasContext := cc != nil

	for st := phaseCollecting; st != phaseDone; {
		switch st {
		case phaseCollecting:
			if _, ok := e.cfg.CategoryPriors[sig.Category]; !ok {
				return insufficient(fmt.Sprintf(
					"signal category %q is not recognized; expected one of Risk, Operational, Expansion", sig.Category))
			}
			var ok bool
			exp, ok = NormalizeExposure(sig, cc)
			if !ok {
				return insufficient(
					"no company revenue context is available for this signal; " +
						"add a company profile with revenue to enable a financial assessment")
			}
			st = phaseValidating

		case phaseValidating:
			conv = e.cfg.Convert(exp)
			st = phaseComputing

		case phaseComputing:
			stats = e.cfg.AggregatePrecedents(sig, precedents)
			prob = e.cfg.EstimateProbability(sig, stats)
			loss = e.cfg.CalculateLossRange(exp, conv, prob.Value, stats)
			tl = e.cfg.EstimateTimeline(sig.Category, stats)
			st = phaseAssembling

		case phaseAssembling:
			conf = e.cfg.ScoreConfidence(loss.ValidationPassed, hasContext, stats)
			st = phaseDone
		}
	}

	meth, err := buildMethodology(loss, prob, tl, conf)
	if err != nil {
		return errored(err)
	}

	scenarios, displays := BuildScenarios(loss.Min, loss.Max, e.cfg.displayFunc(exp))

	a := Assessment{
		Status: StatusOK,

		Probability: floatPtr(prob.Value),

		LossMin:        floatPtr(loss.Min),
		LossMax:        floatPtr(loss.Max),
		LossDisplayMin: loss.DisplayMin,
		LossDisplayMax: loss.DisplayMax,
		LossUnit:       loss.Unit,

		ExpectedDaysMin: intPtr(tl.MinDays),
		ExpectedDaysMax: intPtr(tl.MaxDays),

		ConfidenceScore: floatPtr(conf.Score),
		ConfidenceBand:  conf.Band,

		ValidationPassed:  boolPtr(loss.ValidationPassed),
		ValidationMessage: loss.ValidationMessage,

		Methodology:      meth,
		Scenarios:        &scenarios,
		ScenarioDisplays: &displays,
	}

	if err := selfCheck(a); err != nil {
		return errored(err)
	}
	return a
}

func insufficient(msg string) Assessment {
	return Assessment{Status: StatusInsufficientData, Message: msg}
}

func errored(err error) Assessment {
	return Assessment{
		Status:  StatusError,
		Message: fmt.Sprintf("internal assessment invariant breached: %v", err),
	}
}

// selfCheck verifies the output contract before an ok assessment leaves the
// engine. A breach here means a calculation bug, so the assessment is
// downgraded to an error rather than shipped.
func selfCheck(a Assessment) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if p := a.Probability; p == nil || *p < 0 || *p > 100 {
		add("probability out of [0,100]")
	}
	if a.LossMin == nil || a.LossMax == nil {
		add("loss bounds missing")
	} else {
		if *a.LossMin < 0 {
			add("loss_min %v is negative", *a.LossMin)
		}
		if *a.LossMin > *a.LossMax {
			add("loss_min %v exceeds loss_max %v", *a.LossMin, *a.LossMax)
		}
	}
	if a.LossDisplayMin == "" || a.LossDisplayMax == "" {
		add("loss display strings missing")
	}
	if a.LossUnit != LossUnitUSDMillions {
		add("loss unit %q is not %q", a.LossUnit, LossUnitUSDMillions)
	}
	if a.ExpectedDaysMin == nil || a.ExpectedDaysMax == nil {
		add("timeline bounds missing")
	} else {
		if *a.ExpectedDaysMin <= 0 {
			add("expected_days_min %d is not positive", *a.ExpectedDaysMin)
		}
		if *a.ExpectedDaysMin > *a.ExpectedDaysMax {
			add("expected_days_min %d exceeds expected_days_max %d", *a.ExpectedDaysMin, *a.ExpectedDaysMax)
		}
	}
	if s := a.ConfidenceScore; s == nil || *s < 0 || *s > 100 {
		add("confidence score out of [0,100]")
	}
	switch a.ConfidenceBand {
	case BandHigh, BandModerate, BandLow:
	default:
		add("confidence band %q is not a known band", a.ConfidenceBand)
	}
	if a.ValidationPassed == nil {
		add("validation flag missing")
	}
	if a.Methodology == nil {
		add("methodology missing")
	}
	if a.Scenarios == nil || a.ScenarioDisplays == nil {
		add("scenarios missing")
	} else {
		sc := a.Scenarios
		if !(sc.A.LossMax >= sc.B.LossMax && sc.B.LossMax >= sc.C.LossMax) ||
			!(sc.A.LossMin >= sc.B.LossMin && sc.B.LossMin >= sc.C.LossMin) {
			add("scenario losses are not monotonically non-increasing A >= B >= C")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
