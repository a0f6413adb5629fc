package engine

// ─── SCENARIO PROJECTION ─────────────────────────────────────────────────────

// BuildScenarios derives the three mitigation scenarios from the base loss
// range. Scenario A carries the full loss, B and C scale both bounds by their
// severity multipliers. The display set renders each bound with the same
// formatter used for the headline loss so the two surfaces never disagree.
func BuildScenarios(lossMin, lossMax float64, display func(float64) string) (ScenarioSet, ScenarioDisplaySet) {
	build := func(label string, severity float64) (Scenario, ScenarioDisplay) {
		lo := round4(lossMin * severity)
		hi := round4(lossMax * severity)
		return Scenario{
				Label:   label,
				LossMin: lo,
				LossMax: hi,
			}, ScenarioDisplay{
				Label:      label,
				DisplayMin: display(lo),
				DisplayMax: display(hi),
			}
	}

	a, da := build(LabelDoNothing, SeverityFull)
	b, db := build(LabelPartialMitigation, SeverityPartial)
	c, dc := build(LabelStrongMitigation, SeverityStrong)

	return ScenarioSet{A: a, B: b, C: c}, ScenarioDisplaySet{A: da, B: db, C: dc}
}
