package engine

import "time"

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// Category is the three-bucket signal classification produced upstream.
// String values match the classifier's output and the signals.category column.
type Category string

const (
	CategoryRisk        Category = "Risk"
	CategoryExpansion   Category = "Expansion"
	CategoryOperational Category = "Operational"
)

// Signal is the engine's read-only view of one classified intelligence event.
// The narrative fields are owned by the upstream classifier; the engine only
// reads Category, Company, and Timestamp. Field types are plain Go types so
// the package stays dependency-free — the worker maps db rows into this.
type Signal struct {
	ID          string
	Title       string
	Summary     string
	Category    Category
	Tags        []string
	Source      string
	Company     string
	ProductLine string
	Timestamp   time.Time
}

// CompanyContext is the caller-supplied financial exposure used to scale
// estimates. It may be absent entirely, in which case the assessment
// short-circuits to insufficient_data.
type CompanyContext struct {
	Company     string
	Revenue     float64 // in Currency at UnitScale; <= 0 means unknown
	Currency    string  // "USD" | "INR" | "EUR"; empty defaults to USD
	UnitScale   string  // "thousands" | "millions" | "billions" | "crore"
	ProductLine string
	Markets     []string

	// Version is bumped whenever the profile changes. It is part of the
	// cache key so a stale assessment is never served after a context edit.
	Version int64
}

// PrecedentCase is one historical analog supplied by the external lookup.
type PrecedentCase struct {
	ID           string
	Company      string
	Category     Category
	Outcome      string // e.g. "warning_letter", "import_alert", "none"
	ActionTaken  bool   // true when the outcome was an actual regulatory/competitive action
	LossFraction float64
	DaysToAction int
	Source       string
	OccurredAt   time.Time
}

// ─── OUTPUT TYPES ────────────────────────────────────────────────────────────

// Status is the top-level outcome of one evaluation.
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient_data"
	StatusError            Status = "error"
)

// Confidence bands. ConfidenceBand is a pure function of the score — see
// bandForScore.
const (
	BandHigh     = "High"
	BandModerate = "Moderate"
	BandLow      = "Low"
)

// LossUnitUSDMillions is the single canonical display unit for every loss
// figure the engine emits.
const LossUnitUSDMillions = "USD millions"

// Scenario is one counterfactual loss projection.
type Scenario struct {
	Label   string  `json:"label"`
	LossMin float64 `json:"loss_min"`
	LossMax float64 `json:"loss_max"`
}

// ScenarioSet holds exactly three ordered scenarios. Consumers rely on the
// A ≥ B ≥ C severity ordering; see the severity constants in config.go.
type ScenarioSet struct {
	A Scenario `json:"scenario_a"`
	B Scenario `json:"scenario_b"`
	C Scenario `json:"scenario_c"`
}

// ScenarioDisplay is the display-formatted variant of one scenario, using the
// same unit as the base loss figures.
type ScenarioDisplay struct {
	Label      string `json:"label"`
	DisplayMin string `json:"display_min"`
	DisplayMax string `json:"display_max"`
}

// ScenarioDisplaySet mirrors ScenarioSet with formatted strings.
type ScenarioDisplaySet struct {
	A ScenarioDisplay `json:"scenario_a"`
	B ScenarioDisplay `json:"scenario_b"`
	C ScenarioDisplay `json:"scenario_c"`
}

// CalculationBreakdown is the "how this was calculated" trail. Every string
// is buildable back into the arithmetic it describes.
type CalculationBreakdown struct {
	OriginalRevenue   string `json:"original_revenue,omitempty"`
	Conversion        string `json:"conversion,omitempty"`
	Formula           string `json:"formula,omitempty"`
	FinalUnits        string `json:"final_units,omitempty"`
	ValidationPassed  *bool  `json:"validation_passed,omitempty"`
	ValidationMessage string `json:"validation_message,omitempty"`
}

// Methodology carries one explanatory basis string per numeric figure group.
// The orchestrator fails closed if any basis is empty while its figures are
// populated — a naked number is a programming defect, not a data problem.
type Methodology struct {
	FinancialBasis       string                `json:"financial_basis"`
	RiskBasis            string                `json:"risk_basis"`
	TimelineBasis        string                `json:"timeline_basis"`
	ConfidenceBasis      string                `json:"confidence_basis"`
	CalculationBreakdown *CalculationBreakdown `json:"calculation_breakdown,omitempty"`
}

// Assessment is the engine's sole output record for one Signal. Field names
// are a compatibility contract with the consuming UI — do not rename.
//
// Numeric fields are pointers so that an insufficient_data or error result
// omits them entirely rather than emitting zeroes the UI would render.
type Assessment struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`

	Probability *float64 `json:"probability,omitempty"` // 0–100

	LossMin        *float64 `json:"loss_min,omitempty"` // USD millions
	LossMax        *float64 `json:"loss_max,omitempty"`
	LossDisplayMin string   `json:"loss_display_min,omitempty"`
	LossDisplayMax string   `json:"loss_display_max,omitempty"`
	LossUnit       string   `json:"loss_unit,omitempty"`

	ExpectedDaysMin *int `json:"expected_days_min,omitempty"`
	ExpectedDaysMax *int `json:"expected_days_max,omitempty"`

	ConfidenceScore *float64 `json:"confidence_score,omitempty"` // 0–100
	ConfidenceBand  string   `json:"confidence_band,omitempty"`

	ValidationPassed  *bool  `json:"validation_passed,omitempty"`
	ValidationMessage string `json:"validation_message,omitempty"`

	Methodology      *Methodology        `json:"methodology,omitempty"`
	Scenarios        *ScenarioSet        `json:"scenarios,omitempty"`
	ScenarioDisplays *ScenarioDisplaySet `json:"scenario_displays,omitempty"`
}

// ─── POINTER HELPERS ─────────────────────────────────────────────────────────

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
