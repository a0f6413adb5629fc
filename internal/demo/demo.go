// Package demo holds the self-contained dataset the service ships with: one
// Indian large-cap pharma company, a week of classified intelligence signals
// against it, and the historical cases that calibrate their assessments. The
// dataset is loaded through store.Seed and is fully deterministic — fixed
// UUIDs, fixed dates — so reloading it never duplicates rows and every load
// produces the same assessments.
package demo

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/meridianhq/meridian-backend/internal/db"
	"github.com/meridianhq/meridian-backend/internal/engine"
	"github.com/meridianhq/meridian-backend/internal/store"
)

// CompanyName is the demo company every fixture references.
const CompanyName = "Sun Pharma"

// Fixture IDs are fixed so reloads upsert instead of duplicating.
var (
	profileID = uuid.MustParse("a1f3c1d0-0001-4a00-9000-000000000001")

	sigForm483      = uuid.MustParse("b2e4d2e0-0001-4b00-9000-000000000001")
	sigAdverseTrend = uuid.MustParse("b2e4d2e0-0002-4b00-9000-000000000002")
	sigWarningLtr   = uuid.MustParse("b2e4d2e0-0003-4b00-9000-000000000003")
	sigImportAlert  = uuid.MustParse("b2e4d2e0-0004-4b00-9000-000000000004")
	sigLabelChange  = uuid.MustParse("b2e4d2e0-0005-4b00-9000-000000000005")
	sigCDSCO        = uuid.MustParse("b2e4d2e0-0006-4b00-9000-000000000006")
	sigReinspection = uuid.MustParse("b2e4d2e0-0007-4b00-9000-000000000007")
)

func ts(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("demo: bad fixture date " + s)
	}
	return t
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Context is the demo company's financial exposure, used as the evaluation
// fallback when demo mode is on and a signal's company has no stored profile.
// The version is zero so any stored profile row always outranks it.
func Context() *engine.CompanyContext {
	return &engine.CompanyContext{
		Company:   CompanyName,
		Revenue:   48000,
		Currency:  "INR",
		UnitScale: "crore",
		Markets:   []string{"US", "India", "EU"},
		Version:   0,
	}
}

// Dataset returns the full demo seed: profile, signals, and precedents.
func Dataset() store.SeedParams {
	return store.SeedParams{
		Profile:    profile(),
		Signals:    signals(),
		Precedents: precedents(),
	}
}

func profile() db.UpsertCompanyProfileParams {
	return db.UpsertCompanyProfileParams{
		ID:          profileID,
		Company:     CompanyName,
		Revenue:     48000,
		Currency:    "INR",
		UnitScale:   "crore",
		ProductLine: nullStr("Generics"),
		Markets:     []string{"US", "India", "EU"},
	}
}

func signals() []db.UpsertSignalParams {
	return []db.UpsertSignalParams{
		{
			ID:          sigForm483,
			Title:       "FDA Form 483 observations at Sun Pharma Halol facility",
			Summary:     nullStr("FDA inspection at the Halol plant identified observations related to quality control. Company has committed to a remediation timeline."),
			Category:    "Risk",
			Tags:        []string{"FDA", "inspection", "quality", "Halol"},
			Source:      nullStr("OpenFDA"),
			Company:     CompanyName,
			ProductLine: nullStr("Generics"),
			OccurredAt:  ts("2026-01-12"),
		},
		{
			ID:          sigAdverseTrend,
			Title:       "Adverse event reports for Sun Pharma generic portfolio increase in US",
			Summary:     nullStr("Quarterly adverse event data shows elevated reports for select generics. Monitoring and root cause analysis underway."),
			Category:    "Risk",
			Tags:        []string{"adverse-event", "US", "generics"},
			Source:      nullStr("OpenFDA"),
			Company:     CompanyName,
			ProductLine: nullStr("Generics"),
			OccurredAt:  ts("2026-01-10"),
		},
		{
			ID:          sigWarningLtr,
			Title:       "Sun Pharma receives FDA warning letter for manufacturing practices",
			Summary:     nullStr("FDA issued a warning letter citing deviations at a manufacturing facility. Company response and corrective actions submitted."),
			Category:    "Risk",
			Tags:        []string{"FDA", "warning-letter", "manufacturing"},
			Source:      nullStr("OpenFDA"),
			Company:     CompanyName,
			OccurredAt:  ts("2026-01-08"),
		},
		{
			ID:          sigImportAlert,
			Title:       "Import alert risk for Sun Pharma products at US border",
			Summary:     nullStr("Potential import detention risk for certain shipments pending resolution of facility compliance."),
			Category:    "Risk",
			Tags:        []string{"import-alert", "US", "compliance"},
			Source:      nullStr("OpenFDA"),
			Company:     CompanyName,
			OccurredAt:  ts("2026-01-07"),
		},
		{
			ID:          sigLabelChange,
			Title:       "Label change requirement for Sun Pharma oncology product",
			Summary:     nullStr("Regulator requested a label update for an oncology product based on post-market data."),
			Category:    "Operational",
			Tags:        []string{"label", "oncology", "post-market"},
			Source:      nullStr("OpenFDA"),
			Company:     CompanyName,
			ProductLine: nullStr("Oncology"),
			OccurredAt:  ts("2026-01-05"),
		},
		{
			ID:          sigCDSCO,
			Title:       "CDSCO approves Sun Pharma generic in India",
			Summary:     nullStr("CDSCO approval secured for a new generic in the cardiology segment. Launch planned for next quarter."),
			Category:    "Expansion",
			Tags:        []string{"CDSCO", "India", "approval", "cardiology"},
			Source:      nullStr("CDSCO"),
			Company:     CompanyName,
			ProductLine: nullStr("Cardiology"),
			OccurredAt:  ts("2026-01-04"),
		},
		{
			ID:          sigReinspection,
			Title:       "Sun Pharma Halol plant reinspection scheduled",
			Summary:     nullStr("FDA has scheduled a reinspection of the Halol facility following remediation efforts."),
			Category:    "Operational",
			Tags:        []string{"FDA", "reinspection", "Halol"},
			Source:      nullStr("OpenFDA"),
			Company:     CompanyName,
			OccurredAt:  ts("2026-01-03"),
		},
	}
}

// precedents are historical regulatory cases against the demo company: the
// Halol and Mohali inspection cycle, recalls, and the adverse event reports
// that resolved without action. Loss fractions are drug-level revenue shares
// affected in each episode, as a fraction of total revenue.
func precedents() []db.UpsertPrecedentCaseParams {
	type pc struct {
		id       string
		outcome  string
		action   bool
		fraction float64
		days     int32
		source   string
		date     string
	}
	cases := []pc{
		{"c3f5e3f0-0001-4c00-9000-000000000001", "warning_letter", true, 0.06, 90, "OpenFDA", "2023-03-14"},
		{"c3f5e3f0-0002-4c00-9000-000000000002", "warning_letter", true, 0.07, 75, "OpenFDA", "2022-11-02"},
		{"c3f5e3f0-0003-4c00-9000-000000000003", "none", false, 0, 0, "OpenFDA", "2024-05-21"},
		{"c3f5e3f0-0004-4c00-9000-000000000004", "warning_letter", true, 0.05, 120, "OpenFDA", "2023-08-09"},
		{"c3f5e3f0-0005-4c00-9000-000000000005", "warning_letter", true, 0.06, 60, "OpenFDA", "2024-01-30"},
		{"c3f5e3f0-0006-4c00-9000-000000000006", "recall", true, 0.08, 45, "OpenFDA", "2024-09-17"},
		{"c3f5e3f0-0007-4c00-9000-000000000007", "warning_letter", true, 0.06, 55, "OpenFDA", "2025-02-11"},
		{"c3f5e3f0-0008-4c00-9000-000000000008", "none", false, 0, 100, "OpenFDA", "2025-06-25"},
		{"c3f5e3f0-0009-4c00-9000-000000000009", "none", false, 0, 80, "CDSCO", "2024-12-03"},
		{"c3f5e3f0-0010-4c00-9000-000000000010", "none", false, 0, 0, "OpenFDA", "2025-04-18"},
	}

	out := make([]db.UpsertPrecedentCaseParams, 0, len(cases))
	for _, c := range cases {
		out = append(out, db.UpsertPrecedentCaseParams{
			ID:           uuid.MustParse(c.id),
			Company:      CompanyName,
			Category:     "Risk",
			Outcome:      c.outcome,
			ActionTaken:  c.action,
			LossFraction: c.fraction,
			DaysToAction: c.days,
			Source:       nullStr(c.source),
			OccurredAt:   ts(c.date),
		})
	}
	return out
}
