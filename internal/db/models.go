// Hand-maintained in sqlc output shape (sqlc.yaml and sql/ hold the schema
// and queries). Not generated: keep in sync with sql/schema.sql.

package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type CompanyProfile struct {
	ID          uuid.UUID
	Company     string
	Revenue     float64
	Currency    string
	UnitScale   string
	ProductLine sql.NullString
	Markets     []string
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PrecedentCase struct {
	ID           uuid.UUID
	Company      string
	Category     string
	Outcome      string
	ActionTaken  bool
	LossFraction float64
	DaysToAction int32
	Source       sql.NullString
	OccurredAt   time.Time
	CreatedAt    time.Time
}

type RiskAssessment struct {
	ID             uuid.UUID
	SignalID       uuid.UUID
	ContextVersion int64
	Status         string
	Payload        pqtype.NullRawMessage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Signal struct {
	ID          uuid.UUID
	Title       string
	Summary     sql.NullString
	Category    string
	Tags        []string
	Source      sql.NullString
	Company     string
	ProductLine sql.NullString
	OccurredAt  time.Time
	CreatedAt   time.Time
}
