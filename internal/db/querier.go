// Hand-maintained in sqlc output shape (sqlc.yaml and sql/ hold the schema
// and queries). Not generated: keep in sync with sql/schema.sql.

package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	DeleteAssessmentBySignalID(ctx context.Context, signalID uuid.UUID) error
	GetAssessmentBySignalID(ctx context.Context, signalID uuid.UUID) (RiskAssessment, error)
	GetCompanyProfileByName(ctx context.Context, company string) (CompanyProfile, error)
	GetSignalByID(ctx context.Context, id uuid.UUID) (Signal, error)
	ListPrecedentsByCategory(ctx context.Context, category string) ([]PrecedentCase, error)
	ListPrecedentsByCompany(ctx context.Context, arg ListPrecedentsByCompanyParams) ([]PrecedentCase, error)
	ListSignals(ctx context.Context, arg ListSignalsParams) ([]Signal, error)
	ListSignalsMissingAssessment(ctx context.Context, limit int32) ([]Signal, error)
	UpsertAssessment(ctx context.Context, arg UpsertAssessmentParams) (RiskAssessment, error)
	UpsertCompanyProfile(ctx context.Context, arg UpsertCompanyProfileParams) (CompanyProfile, error)
	UpsertPrecedentCase(ctx context.Context, arg UpsertPrecedentCaseParams) (PrecedentCase, error)
	UpsertSignal(ctx context.Context, arg UpsertSignalParams) (Signal, error)
}

var _ Querier = (*Queries)(nil)
