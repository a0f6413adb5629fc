// Hand-maintained in sqlc output shape (sqlc.yaml and sql/ hold the schema
// and queries). Not generated: edit the SQL constant and the matching file
// under sql/queries/ together.

package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const deleteAssessmentBySignalID = `-- name: DeleteAssessmentBySignalID :exec
DELETE FROM risk_assessments
WHERE signal_id = $1
`

func (q *Queries) DeleteAssessmentBySignalID(ctx context.Context, signalID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, deleteAssessmentBySignalID, signalID)
	return err
}

const getAssessmentBySignalID = `-- name: GetAssessmentBySignalID :one
SELECT id, signal_id, context_version, status, payload, created_at, updated_at
FROM risk_assessments
WHERE signal_id = $1
`

func (q *Queries) GetAssessmentBySignalID(ctx context.Context, signalID uuid.UUID) (RiskAssessment, error) {
	row := q.db.QueryRowContext(ctx, getAssessmentBySignalID, signalID)
	var i RiskAssessment
	err := row.Scan(
		&i.ID,
		&i.SignalID,
		&i.ContextVersion,
		&i.Status,
		&i.Payload,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertAssessment = `-- name: UpsertAssessment :one
INSERT INTO risk_assessments (id, signal_id, context_version, status, payload)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (signal_id) DO UPDATE SET
    context_version = EXCLUDED.context_version,
    status = EXCLUDED.status,
    payload = EXCLUDED.payload,
    updated_at = now()
WHERE risk_assessments.context_version <= EXCLUDED.context_version
RETURNING id, signal_id, context_version, status, payload, created_at, updated_at
`

type UpsertAssessmentParams struct {
	ID             uuid.UUID
	SignalID       uuid.UUID
	ContextVersion int64
	Status         string
	Payload        pqtype.NullRawMessage
}

func (q *Queries) UpsertAssessment(ctx context.Context, arg UpsertAssessmentParams) (RiskAssessment, error) {
	row := q.db.QueryRowContext(ctx, upsertAssessment,
		arg.ID,
		arg.SignalID,
		arg.ContextVersion,
		arg.Status,
		arg.Payload,
	)
	var i RiskAssessment
	err := row.Scan(
		&i.ID,
		&i.SignalID,
		&i.ContextVersion,
		&i.Status,
		&i.Payload,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
