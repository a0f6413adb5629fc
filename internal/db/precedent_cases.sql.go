// Hand-maintained in sqlc output shape (sqlc.yaml and sql/ hold the schema
// and queries). Not generated: edit the SQL constant and the matching file
// under sql/queries/ together.

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const listPrecedentsByCategory = `-- name: ListPrecedentsByCategory :many
SELECT id, company, category, outcome, action_taken, loss_fraction, days_to_action, source, occurred_at, created_at
FROM precedent_cases
WHERE category = $1
ORDER BY occurred_at DESC
`

func (q *Queries) ListPrecedentsByCategory(ctx context.Context, category string) ([]PrecedentCase, error) {
	rows, err := q.db.QueryContext(ctx, listPrecedentsByCategory, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PrecedentCase
	for rows.Next() {
		var i PrecedentCase
		if err := rows.Scan(
			&i.ID,
			&i.Company,
			&i.Category,
			&i.Outcome,
			&i.ActionTaken,
			&i.LossFraction,
			&i.DaysToAction,
			&i.Source,
			&i.OccurredAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPrecedentsByCompany = `-- name: ListPrecedentsByCompany :many
SELECT id, company, category, outcome, action_taken, loss_fraction, days_to_action, source, occurred_at, created_at
FROM precedent_cases
WHERE lower(company) = lower($1) AND category = $2
ORDER BY occurred_at DESC
`

type ListPrecedentsByCompanyParams struct {
	Company  string
	Category string
}

func (q *Queries) ListPrecedentsByCompany(ctx context.Context, arg ListPrecedentsByCompanyParams) ([]PrecedentCase, error) {
	rows, err := q.db.QueryContext(ctx, listPrecedentsByCompany, arg.Company, arg.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PrecedentCase
	for rows.Next() {
		var i PrecedentCase
		if err := rows.Scan(
			&i.ID,
			&i.Company,
			&i.Category,
			&i.Outcome,
			&i.ActionTaken,
			&i.LossFraction,
			&i.DaysToAction,
			&i.Source,
			&i.OccurredAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertPrecedentCase = `-- name: UpsertPrecedentCase :one
INSERT INTO precedent_cases (id, company, category, outcome, action_taken, loss_fraction, days_to_action, source, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    company = EXCLUDED.company,
    category = EXCLUDED.category,
    outcome = EXCLUDED.outcome,
    action_taken = EXCLUDED.action_taken,
    loss_fraction = EXCLUDED.loss_fraction,
    days_to_action = EXCLUDED.days_to_action,
    source = EXCLUDED.source,
    occurred_at = EXCLUDED.occurred_at
RETURNING id, company, category, outcome, action_taken, loss_fraction, days_to_action, source, occurred_at, created_at
`

type UpsertPrecedentCaseParams struct {
	ID           uuid.UUID
	Company      string
	Category     string
	Outcome      string
	ActionTaken  bool
	LossFraction float64
	DaysToAction int32
	Source       sql.NullString
	OccurredAt   time.Time
}

func (q *Queries) UpsertPrecedentCase(ctx context.Context, arg UpsertPrecedentCaseParams) (PrecedentCase, error) {
	row := q.db.QueryRowContext(ctx, upsertPrecedentCase,
		arg.ID,
		arg.Company,
		arg.Category,
		arg.Outcome,
		arg.ActionTaken,
		arg.LossFraction,
		arg.DaysToAction,
		arg.Source,
		arg.OccurredAt,
	)
	var i PrecedentCase
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Category,
		&i.Outcome,
		&i.ActionTaken,
		&i.LossFraction,
		&i.DaysToAction,
		&i.Source,
		&i.OccurredAt,
		&i.CreatedAt,
	)
	return i, err
}
