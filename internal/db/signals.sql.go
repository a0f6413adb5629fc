// Hand-maintained in sqlc output shape (sqlc.yaml and sql/ hold the schema
// and queries). Not generated: edit the SQL constant and the matching file
// under sql/queries/ together.

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const getSignalByID = `-- name: GetSignalByID :one
SELECT id, title, summary, category, tags, source, company, product_line, occurred_at, created_at
FROM signals
WHERE id = $1
`

func (q *Queries) GetSignalByID(ctx context.Context, id uuid.UUID) (Signal, error) {
	row := q.db.QueryRowContext(ctx, getSignalByID, id)
	var i Signal
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Summary,
		&i.Category,
		pq.Array(&i.Tags),
		&i.Source,
		&i.Company,
		&i.ProductLine,
		&i.OccurredAt,
		&i.CreatedAt,
	)
	return i, err
}

const listSignals = `-- name: ListSignals :many
SELECT id, title, summary, category, tags, source, company, product_line, occurred_at, created_at
FROM signals
WHERE ($1::text = '' OR category = $1::text)
ORDER BY occurred_at DESC
LIMIT $2 OFFSET $3
`

type ListSignalsParams struct {
	Category string
	Limit    int32
	Offset   int32
}

func (q *Queries) ListSignals(ctx context.Context, arg ListSignalsParams) ([]Signal, error) {
	rows, err := q.db.QueryContext(ctx, listSignals, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Signal
	for rows.Next() {
		var i Signal
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Summary,
			&i.Category,
			pq.Array(&i.Tags),
			&i.Source,
			&i.Company,
			&i.ProductLine,
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

const listSignalsMissingAssessment = `-- name: ListSignalsMissingAssessment :many
SELECT s.id, s.title, s.summary, s.category, s.tags, s.source, s.company, s.product_line, s.occurred_at, s.created_at
FROM signals s
LEFT JOIN risk_assessments ra ON ra.signal_id = s.id
WHERE ra.id IS NULL
ORDER BY s.occurred_at ASC
LIMIT $1
`

func (q *Queries) ListSignalsMissingAssessment(ctx context.Context, limit int32) ([]Signal, error) {
	rows, err := q.db.QueryContext(ctx, listSignalsMissingAssessment, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Signal
	for rows.Next() {
		var i Signal
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Summary,
			&i.Category,
			pq.Array(&i.Tags),
			&i.Source,
			&i.Company,
			&i.ProductLine,
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

const upsertSignal = `-- name: UpsertSignal :one
INSERT INTO signals (id, title, summary, category, tags, source, company, product_line, occurred_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    summary = EXCLUDED.summary,
    category = EXCLUDED.category,
    tags = EXCLUDED.tags,
    source = EXCLUDED.source,
    company = EXCLUDED.company,
    product_line = EXCLUDED.product_line,
    occurred_at = EXCLUDED.occurred_at
RETURNING id, title, summary, category, tags, source, company, product_line, occurred_at, created_at
`

type UpsertSignalParams struct {
	ID          uuid.UUID
	Title       string
	Summary     sql.NullString
	Category    string
	Tags        []string
	Source      sql.NullString
	Company     string
	ProductLine sql.NullString
	OccurredAt  time.Time
}

func (q *Queries) UpsertSignal(ctx context.Context, arg UpsertSignalParams) (Signal, error) {
	row := q.db.QueryRowContext(ctx, upsertSignal,
		arg.ID,
		arg.Title,
		arg.Summary,
		arg.Category,
		pq.Array(arg.Tags),
		arg.Source,
		arg.Company,
		arg.ProductLine,
		arg.OccurredAt,
	)
	var i Signal
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Summary,
		&i.Category,
		pq.Array(&i.Tags),
		&i.Source,
		&i.Company,
		&i.ProductLine,
		&i.OccurredAt,
		&i.CreatedAt,
	)
	return i, err
}
