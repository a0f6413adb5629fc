// Hand-maintained in sqlc output shape (sqlc.yaml and sql/ hold the schema
// and queries). Not generated: edit the SQL constant and the matching file
// under sql/queries/ together.

package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const getCompanyProfileByName = `-- name: GetCompanyProfileByName :one
SELECT id, company, revenue, currency, unit_scale, product_line, markets, version, created_at, updated_at
FROM company_profiles
WHERE lower(company) = lower($1)
`

func (q *Queries) GetCompanyProfileByName(ctx context.Context, company string) (CompanyProfile, error) {
	row := q.db.QueryRowContext(ctx, getCompanyProfileByName, company)
	var i CompanyProfile
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Revenue,
		&i.Currency,
		&i.UnitScale,
		&i.ProductLine,
		pq.Array(&i.Markets),
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const upsertCompanyProfile = `-- name: UpsertCompanyProfile :one
INSERT INTO company_profiles (id, company, revenue, currency, unit_scale, product_line, markets)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (company) DO UPDATE SET
    revenue = EXCLUDED.revenue,
    currency = EXCLUDED.currency,
    unit_scale = EXCLUDED.unit_scale,
    product_line = EXCLUDED.product_line,
    markets = EXCLUDED.markets,
    version = company_profiles.version + 1,
    updated_at = now()
RETURNING id, company, revenue, currency, unit_scale, product_line, markets, version, created_at, updated_at
`

type UpsertCompanyProfileParams struct {
	ID          uuid.UUID
	Company     string
	Revenue     float64
	Currency    string
	UnitScale   string
	ProductLine sql.NullString
	Markets     []string
}

func (q *Queries) UpsertCompanyProfile(ctx context.Context, arg UpsertCompanyProfileParams) (CompanyProfile, error) {
	row := q.db.QueryRowContext(ctx, upsertCompanyProfile,
		arg.ID,
		arg.Company,
		arg.Revenue,
		arg.Currency,
		arg.UnitScale,
		arg.ProductLine,
		pq.Array(arg.Markets),
	)
	var i CompanyProfile
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Revenue,
		&i.Currency,
		&i.UnitScale,
		&i.ProductLine,
		pq.Array(&i.Markets),
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
