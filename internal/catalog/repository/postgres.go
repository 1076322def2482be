package repository

import (
	"context"
	"fmt"
	"time"

	"portal_final_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the production Repository implementation. The brand, branch,
// discount_program and required_condition tables are populated by an
// external ETL pipeline (out of scope, §6); this type only reads them.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps pool as a Repository.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) FindBrand(ctx context.Context, name string) (*Brand, error) {
	var b Brand
	err := p.pool.QueryRow(ctx,
		`SELECT id, name FROM brands WHERE name = $1`, name,
	).Scan(&b.ID, &b.Name)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find brand: %w", err)
	}
	return &b, nil
}

func (p *Postgres) FindBranch(ctx context.Context, brandID, branchName string) (*Branch, error) {
	var b Branch
	err := p.pool.QueryRow(ctx,
		`SELECT id, brand_id, name FROM branches WHERE brand_id = $1 AND name = $2`,
		brandID, branchName,
	).Scan(&b.ID, &b.BrandID, &b.Name)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find branch: %w", err)
	}
	return &b, nil
}

func (p *Postgres) FindApplicableDiscounts(ctx context.Context, brandID string, branchID *string, now time.Time) ([]domain.DiscountProgram, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT discount_id, discount_name, provider_type, provider_name,
		       shape_kind, shape_percent, shape_amount, shape_unit_amount,
		       shape_per_unit_value, shape_max_amount,
		       valid_from, valid_to, day_of_week_mask, time_from, time_to,
		       channel_limit, required_level, qualification, application_menu,
		       min_order_amount, max_order_amount, is_discount
		FROM discount_programs
		WHERE brand_id = $1
		  AND (branch_id IS NULL OR branch_id = $2)
		  AND is_active
		  AND (valid_from IS NULL OR valid_from <= $3)
		  AND (valid_to IS NULL OR valid_to >= $3)
		  AND (day_of_week_mask IS NULL OR (day_of_week_mask & (1 << $4)) <> 0)
		ORDER BY provider_type, discount_name`,
		brandID, branchID, now, int(domain.DayOfWeekBit(now.Weekday())),
	)
	if err != nil {
		return nil, fmt.Errorf("find applicable discounts: %w", err)
	}
	defer rows.Close()

	var out []domain.DiscountProgram
	for rows.Next() {
		var d domain.DiscountProgram
		var maxAmount *float64
		if err := rows.Scan(
			&d.DiscountID, &d.DiscountName, &d.ProviderType, &d.ProviderName,
			&d.Shape.Kind, &d.Shape.Percent, &d.Shape.Amount, &d.Shape.UnitAmount,
			&d.Shape.PerUnitValue, &maxAmount,
			&d.Constraints.ValidFrom, &d.Constraints.ValidTo, &d.Constraints.DayOfWeekMask,
			&d.Constraints.TimeFrom, &d.Constraints.TimeTo,
			&d.Constraints.ChannelLimit, &d.Constraints.RequiredLevel, &d.Constraints.Qualification,
			&d.Constraints.ApplicationMenu, &d.Constraints.MinOrderAmount, &d.Constraints.MaxOrderAmount,
			&d.IsDiscount,
		); err != nil {
			return nil, fmt.Errorf("scan discount program: %w", err)
		}
		d.Shape.MaxAmount = maxAmount
		d.IsActive = true

		conditions, err := p.LoadRequiredConditions(ctx, d.DiscountID)
		if err != nil {
			return nil, err
		}
		d.RequiredConditions = conditions

		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount programs: %w", err)
	}
	return out, nil
}

func (p *Postgres) LoadRequiredConditions(ctx context.Context, discountID string) (domain.RequiredConditions, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT kind, value FROM required_conditions WHERE discount_id = $1`, discountID,
	)
	if err != nil {
		return domain.RequiredConditions{}, fmt.Errorf("load required conditions: %w", err)
	}
	defer rows.Close()

	var rc domain.RequiredConditions
	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return domain.RequiredConditions{}, fmt.Errorf("scan required condition: %w", err)
		}
		switch kind {
		case "PAYMENT":
			rc.Payments = append(rc.Payments, value)
		case "TELCO":
			rc.Telcos = append(rc.Telcos, value)
		case "MEMBERSHIP":
			rc.Memberships = append(rc.Memberships, value)
		case "AFFILIATION":
			rc.Affiliations = append(rc.Affiliations, value)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.RequiredConditions{}, fmt.Errorf("iterate required conditions: %w", err)
	}
	return rc, nil
}

var _ Repository = (*Postgres)(nil)
