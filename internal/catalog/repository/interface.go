// Package repository defines and implements the discount catalog store
// consumed by the resolver (C4): brands, branches, discount programs and
// their required conditions.
package repository

import (
	"context"
	"time"

	"portal_final_backend/internal/domain"
)

// Brand is a top-level merchant identity (e.g. "스타벅스").
type Brand struct {
	ID   string
	Name string
}

// Branch is a specific location of a brand (e.g. "동국대점").
type Branch struct {
	ID      string
	BrandID string
	Name    string
}

// Repository is the discount catalog interface consumed by C4 (§6). Three
// implementations exist: a pgx-backed store for production, an in-memory
// fixture for tests and offline/degraded runs, and Remote, a client of an
// HTTP discount-catalog service.
type Repository interface {
	// FindBrand looks up a brand by its exact display name.
	FindBrand(ctx context.Context, name string) (*Brand, error)
	// FindBranch looks up a branch by brand id and exact branch name.
	FindBranch(ctx context.Context, brandID, branchName string) (*Branch, error)
	// FindApplicableDiscounts returns active discount programs attached to
	// brandID (and branchID, if given) whose temporal constraints admit now.
	FindApplicableDiscounts(ctx context.Context, brandID string, branchID *string, now time.Time) ([]domain.DiscountProgram, error)
	// LoadRequiredConditions loads the applicability conditions for a program.
	LoadRequiredConditions(ctx context.Context, discountID string) (domain.RequiredConditions, error)
}
