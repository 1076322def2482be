// Package service implements the discount resolver (C4): given a user
// profile and a batch of merchant display names, it returns the discount
// programs attached to each one with applicability already evaluated.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"portal_final_backend/internal/catalog/repository"
	"portal_final_backend/internal/discount"
	"portal_final_backend/internal/domain"
	"portal_final_backend/platform/logger"
)

// MerchantResult is the per-merchant outcome of a resolve call. Matched is
// false when the brand itself could not be found or when a storage error
// (reported in Err) stopped the lookup; Reason explains a partial match
// (branch not found) or a brand miss.
type MerchantResult struct {
	MerchantName string
	Matched      bool
	Reason       string
	Discounts    []domain.DiscountProgram
	Err          error
}

// Resolver is the C4 discount resolver.
type Resolver struct {
	repo   repository.Repository
	log    *logger.Logger
	nowFn  func() time.Time
}

// New builds a Resolver over repo. log may be nil.
func New(repo repository.Repository, log *logger.Logger) *Resolver {
	return &Resolver{repo: repo, log: log, nowFn: time.Now}
}

// Resolve runs the per-name algorithm (§4.4) over every merchant name
// independently. A storage error for one merchant never aborts the batch;
// it surfaces as that merchant's Err field.
func (r *Resolver) Resolve(ctx context.Context, profile domain.UserProfile, merchantNames []string) []MerchantResult {
	results := make([]MerchantResult, 0, len(merchantNames))
	for _, name := range merchantNames {
		results = append(results, r.resolveOne(ctx, profile, name))
	}
	return results
}

func (r *Resolver) resolveOne(ctx context.Context, profile domain.UserProfile, name string) MerchantResult {
	brandName, branchName, hasBranch := splitMerchantName(name)

	brand, err := r.repo.FindBrand(ctx, brandName)
	if err != nil {
		return MerchantResult{MerchantName: name, Err: fmt.Errorf("find brand %q: %w", brandName, err)}
	}
	if brand == nil {
		return MerchantResult{MerchantName: name, Matched: false, Reason: "brand not found"}
	}

	var branchID *string
	reason := ""
	if hasBranch {
		branch, err := r.repo.FindBranch(ctx, brand.ID, branchName)
		if err != nil {
			return MerchantResult{MerchantName: name, Err: fmt.Errorf("find branch %q: %w", branchName, err)}
		}
		if branch == nil {
			reason = "branch not found; brand-level only"
		} else {
			branchID = &branch.ID
		}
	}

	now := r.nowFn()
	programs, err := r.repo.FindApplicableDiscounts(ctx, brand.ID, branchID, now)
	if err != nil {
		return MerchantResult{MerchantName: name, Err: fmt.Errorf("find applicable discounts: %w", err)}
	}

	for i := range programs {
		conditions, err := r.repo.LoadRequiredConditions(ctx, programs[i].DiscountID)
		if err != nil {
			return MerchantResult{MerchantName: name, Err: fmt.Errorf("load required conditions: %w", err)}
		}
		programs[i].RequiredConditions = conditions
		programs[i].AppliedByUserProfile = discount.Applicable(profile, programs[i])
	}

	sort.SliceStable(programs, func(i, j int) bool {
		if programs[i].ProviderType != programs[j].ProviderType {
			return programs[i].ProviderType < programs[j].ProviderType
		}
		return programs[i].DiscountName < programs[j].DiscountName
	})

	return MerchantResult{
		MerchantName: name,
		Matched:      true,
		Reason:       reason,
		Discounts:    programs,
	}
}

// splitMerchantName splits a display name on the first whitespace into
// (brand, branch). hasBranch is false when no whitespace is present, e.g.
// a bare brand name with no branch qualifier.
func splitMerchantName(name string) (brand, branch string, hasBranch bool) {
	trimmed := strings.TrimSpace(name)
	idx := strings.IndexFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
	if idx < 0 {
		return trimmed, "", false
	}
	return trimmed[:idx], strings.TrimSpace(trimmed[idx+1:]), true
}
