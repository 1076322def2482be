package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"portal_final_backend/internal/domain"
	"portal_final_backend/internal/ranker"
	"portal_final_backend/platform/logger"
)

// Remote is a Repository backed by a discount-catalog HTTP service (the
// "discount map" collaborator of the reference architecture) rather than a
// SQL store. It is keyed entirely by merchant display name, matching the
// upstream service's "discounts_by_store" response shape, and requires no
// brand/branch ID scheme of its own: FindBrand's ID is the brand's display
// name, and FindBranch's ID is "<brand> <branch>" reconstructed to match the
// discovery provider's original merchant name.
//
// The upstream response can arrive in any of the shapes
// ranker.NormalizeDiscountPayload understands (a direct merchant map, one
// wrapped in a "discounts_by_store" key, or a flat list), and individual
// discount/shape/requiredConditions fields may themselves be
// ".NET ToString()"-serialized records; NormalizeDiscountPayload resolves
// both. It does not decode a discount's constraints, so programs served by
// Remote carry zero-value Constraints.
type Remote struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *logger.Logger

	cacheTTL time.Duration
	now      func() time.Time

	mu             sync.Mutex
	cachedAt       time.Time
	byMerchant     map[string][]domain.DiscountProgram
	conditionsByID map[string]domain.RequiredConditions
}

// NewRemote builds a Remote repository against baseURL, which must serve
// GET /discounts returning one of the three recognized payload shapes.
func NewRemote(baseURL, apiKey string, log *logger.Logger) *Remote {
	return &Remote{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		log:      log,
		cacheTTL: 5 * time.Second,
		now:      time.Now,
	}
}

func (r *Remote) FindBrand(ctx context.Context, name string) (*Brand, error) {
	byMerchant, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := byMerchant[name]; ok {
		return &Brand{ID: name, Name: name}, nil
	}
	prefix := name + " "
	for merchant := range byMerchant {
		if strings.HasPrefix(merchant, prefix) {
			return &Brand{ID: name, Name: name}, nil
		}
	}
	return nil, nil
}

func (r *Remote) FindBranch(ctx context.Context, brandID, branchName string) (*Branch, error) {
	byMerchant, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	full := brandID + " " + branchName
	if _, ok := byMerchant[full]; !ok {
		return nil, nil
	}
	return &Branch{ID: full, BrandID: brandID, Name: branchName}, nil
}

func (r *Remote) FindApplicableDiscounts(ctx context.Context, brandID string, branchID *string, now time.Time) ([]domain.DiscountProgram, error) {
	byMerchant, err := r.catalog(ctx)
	if err != nil {
		return nil, err
	}
	key := brandID
	if branchID != nil {
		key = *branchID
	}

	programs := byMerchant[key]
	active := make([]domain.DiscountProgram, 0, len(programs))
	for _, d := range programs {
		if activeAt(d, now) {
			active = append(active, d)
		}
	}
	return active, nil
}

func (r *Remote) LoadRequiredConditions(_ context.Context, discountID string) (domain.RequiredConditions, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conditionsByID[discountID], nil
}

// catalog returns the normalized merchant -> discounts map, refetching it
// once cacheTTL has elapsed. A single pipeline run resolves several
// merchants in sequence (§4.4), so this coalesces them into one upstream
// call instead of one per merchant.
func (r *Remote) catalog(ctx context.Context) (map[string][]domain.DiscountProgram, error) {
	r.mu.Lock()
	if r.byMerchant != nil && r.now().Sub(r.cachedAt) < r.cacheTTL {
		byMerchant := r.byMerchant
		r.mu.Unlock()
		return byMerchant, nil
	}
	r.mu.Unlock()

	raw, err := r.fetchPayload(ctx)
	if err != nil {
		return nil, err
	}
	byMerchant, err := ranker.NormalizeDiscountPayload(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize discount payload: %w", err)
	}

	conditions := make(map[string]domain.RequiredConditions, len(byMerchant))
	for _, programs := range byMerchant {
		for _, p := range programs {
			if p.DiscountID != "" {
				conditions[p.DiscountID] = p.RequiredConditions
			}
		}
	}

	r.mu.Lock()
	r.byMerchant = byMerchant
	r.conditionsByID = conditions
	r.cachedAt = r.now()
	r.mu.Unlock()

	return byMerchant, nil
}

func (r *Remote) fetchPayload(ctx context.Context) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/discounts", nil)
	if err != nil {
		return nil, err
	}
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discount catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discount catalog: endpoint returned status %d", resp.StatusCode)
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("discount catalog: decode response: %w", err)
	}
	return raw, nil
}

// activeAt applies the same date-range/day-of-week subset the Postgres
// repository filters at query time; the fuller time/channel/order-amount
// window is evaluated at runtime by discount.CheckRuntimeConstraints.
func activeAt(d domain.DiscountProgram, now time.Time) bool {
	if !d.IsActive {
		return false
	}
	c := d.Constraints
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return false
	}
	if c.DayOfWeekMask != nil {
		bit := domain.DayOfWeekBit(now.Weekday())
		if *c.DayOfWeekMask&(1<<bit) == 0 {
			return false
		}
	}
	return true
}

var _ Repository = (*Remote)(nil)
