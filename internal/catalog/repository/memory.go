package repository

import (
	"context"
	"sync"
	"time"

	"portal_final_backend/internal/domain"
)

// memoryDiscount couples a program with the brand/branch scope it applies to.
// branchID == nil means the program applies brand-wide.
type memoryDiscount struct {
	brandID  string
	branchID *string
	program  domain.DiscountProgram
}

// Memory is an in-memory Repository fixture seeded with a small set of
// Korean F&B brands and their discount programs. It backs unit tests and
// the offline/degraded run mode when no catalog database is configured.
type Memory struct {
	mu        sync.RWMutex
	brands    map[string]Brand // name -> Brand
	branches  map[string]Branch
	discounts []memoryDiscount
}

// NewMemory builds a Repository preloaded with the reference fixture
// (Starbucks, Tom N Toms) used throughout the discount-evaluation design.
func NewMemory() *Memory {
	m := &Memory{
		brands:   make(map[string]Brand),
		branches: make(map[string]Branch),
	}
	m.seed()
	return m
}

func branchKey(brandID, branchName string) string {
	return brandID + "|" + branchName
}

func (m *Memory) seed() {
	starbucks := Brand{ID: "brand-starbucks", Name: "스타벅스"}
	tomNToms := Brand{ID: "brand-tomntoms", Name: "탐앤탐스"}
	m.brands[starbucks.Name] = starbucks
	m.brands[tomNToms.Name] = tomNToms

	dongguk := Branch{ID: "branch-starbucks-dongguk", BrandID: starbucks.ID, Name: "동국대점"}
	chungmuro := Branch{ID: "branch-tomntoms-chungmuro", BrandID: tomNToms.ID, Name: "충무로점"}
	m.branches[branchKey(starbucks.ID, dongguk.Name)] = dongguk
	m.branches[branchKey(tomNToms.ID, chungmuro.Name)] = chungmuro

	fullWeek := uint8(0x7F)
	cap3000 := 3000.0
	cap100000 := 100000.0

	m.discounts = []memoryDiscount{
		{
			brandID: starbucks.ID,
			program: domain.DiscountProgram{
				DiscountID:   "disc-skt-starbucks",
				DiscountName: "SKT 멤버십 스타벅스 할인",
				ProviderType: domain.ProviderTelco,
				ProviderName: "SKT",
				Shape: domain.Shape{
					Kind:         domain.ShapePerUnit,
					UnitAmount:   1000,
					PerUnitValue: 150,
					MaxAmount:    &cap3000,
				},
				Constraints: domain.Constraints{DayOfWeekMask: &fullWeek, ChannelLimit: "ONLINE/OFFLINE"},
				RequiredConditions: domain.RequiredConditions{
					Telcos: []string{"SKT"},
				},
				IsDiscount: true,
				IsActive:   true,
			},
		},
		{
			brandID: starbucks.ID,
			program: domain.DiscountProgram{
				DiscountID:   "disc-shinhan-starbucks",
				DiscountName: "신한카드 스타벅스 20% 할인",
				ProviderType: domain.ProviderPayment,
				ProviderName: "신한카드",
				Shape: domain.Shape{
					Kind:      domain.ShapePercent,
					Percent:   20,
					MaxAmount: &cap100000,
				},
				Constraints: domain.Constraints{DayOfWeekMask: &fullWeek, ChannelLimit: "OFFLINE"},
				RequiredConditions: domain.RequiredConditions{
					Payments: []string{"신한카드"},
				},
				IsDiscount: true,
				IsActive:   true,
			},
		},
		{
			brandID:  tomNToms.ID,
			branchID: &chungmuro.ID,
			program: domain.DiscountProgram{
				DiscountID:   "disc-store-tomntoms-chungmuro",
				DiscountName: "충무로점 오픈 기념 10% 할인",
				ProviderType: domain.ProviderStore,
				ProviderName: "탐앤탐스 충무로점",
				Shape: domain.Shape{
					Kind:    domain.ShapePercent,
					Percent: 10,
				},
				Constraints:        domain.Constraints{DayOfWeekMask: &fullWeek, ChannelLimit: "OFFLINE"},
				RequiredConditions: domain.RequiredConditions{}, // public
				IsDiscount:         true,
				IsActive:           true,
			},
		},
	}
}

func (m *Memory) FindBrand(_ context.Context, name string) (*Brand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.brands[name]; ok {
		brand := b
		return &brand, nil
	}
	return nil, nil
}

func (m *Memory) FindBranch(_ context.Context, brandID, branchName string) (*Branch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.branches[branchKey(brandID, branchName)]; ok {
		branch := b
		return &branch, nil
	}
	return nil, nil
}

func (m *Memory) FindApplicableDiscounts(_ context.Context, brandID string, branchID *string, now time.Time) ([]domain.DiscountProgram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.DiscountProgram
	for _, d := range m.discounts {
		if d.brandID != brandID {
			continue
		}
		if d.branchID != nil && (branchID == nil || *branchID != *d.branchID) {
			continue
		}
		if !d.program.IsActive {
			continue
		}
		if !admitsTimestamp(d.program.Constraints, now) {
			continue
		}
		out = append(out, d.program)
	}
	return out, nil
}

func (m *Memory) LoadRequiredConditions(_ context.Context, discountID string) (domain.RequiredConditions, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.discounts {
		if d.program.DiscountID == discountID {
			return d.program.RequiredConditions, nil
		}
	}
	return domain.RequiredConditions{}, nil
}

// admitsTimestamp checks the date/day-of-week window of a program against
// now. It deliberately does not check time-of-day or channel — those are
// evaluated by C5's runtime constraint check, not by catalog listing (§4.5).
func admitsTimestamp(c domain.Constraints, now time.Time) bool {
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

var _ Repository = (*Memory)(nil)
