// Package domain holds the data model shared across the recommendation
// pipeline stages (C1-C8): user profiles, queries, merchants, discount
// shapes and the ranked/session-scoped output types. None of these types
// carry behavior tied to a single stage; stage-specific logic lives in the
// packages that consume them (internal/filter, internal/discount, ...).
package domain

import "time"

// Telco enumerates the recognized mobile carriers. Profile normalization
// folds synonyms (e.g. "LG 유플러스") onto these canonical values.
type Telco string

const (
	TelcoSKT   Telco = "SKT"
	TelcoKT    Telco = "KT"
	TelcoLGUP  Telco = "LG U+"
)

// UserProfile is the caller-supplied profile used for personalization (§3).
type UserProfile struct {
	UserID       string
	Telco        Telco // empty = not supplied
	Cards        []string
	Memberships  []string
	Affiliations []string
	Coords       *Coordinates
	Categories   []string
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Query is the validated/classified request text plus extracted keywords.
type Query struct {
	Text     string
	Keywords ExtractedKeywords
}

// ExtractedKeywords is C1's classification output (§4.1).
type ExtractedKeywords struct {
	PlaceType  string
	Attributes []string
	Location   string
}

// Merchant is a discovered candidate (§3 Merchant).
type Merchant struct {
	StoreID        string
	Name           string
	Category       string
	Address        string
	Coords         *Coordinates
	DistanceMeters *float64
	Reviews        []string
}

// ProviderType enumerates who backs a discount program.
type ProviderType string

const (
	ProviderTelco       ProviderType = "TELCO"
	ProviderPayment     ProviderType = "PAYMENT"
	ProviderMembership  ProviderType = "MEMBERSHIP"
	ProviderAffiliation ProviderType = "AFFILIATION"
	ProviderStore       ProviderType = "STORE"
	ProviderBrand       ProviderType = "BRAND"
)

// ShapeKind enumerates the discount value-shape variants (§3 Shape).
type ShapeKind string

const (
	ShapePercent ShapeKind = "PERCENT"
	ShapeAmount  ShapeKind = "AMOUNT"
	ShapePerUnit ShapeKind = "PER_UNIT"
)

// Shape is the tagged-variant discount value expression.
type Shape struct {
	Kind ShapeKind

	// PERCENT
	Percent   float64
	MaxAmount *float64 // cap, also used by PER_UNIT

	// AMOUNT
	Amount float64

	// PER_UNIT
	UnitAmount   float64
	PerUnitValue float64
}

// Constraints carries the optional temporal/channel/amount limits on a
// discount program.
type Constraints struct {
	ValidFrom       *time.Time
	ValidTo         *time.Time
	DayOfWeekMask   *uint8 // Monday = bit 0
	TimeFrom        string // "HH:MM", empty = unset
	TimeTo          string
	ChannelLimit    string // "ONLINE", "OFFLINE", "ONLINE/OFFLINE", or empty
	RequiredLevel   string
	Qualification   string
	ApplicationMenu string
	MinOrderAmount  *int64
	MaxOrderAmount  *int64
}

// RequiredConditions is the four applicability lists. An empty value (all
// four lists empty) means "available to anyone".
type RequiredConditions struct {
	Payments     []string
	Telcos       []string
	Memberships  []string
	Affiliations []string
}

// Empty reports whether every condition list is empty, i.e. the program is
// public.
func (r RequiredConditions) Empty() bool {
	return len(r.Payments) == 0 && len(r.Telcos) == 0 &&
		len(r.Memberships) == 0 && len(r.Affiliations) == 0
}

// DiscountProgram is a catalog row joined with its required conditions and,
// once evaluated against a profile, its applicability flag (§3).
type DiscountProgram struct {
	DiscountID           string
	DiscountName         string
	ProviderType         ProviderType
	ProviderName         string
	Shape                Shape
	Constraints          Constraints
	RequiredConditions   RequiredConditions
	AppliedByUserProfile bool
	IsDiscount           bool // false => points accrual, not a price reduction
	IsActive             bool
}

// RankedEntry is one row of an output ranking list (§3 Ranked entry).
type RankedEntry struct {
	StoreID        string
	Name           string
	DistanceMeters *float64
	AllBenefits    []DiscountProgram
	Rank           int
}

// DayOfWeekBit maps time.Weekday (Sunday=0) to the spec's Monday=bit-0
// convention used by Constraints.DayOfWeekMask.
func DayOfWeekBit(w time.Weekday) uint {
	switch w {
	case time.Monday:
		return 0
	case time.Tuesday:
		return 1
	case time.Wednesday:
		return 2
	case time.Thursday:
		return 3
	case time.Friday:
		return 4
	case time.Saturday:
		return 5
	default:
		return 6 // Sunday
	}
}
