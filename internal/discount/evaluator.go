// Package discount implements the applicability and savings-value rules for
// a single discount program (§4.5): whether a program applies to a user
// profile, how much it is worth against a reference order amount, and
// whether it survives a runtime time/channel/order-amount check.
package discount

import (
	"math"
	"strings"
	"time"

	"portal_final_backend/internal/domain"
)

// DefaultReferenceOrderAmount is used when the caller's configuration does
// not override it.
const DefaultReferenceOrderAmount int64 = 12000

// Applicable reports whether program applies to profile. The resolver may
// have already pre-computed AppliedByUserProfile from catalog-side rules;
// that short-circuits this check. Otherwise a program is applicable when it
// is public (no required conditions), is a STORE promotion, or the profile
// fuzzily satisfies one of the four condition lists.
func Applicable(profile domain.UserProfile, program domain.DiscountProgram) bool {
	if program.AppliedByUserProfile {
		return true
	}
	if program.RequiredConditions.Empty() {
		return true
	}
	if program.ProviderType == domain.ProviderStore {
		return true
	}
	rc := program.RequiredConditions
	if string(profile.Telco) != "" && containsFuzzyAny(rc.Telcos, string(profile.Telco)) {
		return true
	}
	if containsFuzzyIntersect(rc.Payments, profile.Cards) {
		return true
	}
	if containsFuzzyIntersect(rc.Memberships, profile.Memberships) {
		return true
	}
	if containsFuzzyIntersect(rc.Affiliations, profile.Affiliations) {
		return true
	}
	return false
}

// containsFuzzyAny reports whether any entry in list fuzzily matches needle.
func containsFuzzyAny(list []string, needle string) bool {
	for _, item := range list {
		if fuzzyEqual(item, needle) {
			return true
		}
	}
	return false
}

// containsFuzzyIntersect reports whether any entry in have fuzzily matches
// any entry in want.
func containsFuzzyIntersect(want, have []string) bool {
	for _, w := range want {
		for _, h := range have {
			if fuzzyEqual(w, h) {
				return true
			}
		}
	}
	return false
}

// fuzzyEqual absorbs minor naming drift ("SKT" vs "skt", "신한카드" vs
// "신한") with case-insensitive equality or two-way containment.
func fuzzyEqual(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Value computes the savings value and discount rate of shape against a
// reference order amount. Both PERCENT and PER_UNIT are floored before the
// cap is applied, matching §4.5 exactly.
func Value(shape domain.Shape, referenceAmount int64) (value float64, rate float64) {
	a := float64(referenceAmount)
	switch shape.Kind {
	case domain.ShapePercent:
		value = math.Floor(a * shape.Percent / 100)
	case domain.ShapeAmount:
		value = shape.Amount
	case domain.ShapePerUnit:
		if shape.UnitAmount > 0 {
			value = math.Floor(a/shape.UnitAmount) * shape.PerUnitValue
		}
	}
	if shape.MaxAmount != nil && value > *shape.MaxAmount {
		value = *shape.MaxAmount
	}
	if value > a {
		value = a
	}
	if value < 0 {
		value = 0
	}
	if a > 0 {
		rate = math.Round(value/a*100*100) / 100
	}
	return value, rate
}

// CheckRuntimeConstraints evaluates the time/day/channel/order-amount window
// of c against now, channel and orderAmount. It is used only when the
// caller requests runtime evaluation; catalog listing only checks the
// date-range/day-of-week subset (done in the catalog repository). A
// malformed timeFrom/timeTo pair is treated as "no time constraint".
func CheckRuntimeConstraints(c domain.Constraints, now time.Time, channel string, orderAmount int64) (bool, string) {
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false, "before validFrom"
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return false, "after validTo"
	}
	if c.DayOfWeekMask != nil {
		bit := domain.DayOfWeekBit(now.Weekday())
		if *c.DayOfWeekMask&(1<<bit) == 0 {
			return false, "day of week not allowed"
		}
	}
	if ok, reason := checkTimeWindow(c.TimeFrom, c.TimeTo, now); !ok {
		return false, reason
	}
	if c.ChannelLimit != "" && channel != "" && !strings.Contains(c.ChannelLimit, channel) {
		return false, "channel not allowed"
	}
	if c.MinOrderAmount != nil && orderAmount < *c.MinOrderAmount {
		return false, "order amount below minimum"
	}
	if c.MaxOrderAmount != nil && orderAmount > *c.MaxOrderAmount {
		return false, "order amount above maximum"
	}
	return true, ""
}

// checkTimeWindow parses "HH:MM" timeFrom/timeTo and checks now's
// clock time falls within them. Any parse failure, or either side being
// empty, is treated as "no time constraint" rather than an error.
func checkTimeWindow(timeFrom, timeTo string, now time.Time) (bool, string) {
	if timeFrom == "" || timeTo == "" {
		return true, ""
	}
	from, errFrom := time.Parse("15:04", timeFrom)
	to, errTo := time.Parse("15:04", timeTo)
	if errFrom != nil || errTo != nil {
		return true, ""
	}
	nowClock := time.Date(0, 1, 1, now.Hour(), now.Minute(), 0, 0, time.UTC)
	fromClock := time.Date(0, 1, 1, from.Hour(), from.Minute(), 0, 0, time.UTC)
	toClock := time.Date(0, 1, 1, to.Hour(), to.Minute(), 0, 0, time.UTC)
	if fromClock.After(toClock) {
		return true, ""
	}
	if nowClock.Before(fromClock) || nowClock.After(toClock) {
		return false, "outside time window"
	}
	return true, ""
}
