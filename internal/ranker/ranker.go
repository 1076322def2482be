package ranker

import (
	"sort"

	"portal_final_backend/internal/discount"
	"portal_final_backend/internal/domain"
)

const topK = 3

// BuildPersonalized ranks merchants with at least one applicable discount
// (§4.5) by their best applicable savings value, distance ascending as a
// tiebreak, taking the top three (§4.6). Each entry's AllBenefits carries
// only the applicable discounts.
func BuildPersonalized(merchants []MerchantInput, referenceAmount int64) []domain.RankedEntry {
	type scored struct {
		input      MerchantInput
		maxValue   float64
		applicable []domain.DiscountProgram
	}

	var candidates []scored
	for _, m := range merchants {
		var applicable []domain.DiscountProgram
		maxValue := -1.0
		for _, d := range m.Discounts {
			if !d.AppliedByUserProfile {
				continue
			}
			applicable = append(applicable, d)
			if !d.IsDiscount {
				continue
			}
			value, _ := discount.Value(d.Shape, referenceAmount)
			if value > maxValue {
				maxValue = value
			}
		}
		if len(applicable) == 0 {
			continue
		}
		candidates = append(candidates, scored{input: m, maxValue: maxValue, applicable: applicable})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.maxValue != b.maxValue {
			return a.maxValue > b.maxValue
		}
		if di, dj := a.input.DistanceMeters, b.input.DistanceMeters; di != nil || dj != nil {
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			if *di != *dj {
				return *di < *dj
			}
		}
		return a.input.Name < b.input.Name
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	out := make([]domain.RankedEntry, 0, len(candidates))
	for i, c := range candidates {
		out = append(out, domain.RankedEntry{
			StoreID:        c.input.StoreID,
			Name:           c.input.Name,
			DistanceMeters: c.input.DistanceMeters,
			AllBenefits:    c.applicable,
			Rank:           i + 1,
		})
	}
	return out
}

// BuildByDistance sorts every merchant by distance ascending (nil distances
// sort last), taking the top three, with AllBenefits carrying every parsed
// discount regardless of applicability (§4.6).
func BuildByDistance(merchants []MerchantInput) []domain.RankedEntry {
	sorted := make([]MerchantInput, len(merchants))
	copy(sorted, merchants)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].DistanceMeters, sorted[j].DistanceMeters
		if di == nil && dj == nil {
			return sorted[i].Name < sorted[j].Name
		}
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		if *di != *dj {
			return *di < *dj
		}
		return sorted[i].Name < sorted[j].Name
	})

	if len(sorted) > topK {
		sorted = sorted[:topK]
	}

	out := make([]domain.RankedEntry, 0, len(sorted))
	for i, m := range sorted {
		out = append(out, domain.RankedEntry{
			StoreID:        m.StoreID,
			Name:           m.Name,
			DistanceMeters: m.DistanceMeters,
			AllBenefits:    m.Discounts,
			Rank:           i + 1,
		})
	}
	return out
}
