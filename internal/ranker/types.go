// Package ranker implements the recommendation ranker (C6): discount
// payload normalization plus the personalized and by-distance top-three
// lists built from merchants, their resolved discounts, and distances.
package ranker

import "portal_final_backend/internal/domain"

// MerchantInput is one merchant candidate with its resolved discount
// programs (from C4, §4.4) and distance (from C3, §4.3) attached.
type MerchantInput struct {
	StoreID        string
	Name           string
	DistanceMeters *float64
	Discounts      []domain.DiscountProgram
}
