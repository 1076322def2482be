// Package discovery implements merchant discovery (C3): given a location and
// a place-type/attribute query, return up to 10 nearby merchants with their
// distances and recent reviews, either from a live map-provider API or from
// a static offline fixture in degraded mode.
package discovery

import (
	"context"

	"portal_final_backend/internal/domain"
)

// Query is the input to Provider.Discover (§4.3).
type Query struct {
	Lat        float64
	Lon        float64
	PlaceType  string
	Attributes []string
}

// Result is the discovery output. Success is false when no candidates were
// found for Query; callers treat that as "no merchants" and continue the
// pipeline without the resolve/rank/retrieve phases (§4.3).
type Result struct {
	Success  bool
	Message  string
	Merchants []domain.Merchant
	Source   string
}

// Provider discovers nearby merchants. The HTTP-backed implementation talks
// to a live map provider; the offline implementation serves a fixed fixture.
type Provider interface {
	Discover(ctx context.Context, q Query) (Result, error)
}

// rawCandidate is one "places around coordinates" hit before category
// filtering and sampling.
type rawCandidate struct {
	ProviderID     string
	Name           string
	Category       string
	Address        string
	Lat            float64
	Lon            float64
	DistanceMeters float64
}

type placesPage struct {
	Items   []rawCandidate
	HasMore bool
}
