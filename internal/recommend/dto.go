// Package recommend is the HTTP module fronting the pipeline orchestrator
// (C8): it owns the wire-format request/response DTOs (§6) and their
// conversion to and from the orchestrator's plain Go types, keeping
// internal/orchestrator free of JSON/gin concerns.
package recommend

import (
	"portal_final_backend/internal/domain"
	"portal_final_backend/internal/orchestrator"
	"portal_final_backend/internal/retrieval"
)

// RequestBody is the wire shape of POST /api/v1/recommendations (§6 REQUEST).
type RequestBody struct {
	UserQuery   string      `json:"userQuery" validate:"required"`
	UserProfile *ProfileDTO `json:"userProfile,omitempty"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	SessionID   string      `json:"sessionId,omitempty"`
	Variant     string      `json:"variant,omitempty" validate:"omitempty,oneof=baseline no_rerank no_context"`
}

// ProfileDTO is the wire shape of REQUEST.userProfile. UserID and Telco are
// required at this layer once a profile object is sent at all (§4.1); the
// allowed-carrier-set check itself happens post-normalization in
// internal/filter.Validate, since this layer never sees telco synonyms
// resolved.
type ProfileDTO struct {
	UserID       string   `json:"userId,omitempty" validate:"required"`
	Telco        string   `json:"telco,omitempty" validate:"required"`
	Cards        []string `json:"cards,omitempty"`
	Memberships  []string `json:"memberships,omitempty"`
	Affiliations []string `json:"affiliations,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

// ResponseBody is the wire shape of the recommendation response (§6 RESPONSE).
type ResponseBody struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message,omitempty"`
	Merchants   MerchantsDTO   `json:"merchants"`
	Retrieval   RetrievalDTO   `json:"retrieval"`
	Diagnostics DiagnosticsDTO `json:"diagnostics"`
}

type MerchantsDTO struct {
	ByDiscount []RankedEntryDTO `json:"byDiscount"`
	ByDistance []RankedEntryDTO `json:"byDistance"`
}

type RankedEntryDTO struct {
	StoreID        string        `json:"storeId"`
	Name           string        `json:"name"`
	DistanceMeters *float64      `json:"distanceMeters,omitempty"`
	Rank           int           `json:"rank"`
	AllBenefits    []DiscountDTO `json:"allBenefits"`
}

type DiscountDTO struct {
	DiscountID   string `json:"discountId"`
	DiscountName string `json:"discountName"`
	ProviderType string `json:"providerType"`
	ProviderName string `json:"providerName"`
	Applicable   bool   `json:"applicable"`
	IsDiscount   bool   `json:"isDiscount"`
}

type RetrievalDTO struct {
	TopK           []ScoredDocDTO `json:"topK"`
	LLMContext     string         `json:"llmContext"`
	FallbackAnswer string         `json:"fallbackAnswer"`
}

type ScoredDocDTO struct {
	StoreID string  `json:"storeId"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

type DiagnosticsDTO struct {
	Stage    string   `json:"stage"`
	Degraded []string `json:"degraded"`
}

// toRequest adapts the wire request into the orchestrator's input type.
func toRequest(body RequestBody) orchestrator.Request {
	req := orchestrator.Request{
		UserQuery: body.UserQuery,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		SessionID: body.SessionID,
		Variant:   retrieval.Variant(body.Variant),
	}
	if body.UserProfile != nil {
		req.Profile = toUserProfile(*body.UserProfile, body.Latitude, body.Longitude)
	}
	return req
}

func toUserProfile(p ProfileDTO, lat, lon *float64) domain.UserProfile {
	profile := domain.UserProfile{
		UserID:       p.UserID,
		Telco:        domain.Telco(p.Telco),
		Cards:        p.Cards,
		Memberships:  p.Memberships,
		Affiliations: p.Affiliations,
		Categories:   p.Categories,
	}
	if lat != nil && lon != nil {
		profile.Coords = &domain.Coordinates{Lat: *lat, Lon: *lon}
	}
	return profile
}

// toResponseBody adapts the orchestrator's result into the wire response.
func toResponseBody(result orchestrator.Result) ResponseBody {
	degraded := result.Degraded
	if degraded == nil {
		degraded = []string{}
	}
	return ResponseBody{
		Success: result.Success,
		Message: result.Message,
		Merchants: MerchantsDTO{
			ByDiscount: toRankedEntryDTOs(result.ByDiscount),
			ByDistance: toRankedEntryDTOs(result.ByDistance),
		},
		Retrieval: RetrievalDTO{
			TopK:           toScoredDocDTOs(result.TopK),
			LLMContext:     result.LLMContext,
			FallbackAnswer: result.FallbackAnswer,
		},
		Diagnostics: DiagnosticsDTO{
			Stage:    result.Stage,
			Degraded: degraded,
		},
	}
}

func toRankedEntryDTOs(entries []domain.RankedEntry) []RankedEntryDTO {
	out := make([]RankedEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, RankedEntryDTO{
			StoreID:        e.StoreID,
			Name:           e.Name,
			DistanceMeters: e.DistanceMeters,
			Rank:           e.Rank,
			AllBenefits:    toDiscountDTOs(e.AllBenefits),
		})
	}
	return out
}

func toDiscountDTOs(programs []domain.DiscountProgram) []DiscountDTO {
	out := make([]DiscountDTO, 0, len(programs))
	for _, d := range programs {
		out = append(out, DiscountDTO{
			DiscountID:   d.DiscountID,
			DiscountName: d.DiscountName,
			ProviderType: string(d.ProviderType),
			ProviderName: d.ProviderName,
			Applicable:   d.AppliedByUserProfile,
			IsDiscount:   d.IsDiscount,
		})
	}
	return out
}

func toScoredDocDTOs(docs []retrieval.ScoredDocument) []ScoredDocDTO {
	out := make([]ScoredDocDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, ScoredDocDTO{
			StoreID: d.Document.StoreID,
			Name:    d.Document.Name,
			Score:   d.Score,
			Text:    d.Document.Text,
		})
	}
	return out
}
