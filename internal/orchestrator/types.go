package orchestrator

import (
	"portal_final_backend/internal/domain"
	"portal_final_backend/internal/retrieval"
)

// Request is the pipeline's input, already decoded from the transport
// layer's wire format (§6 REQUEST).
type Request struct {
	UserQuery string
	Profile   domain.UserProfile
	Latitude  *float64
	Longitude *float64
	SessionID string
	Variant   retrieval.Variant
}

// Result is the pipeline's output, mapped onto the wire format (§6
// RESPONSE) by the transport layer.
type Result struct {
	Success        bool
	Message        string
	ByDiscount     []domain.RankedEntry
	ByDistance     []domain.RankedEntry
	TopK           []retrieval.ScoredDocument
	LLMContext     string
	FallbackAnswer string
	Stage          string
	Degraded       []string
}
