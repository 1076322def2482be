package orchestrator

import "portal_final_backend/internal/domain"

// EnrichProfile normalizes telco and membership spellings onto their
// canonical forms (domain.NormalizeTelco/NormalizeMembership, shared with
// C1's profile-shape check so both stages agree on what counts as valid).
// This is the "profile enrichment" step the orchestrator runs concurrently
// with C2 after FILTERED (§4.8); it is pure and always succeeds, so it
// never contributes to diagnostics.degraded.
func EnrichProfile(p domain.UserProfile) domain.UserProfile {
	p.Telco = domain.NormalizeTelco(p.Telco)
	if len(p.Memberships) > 0 {
		memberships := make([]string, len(p.Memberships))
		for i, m := range p.Memberships {
			memberships[i] = domain.NormalizeMembership(m)
		}
		p.Memberships = memberships
	}
	return p
}
