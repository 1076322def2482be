package retrieval

import (
	"fmt"
	"strings"

	"portal_final_backend/internal/domain"
)

// ProfileSummary is the subset of a user profile surfaced in the LLM
// context block (§4.7 "Outputs"); only populated fields are rendered.
type ProfileSummary struct {
	Telco       string
	Cards       []string
	Memberships []string
}

// ContextFormatter renders the LLM-ready context and the deterministic
// fallback answer from the top-K scored documents. The default
// implementation follows §4.7's templates; the no_context ablation variant
// emits a stub.
type ContextFormatter interface {
	BuildLLMContext(query string, profile *ProfileSummary, results []ScoredDocument) string
	BuildFallbackAnswer(query string, profile *ProfileSummary, results []ScoredDocument) string
}

// DefaultContextFormatter implements the §4.7 templates verbatim.
type DefaultContextFormatter struct{}

func (DefaultContextFormatter) BuildLLMContext(query string, profile *ProfileSummary, results []ScoredDocument) string {
	if len(results) == 0 {
		return fmt.Sprintf("사용자 요청: %s\n검색된 매장이 없습니다.", query)
	}

	lines := []string{
		"You are a location-based F&B recommender.",
		fmt.Sprintf("사용자 요청: %s", query),
	}

	if profile != nil {
		var profileLines []string
		if profile.Telco != "" {
			profileLines = append(profileLines, fmt.Sprintf("- 통신사: %s", profile.Telco))
		}
		if len(profile.Cards) > 0 {
			profileLines = append(profileLines, fmt.Sprintf("- 카드: %s", strings.Join(profile.Cards, ", ")))
		}
		if len(profile.Memberships) > 0 {
			profileLines = append(profileLines, fmt.Sprintf("- 멤버십: %s", strings.Join(profile.Memberships, ", ")))
		}
		if len(profileLines) > 0 {
			lines = append(lines, "사용자 프로필:")
			lines = append(lines, profileLines...)
		}
	}

	lines = append(lines, "", "Candidates:")
	for i, r := range results {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, candidateLine(r.Document)))
	}

	lines = append(lines, "", "지침: 위 후보만을 근거로 답변하세요. 후보에 없는 정보는 추측하지 마세요.")

	return strings.Join(lines, "\n")
}

func (DefaultContextFormatter) BuildFallbackAnswer(query string, profile *ProfileSummary, results []ScoredDocument) string {
	if len(results) == 0 {
		return fmt.Sprintf("'%s'에 대한 추천 정보를 찾지 못했습니다. 다른 위치나 조건으로 다시 요청해 주세요.", query)
	}

	lines := []string{fmt.Sprintf("%s에 대한 추천 결과입니다:", query)}
	for i, r := range results {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, candidateLine(r.Document)))
	}
	if profile != nil {
		lines = append(lines, "사용자 프로필에 맞는 혜택 순으로 정렬했습니다.")
	}
	return strings.Join(lines, "\n")
}

func candidateLine(doc Document) string {
	distance := "N/A"
	if doc.DistanceMeters != nil {
		distance = fmt.Sprintf("%g", *doc.DistanceMeters)
	}
	highlight := doc.ReviewHighlight
	return fmt.Sprintf("%s – 거리 %sm. %s", doc.Name, distance, highlight)
}

// StubContextFormatter implements the no_context ablation variant: it skips
// template assembly entirely and reports only the candidate count.
type StubContextFormatter struct{}

func (StubContextFormatter) BuildLLMContext(query string, _ *ProfileSummary, results []ScoredDocument) string {
	return fmt.Sprintf("사용자 요청: %s\n컨텍스트 생략 (ablation; 후보 %d개)", query, len(results))
}

func (StubContextFormatter) BuildFallbackAnswer(query string, _ *ProfileSummary, results []ScoredDocument) string {
	return fmt.Sprintf("사용자 요청: %s\n컨텍스트 생략 (ablation; 후보 %d개)", query, len(results))
}

// SummarizeProfile adapts a domain.UserProfile into the context-builder's
// narrower ProfileSummary, returning nil when nothing is worth rendering.
func SummarizeProfile(p domain.UserProfile) *ProfileSummary {
	if string(p.Telco) == "" && len(p.Cards) == 0 && len(p.Memberships) == 0 {
		return nil
	}
	return &ProfileSummary{Telco: string(p.Telco), Cards: p.Cards, Memberships: p.Memberships}
}
