package llm

import (
	"context"
	"fmt"
	"strings"

	"portal_final_backend/internal/domain"
)

// AnswerGenerator is the optional LLM collaborator called after
// CONTEXT_BUILT (§4.8): it turns C7's llm_context plus the raw user query
// into the final natural-language answer. On any failure the caller falls
// back to C7's deterministic fallback_answer rather than surfacing an error,
// matching the reference implementation's call_openai_llm error handling
// (every exception there still returns a user-facing string; here the
// equivalent safety net is the orchestrator's fallback_answer).
type AnswerGenerator struct {
	agent *textAgent
}

func NewAnswerGenerator(apiKey, baseURL, model string) (*AnswerGenerator, error) {
	a, err := newTextAgent(apiKey, baseURL, model, "AnswerGenerator",
		"Writes the final recommendation answer from retrieved store context.",
		"You are a location-based F&B recommender. Answer using only the "+
			"provided context; do not invent stores, prices, or discounts not present in it.")
	if err != nil {
		return nil, err
	}
	return &AnswerGenerator{agent: a}, nil
}

// Generate combines llmContext with the extracted keywords (never the raw
// user profile, per §4.7/§4.8's privacy note), followed by the original
// query, into one prompt sent as a single user turn; the agent's fixed
// instruction is the only system-level text.
func (g *AnswerGenerator) Generate(ctx context.Context, userQuery, llmContext string, keywords domain.ExtractedKeywords) (string, error) {
	systemContent := strings.TrimSpace(llmContext)
	if keywordText := formatKeywords(keywords); keywordText != "" {
		systemContent += keywordText
	}
	if systemContent == "" {
		systemContent = "제공된 컨텍스트가 없습니다."
	}

	prompt := fmt.Sprintf("%s\n\n사용자 질문: %s", systemContent, userQuery)
	answer, err := g.agent.run(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("llm: answer generator returned an empty response")
	}
	return answer, nil
}

func formatKeywords(kw domain.ExtractedKeywords) string {
	if kw.PlaceType == "" && len(kw.Attributes) == 0 && kw.Location == "" {
		return ""
	}
	return fmt.Sprintf("\n키워드: 장소=%s, 속성=%s, 지역=%s", kw.PlaceType, strings.Join(kw.Attributes, ", "), kw.Location)
}
