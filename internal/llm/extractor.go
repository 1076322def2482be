package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"portal_final_backend/internal/domain"
)

// KeywordExtractor is the optional LLM-backed classifier tried before C1's
// rule-based ExtractKeywords fallback. Mirrors the reference implementation's
// "_extract_with_gemini, fall back to _extract_with_rules on any failure or
// missing place_type" contract, swapped onto the Moonshot/Kimi model this
// codebase already uses for its other agents.
type KeywordExtractor struct {
	agent *textAgent
}

func NewKeywordExtractor(apiKey, baseURL, model string) (*KeywordExtractor, error) {
	a, err := newTextAgent(apiKey, baseURL, model, "KeywordExtractor",
		"Extracts place-type, attribute, and location keywords from a Korean F&B request.",
		"You extract structured keywords from short Korean restaurant/café requests. "+
			"Respond with a single JSON object and nothing else.")
	if err != nil {
		return nil, err
	}
	return &KeywordExtractor{agent: a}, nil
}

var jsonObjectPattern = regexp.MustCompile(`\{[^{}]*"place_type"[^{}]*\}`)

// Extract returns the model's classification. An error, or a response with
// no place_type, is the caller's signal to fall back to filter.ExtractKeywords.
func (e *KeywordExtractor) Extract(ctx context.Context, query string) (domain.ExtractedKeywords, error) {
	prompt := fmt.Sprintf(`다음 질문에서 키워드를 추출하세요:
"%s"

응답 형식 (JSON만):
{"attributes": ["형용사1"], "place_type": "장소", "location": "지역"}
`, query)

	text, err := e.agent.run(ctx, prompt)
	if err != nil {
		return domain.ExtractedKeywords{}, err
	}

	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return domain.ExtractedKeywords{}, fmt.Errorf("llm: keyword extractor returned no parseable JSON")
	}

	var parsed struct {
		Attributes []string `json:"attributes"`
		PlaceType  *string  `json:"place_type"`
		Location   *string  `json:"location"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return domain.ExtractedKeywords{}, fmt.Errorf("llm: decode keyword extractor response: %w", err)
	}
	if parsed.PlaceType == nil || *parsed.PlaceType == "" {
		return domain.ExtractedKeywords{}, fmt.Errorf("llm: keyword extractor returned no place_type")
	}

	kw := domain.ExtractedKeywords{PlaceType: *parsed.PlaceType, Attributes: parsed.Attributes}
	if parsed.Location != nil {
		kw.Location = *parsed.Location
	}
	return kw, nil
}
