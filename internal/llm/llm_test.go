package llm

import (
	"testing"

	"portal_final_backend/internal/domain"
)

func TestFormatKeywordsEmptyReturnsEmptyString(t *testing.T) {
	if got := formatKeywords(domain.ExtractedKeywords{}); got != "" {
		t.Fatalf("expected empty string for empty keywords, got %q", got)
	}
}

func TestFormatKeywordsRendersTemplate(t *testing.T) {
	got := formatKeywords(domain.ExtractedKeywords{
		PlaceType:  "카페",
		Attributes: []string{"분위기좋은", "조용한"},
		Location:   "충무로",
	})
	want := "\n키워드: 장소=카페, 속성=분위기좋은, 조용한, 지역=충무로"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONObjectPatternExtractsPlaceTypeObject(t *testing.T) {
	text := `잠시만요... {"attributes": ["조용한"], "place_type": "카페", "location": "충무로"} 입니다.`
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		t.Fatal("expected a JSON object match")
	}
	if match != `{"attributes": ["조용한"], "place_type": "카페", "location": "충무로"}` {
		t.Fatalf("unexpected match: %s", match)
	}
}

func TestJSONObjectPatternNoMatchWithoutPlaceType(t *testing.T) {
	text := `{"attributes": ["조용한"], "location": "충무로"}`
	if match := jsonObjectPattern.FindString(text); match != "" {
		t.Fatalf("expected no match, got %q", match)
	}
}
