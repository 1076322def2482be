package retrieval

import (
	"strings"
	"testing"
)

func distVal(v float64) *float64 { return &v }

func TestBuildDocumentComposesTemplate(t *testing.T) {
	doc := BuildDocument("sess1", 0, DocumentInput{
		StoreID:        "store-a",
		Name:           "카페A",
		Category:       "카페",
		Address:        "서울 중구 충무로",
		DistanceMeters: distVal(120),
		DiscountRank:   1,
		DistanceRank:   2,
		RepresentativeBenefit: &RepresentativeBenefit{Name: "신한카드 20% 할인", Rate: 20},
		Reviews: []Review{
			{Author: "user1", Content: "분위기가 좋아요", Rating: 4.5},
		},
	})

	want := []string{
		"카페A (카페)",
		"주소: 서울 중구 충무로",
		"현재 위치에서 120m 거리",
		"할인 우선순위 1위",
		"거리 우선순위 2위",
		"신한카드 20% 할인 혜택 20%",
		"user1 (4.5★) 후기: 분위기가 좋아요",
	}
	for _, substr := range want {
		if !strings.Contains(doc.Text, substr) {
			t.Fatalf("expected document text to contain %q, got:\n%s", substr, doc.Text)
		}
	}
	if doc.ID != "sess1_store-a_0" {
		t.Fatalf("unexpected doc id: %s", doc.ID)
	}
}

func TestReviewSnippetTruncatesTo150Runes(t *testing.T) {
	longContent := strings.Repeat("가", 200)
	doc := BuildDocument("s", 0, DocumentInput{
		Name: "매장", Category: "카페",
		Reviews: []Review{{Author: "a", Content: longContent}},
	})
	if !strings.Contains(doc.Text, "...") {
		t.Fatal("expected truncation ellipsis in review snippet")
	}
}

func TestScorerRankBonus(t *testing.T) {
	doc := Document{Tokens: map[string]int{"카페": 1}, DiscountRank: 1, DistanceRank: 2}
	queryTokens := map[string]int{"카페": 1}

	scorer := CosineRankBonusScorer{}
	got := scorer.Score(queryTokens, doc)
	// cosine(카페,카페)=1.0, bonus = 0.15/1 + 0.10/2 = 0.20 -> total 1.20
	want := 1.20
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected score %v, got %v", want, got)
	}
}

func TestRawCosineScorerHasNoBonus(t *testing.T) {
	doc := Document{Tokens: map[string]int{"카페": 1}, DiscountRank: 1, DistanceRank: 1}
	queryTokens := map[string]int{"카페": 1}
	got := RawCosineScorer{}.Score(queryTokens, doc)
	if got != 1.0 {
		t.Fatalf("expected raw cosine of identical single-token docs to be 1.0, got %v", got)
	}
}

func TestBuilderProcessTopKAndOrdering(t *testing.T) {
	b := New(VariantBaseline)
	b.IndexSession("s1", []DocumentInput{
		{StoreID: "a", Name: "스타벅스 동국대점", Category: "카페", DistanceMeters: distVal(120), DiscountRank: 1},
		{StoreID: "b", Name: "탐앤탐스 충무로점", Category: "카페", DistanceMeters: distVal(260), DistanceRank: 1},
		{StoreID: "c", Name: "무관한 식당", Category: "한식"},
	})

	result := b.Process("s1", "충무로 카페 추천", nil)
	if result.TotalDocuments != 3 {
		t.Fatalf("expected 3 indexed documents, got %d", result.TotalDocuments)
	}
	if len(result.Results) == 0 {
		t.Fatal("expected at least one scored result")
	}
	if result.LLMContext == "" || result.FallbackAnswer == "" {
		t.Fatal("expected non-empty context and fallback answer")
	}
}

func TestBuilderNoRerankVariantSkipsBonus(t *testing.T) {
	b := New(VariantNoRerank)
	b.IndexSession("s1", []DocumentInput{
		{StoreID: "a", Name: "카페A", Category: "카페", DiscountRank: 1},
	})
	result := b.Process("s1", "카페A", nil)
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
	// doc tokens: 카페a, 카페, 할인, 우선순위, 1위 -> cosine 1/sqrt(5) = 0.4472; no +0.15 bonus
	if got := result.Results[0].Score; got != 0.4472 {
		t.Fatalf("expected raw cosine 0.4472 with no rank bonus, got %v", got)
	}
}

func TestBuilderNoContextVariantStubsContext(t *testing.T) {
	b := New(VariantNoContext)
	b.IndexSession("s1", []DocumentInput{{StoreID: "a", Name: "카페A", Category: "카페"}})
	result := b.Process("s1", "카페A", nil)
	if !strings.Contains(result.LLMContext, "컨텍스트 생략") {
		t.Fatalf("expected stub context marker, got: %s", result.LLMContext)
	}
}

func TestBuilderClearSessionEmptiesResults(t *testing.T) {
	b := New(VariantBaseline)
	b.IndexSession("s1", []DocumentInput{{StoreID: "a", Name: "카페A", Category: "카페"}})
	b.ClearSession("s1")
	result := b.Process("s1", "카페A", nil)
	if result.TotalDocuments != 0 {
		t.Fatalf("expected 0 documents after clearing session, got %d", result.TotalDocuments)
	}
}

func TestEmptySessionReturnsNoResultsNotError(t *testing.T) {
	b := New(VariantBaseline)
	result := b.Process("unknown-session", "query", nil)
	if len(result.Results) != 0 {
		t.Fatalf("expected no results for unindexed session, got %d", len(result.Results))
	}
	if result.FallbackAnswer == "" {
		t.Fatal("expected a fallback answer even when no documents are indexed")
	}
}
