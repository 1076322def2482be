package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portal_final_backend/platform/ai/embeddings"
	"portal_final_backend/platform/qdrant"
)

func TestQdrantScorerSimilarityUsesSearchScore(t *testing.T) {
	embedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"vector": []float32{1, 0, 0}})
	}))
	defer embedServer.Close()

	var gotFilterValue string
	qdrantServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req qdrant.SearchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Filter != nil && len(req.Filter.Must) > 0 {
			gotFilterValue = req.Filter.Must[0].Match.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(qdrant.SearchResponse{
			Result: []qdrant.SearchResult{{ID: "1", Score: 0.87}},
		})
	}))
	defer qdrantServer.Close()

	embedClient := embeddings.NewClient(embeddings.Config{BaseURL: embedServer.URL})
	qdrantClient := qdrant.NewClient(qdrant.Config{BaseURL: qdrantServer.URL, Collection: "merchants"})
	scorer := NewQdrantScorer(embedClient, qdrantClient)

	score, err := scorer.Similarity(context.Background(), "강남역 카페 할인", "스타벅스 강남점 카페")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.87 {
		t.Fatalf("expected score 0.87, got %v", score)
	}
	if gotFilterValue != "스타벅스 강남점 카페" {
		t.Fatalf("expected the search to be scoped by docText, got filter value %q", gotFilterValue)
	}
}

func TestQdrantScorerNoMatchReturnsZero(t *testing.T) {
	embedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"vector": []float32{1, 0, 0}})
	}))
	defer embedServer.Close()

	qdrantServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(qdrant.SearchResponse{Result: []qdrant.SearchResult{}})
	}))
	defer qdrantServer.Close()

	embedClient := embeddings.NewClient(embeddings.Config{BaseURL: embedServer.URL})
	qdrantClient := qdrant.NewClient(qdrant.Config{BaseURL: qdrantServer.URL, Collection: "merchants"})
	scorer := NewQdrantScorer(embedClient, qdrantClient)

	score, err := scorer.Similarity(context.Background(), "query", "unseen document text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected 0 score on no match, got %v", score)
	}
}
