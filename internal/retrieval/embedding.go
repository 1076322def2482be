package retrieval

import (
	"context"
	"math"
	"sync"
	"time"

	"portal_final_backend/platform/ai/embeddings"
)

// embeddingBlendWeight caps the semantic term's contribution so a wired
// embedding backend nudges ranking rather than overriding the deterministic
// lexical+rank-bonus score. When no backend is wired, Builder never
// constructs a blendedScorer at all, so the unwrapped score is byte-
// identical to the pre-enrichment behavior (§4.7 "Domain-stack enrichment").
const embeddingBlendWeight = 0.2

// EmbeddingScorer computes a semantic similarity in [0,1] between a query
// and a document's text. Failures are the caller's concern to absorb.
type EmbeddingScorer interface {
	Similarity(ctx context.Context, query, docText string) (float64, error)
}

// blendedScorer decorates a base Scorer with a capped semantic term. Any
// embedding failure silently falls back to the base score alone. queryText
// is set once per Process call (Builder.Process knows the raw query string
// that queryTokens was derived from; Scorer itself only sees the token
// multiset).
type blendedScorer struct {
	base      Scorer
	blend     EmbeddingScorer
	queryText string
}

func (s *blendedScorer) setQueryText(text string) {
	s.queryText = text
}

func (s *blendedScorer) Score(queryTokens map[string]int, doc Document) float64 {
	base := s.base.Score(queryTokens, doc)
	if s.blend == nil {
		return base
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	sim, err := s.blend.Similarity(ctx, s.queryText, doc.Text)
	if err != nil {
		return base
	}
	return base + embeddingBlendWeight*sim
}

// EmbeddingClientScorer is an EmbeddingScorer backed by the embeddings
// HTTP client, caching vectors per distinct text within a single process
// run since the same query/document text repeats across scoring calls.
type EmbeddingClientScorer struct {
	client *embeddings.Client

	mu    sync.Mutex
	cache map[string][]float32
}

// NewEmbeddingClientScorer wraps client as an EmbeddingScorer.
func NewEmbeddingClientScorer(client *embeddings.Client) *EmbeddingClientScorer {
	return &EmbeddingClientScorer{client: client, cache: make(map[string][]float32)}
}

func (s *EmbeddingClientScorer) Similarity(ctx context.Context, query, docText string) (float64, error) {
	qVec, err := s.vectorFor(ctx, query)
	if err != nil {
		return 0, err
	}
	dVec, err := s.vectorFor(ctx, docText)
	if err != nil {
		return 0, err
	}
	return cosineFloat32(qVec, dVec), nil
}

func (s *EmbeddingClientScorer) vectorFor(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	if v, ok := s.cache[text]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	v, err := s.client.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[text] = v
	s.mu.Unlock()
	return v, nil
}

func cosineFloat32(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
