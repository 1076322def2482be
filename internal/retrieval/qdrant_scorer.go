package retrieval

import (
	"context"

	"portal_final_backend/platform/ai/embeddings"
	"portal_final_backend/platform/qdrant"
)

// QdrantScorer is an EmbeddingScorer backed by an ANN search against a
// pre-indexed Qdrant collection, rather than a local cosine computation
// over two freshly-embedded vectors. Documents are expected to already
// carry their own "text" payload field in the collection (populated by the
// same external process that seeds the catalog, §6); the scorer embeds the
// query, searches scoped to that document's text, and returns the reported
// similarity.
type QdrantScorer struct {
	embed  *embeddings.Client
	client *qdrant.Client
}

// NewQdrantScorer wires an embeddings client (for query vectors) to a
// Qdrant client (for the ANN search) as a single EmbeddingScorer.
func NewQdrantScorer(embed *embeddings.Client, client *qdrant.Client) *QdrantScorer {
	return &QdrantScorer{embed: embed, client: client}
}

func (s *QdrantScorer) Similarity(ctx context.Context, query, docText string) (float64, error) {
	vec, err := s.embed.Embed(ctx, query)
	if err != nil {
		return 0, err
	}

	results, err := s.client.SearchWithFilter(ctx, vec, 1, 0, qdrant.NewFieldFilter("text", docText))
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Score, nil
}
