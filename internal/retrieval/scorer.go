package retrieval

import "math"

// ScoredDocument is one ranked search result.
//
// Score is intentionally left unclamped: the rank-bonus terms below are
// additive on top of cosine similarity (itself bounded to [0,1]) and can
// push the total above 1.0 for documents that are both lexically close and
// top-ranked by discount/distance. This mirrors the reference
// implementation, which never caps the combined score either.
type ScoredDocument struct {
	Document Document
	Score    float64
}

// Scorer computes a document's relevance to a query's token multiset. The
// baseline implementation is cosine similarity plus the discount/distance
// rank bonus; the no_rerank ablation variant uses raw cosine only.
type Scorer interface {
	Score(queryTokens map[string]int, doc Document) float64
}

// CosineRankBonusScorer is the default scorer (§4.7 "Scoring").
type CosineRankBonusScorer struct{}

func (CosineRankBonusScorer) Score(queryTokens map[string]int, doc Document) float64 {
	return cosineSimilarity(queryTokens, doc.Tokens) + rankBonus(doc)
}

// RawCosineScorer implements the no_rerank ablation variant: identical
// lexical similarity, no rank bonus.
type RawCosineScorer struct{}

func (RawCosineScorer) Score(queryTokens map[string]int, doc Document) float64 {
	return cosineSimilarity(queryTokens, doc.Tokens)
}

func cosineSimilarity(a, b map[string]int) float64 {
	normA := euclideanNorm(a)
	if normA == 0 {
		return 0
	}
	normB := euclideanNorm(b)
	if normB == 0 {
		return 0
	}
	var dot float64
	for token, countA := range a {
		dot += float64(countA) * float64(b[token])
	}
	return dot / (normA * normB)
}

func euclideanNorm(tokens map[string]int) float64 {
	var sumSquares float64
	for _, count := range tokens {
		sumSquares += float64(count) * float64(count)
	}
	return math.Sqrt(sumSquares)
}

// rankBonus adds +0.15/discountRank and +0.10/distanceRank when those
// ranks are known (§4.7).
func rankBonus(doc Document) float64 {
	var bonus float64
	if doc.DiscountRank > 0 {
		bonus += 0.15 / float64(doc.DiscountRank)
	}
	if doc.DistanceRank > 0 {
		bonus += 0.10 / float64(doc.DistanceRank)
	}
	return bonus
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
