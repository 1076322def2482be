package retrieval

import "sort"

const defaultTopK = 3

// Variant selects an ablation configuration at construction time (§4.8).
// The variant never changes the Builder's contract, only its internal
// scorer/formatter wiring.
type Variant string

const (
	VariantBaseline  Variant = "baseline"
	VariantNoRerank  Variant = "no_rerank"
	VariantNoContext Variant = "no_context"
)

// Result is C7's output for one query against one session.
type Result struct {
	TotalDocuments int
	Results        []ScoredDocument
	LLMContext     string
	FallbackAnswer string
}

// Builder is the retrieval context builder (C7).
type Builder struct {
	arena     *sessionArena
	scorer    Scorer
	formatter ContextFormatter
	topK      int
}

// New constructs a Builder for the given ablation variant. An unrecognized
// variant falls back to baseline rather than erroring, since the variant is
// an internal evaluation knob, never caller-facing input.
func New(variant Variant) *Builder {
	b := &Builder{
		arena:     newSessionArena(),
		scorer:    CosineRankBonusScorer{},
		formatter: DefaultContextFormatter{},
		topK:      defaultTopK,
	}
	switch variant {
	case VariantNoRerank:
		b.scorer = RawCosineScorer{}
	case VariantNoContext:
		b.formatter = StubContextFormatter{}
	}
	return b
}

// WithEmbeddingBlend wraps the Builder's scorer with an additive, capped
// semantic-similarity term (§4.7 "Domain-stack enrichment"). Construction
// order matters: call this after New so the ablation variant's scorer is
// what gets wrapped.
func (b *Builder) WithEmbeddingBlend(blend EmbeddingScorer) {
	b.scorer = &blendedScorer{base: b.scorer, blend: blend}
}

// IndexSession composes and stores documents for sessionID, replacing any
// prior content for that session.
func (b *Builder) IndexSession(sessionID string, inputs []DocumentInput) {
	docs := make([]Document, 0, len(inputs))
	for i, in := range inputs {
		docs = append(docs, BuildDocument(sessionID, i, in))
	}
	b.arena.store(sessionID, docs)
}

// ClearSession discards a session's documents.
func (b *Builder) ClearSession(sessionID string) {
	b.arena.clear(sessionID)
}

// Process scores the session's documents against query and builds both
// outputs (§4.7 "Outputs").
func (b *Builder) Process(sessionID, query string, profile *ProfileSummary) Result {
	docs := b.arena.get(sessionID)
	queryTokens := tokenize(query)

	if blend, ok := b.scorer.(*blendedScorer); ok {
		blend.setQueryText(query)
	}

	scored := make([]ScoredDocument, 0, len(docs))
	for _, doc := range docs {
		scored = append(scored, ScoredDocument{
			Document: doc,
			Score:    round4(b.scorer.Score(queryTokens, doc)),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > b.topK {
		scored = scored[:b.topK]
	}

	return Result{
		TotalDocuments: len(docs),
		Results:        scored,
		LLMContext:     b.formatter.BuildLLMContext(query, profile, scored),
		FallbackAnswer: b.formatter.BuildFallbackAnswer(query, profile, scored),
	}
}
