package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	catalogservice "portal_final_backend/internal/catalog/service"
	"portal_final_backend/internal/discovery"
	"portal_final_backend/internal/domain"
	"portal_final_backend/internal/filter"
	"portal_final_backend/internal/geocoder"
	"portal_final_backend/internal/llm"
	"portal_final_backend/internal/ranker"
	"portal_final_backend/internal/retrieval"
	"portal_final_backend/platform/apperr"
	"portal_final_backend/platform/config"
	"portal_final_backend/platform/logger"

	"github.com/google/uuid"
)

// llmCallTimeout bounds the optional keyword-extraction and answer-
// generation calls. Neither stage is named in §4.8's per-stage timeout
// table since both have a deterministic fallback and are never required
// for the pipeline to reach ANSWERED; this is a generous ceiling, not a
// tuned budget.
const llmCallTimeout = 8 * time.Second

// Pipeline is the C8 orchestrator: one constructed Pipeline serves
// concurrent requests, since every per-request mutable state (the
// retrieval session arena, the profile being enriched) is built fresh
// inside Run.
type Pipeline struct {
	geo        *geocoder.Service
	discover   discovery.Provider
	resolver   *catalogservice.Resolver
	embedding  retrieval.EmbeddingScorer
	keywordLLM *llm.KeywordExtractor
	answerLLM  *llm.AnswerGenerator
	cfg        config.PipelineConfig
	log        *logger.Logger
}

// New builds a Pipeline from its required collaborators. The optional
// ones (embedding blend, LLM keyword extraction, LLM answer generation)
// are attached with the With* methods.
func New(geo *geocoder.Service, discover discovery.Provider, resolver *catalogservice.Resolver, cfg config.PipelineConfig, log *logger.Logger) *Pipeline {
	return &Pipeline{geo: geo, discover: discover, resolver: resolver, cfg: cfg, log: log}
}

func (p *Pipeline) WithEmbedding(scorer retrieval.EmbeddingScorer) *Pipeline {
	p.embedding = scorer
	return p
}

func (p *Pipeline) WithKeywordExtractor(e *llm.KeywordExtractor) *Pipeline {
	p.keywordLLM = e
	return p
}

func (p *Pipeline) WithAnswerGenerator(g *llm.AnswerGenerator) *Pipeline {
	p.answerLLM = g
	return p
}

// Run drives one request through C1-C7 plus the optional answer
// generator, with the fan-outs of §4.8/§5 and the geocode, discovery and
// discount-resolve timeouts (ranking and context build run without one).
// It never returns an error: every failure short of a validation
// rejection degrades the affected stage and continues.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	var degraded []string

	validation, err := filter.Validate(req.UserQuery, req.Profile)
	if err != nil {
		if p.log != nil {
			p.log.PipelineStage(string(StageRejected), false, "reason", errMessage(err))
		}
		return Result{Success: false, Message: errMessage(err), Stage: string(StageRejected)}
	}

	keywords := p.extractKeywords(ctx, validation.FilteredQuery, &degraded)

	coords := initialCoords(req, validation.Profile)
	enrichedProfile := validation.Profile

	fanOut1, gctx1 := errgroup.WithContext(ctx)
	fanOut1.Go(func() error {
		if keywords.Location == "" || p.geo == nil {
			return nil
		}
		geoCtx, cancel := context.WithTimeout(gctx1, p.cfg.GetGeocodeTimeout())
		defer cancel()
		coords = p.geo.Resolve(geoCtx, keywords.Location, coords)
		return nil
	})
	fanOut1.Go(func() error {
		enrichedProfile = EnrichProfile(enrichedProfile)
		return nil
	})
	_ = fanOut1.Wait()

	discoverCtx, cancel := context.WithTimeout(ctx, p.cfg.GetDiscoveryTimeout())
	discResult, discErr := p.discover.Discover(discoverCtx, discovery.Query{
		Lat:        coords.Lat,
		Lon:        coords.Lon,
		PlaceType:  keywords.PlaceType,
		Attributes: keywords.Attributes,
	})
	cancel()
	if discErr != nil || !discResult.Success {
		degraded = append(degraded, "discovery")
		discResult = discovery.Result{}
	}

	merchantNames := make([]string, len(discResult.Merchants))
	for i, m := range discResult.Merchants {
		merchantNames[i] = m.Name
	}

	var resolveResults []catalogservice.MerchantResult
	var distancePrecompute []domain.RankedEntry
	fanOut2, gctx2 := errgroup.WithContext(ctx)
	fanOut2.Go(func() error {
		resolveCtx, cancel := context.WithTimeout(gctx2, p.cfg.GetDiscountTimeout())
		defer cancel()
		resolveResults = p.resolver.Resolve(resolveCtx, enrichedProfile, merchantNames)
		return nil
	})
	fanOut2.Go(func() error {
		// Distance order needs no discount data (§4.8), so it runs
		// alongside C4's I/O-bound resolve call; AllBenefits gets filled
		// in from the resolved discounts once both finish.
		inputs := make([]ranker.MerchantInput, len(discResult.Merchants))
		for i, m := range discResult.Merchants {
			inputs[i] = ranker.MerchantInput{StoreID: m.StoreID, Name: m.Name, DistanceMeters: m.DistanceMeters}
		}
		distancePrecompute = ranker.BuildByDistance(inputs)
		return nil
	})
	_ = fanOut2.Wait()

	for _, r := range resolveResults {
		if r.Err != nil {
			degraded = append(degraded, "discount_resolve")
			break
		}
	}

	merged := mergeMerchantInputs(discResult.Merchants, resolveResults)
	byDiscount := ranker.BuildPersonalized(merged, p.cfg.GetReferenceOrderAmount())
	byDistance := attachDiscounts(distancePrecompute, merged)

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	variant := req.Variant
	if variant == "" {
		variant = retrieval.VariantBaseline
	}

	builder := retrieval.New(variant)
	if p.embedding != nil {
		builder.WithEmbeddingBlend(p.embedding)
	}

	discountRank := rankByStoreID(byDiscount)
	distanceRank := rankByStoreID(byDistance)
	reasons := reasonByName(resolveResults)

	docs := make([]retrieval.DocumentInput, 0, len(discResult.Merchants))
	for _, m := range discResult.Merchants {
		docs = append(docs, retrieval.MerchantFromDomain(
			m,
			discountRank[m.StoreID],
			distanceRank[m.StoreID],
			representativeBenefit(merged, m.StoreID),
			reasons[m.Name],
		))
	}
	builder.IndexSession(sessionID, docs)

	// Process is pure CPU (§5: C5/C6/C7 do not suspend) and takes no
	// context. No deadline is applied to the ranking or context-build
	// steps: GetRankingTimeout and GetContextTimeout are not read by Run.
	contextResult := builder.Process(sessionID, validation.FilteredQuery, retrieval.SummarizeProfile(enrichedProfile))

	answer := contextResult.FallbackAnswer
	if p.answerLLM != nil {
		answerCtx, cancel := context.WithTimeout(ctx, llmCallTimeout)
		generated, err := p.answerLLM.Generate(answerCtx, req.UserQuery, contextResult.LLMContext, keywords)
		cancel()
		if err == nil {
			answer = generated
		} else {
			degraded = append(degraded, "answer_generation")
		}
	}

	stage := StageAnswered
	if len(degraded) > 0 {
		stage = StageDegraded
	}
	if p.log != nil {
		p.log.PipelineStage(string(stage), len(degraded) > 0, "degraded_stages", degraded)
	}

	return Result{
		Success:        true,
		ByDiscount:     byDiscount,
		ByDistance:     byDistance,
		TopK:           contextResult.Results,
		LLMContext:     contextResult.LLMContext,
		FallbackAnswer: answer,
		Stage:          string(stage),
		Degraded:       degraded,
	}
}

func (p *Pipeline) extractKeywords(ctx context.Context, query string, degraded *[]string) domain.ExtractedKeywords {
	if p.keywordLLM != nil {
		llmCtx, cancel := context.WithTimeout(ctx, llmCallTimeout)
		kw, err := p.keywordLLM.Extract(llmCtx, query)
		cancel()
		if err == nil {
			return kw
		}
		*degraded = append(*degraded, "keyword_extraction")
	}
	return filter.ExtractKeywords(query)
}

func initialCoords(req Request, profile domain.UserProfile) domain.Coordinates {
	if req.Latitude != nil && req.Longitude != nil {
		return domain.Coordinates{Lat: *req.Latitude, Lon: *req.Longitude}
	}
	if profile.Coords != nil {
		return *profile.Coords
	}
	return domain.Coordinates{}
}

func mergeMerchantInputs(merchants []domain.Merchant, results []catalogservice.MerchantResult) []ranker.MerchantInput {
	discountsByName := make(map[string][]domain.DiscountProgram, len(results))
	for _, r := range results {
		discountsByName[r.MerchantName] = r.Discounts
	}

	inputs := make([]ranker.MerchantInput, 0, len(merchants))
	for _, m := range merchants {
		inputs = append(inputs, ranker.MerchantInput{
			StoreID:        m.StoreID,
			Name:           m.Name,
			DistanceMeters: m.DistanceMeters,
			Discounts:      discountsByName[m.Name],
		})
	}
	return inputs
}

// attachDiscounts overwrites each precomputed distance entry's AllBenefits
// with the now-resolved discount list for its store, leaving order and
// rank untouched.
func attachDiscounts(entries []domain.RankedEntry, merged []ranker.MerchantInput) []domain.RankedEntry {
	discountsByID := make(map[string][]domain.DiscountProgram, len(merged))
	for _, m := range merged {
		discountsByID[m.StoreID] = m.Discounts
	}
	out := make([]domain.RankedEntry, len(entries))
	for i, e := range entries {
		e.AllBenefits = discountsByID[e.StoreID]
		out[i] = e
	}
	return out
}

func rankByStoreID(entries []domain.RankedEntry) map[string]int {
	ranks := make(map[string]int, len(entries))
	for _, e := range entries {
		ranks[e.StoreID] = e.Rank
	}
	return ranks
}

func reasonByName(results []catalogservice.MerchantResult) map[string]string {
	reasons := make(map[string]string, len(results))
	for _, r := range results {
		if r.Reason != "" {
			reasons[r.MerchantName] = r.Reason
		}
	}
	return reasons
}

// representativeBenefit picks the highest-percentage applicable discount
// for a merchant as the document's headline benefit, if any. Non-percent
// shapes (AMOUNT, PER_UNIT) are still eligible but carry no rate to
// compare on, so a percent-shaped benefit always wins when one exists.
func representativeBenefit(merchants []ranker.MerchantInput, storeID string) *retrieval.RepresentativeBenefit {
	var best *domain.DiscountProgram
	var bestRate float64 = -1
	for _, m := range merchants {
		if m.StoreID != storeID {
			continue
		}
		for i, d := range m.Discounts {
			if !d.AppliedByUserProfile || !d.IsDiscount {
				continue
			}
			if best == nil {
				best = &m.Discounts[i]
			}
			if d.Shape.Kind == domain.ShapePercent && d.Shape.Percent > bestRate {
				bestRate = d.Shape.Percent
				best = &m.Discounts[i]
			}
		}
	}
	if best == nil {
		return nil
	}
	return &retrieval.RepresentativeBenefit{Name: best.DiscountName, Rate: best.Shape.Percent}
}

func errMessage(err error) string {
	if ae, ok := err.(*apperr.Error); ok {
		return ae.Message
	}
	return err.Error()
}
