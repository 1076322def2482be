package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"portal_final_backend/internal/domain"
	"portal_final_backend/platform/config"
	"portal_final_backend/platform/logger"
)

// HTTPProvider discovers merchants via a live map-provider API: a paginated
// "places around coordinates" endpoint and a per-place review endpoint
// (§4.3 algorithm).
type HTTPProvider struct {
	client             *http.Client
	baseURL            string
	apiKey             string
	sampleSize         int
	reviewCount        int
	maxPages           int
	reviewConcurrency  int
	log                *logger.Logger
	rngSeed            int64
}

// NewHTTPProvider builds a provider from DiscoveryConfig. rngSeed controls
// the uniform-without-replacement sampling step so runs are reproducible in
// tests; production callers should pass a time-derived seed.
func NewHTTPProvider(cfg config.DiscoveryConfig, reviewConcurrency int, rngSeed int64, log *logger.Logger) *HTTPProvider {
	return &HTTPProvider{
		client:            &http.Client{},
		baseURL:           cfg.GetDiscoveryBaseURL(),
		apiKey:            cfg.GetDiscoveryAPIKey(),
		sampleSize:        cfg.GetDiscoverySampleSize(),
		reviewCount:       cfg.GetDiscoveryReviewCount(),
		maxPages:          cfg.GetDiscoveryMaxPages(),
		reviewConcurrency: reviewConcurrency,
		log:               log,
		rngSeed:           rngSeed,
	}
}

func (p *HTTPProvider) Discover(ctx context.Context, q Query) (Result, error) {
	candidates, err := p.fetchCandidates(ctx, q)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return Result{Success: false, Message: "no candidates found"}, nil
	}

	normalized := normalizePlaceType(q.PlaceType)
	filtered := candidates[:0]
	for _, c := range candidates {
		if matchesCategory(normalized, c.Category) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		filtered = candidates
	}

	selected := sampleWithoutReplacement(filtered, p.sampleSize, p.rngSeed)

	merchants := make([]domain.Merchant, len(selected))
	eg, egCtx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxInt(p.reviewConcurrency, 1))
	for i, c := range selected {
		i, c := i, c
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			distance := c.DistanceMeters
			reviews, err := p.fetchReviews(egCtx, c.ProviderID)
			if err != nil {
				p.log.Debug("discovery: review fetch failed, substituting empty list", "store", c.Name, "error", err)
				reviews = nil
			}

			merchants[i] = domain.Merchant{
				StoreID:        c.ProviderID,
				Name:           c.Name,
				Category:       c.Category,
				Address:        c.Address,
				Coords:         &domain.Coordinates{Lat: c.Lat, Lon: c.Lon},
				DistanceMeters: &distance,
				Reviews:        reviews,
			}
			return nil
		})
	}
	// Per-candidate failures never fail the whole call (§4.3 step 4): every
	// goroutine above returns nil, so Wait reports no error here.
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	return Result{Success: true, Merchants: merchants, Source: "http"}, nil
}

func (p *HTTPProvider) fetchCandidates(ctx context.Context, q Query) ([]rawCandidate, error) {
	seen := make(map[string]bool)
	var all []rawCandidate

	page := 1
	for page <= p.maxPages && len(all) < p.sampleSize*3 {
		resp, err := p.fetchPlacesPage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			if seen[item.ProviderID] {
				continue
			}
			seen[item.ProviderID] = true
			all = append(all, item)
		}
		if !resp.HasMore {
			break
		}
		page++
	}

	return all, nil
}

func (p *HTTPProvider) fetchPlacesPage(ctx context.Context, q Query, page int) (placesPage, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	params.Set("page", strconv.Itoa(page))

	reqURL := p.baseURL + "/places?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return placesPage{}, err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return placesPage{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return placesPage{}, fmt.Errorf("discovery: places endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			ID       string  `json:"id"`
			Name     string  `json:"name"`
			Category string  `json:"category"`
			Address  string  `json:"address"`
			Lat      float64 `json:"lat"`
			Lon      float64 `json:"lon"`
			Distance float64 `json:"distanceMeters"`
		} `json:"items"`
		HasMore bool `json:"hasMore"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return placesPage{}, err
	}

	page2 := placesPage{HasMore: payload.HasMore}
	for _, it := range payload.Items {
		page2.Items = append(page2.Items, rawCandidate{
			ProviderID:     it.ID,
			Name:           it.Name,
			Category:       it.Category,
			Address:        it.Address,
			Lat:            it.Lat,
			Lon:            it.Lon,
			DistanceMeters: it.Distance,
		})
	}
	return page2, nil
}

func (p *HTTPProvider) fetchReviews(ctx context.Context, providerID string) ([]string, error) {
	reqURL := p.baseURL + "/places/" + url.PathEscape(providerID) + "/reviews"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discovery: reviews endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Reviews []string `json:"reviews"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Reviews) > p.reviewCount {
		payload.Reviews = payload.Reviews[:p.reviewCount]
	}
	return payload.Reviews, nil
}

// sampleWithoutReplacement returns up to n items from candidates, chosen
// uniformly without replacement. When len(candidates) <= n, all candidates
// are returned unshuffled, since no sampling decision was actually needed.
func sampleWithoutReplacement(candidates []rawCandidate, n int, seed int64) []rawCandidate {
	if n <= 0 || len(candidates) <= n {
		return candidates
	}
	rng := rand.New(rand.NewSource(seed))
	shuffled := make([]rawCandidate, len(candidates))
	copy(shuffled, candidates)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
