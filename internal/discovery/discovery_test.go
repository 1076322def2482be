package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portal_final_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

func TestNormalizePlaceTypeMatjipMapsToEumsikjeom(t *testing.T) {
	if got := normalizePlaceType("맛집"); got != "음식점" {
		t.Fatalf("expected 음식점, got %q", got)
	}
}

func TestNormalizePlaceTypeStripsJipSuffix(t *testing.T) {
	if got := normalizePlaceType("고깃집"); got != "고깃" {
		t.Fatalf("expected 고깃, got %q", got)
	}
}

func TestNormalizePlaceTypePassesThroughOtherwise(t *testing.T) {
	if got := normalizePlaceType("카페"); got != "카페" {
		t.Fatalf("expected 카페 unchanged, got %q", got)
	}
}

func TestOfflineProviderFiltersByPlaceType(t *testing.T) {
	p := NewOfflineProvider(10, 3)
	result, err := p.Discover(context.Background(), Query{PlaceType: "카페"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("expected success")
	}
	if len(result.Merchants) != 10 {
		t.Fatalf("expected all 10 fixture cafes to match 카페, got %d", len(result.Merchants))
	}
	for _, m := range result.Merchants {
		if len(m.Reviews) > 3 {
			t.Fatalf("expected reviews capped at 3, got %d for %s", len(m.Reviews), m.Name)
		}
	}
}

func TestOfflineProviderNoMatchReturnsUnsuccessful(t *testing.T) {
	p := NewOfflineProvider(10, 3)
	result, err := p.Discover(context.Background(), Query{PlaceType: "중식"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Fatal("expected no Chinese restaurants in the café fixture")
	}
}

func TestSampleWithoutReplacementReturnsAllWhenUnderLimit(t *testing.T) {
	candidates := []rawCandidate{{ProviderID: "a"}, {ProviderID: "b"}}
	got := sampleWithoutReplacement(candidates, 5, 1)
	if len(got) != 2 {
		t.Fatalf("expected all candidates returned, got %d", len(got))
	}
}

func TestSampleWithoutReplacementCapsAndIsDeterministicPerSeed(t *testing.T) {
	var candidates []rawCandidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, rawCandidate{ProviderID: string(rune('a' + i))})
	}
	a := sampleWithoutReplacement(candidates, 5, 42)
	b := sampleWithoutReplacement(candidates, 5, 42)
	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("expected 5 sampled, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ProviderID != b[i].ProviderID {
			t.Fatalf("expected same seed to produce same sample order")
		}
	}
}

func TestHTTPProviderFetchesCandidatesAndReviews(t *testing.T) {
	places := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/reviews") {
			_ = json.NewEncoder(w).Encode(map[string]any{"reviews": []string{"맛있어요", "또 올게요", "친절해요", "넘침"}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"id": "1", "name": "카페A", "category": "카페", "distanceMeters": 100},
				{"id": "2", "name": "식당B", "category": "한식", "distanceMeters": 200},
			},
			"hasMore": false,
		})
	}))
	defer places.Close()

	p := NewHTTPProvider(stubDiscoveryConfig{baseURL: places.URL, sampleSize: 10, reviewCount: 3, maxPages: 2}, 4, 1, testLogger())
	result, err := p.Discover(context.Background(), Query{PlaceType: "카페"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || len(result.Merchants) != 1 {
		t.Fatalf("expected 1 café merchant after category filter, got %+v", result)
	}
	if len(result.Merchants[0].Reviews) != 3 {
		t.Fatalf("expected reviews capped at 3, got %d", len(result.Merchants[0].Reviews))
	}
}

type stubDiscoveryConfig struct {
	baseURL     string
	sampleSize  int
	reviewCount int
	maxPages    int
}

func (c stubDiscoveryConfig) GetDiscoveryProvider() string { return "http" }
func (c stubDiscoveryConfig) GetDiscoveryBaseURL() string  { return c.baseURL }
func (c stubDiscoveryConfig) GetDiscoveryAPIKey() string   { return "" }
func (c stubDiscoveryConfig) GetDiscoverySampleSize() int  { return c.sampleSize }
func (c stubDiscoveryConfig) GetDiscoveryReviewCount() int { return c.reviewCount }
func (c stubDiscoveryConfig) GetDiscoveryMaxPages() int    { return c.maxPages }
