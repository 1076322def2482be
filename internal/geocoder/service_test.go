package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portal_final_backend/internal/domain"
	"portal_final_backend/platform/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test")
}

type stubConfig struct {
	geocodeURL string
	searchURL  string
}

func (c stubConfig) GetGeocoderBaseURL() string       { return c.geocodeURL }
func (c stubConfig) GetGeocoderSearchBaseURL() string { return c.searchURL }
func (c stubConfig) GetGeocoderAPIKeyID() string      { return "id" }
func (c stubConfig) GetGeocoderAPIKeySecret() string  { return "secret" }
func (c stubConfig) GetGeocoderTimeout() time.Duration { return time.Second }

func TestResolveForwardGeocodeHit(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geocodeResponse{
			Addresses: []geocodeAddress{{X: "127.0052", Y: "37.5665"}},
		})
	}))
	defer geocode.Close()

	svc := NewService(stubConfig{geocodeURL: geocode.URL}, testLogger())
	got := svc.Resolve(context.Background(), "충무로역", domain.Coordinates{Lat: 1, Lon: 1})

	if got.Lat != 37.5665 || got.Lon != 127.0052 {
		t.Fatalf("expected forward geocode result, got %+v", got)
	}
}

func TestResolveFallsBackToSearchThenGeocode(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		if q == "서울 중구 충무로" {
			_ = json.NewEncoder(w).Encode(geocodeResponse{
				Addresses: []geocodeAddress{{X: "127.01", Y: "37.56"}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(geocodeResponse{})
	}))
	defer geocode.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(placeSearchResponse{
			Items: []placeSearchItem{{RoadAddress: "서울 중구 충무로"}},
		})
	}))
	defer search.Close()

	svc := NewService(stubConfig{geocodeURL: geocode.URL, searchURL: search.URL}, testLogger())
	got := svc.Resolve(context.Background(), "충무로 근처 맛집", domain.Coordinates{Lat: 1, Lon: 1})

	if got.Lat != 37.56 || got.Lon != 127.01 {
		t.Fatalf("expected search-then-geocode result, got %+v", got)
	}
}

func TestResolveReturnsFallbackWhenNothingMatches(t *testing.T) {
	geocode := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geocodeResponse{})
	}))
	defer geocode.Close()

	svc := NewService(stubConfig{geocodeURL: geocode.URL}, testLogger())
	fallback := domain.Coordinates{Lat: 37.1, Lon: 127.1}
	got := svc.Resolve(context.Background(), "알수없는곳어딘가", fallback)

	if got != fallback {
		t.Fatalf("expected fallback %+v, got %+v", fallback, got)
	}
}

func TestResolveRelativePhraseBypassesGeocoding(t *testing.T) {
	svc := NewService(stubConfig{}, testLogger())
	fallback := domain.Coordinates{Lat: 37.2, Lon: 127.2}
	got := svc.Resolve(context.Background(), "이 근처 카페", fallback)

	if got != fallback {
		t.Fatalf("expected relative phrase to short-circuit to fallback, got %+v", got)
	}
}

func TestResolveEmptyPhraseReturnsFallback(t *testing.T) {
	svc := NewService(stubConfig{}, testLogger())
	fallback := domain.Coordinates{Lat: 37.3, Lon: 127.3}
	got := svc.Resolve(context.Background(), "   ", fallback)

	if got != fallback {
		t.Fatalf("expected empty phrase to return fallback, got %+v", got)
	}
}
