package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portal_final_backend/internal/catalog/repository"
	catalogservice "portal_final_backend/internal/catalog/service"
	"portal_final_backend/internal/discovery"
	"portal_final_backend/internal/domain"
	"portal_final_backend/internal/orchestrator"
)

type stubPipelineConfig struct{}

func (stubPipelineConfig) GetGeocodeTimeout() time.Duration   { return 2 * time.Second }
func (stubPipelineConfig) GetDiscoveryTimeout() time.Duration { return 15 * time.Second }
func (stubPipelineConfig) GetDiscountTimeout() time.Duration  { return 5 * time.Second }
func (stubPipelineConfig) GetRankingTimeout() time.Duration   { return 500 * time.Millisecond }
func (stubPipelineConfig) GetContextTimeout() time.Duration   { return 500 * time.Millisecond }
func (stubPipelineConfig) GetReviewFetchConcurrency() int     { return 4 }
func (stubPipelineConfig) GetReferenceOrderAmount() int64     { return 12000 }

// emptyDiscovery never finds any merchants, mirroring a provider with no
// matches rather than a provider failure.
type emptyDiscovery struct{}

func (emptyDiscovery) Discover(_ context.Context, _ discovery.Query) (discovery.Result, error) {
	return discovery.Result{Success: true, Message: "no merchants found"}, nil
}

func newTestPipeline() *orchestrator.Pipeline {
	repo := repository.NewMemory()
	resolver := catalogservice.New(repo, nil)
	return orchestrator.New(nil, emptyDiscovery{}, resolver, stubPipelineConfig{}, nil)
}

func TestRecommendHandlerReturnsRejectionAsSuccessFalse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/recommendations", NewHandler(newTestPipeline()).Recommend)

	body, _ := json.Marshal(RequestBody{UserQuery: "비트코인 투자 어때?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Fatal("expected success=false for a rejected query")
	}
	if resp.Diagnostics.Stage != "REJECTED" {
		t.Fatalf("expected REJECTED stage, got %q", resp.Diagnostics.Stage)
	}
}

func TestRecommendHandlerRejectsMissingUserQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/recommendations", NewHandler(newTestPipeline()).Recommend)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing userQuery, got %d", rec.Code)
	}
}

func TestRecommendHandlerOnNoMerchantsFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/recommendations", NewHandler(newTestPipeline()).Recommend)

	body, _ := json.Marshal(RequestBody{UserQuery: "이 근처 조용한 카페 추천해줘"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp ResponseBody
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success=true even when no merchants matched")
	}
	if len(resp.Merchants.ByDiscount) != 0 || len(resp.Merchants.ByDistance) != 0 {
		t.Fatalf("expected no ranked merchants, got %+v", resp.Merchants)
	}
	if resp.Retrieval.FallbackAnswer == "" {
		t.Fatal("expected a non-empty fallback answer for the empty-merchant-set case")
	}
	if resp.Diagnostics.Degraded == nil {
		t.Fatal("expected degraded to be an empty slice, not null, in the JSON response")
	}
}

func TestToResponseBodyNilDegradedBecomesEmptySlice(t *testing.T) {
	body := toResponseBody(orchestrator.Result{Success: true, Stage: "ANSWERED"})
	if body.Diagnostics.Degraded == nil {
		t.Fatal("expected a non-nil (possibly empty) degraded slice for JSON stability")
	}
}

func TestToUserProfileAttachesCoordsWhenBothPresent(t *testing.T) {
	lat, lon := 37.5, 127.0
	profile := toUserProfile(ProfileDTO{Telco: "SKT"}, &lat, &lon)
	if profile.Coords == nil || profile.Coords.Lat != lat || profile.Coords.Lon != lon {
		t.Fatalf("expected coords to be attached, got %+v", profile.Coords)
	}
	if profile.Telco != domain.Telco("SKT") {
		t.Fatalf("expected telco SKT, got %q", profile.Telco)
	}
}
