// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeocoderConfig provides settings for the location-phrase geocoder (C2).
type GeocoderConfig interface {
	GetGeocoderBaseURL() string
	GetGeocoderSearchBaseURL() string
	GetGeocoderAPIKeyID() string
	GetGeocoderAPIKeySecret() string
	GetGeocoderTimeout() time.Duration
}

// CatalogConfig provides settings for the discount catalog store (C4).
type CatalogConfig interface {
	DatabaseConfig
	GetCatalogBackend() string // "postgres", "remote", or "memory"
	GetCatalogPoolSize() int32
	GetDiscountAPIURL() string
	GetDiscountAPIKey() string
}

// DiscoveryConfig provides settings for the merchant discovery provider (C3).
type DiscoveryConfig interface {
	GetDiscoveryProvider() string // "http" or "offline"
	GetDiscoveryBaseURL() string
	GetDiscoveryAPIKey() string
	GetDiscoverySampleSize() int
	GetDiscoveryReviewCount() int
	GetDiscoveryMaxPages() int
}

// LLMConfig provides settings for the optional LLM collaborators (keyword
// extraction and answer generation).
type LLMConfig interface {
	GetLLMEnabled() bool
	GetMoonshotAPIKey() string
	GetMoonshotBaseURL() string
	GetMoonshotModel() string
}

// PipelineConfig provides the per-stage timeouts and concurrency caps used
// by the orchestrator (C8) and the evaluator's reference order amount (C5).
type PipelineConfig interface {
	GetGeocodeTimeout() time.Duration
	GetDiscoveryTimeout() time.Duration
	GetDiscountTimeout() time.Duration
	GetRankingTimeout() time.Duration
	GetContextTimeout() time.Duration
	GetReviewFetchConcurrency() int
	GetReferenceOrderAmount() int64
}

// QdrantConfig provides settings for the optional Qdrant vector search
// enrichment of the retrieval context builder (C7).
type QdrantConfig interface {
	GetQdrantURL() string
	GetQdrantAPIKey() string
	GetQdrantCollection() string
	IsQdrantEnabled() bool
}

// EmbeddingConfig provides settings for the optional embedding client used
// to blend a semantic score into C7's ranking.
type EmbeddingConfig interface {
	GetEmbeddingAPIURL() string
	GetEmbeddingAPIKey() string
	IsEmbeddingEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env         string
	HTTPAddr    string
	DatabaseURL string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	GeocoderBaseURL       string
	GeocoderSearchBaseURL string
	GeocoderAPIKeyID      string
	GeocoderAPIKeySecret  string
	GeocoderTimeout       time.Duration

	CatalogBackend  string
	CatalogPoolSize int32
	DiscountAPIURL  string
	DiscountAPIKey  string

	DiscoveryProvider    string
	DiscoveryBaseURL     string
	DiscoveryAPIKey      string
	DiscoverySampleSize  int
	DiscoveryReviewCount int
	DiscoveryMaxPages    int

	LLMEnabled      bool
	MoonshotAPIKey  string
	MoonshotBaseURL string
	MoonshotModel   string

	GeocodeTimeout         time.Duration
	DiscoveryTimeout       time.Duration
	DiscountTimeout        time.Duration
	RankingTimeout         time.Duration
	ContextTimeout         time.Duration
	ReviewFetchConcurrency int
	ReferenceOrderAmount   int64

	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	EmbeddingAPIURL string
	EmbeddingAPIKey string
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetGeocoderBaseURL() string         { return c.GeocoderBaseURL }
func (c *Config) GetGeocoderSearchBaseURL() string   { return c.GeocoderSearchBaseURL }
func (c *Config) GetGeocoderAPIKeyID() string        { return c.GeocoderAPIKeyID }
func (c *Config) GetGeocoderAPIKeySecret() string    { return c.GeocoderAPIKeySecret }
func (c *Config) GetGeocoderTimeout() time.Duration  { return c.GeocoderTimeout }

func (c *Config) GetCatalogBackend() string   { return c.CatalogBackend }
func (c *Config) GetCatalogPoolSize() int32   { return c.CatalogPoolSize }
func (c *Config) GetDiscountAPIURL() string   { return c.DiscountAPIURL }
func (c *Config) GetDiscountAPIKey() string   { return c.DiscountAPIKey }

func (c *Config) GetDiscoveryProvider() string    { return c.DiscoveryProvider }
func (c *Config) GetDiscoveryBaseURL() string     { return c.DiscoveryBaseURL }
func (c *Config) GetDiscoveryAPIKey() string      { return c.DiscoveryAPIKey }
func (c *Config) GetDiscoverySampleSize() int      { return c.DiscoverySampleSize }
func (c *Config) GetDiscoveryReviewCount() int     { return c.DiscoveryReviewCount }
func (c *Config) GetDiscoveryMaxPages() int        { return c.DiscoveryMaxPages }

func (c *Config) GetLLMEnabled() bool       { return c.LLMEnabled }
func (c *Config) GetMoonshotAPIKey() string { return c.MoonshotAPIKey }
func (c *Config) GetMoonshotBaseURL() string { return c.MoonshotBaseURL }
func (c *Config) GetMoonshotModel() string  { return c.MoonshotModel }

func (c *Config) GetGeocodeTimeout() time.Duration   { return c.GeocodeTimeout }
func (c *Config) GetDiscoveryTimeout() time.Duration { return c.DiscoveryTimeout }
func (c *Config) GetDiscountTimeout() time.Duration  { return c.DiscountTimeout }
func (c *Config) GetRankingTimeout() time.Duration   { return c.RankingTimeout }
func (c *Config) GetContextTimeout() time.Duration   { return c.ContextTimeout }
func (c *Config) GetReviewFetchConcurrency() int     { return c.ReviewFetchConcurrency }
func (c *Config) GetReferenceOrderAmount() int64      { return c.ReferenceOrderAmount }

func (c *Config) GetQdrantURL() string        { return c.QdrantURL }
func (c *Config) GetQdrantAPIKey() string     { return c.QdrantAPIKey }
func (c *Config) GetQdrantCollection() string { return c.QdrantCollection }
func (c *Config) IsQdrantEnabled() bool {
	return c.QdrantURL != "" && c.QdrantCollection != ""
}

func (c *Config) GetEmbeddingAPIURL() string { return c.EmbeddingAPIURL }
func (c *Config) GetEmbeddingAPIKey() string { return c.EmbeddingAPIKey }
func (c *Config) IsEmbeddingEnabled() bool   { return c.EmbeddingAPIURL != "" }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),

		GeocoderBaseURL:       getEnv("GEOCODER_BASE_URL", "https://naveropenapi.apigw.ntruss.com/map-geocode/v2/geocode"),
		GeocoderSearchBaseURL: getEnv("GEOCODER_SEARCH_BASE_URL", "https://openapi.naver.com/v1/search/local.json"),
		GeocoderAPIKeyID:      getEnv("GEOCODER_API_KEY_ID", ""),
		GeocoderAPIKeySecret:  getEnv("GEOCODER_API_KEY_SECRET", ""),
		GeocoderTimeout:       mustDuration(getEnv("GEOCODER_TIMEOUT", "2s")),

		CatalogBackend:  getEnv("CATALOG_BACKEND", "memory"),
		CatalogPoolSize: int32(mustInt64(getEnv("CATALOG_POOL_SIZE", "5"))),
		DiscountAPIURL:  getEnv("DISCOUNT_API_URL", ""),
		DiscountAPIKey:  getEnv("DISCOUNT_API_KEY", ""),

		DiscoveryProvider:    getEnv("DISCOVERY_PROVIDER", "offline"),
		DiscoveryBaseURL:     getEnv("DISCOVERY_BASE_URL", ""),
		DiscoveryAPIKey:      getEnv("DISCOVERY_API_KEY", ""),
		DiscoverySampleSize:  int(mustInt64(getEnv("DISCOVERY_SAMPLE_SIZE", "10"))),
		DiscoveryReviewCount: int(mustInt64(getEnv("DISCOVERY_REVIEW_COUNT", "3"))),
		DiscoveryMaxPages:    int(mustInt64(getEnv("DISCOVERY_MAX_PAGES", "5"))),

		MoonshotAPIKey:  getEnv("MOONSHOT_API_KEY", ""),
		MoonshotBaseURL: getEnv("MOONSHOT_BASE_URL", ""),
		MoonshotModel:   getEnv("MOONSHOT_MODEL", ""),

		GeocodeTimeout:         mustDuration(getEnv("STAGE_GEOCODE_TIMEOUT", "2s")),
		DiscoveryTimeout:       mustDuration(getEnv("STAGE_DISCOVERY_TIMEOUT", "15s")),
		DiscountTimeout:        mustDuration(getEnv("STAGE_DISCOUNT_TIMEOUT", "5s")),
		RankingTimeout:         mustDuration(getEnv("STAGE_RANKING_TIMEOUT", "500ms")),
		ContextTimeout:         mustDuration(getEnv("STAGE_CONTEXT_TIMEOUT", "500ms")),
		ReviewFetchConcurrency: int(mustInt64(getEnv("REVIEW_FETCH_CONCURRENCY", "4"))),
		ReferenceOrderAmount:   mustInt64(getEnv("REFERENCE_ORDER_AMOUNT", "12000")),

		QdrantURL:        getEnv("QDRANT_URL", ""),
		QdrantAPIKey:     getEnv("QDRANT_API_KEY", ""),
		QdrantCollection: getEnv("QDRANT_COLLECTION", ""),

		EmbeddingAPIURL: getEnv("EMBEDDING_API_URL", ""),
		EmbeddingAPIKey: getEnv("EMBEDDING_API_KEY", ""),
	}

	cfg.LLMEnabled = cfg.MoonshotAPIKey != ""

	if cfg.CatalogBackend == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when CATALOG_BACKEND=postgres")
	}
	if cfg.CatalogBackend == "remote" && cfg.DiscountAPIURL == "" {
		return nil, fmt.Errorf("DISCOUNT_API_URL is required when CATALOG_BACKEND=remote")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
