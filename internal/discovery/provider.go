package discovery

import (
	"portal_final_backend/platform/config"
	"portal_final_backend/platform/logger"
)

// New builds the configured Provider: "http" wires a live map-provider
// client, anything else (including the "offline" default) serves the
// embedded fixture, matching the reference implementation's degraded-mode
// fallback when no provider credentials are available.
func New(cfg config.DiscoveryConfig, reviewConcurrency int, rngSeed int64, log *logger.Logger) Provider {
	if cfg.GetDiscoveryProvider() == "http" && cfg.GetDiscoveryBaseURL() != "" {
		return NewHTTPProvider(cfg, reviewConcurrency, rngSeed, log)
	}
	return NewOfflineProvider(cfg.GetDiscoverySampleSize(), cfg.GetDiscoveryReviewCount())
}
