package geocoder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"portal_final_backend/internal/domain"
	"portal_final_backend/internal/filter"
	"portal_final_backend/platform/config"
	"portal_final_backend/platform/logger"
)

// Service resolves a location phrase to coordinates via a two-step chain:
// direct forward geocoding, then (on a miss) a place search whose first
// result's address is geocoded. It never returns an error to the caller;
// any failure along the chain resolves to the supplied fallback (§4.2).
type Service struct {
	client       *http.Client
	geocodeURL   string
	searchURL    string
	apiKeyID     string
	apiKeySecret string
	log          *logger.Logger
}

func NewService(cfg config.GeocoderConfig, log *logger.Logger) *Service {
	return &Service{
		client:       &http.Client{Timeout: cfg.GetGeocoderTimeout()},
		geocodeURL:   cfg.GetGeocoderBaseURL(),
		searchURL:    cfg.GetGeocoderSearchBaseURL(),
		apiKeyID:     cfg.GetGeocoderAPIKeyID(),
		apiKeySecret: cfg.GetGeocoderAPIKeySecret(),
		log:          log,
	}
}

// Resolve turns phrase into coordinates, falling back to fallback on any
// miss. Relative phrases ("이 근처", "여기") bypass geocoding entirely and
// return the fallback immediately, matching the reference behavior that
// treats "here" phrases as unresolvable by a map provider.
func (s *Service) Resolve(ctx context.Context, phrase string, fallback domain.Coordinates) domain.Coordinates {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return fallback
	}
	if filter.IsRelativeLocation(phrase) {
		s.log.Debug("geocoder: relative location phrase, using fallback", "phrase", phrase)
		return fallback
	}

	if res := s.forwardGeocode(ctx, phrase); res.ok {
		s.log.Debug("geocoder: forward geocode hit", "phrase", phrase)
		return res.coords
	}

	if res := s.geocodeViaSearch(ctx, phrase); res.ok {
		s.log.Debug("geocoder: search-then-geocode hit", "phrase", phrase)
		return res.coords
	}

	s.log.Warn("geocoder: no coordinates resolved, using fallback", "phrase", phrase)
	return fallback
}

// forwardGeocode tries the map provider's geocoding endpoint directly on the
// raw phrase.
func (s *Service) forwardGeocode(ctx context.Context, phrase string) resolution {
	if s.apiKeyID == "" || s.apiKeySecret == "" {
		return resolution{}
	}

	params := url.Values{}
	params.Set("query", phrase)
	reqURL := s.geocodeURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return resolution{}
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", s.apiKeyID)
	req.Header.Set("X-NCP-APIGW-API-KEY", s.apiKeySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("geocoder: forward geocode request failed", "error", err)
		return resolution{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resolution{}
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return resolution{}
	}
	if len(payload.Addresses) == 0 {
		return resolution{}
	}

	return parseLatLon(payload.Addresses[0].Y, payload.Addresses[0].X)
}

// geocodeViaSearch issues a place search for phrase and geocodes the first
// result's road address, mirroring the reference implementation's two-step
// fallback (search API result -> geocode that address).
func (s *Service) geocodeViaSearch(ctx context.Context, phrase string) resolution {
	if s.apiKeyID == "" || s.apiKeySecret == "" || s.searchURL == "" {
		return resolution{}
	}

	params := url.Values{}
	params.Set("query", phrase)
	params.Set("display", "5")
	reqURL := s.searchURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return resolution{}
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", s.apiKeyID)
	req.Header.Set("X-NCP-APIGW-API-KEY", s.apiKeySecret)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Debug("geocoder: place search request failed", "error", err)
		return resolution{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resolution{}
	}

	var payload placeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return resolution{}
	}

	for _, item := range payload.Items {
		address := item.RoadAddress
		if address == "" {
			address = item.Address
		}
		if address == "" {
			continue
		}
		if res := s.forwardGeocode(ctx, address); res.ok {
			return res
		}
	}

	return resolution{}
}

func parseLatLon(latStr, lonStr string) resolution {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return resolution{}
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return resolution{}
	}
	return resolution{coords: domain.Coordinates{Lat: lat, Lon: lon}, ok: true}
}
