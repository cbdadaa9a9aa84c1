package service

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"labelscan/pkg/config"

	"go.uber.org/zap"
)

// GeoService resolves GPS coordinates into a human-readable address via the
// Nominatim reverse geocoding API. Lookups are best-effort: every failure is
// logged and reported as an empty address, never as an error.
type GeoService struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewGeoService(cfg *config.GeocoderConfig, logger *zap.Logger) *GeoService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GeoService{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ReverseGeocode returns the address for the given coordinates, or an empty
// string when the lookup fails or the coordinates are not usable numbers.
func (s *GeoService) ReverseGeocode(ctx context.Context, latitude, longitude float64) string {
	if !validCoordinate(latitude) || !validCoordinate(longitude) {
		s.logger.Warn("Invalid GPS coordinates",
			zap.Float64("latitude", latitude),
			zap.Float64("longitude", longitude),
		)
		return ""
	}

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))

	reqURL := s.baseURL + "/reverse?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		s.logger.Error("Failed to create reverse geocoding request", zap.Error(err))
		return ""
	}

	req.Header.Set("Accept", "application/json")
	// Nominatim usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Error during reverse geocoding", zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.logger.Error("Reverse geocoding request failed",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)),
		)
		return ""
	}

	var geoResp struct {
		DisplayName string `json:"display_name"`
		Error       string `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		s.logger.Error("Failed to decode reverse geocoding response", zap.Error(err))
		return ""
	}

	if geoResp.Error != "" {
		s.logger.Error("Reverse geocoding service error", zap.String("error", geoResp.Error))
		return ""
	}

	if geoResp.DisplayName == "" {
		s.logger.Warn("Reverse geocoding returned no address",
			zap.Float64("latitude", latitude),
			zap.Float64("longitude", longitude),
		)
		return ""
	}

	s.logger.Info("Reverse geocoding completed",
		zap.String("address", geoResp.DisplayName),
	)
	return geoResp.DisplayName
}

func validCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatCoordinate renders a coordinate the way it appears in prompt text.
func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
