package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ava_assistant/platform/config"
	"ava_assistant/platform/logger"

	"golang.org/x/time/rate"
)

// Geocoder resolves a free-text place name to candidate locations.
type Geocoder interface {
	Geocode(ctx context.Context, place string) ([]LocationMatch, error)
}

// NominatimGeocoder queries an OpenStreetMap Nominatim search endpoint.
// Outbound calls are paced to respect the service usage policy.
type NominatimGeocoder struct {
	client    *http.Client
	endpoint  string
	userAgent string
	limit     int
	limiter   *rate.Limiter
	log       *logger.Logger
}

func NewNominatimGeocoder(cfg config.GeocodingConfig, log *logger.Logger) *NominatimGeocoder {
	limit := cfg.GetGeocoderLimit()
	if limit <= 0 || limit > config.MaxGeocoderLimit {
		limit = config.MaxGeocoderLimit
	}
	return &NominatimGeocoder{
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  cfg.GetNominatimURL(),
		userAgent: cfg.GetGeocoderUserAgent(),
		limit:     limit,
		limiter:   rate.NewLimiter(rate.Limit(cfg.GetGeocoderRate()), 1),
		log:       log.WithComponent("maps.geocoder"),
	}
}

// Geocode returns at most the configured number of matches in remote order.
// Records with unparsable coordinates are skipped.
func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) ([]LocationMatch, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim pacing: %w", err)
	}

	params := url.Values{}
	params.Add("q", place)
	params.Add("format", "jsonv2")
	params.Add("limit", strconv.Itoa(g.limit))

	reqURL := fmt.Sprintf("%s?%s", g.endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim upstream error: %d", resp.StatusCode)
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		return nil, fmt.Errorf("decode nominatim payload: %w", err)
	}

	matches := make([]LocationMatch, 0, min(len(rawResults), g.limit))
	for _, raw := range rawResults {
		match, ok := buildMatch(raw)
		if !ok {
			g.log.WithContext(ctx).Debug("skipping nominatim record", "display_name", raw.DisplayName, "lat", raw.Lat, "lon", raw.Lon)
			continue
		}
		matches = append(matches, match)
		if len(matches) == g.limit {
			break
		}
	}

	return matches, nil
}

func buildMatch(raw nominatimResponse) (LocationMatch, bool) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return LocationMatch{}, false
	}
	lon, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return LocationMatch{}, false
	}
	return LocationMatch{Address: raw.DisplayName, Latitude: lat, Longitude: lon}, true
}

var _ Geocoder = (*NominatimGeocoder)(nil)
