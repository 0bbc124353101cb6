package maps

import (
	"context"
	"strings"
	"time"

	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
)

const (
	MsgEmptyLocation   = "Please enter a location to search."
	MsgLocationFailed  = "Location service failed"
	MsgNoMatchingPlace = "No matching location found."
)

// Service searches places and renders maps for them.
type Service struct {
	geocoder Geocoder
	renderer *Renderer
	log      *logger.Logger
	metrics  metrics.Recorder
}

func NewService(geocoder Geocoder, renderer *Renderer, log *logger.Logger, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		geocoder: geocoder,
		renderer: renderer,
		log:      log.WithComponent("maps"),
		metrics:  rec,
	}
}

// Search geocodes a place name. A blank query is rejected without a network
// call; a service failure yields no result at all.
func (s *Service) Search(ctx context.Context, query string) ([]LocationMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation(MsgEmptyLocation).WithOp("maps.Search")
	}

	start := time.Now()
	matches, err := s.geocoder.Geocode(ctx, query)
	elapsed := time.Since(start)

	s.metrics.ObserveUpstream(metrics.ComponentGeocoding, elapsed, err)
	s.log.WithContext(ctx).UpstreamCall("nominatim", elapsed, err)

	if err != nil {
		return nil, apperr.Upstream(MsgLocationFailed, err).WithOp("maps.Search")
	}
	if len(matches) == 0 {
		return nil, apperr.NotFound(MsgNoMatchingPlace).WithOp("maps.Search")
	}

	return matches, nil
}

// Render builds a fresh map view for the match.
func (s *Service) Render(match LocationMatch, satellite bool) (MapView, error) {
	html, err := s.renderer.Render(match.Latitude, match.Longitude, match.Address, satellite)
	if err != nil {
		return MapView{}, apperr.Wrap(apperr.KindInternal, "map could not be rendered", err).WithOp("maps.Render")
	}
	return MapView{Match: match, Satellite: satellite, HTML: html}, nil
}

// ShareQR returns a PNG QR code linking to the match on openstreetmap.org.
func (s *Service) ShareQR(match LocationMatch) ([]byte, error) {
	png, err := s.renderer.ShareQR(match.Latitude, match.Longitude)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "share code could not be generated", err).WithOp("maps.ShareQR")
	}
	return png, nil
}
