package maps

import (
	"fmt"
	"math"
	"strconv"
)

// LocationMatch is one geocoding candidate, in the order the service returned it.
type LocationMatch struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Label renders the match as "address (lat, lon)" with coordinates rounded to
// four decimals and trailing zeros dropped.
func (m LocationMatch) Label() string {
	return fmt.Sprintf("%s (%s, %s)", m.Address, round4(m.Latitude), round4(m.Longitude))
}

func round4(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

// MapView is a rendered interactive map for one match.
type MapView struct {
	Match     LocationMatch `json:"match"`
	Satellite bool          `json:"satellite"`
	HTML      string        `json:"html"`
}

// SearchRequest represents the query parameters of GET /maps/search.
type SearchRequest struct {
	Query string `form:"q" validate:"required,notblank,max=512"`
}

// RenderRequest represents the query parameters of GET /maps/render and /maps/share.png.
type RenderRequest struct {
	Lat       *float64 `form:"lat" binding:"required"`
	Lon       *float64 `form:"lon" binding:"required"`
	Label     string   `form:"label"`
	Satellite bool     `form:"satellite"`
}

// nominatimResponse mirrors the relevant parts of the OSM search payload.
type nominatimResponse struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}
