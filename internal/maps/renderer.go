package maps

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/skip2/go-qrcode"
	"gopkg.in/yaml.v3"
)

// Tile layer names.
const (
	TilesStandard  = "standard"
	TilesSatellite = "satellite"
)

//go:embed templates/map.html.tmpl templates/tiles.yaml
var templateFS embed.FS

// TileLayer describes one slippy-map tile source.
type TileLayer struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Attribution string `yaml:"attribution"`
	MaxZoom     int    `yaml:"max_zoom"`
}

// Renderer produces self-contained Leaflet documents. Output depends only on
// its inputs, so identical calls yield identical bytes.
type Renderer struct {
	zoom  int
	tiles map[string]TileLayer
	page  *template.Template
}

type mapPage struct {
	Lat   float64
	Lon   float64
	Zoom  int
	Label string
	Tiles TileLayer
}

func NewRenderer(zoom int) (*Renderer, error) {
	raw, err := templateFS.ReadFile("templates/tiles.yaml")
	if err != nil {
		return nil, err
	}
	tiles := make(map[string]TileLayer)
	if err := yaml.Unmarshal(raw, &tiles); err != nil {
		return nil, fmt.Errorf("parse tile presets: %w", err)
	}
	for _, name := range []string{TilesStandard, TilesSatellite} {
		if tiles[name].URL == "" {
			return nil, fmt.Errorf("tile preset %q is missing", name)
		}
	}

	page, err := template.ParseFS(templateFS, "templates/map.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse map template: %w", err)
	}

	return &Renderer{zoom: zoom, tiles: tiles, page: page}, nil
}

// Render returns a map centred on the coordinate with one labelled marker.
// Coordinates are passed through unchecked.
func (r *Renderer) Render(lat, lon float64, label string, satellite bool) (string, error) {
	layer := r.tiles[TilesStandard]
	if satellite {
		layer = r.tiles[TilesSatellite]
	}

	var buf bytes.Buffer
	err := r.page.Execute(&buf, mapPage{
		Lat:   lat,
		Lon:   lon,
		Zoom:  r.zoom,
		Label: label,
		Tiles: layer,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ShareLink is the openstreetmap.org permalink for a coordinate.
func (r *Renderer) ShareLink(lat, lon float64) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.5f&mlon=%.5f#map=%d/%.5f/%.5f", lat, lon, r.zoom, lat, lon)
}

// ShareQR encodes ShareLink as a 256px PNG.
func (r *Renderer) ShareQR(lat, lon float64) ([]byte, error) {
	return qrcode.Encode(r.ShareLink(lat, lon), qrcode.Medium, 256)
}
