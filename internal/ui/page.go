// Package ui serves the single assistant page. Every form post performs one
// action and renders the page again; nothing is kept between requests.
package ui

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"

	"ava_assistant/internal/images"
	"ava_assistant/internal/maps"
)

// State is the action that produced the rendered page.
type State string

const (
	StateIdle             State = "idle"
	StateTextSubmitted    State = "text-submitted"
	StateSpeechInvoked    State = "speech-invoked"
	StateLocationSearched State = "location-searched"
	StateImageUploaded    State = "image-uploaded"
)

// Page is the view model of the assistant page.
type Page struct {
	State State

	Query   string
	Heard   string
	Answer  string
	Warning string
	Error   string

	Image *ImageView

	Location  string
	Satellite bool
	Options   []Option
	Map       *MapView
}

// ImageView is an uploaded image ready for an <img> tag.
type ImageView struct {
	Caption string
	Src     template.URL
	Width   int
	Height  int
}

// MapView is a rendered map embedded through an iframe srcdoc.
type MapView struct {
	Label    string
	HTML     string
	ShareURL string
	Lat      float64
	Lon      float64
}

// Option is one entry of the location selector. Token encodes the match
// itself, so selecting it needs no server-side lookup.
type Option struct {
	Label    string
	Token    string
	Selected bool
}

var errBadToken = errors.New("invalid location token")

// BuildOptions maps matches to selector entries in the same order.
func BuildOptions(matches []maps.LocationMatch, selected int) []Option {
	options := make([]Option, 0, len(matches))
	for i, m := range matches {
		options = append(options, Option{
			Label:    m.Label(),
			Token:    EncodeMatch(m),
			Selected: i == selected,
		})
	}
	return options
}

// EncodeMatch serializes a match into an opaque form value.
func EncodeMatch(m maps.LocationMatch) string {
	raw, _ := json.Marshal(m)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeMatch reverses EncodeMatch.
func DecodeMatch(token string) (maps.LocationMatch, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return maps.LocationMatch{}, errBadToken
	}
	var m maps.LocationMatch
	if err := json.Unmarshal(raw, &m); err != nil {
		return maps.LocationMatch{}, errBadToken
	}
	return m, nil
}

func newImageView(p images.Preview) *ImageView {
	return &ImageView{
		Caption: p.Caption,
		// The service only produces data:image/jpeg and data:image/png URIs.
		Src:    template.URL(p.DataURI),
		Width:  p.Width,
		Height: p.Height,
	}
}
