package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"ava_assistant/internal/assistant"
	"ava_assistant/internal/images"
	"ava_assistant/internal/maps"
	"ava_assistant/platform/apperr"
	"ava_assistant/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

const (
	msgSomethingWrong    = "Something went wrong. Please try again."
	msgSpeechUnavailable = "The answer could not be read aloud."
	msgBadSelection      = "Please search for a location again."
)

// Assistant answers free-text queries.
type Assistant interface {
	Ask(ctx context.Context, query string) (assistant.Answer, error)
}

// Listener captures one spoken phrase.
type Listener interface {
	Listen(ctx context.Context) (string, error)
}

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Locator finds places and renders maps for them.
type Locator interface {
	Search(ctx context.Context, query string) ([]maps.LocationMatch, error)
	Render(match maps.LocationMatch, satellite bool) (maps.MapView, error)
}

// ImagePreviewer validates uploads for display. It caps the request body
// before parsing the form.
type ImagePreviewer interface {
	PreviewRequest(w http.ResponseWriter, r *http.Request) (images.Preview, error)
}

// Handler renders the page and performs one action per form post.
type Handler struct {
	assistant Assistant
	listener  Listener
	speaker   Speaker
	locator   Locator
	images    ImagePreviewer
	page      *template.Template
	log       *logger.Logger
}

func NewHandler(a Assistant, l Listener, s Speaker, loc Locator, img ImagePreviewer, log *logger.Logger) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &Handler{
		assistant: a,
		listener:  l,
		speaker:   s,
		locator:   loc,
		images:    img,
		page:      page,
		log:       log.WithComponent("ui"),
	}, nil
}

// Index handles GET /
func (h *Handler) Index(c *gin.Context) {
	h.render(c, &Page{State: StateIdle})
}

// Ask handles POST /ask
func (h *Handler) Ask(c *gin.Context) {
	ctx := actionContext(c, "ask")
	page := &Page{State: StateTextSubmitted, Query: c.PostForm("query")}

	answer, err := h.assistant.Ask(ctx, page.Query)
	if err != nil {
		h.fail(ctx, page, err)
	} else {
		page.Answer = answer.Text
	}
	h.render(c, page)
}

// Speak handles POST /speak: listen, answer the phrase, read the answer aloud.
// A recognition failure ends the action without calling the backend.
func (h *Handler) Speak(c *gin.Context) {
	ctx := actionContext(c, "speak")
	page := &Page{State: StateSpeechInvoked}

	heard, err := h.listener.Listen(ctx)
	if err != nil {
		h.fail(ctx, page, err)
		h.render(c, page)
		return
	}
	page.Heard = heard
	page.Query = heard

	answer, err := h.assistant.Ask(ctx, heard)
	if err != nil {
		h.fail(ctx, page, err)
		h.render(c, page)
		return
	}
	page.Answer = answer.Text

	if err := h.speaker.Speak(ctx, answer.Text); err != nil {
		h.log.WithContext(ctx).Warn("speech output failed", "error", err)
		page.Warning = msgSpeechUnavailable
	}
	h.render(c, page)
}

// Image handles POST /image
func (h *Handler) Image(c *gin.Context) {
	ctx := actionContext(c, "image")
	page := &Page{State: StateImageUploaded}

	preview, err := h.images.PreviewRequest(c.Writer, c.Request)
	if err != nil {
		h.fail(ctx, page, err)
	} else {
		page.Image = newImageView(preview)
	}
	h.render(c, page)
}

// Search handles POST /locations/search and shows the first match.
func (h *Handler) Search(c *gin.Context) {
	ctx := actionContext(c, "location-search")
	page := &Page{
		State:     StateLocationSearched,
		Location:  c.PostForm("location"),
		Satellite: formBool(c, "satellite"),
	}

	matches, err := h.locator.Search(ctx, page.Location)
	if err != nil {
		h.fail(ctx, page, err)
		h.render(c, page)
		return
	}

	page.Options = BuildOptions(matches, 0)
	h.showMap(ctx, page, matches[0])
	h.render(c, page)
}

// Select handles POST /locations/select. The chosen token is the k-th
// candidate; the map is rendered for exactly that match.
func (h *Handler) Select(c *gin.Context) {
	ctx := actionContext(c, "location-select")
	page := &Page{
		State:     StateLocationSearched,
		Location:  c.PostForm("location"),
		Satellite: formBool(c, "satellite"),
	}

	choice := c.PostForm("choice")
	candidates := c.PostFormArray("candidate")
	matches := make([]maps.LocationMatch, 0, len(candidates))
	selected := -1
	for i, token := range candidates {
		m, err := DecodeMatch(token)
		if err != nil {
			h.fail(ctx, page, apperr.Wrap(apperr.KindBadRequest, msgBadSelection, err))
			h.render(c, page)
			return
		}
		matches = append(matches, m)
		if token == choice && selected < 0 {
			selected = i
		}
	}
	if selected < 0 {
		h.fail(ctx, page, apperr.BadRequest(msgBadSelection))
		h.render(c, page)
		return
	}

	page.Options = BuildOptions(matches, selected)
	h.showMap(ctx, page, matches[selected])
	h.render(c, page)
}

func (h *Handler) showMap(ctx context.Context, page *Page, match maps.LocationMatch) {
	view, err := h.locator.Render(match, page.Satellite)
	if err != nil {
		h.fail(ctx, page, err)
		return
	}
	page.Map = &MapView{
		Label:    match.Address,
		HTML:     view.HTML,
		ShareURL: shareURL(match),
		Lat:      match.Latitude,
		Lon:      match.Longitude,
	}
}

// fail puts the error on the page. Input problems are warnings.
func (h *Handler) fail(ctx context.Context, page *Page, err error) {
	msg := apperr.Message(err, msgSomethingWrong)
	switch apperr.GetKind(err) {
	case apperr.KindValidation, apperr.KindBadRequest:
		page.Warning = msg
	case apperr.KindUnknown, apperr.KindInternal:
		h.log.WithContext(ctx).Error("action failed", "error", err)
		page.Error = msg
	default:
		h.log.WithContext(ctx).Warn("action failed", "error", err)
		page.Error = msg
	}
}

func (h *Handler) render(c *gin.Context, page *Page) {
	c.Header("Cache-Control", "no-store")
	c.Render(http.StatusOK, render.HTML{Template: h.page, Data: page})
}

func actionContext(c *gin.Context, action string) context.Context {
	return context.WithValue(c.Request.Context(), logger.ActionKey, action)
}

func formBool(c *gin.Context, key string) bool {
	v, _ := strconv.ParseBool(c.PostForm(key))
	return v
}

func shareURL(m maps.LocationMatch) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(m.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(m.Longitude, 'f', -1, 64))
	return "/api/v1/maps/share.png?" + q.Encode()
}
