package maps

import (
	"net/http"

	"ava_assistant/platform/httpkit"
	"ava_assistant/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes place search and map rendering.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Search handles GET /api/v1/maps/search?q=...
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, MsgEmptyLocation, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, MsgEmptyLocation, err.Error())
		return
	}

	matches, err := h.svc.Search(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, matches)
}

// Render handles GET /api/v1/maps/render?lat=..&lon=..&label=..&satellite=..
func (h *Handler) Render(c *gin.Context) {
	match, req, ok := bindCoordinates(c)
	if !ok {
		return
	}

	view, err := h.svc.Render(match, req.Satellite)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(view.HTML))
}

// ShareQR handles GET /api/v1/maps/share.png?lat=..&lon=..
func (h *Handler) ShareQR(c *gin.Context) {
	match, _, ok := bindCoordinates(c)
	if !ok {
		return
	}

	png, err := h.svc.ShareQR(match)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func bindCoordinates(c *gin.Context) (LocationMatch, RenderRequest, bool) {
	var req RenderRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'lat' and 'lon' are required numbers", nil)
		return LocationMatch{}, req, false
	}
	return LocationMatch{Address: req.Label, Latitude: *req.Lat, Longitude: *req.Lon}, req, true
}
