package maps

import (
	apphttp "ava_assistant/internal/http"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
	"ava_assistant/platform/validator"
)

// Module wires the geocoding client, the map renderer and their HTTP routes.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(geocoder Geocoder, renderer *Renderer, val *validator.Validator, log *logger.Logger, rec metrics.Recorder) *Module {
	svc := NewService(geocoder, renderer, log, rec)
	return &Module{
		service: svc,
		handler: NewHandler(svc, val),
	}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	group.GET("/search", ctx.RateLimit, m.handler.Search)
	group.GET("/render", m.handler.Render)
	group.GET("/share.png", m.handler.ShareQR)
}

var _ apphttp.Module = (*Module)(nil)
