package ui

import (
	apphttp "ava_assistant/internal/http"
)

// Module serves the assistant page at the site root.
type Module struct {
	handler *Handler
}

func NewModule(handler *Handler) *Module {
	return &Module{handler: handler}
}

func (m *Module) Name() string {
	return "ui"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/", m.handler.Index)

	actions := ctx.Engine.Group("/", ctx.RateLimit)
	actions.POST("/ask", m.handler.Ask)
	actions.POST("/speak", m.handler.Speak)
	actions.POST("/image", m.handler.Image)
	actions.POST("/locations/search", m.handler.Search)
	actions.POST("/locations/select", m.handler.Select)
}

var _ apphttp.Module = (*Module)(nil)
