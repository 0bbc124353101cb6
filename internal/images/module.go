package images

import (
	apphttp "ava_assistant/internal/http"
	"ava_assistant/platform/logger"
)

// Module wires the image display adapter.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(maxBytes int64, log *logger.Logger) *Module {
	svc := NewService(maxBytes, log)
	return &Module{service: svc, handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "images"
}

func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/images/preview", ctx.RateLimit, m.handler.Preview)
}

var _ apphttp.Module = (*Module)(nil)
