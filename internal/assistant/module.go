package assistant

import (
	apphttp "ava_assistant/internal/http"
	"ava_assistant/platform/logger"
	"ava_assistant/platform/metrics"
	"ava_assistant/platform/validator"

	"google.golang.org/adk/model"
)

// Module wires the language backend client and its HTTP routes.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(llm model.LLM, val *validator.Validator, log *logger.Logger, rec metrics.Recorder) *Module {
	svc := NewService(llm, log, rec)
	return &Module{
		service: svc,
		handler: NewHandler(svc, val),
	}
}

func (m *Module) Name() string {
	return "assistant"
}

// Service exposes the client to the page orchestrator and the speech module.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/assistant")
	group.POST("/ask", ctx.RateLimit, m.handler.Ask)
}

var _ apphttp.Module = (*Module)(nil)
