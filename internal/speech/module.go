package speech

import (
	apphttp "ava_assistant/internal/http"
	"ava_assistant/platform/validator"
)

// Module exposes the speech input and output adapters.
type Module struct {
	listener *Listener
	speaker  *Speaker
	handler  *Handler
}

func NewModule(listener *Listener, speaker *Speaker, val *validator.Validator) *Module {
	return &Module{
		listener: listener,
		speaker:  speaker,
		handler:  NewHandler(listener, speaker, val),
	}
}

func (m *Module) Name() string {
	return "speech"
}

func (m *Module) Listener() *Listener {
	return m.listener
}

func (m *Module) Speaker() *Speaker {
	return m.speaker
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/speech")
	group.POST("/listen", ctx.RateLimit, m.handler.Listen)
	group.POST("/speak", ctx.RateLimit, m.handler.Speak)
}

var _ apphttp.Module = (*Module)(nil)
