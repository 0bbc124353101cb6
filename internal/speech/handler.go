package speech

import (
	"net/http"

	"ava_assistant/platform/httpkit"
	"ava_assistant/platform/validator"

	"github.com/gin-gonic/gin"
)

// SpeakRequest is the JSON body of POST /api/v1/speech/speak.
type SpeakRequest struct {
	Text string `json:"text" validate:"required,notblank,max=8000"`
}

// ListenResponse carries the recognized phrase.
type ListenResponse struct {
	Text string `json:"text"`
}

type Handler struct {
	listener *Listener
	speaker  *Speaker
	val      *validator.Validator
}

func NewHandler(listener *Listener, speaker *Speaker, val *validator.Validator) *Handler {
	return &Handler{listener: listener, speaker: speaker, val: val}
}

// Listen handles POST /api/v1/speech/listen
func (h *Handler) Listen(c *gin.Context) {
	text, err := h.listener.Listen(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, ListenResponse{Text: text})
}

// Speak handles POST /api/v1/speech/speak
func (h *Handler) Speak(c *gin.Context) {
	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "text is required", err.Error())
		return
	}

	if httpkit.HandleError(c, h.speaker.Speak(c.Request.Context(), req.Text)) {
		return
	}
	httpkit.NoContent(c)
}
