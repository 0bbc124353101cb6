package assistant

import (
	"net/http"

	"ava_assistant/platform/httpkit"
	"ava_assistant/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler exposes the language backend over JSON.
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Ask handles POST /api/v1/assistant/ask
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgEmptyQuery, err.Error())
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, answer)
}
