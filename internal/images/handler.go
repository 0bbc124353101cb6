package images

import (
	"ava_assistant/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Preview handles POST /api/v1/images/preview (multipart field "image")
func (h *Handler) Preview(c *gin.Context) {
	preview, err := h.svc.PreviewRequest(c.Writer, c.Request)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, preview)
}
