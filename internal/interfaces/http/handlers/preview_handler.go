package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"orbit.backend/internal/devpreview"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/interfaces/http/response"
)

// PreviewHandler points developers at the local template dev server
type PreviewHandler struct{}

func NewPreviewHandler() *PreviewHandler {
	return &PreviewHandler{}
}

// Resolve picks the preview port and URL for the given hints.
// GET /dev/preview?templateName=&category=&industry=&subdomain=
func (h *PreviewHandler) Resolve(c *gin.Context) {
	var signals devpreview.Signals
	if err := c.ShouldBindQuery(&signals); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	response.Success(c, http.StatusOK, devpreview.Resolve(signals))
}
