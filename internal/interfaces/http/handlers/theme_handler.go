package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"orbit.backend/internal/domain/entities"
	"orbit.backend/internal/interfaces/http/response"
	"orbit.backend/internal/usecases"
)

type themeResolver interface {
	Resolve(ctx context.Context, raw string) usecases.ThemeResolution
}

type ThemeHandler struct {
	dispatcher themeResolver
}

func NewThemeHandler(dispatcher themeResolver) *ThemeHandler {
	return &ThemeHandler{dispatcher: dispatcher}
}

// ResolveTheme maps a raw theme identifier to its family. Unknown and empty
// identifiers resolve to GENERAL.
// GET /api/v1/themes/resolve?theme=Electronics-Upfront-3
func (h *ThemeHandler) ResolveTheme(c *gin.Context) {
	res := h.dispatcher.Resolve(c.Request.Context(), c.Query("theme"))
	response.Success(c, http.StatusOK, res)
}

type themeFamilyView struct {
	ThemeFamily entities.ThemeFamily `json:"themeFamily"`
	Aliases     []string             `json:"aliases"`
}

// ListThemeFamilies returns the catalogue with every accepted alias.
// GET /api/v1/themes
func (h *ThemeHandler) ListThemeFamilies(c *gin.Context) {
	aliases := usecases.ThemeAliases()
	items := make([]themeFamilyView, 0, len(entities.ThemeFamilies))
	for _, family := range entities.ThemeFamilies {
		items = append(items, themeFamilyView{ThemeFamily: family, Aliases: aliases[family]})
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}
