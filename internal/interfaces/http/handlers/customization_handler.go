package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/interfaces/http/response"
)

type customizationService interface {
	Load(ctx context.Context, storeID uuid.UUID) *entities.Customization
	Refresh(ctx context.Context, storeID uuid.UUID) *entities.Customization
	Save(ctx context.Context, storeID uuid.UUID, input *entities.CustomizationInput) (*entities.Customization, error)
}

type CustomizationHandler struct {
	loader customizationService
}

func NewCustomizationHandler(loader customizationService) *CustomizationHandler {
	return &CustomizationHandler{loader: loader}
}

// GetCustomization returns the branding the storefront would render.
// GET /api/v1/admin/stores/:id/customization
func (h *CustomizationHandler) GetCustomization(c *gin.Context) {
	id, ok := parseStoreID(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.loader.Load(c.Request.Context(), id))
}

// UpdateCustomization stores an operator edit of the store branding.
// PUT /api/v1/admin/stores/:id/customization
func (h *CustomizationHandler) UpdateCustomization(c *gin.Context) {
	id, ok := parseStoreID(c)
	if !ok {
		return
	}
	var input entities.CustomizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	saved, err := h.loader.Save(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, saved)
}

// RefreshCustomization drops the cached branding and reloads it.
// POST /api/v1/admin/stores/:id/customization/refresh
func (h *CustomizationHandler) RefreshCustomization(c *gin.Context) {
	id, ok := parseStoreID(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.loader.Refresh(c.Request.Context(), id))
}
