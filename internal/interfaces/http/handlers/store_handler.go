package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/interfaces/http/response"
	"orbit.backend/pkg/utils"
)

type lifecycleService interface {
	CreateStore(ctx context.Context, input *entities.CreateStoreInput) (*entities.StoreWithOnboarding, error)
	GetStore(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error)
	ListStores(ctx context.Context, status string, pagination utils.PaginationParams) ([]*entities.Store, int64, error)
	MarkProvisioned(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error)
	AdvanceOnboarding(ctx context.Context, id uuid.UUID, step, completionPercent int) (*entities.StoreWithOnboarding, error)
	BlockOnboarding(ctx context.Context, id uuid.UUID, reason string) (*entities.StoreWithOnboarding, error)
	UnblockOnboarding(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error)
	CompleteOnboarding(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error)
	DeactivateStore(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error)
	ActivateStore(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error)
	GetOnboardingFunnel(ctx context.Context) (*entities.OnboardingFunnel, error)
}

// StoreHandler exposes store signup and the lifecycle operations to operators
type StoreHandler struct {
	lifecycle lifecycleService
}

func NewStoreHandler(lifecycle lifecycleService) *StoreHandler {
	return &StoreHandler{lifecycle: lifecycle}
}

// CreateStore registers a store in PENDING / NOT_STARTED.
// POST /api/v1/admin/stores
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var input entities.CreateStoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.lifecycle.CreateStore(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

// ListStores pages through stores.
// GET /api/v1/admin/stores?status=BLOCKED&page=1&limit=20
func (h *StoreHandler) ListStores(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	pagination := utils.GetPaginationParams(page, limit)

	items, total, err := h.lifecycle.ListStores(c.Request.Context(), c.Query("status"), pagination)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"meta":  utils.CalculateMeta(total, pagination.Page, pagination.Limit),
	})
}

// GetStore returns a store with its onboarding record.
// GET /api/v1/admin/stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	h.withStore(c, h.lifecycle.GetStore)
}

// MarkProvisioned completes provisioning and activates the store.
// POST /api/v1/admin/stores/:id/provision
func (h *StoreHandler) MarkProvisioned(c *gin.Context) {
	h.withStore(c, h.lifecycle.MarkProvisioned)
}

// AdvanceOnboarding records onboarding progress.
// POST /api/v1/admin/stores/:id/onboarding/advance
func (h *StoreHandler) AdvanceOnboarding(c *gin.Context) {
	id, ok := parseStoreID(c)
	if !ok {
		return
	}
	var input entities.AdvanceOnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.lifecycle.AdvanceOnboarding(c.Request.Context(), id, input.Step, input.CompletionPercent)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// BlockOnboarding pauses onboarding on an external signal.
// POST /api/v1/admin/stores/:id/onboarding/block
func (h *StoreHandler) BlockOnboarding(c *gin.Context) {
	id, ok := parseStoreID(c)
	if !ok {
		return
	}
	var input entities.BlockOnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.lifecycle.BlockOnboarding(c.Request.Context(), id, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// POST /api/v1/admin/stores/:id/onboarding/unblock
func (h *StoreHandler) UnblockOnboarding(c *gin.Context) {
	h.withStore(c, h.lifecycle.UnblockOnboarding)
}

// POST /api/v1/admin/stores/:id/onboarding/complete
func (h *StoreHandler) CompleteOnboarding(c *gin.Context) {
	h.withStore(c, h.lifecycle.CompleteOnboarding)
}

// POST /api/v1/admin/stores/:id/deactivate
func (h *StoreHandler) DeactivateStore(c *gin.Context) {
	h.withStore(c, h.lifecycle.DeactivateStore)
}

// POST /api/v1/admin/stores/:id/activate
func (h *StoreHandler) ActivateStore(c *gin.Context) {
	h.withStore(c, h.lifecycle.ActivateStore)
}

// GetOnboardingFunnel returns the onboarding funnel across all stores.
// GET /api/v1/admin/onboarding/funnel
func (h *StoreHandler) GetOnboardingFunnel(c *gin.Context) {
	funnel, err := h.lifecycle.GetOnboardingFunnel(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, funnel)
}

func (h *StoreHandler) withStore(c *gin.Context, op func(context.Context, uuid.UUID) (*entities.StoreWithOnboarding, error)) {
	id, ok := parseStoreID(c)
	if !ok {
		return
	}
	result, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}
