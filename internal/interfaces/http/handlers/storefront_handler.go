package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"orbit.backend/internal/interfaces/http/response"
	"orbit.backend/internal/usecases"
)

type storefrontResolver interface {
	Resolve(ctx context.Context, host string) (*usecases.TenantResolution, error)
}

// StorefrontHandler serves tenant resolution to the storefront renderer
type StorefrontHandler struct {
	resolver storefrontResolver
}

func NewStorefrontHandler(resolver storefrontResolver) *StorefrontHandler {
	return &StorefrontHandler{resolver: resolver}
}

// Resolve maps a host to its store, branding and theme family.
// GET /api/v1/storefront/resolve?host=acme.platform.example
//
// Without ?host= the forwarded host, then the request Host, is used.
func (h *StorefrontHandler) Resolve(c *gin.Context) {
	host := strings.TrimSpace(c.Query("host"))
	if host == "" {
		host = strings.TrimSpace(c.GetHeader("X-Forwarded-Host"))
	}
	if host == "" {
		host = c.Request.Host
	}

	result, err := h.resolver.Resolve(c.Request.Context(), host)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.PlatformFallback || result.Storefront == nil {
		response.Success(c, http.StatusOK, gin.H{"platformFallback": true})
		return
	}
	response.Success(c, http.StatusOK, result.Storefront)
}
