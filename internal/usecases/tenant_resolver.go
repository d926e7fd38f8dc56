package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/domain/repositories"
	"orbit.backend/pkg/logger"
)

// resolution outcomes reported on orbit_tenant_resolutions_total
const (
	outcomeResolved    = "resolved"
	outcomeUnknownHost = "unknown_host"
	outcomeNotServable = "not_servable"
	outcomeError       = "error"
)

// ResolvedStorefront is everything the renderer needs for one tenant request
type ResolvedStorefront struct {
	Store         *entities.Store         `json:"store"`
	Customization *entities.Customization `json:"customization"`
	ThemeFamily   entities.ThemeFamily    `json:"themeFamily"`
}

// TenantResolution is either a resolved storefront or the platform fallback
type TenantResolution struct {
	Storefront       *ResolvedStorefront
	PlatformFallback bool
}

// TenantResolver turns an inbound host into a storefront
type TenantResolver struct {
	directory       repositories.StoreDirectory
	loader          *CustomizationLoader
	dispatcher      *ThemeDispatcher
	platformDomains map[string]struct{}
	metrics         *Metrics
}

// NewTenantResolver creates a new tenant resolver. Hosts equal to one of
// platformDomains are the platform itself and never resolve to a store.
func NewTenantResolver(
	directory repositories.StoreDirectory,
	loader *CustomizationLoader,
	dispatcher *ThemeDispatcher,
	platformDomains []string,
	metrics *Metrics,
) *TenantResolver {
	domains := make(map[string]struct{}, len(platformDomains))
	for _, d := range platformDomains {
		if d = entities.NormalizeHost(d); d != "" {
			domains[d] = struct{}{}
		}
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &TenantResolver{
		directory:       directory,
		loader:          loader,
		dispatcher:      dispatcher,
		platformDomains: domains,
		metrics:         metrics,
	}
}

// Resolve maps host to a storefront. Unknown hosts and stores that are not
// active and provisioned yield PlatformFallback. Only a failing directory is
// an error.
func (r *TenantResolver) Resolve(ctx context.Context, host string) (*TenantResolution, error) {
	h := entities.NormalizeHost(host)
	if h == "" || r.isPlatformDomain(h) {
		r.metrics.TenantResolutions.WithLabelValues(outcomeUnknownHost).Inc()
		return &TenantResolution{PlatformFallback: true}, nil
	}

	store, err := r.directory.FindByHost(ctx, h)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			r.metrics.TenantResolutions.WithLabelValues(outcomeUnknownHost).Inc()
			return &TenantResolution{PlatformFallback: true}, nil
		}
		r.metrics.TenantResolutions.WithLabelValues(outcomeError).Inc()
		logger.Error(ctx, "Store directory lookup failed", zap.String("host", h), zap.Error(err))
		return nil, fmt.Errorf("find store by host %q: %v: %w", h, err, domainerrors.ErrDataSourceUnavailable)
	}

	if !store.IsServable() {
		r.metrics.TenantResolutions.WithLabelValues(outcomeNotServable).Inc()
		logger.Info(ctx, "Store not servable, serving platform fallback",
			zap.String("store_id", store.ID.String()),
			zap.Bool("is_active", store.IsActive),
			zap.String("provisioning_status", string(store.ProvisioningStatus)),
		)
		return &TenantResolution{PlatformFallback: true}, nil
	}

	var (
		customization *entities.Customization
		family        entities.ThemeFamily
	)
	// Plain join: neither branch can fail, the loader degrades to defaults.
	var g errgroup.Group
	g.Go(func() error {
		customization = r.loader.Load(ctx, store.ID)
		return nil
	})
	g.Go(func() error {
		family = r.dispatcher.DispatchStore(ctx, store)
		return nil
	})
	_ = g.Wait()

	r.metrics.TenantResolutions.WithLabelValues(outcomeResolved).Inc()
	return &TenantResolution{
		Storefront: &ResolvedStorefront{
			Store:         store,
			Customization: customization,
			ThemeFamily:   family,
		},
	}, nil
}

func (r *TenantResolver) isPlatformDomain(h string) bool {
	_, ok := r.platformDomains[strings.TrimPrefix(h, "www.")]
	return ok
}
