package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"orbit.backend/internal/domain/entities"
)

// CustomizationSource fetches the stored branding payload of a store.
// Implementations return ErrNotFound, ErrMalformedPayload or a transport error;
// the loader turns every one of them into defaults.
type CustomizationSource interface {
	GetByStoreID(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error)
}

// CustomizationWriter persists admin edits of a store's branding.
type CustomizationWriter interface {
	Upsert(ctx context.Context, customization *entities.Customization) error
}

// CustomizationCache is a short-lived cache in front of a CustomizationSource.
// A miss is (nil, nil).
type CustomizationCache interface {
	Get(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error)
	Set(ctx context.Context, customization *entities.Customization, ttl time.Duration) error
	Invalidate(ctx context.Context, storeID uuid.UUID) error
}
