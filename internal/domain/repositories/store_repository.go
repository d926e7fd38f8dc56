package repositories

import (
	"context"

	"github.com/google/uuid"
	"orbit.backend/internal/domain/entities"
	"orbit.backend/pkg/utils"
)

// StoreDirectory resolves tenants. Lookups return ErrNotFound when nothing
// matches; an unmatched host is not a failure.
type StoreDirectory interface {
	// FindByHost matches custom_domain exactly first, then the left-most host
	// label against subdomain (case-insensitive). No partial matching.
	FindByHost(ctx context.Context, host string) (*entities.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Store, error)
}

// StoreRepository defines store and onboarding record data operations.
// Status columns are only written through the compare-and-set methods.
type StoreRepository interface {
	StoreDirectory

	// Create inserts the store together with its onboarding record.
	Create(ctx context.Context, store *entities.Store, record *entities.OnboardingRecord) error
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	GetOnboarding(ctx context.Context, storeID uuid.UUID) (*entities.OnboardingRecord, error)

	// TransitionOnboarding applies t to the store row and onboarding record
	// when the store still has status t.From and version t.ExpectedVersion.
	// A lost compare-and-set returns ErrConcurrentConflict.
	TransitionOnboarding(ctx context.Context, storeID uuid.UUID, t entities.OnboardingTransition) error
	// MarkProvisioned moves PENDING to COMPLETED and activates the store under
	// the same compare-and-set discipline.
	MarkProvisioned(ctx context.Context, storeID uuid.UUID, expectedVersion int64) error
	SetActive(ctx context.Context, storeID uuid.UUID, active bool, expectedVersion int64) error

	// List pages through stores, newest first. A nil status lists all.
	List(ctx context.Context, status *entities.OnboardingStatus, pagination utils.PaginationParams) ([]*entities.Store, int64, error)
	ListOnboardingRecords(ctx context.Context) ([]*entities.OnboardingRecord, error)
}
