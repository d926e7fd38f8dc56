package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/pkg/utils"
)

func seedStore(t *testing.T, repo *StoreRepository, subdomain string, customDomain string) *entities.Store {
	t.Helper()
	s := &entities.Store{
		Name:               subdomain,
		Subdomain:          subdomain,
		Category:           "Electronics",
		ThemeRaw:           "Electronics-Upfront-3",
		ProvisioningStatus: entities.ProvisioningStatusPending,
		OnboardingStatus:   entities.OnboardingStatusNotStarted,
	}
	if customDomain != "" {
		s.CustomDomain = null.StringFrom(customDomain)
	}
	rec := &entities.OnboardingRecord{Status: entities.OnboardingStatusNotStarted, CurrentStep: 1}
	require.NoError(t, repo.Create(context.Background(), s, rec))
	return s
}

func TestStoreRepository_CreateAndFind(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	s := seedStore(t, repo, "acme", "Shop.Acme.com")
	require.NotEqual(t, uuid.Nil, s.ID)

	byID, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, "acme", byID.Subdomain)
	require.Equal(t, "shop.acme.com", byID.CustomDomain.String)
	require.Equal(t, "Electronics-Upfront-3", byID.ThemeRaw)
	require.Equal(t, entities.ProvisioningStatusPending, byID.ProvisioningStatus)
	require.Equal(t, entities.OnboardingStatusNotStarted, byID.OnboardingStatus)
	require.Equal(t, int64(0), byID.Version)

	rec, err := repo.GetOnboarding(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entities.OnboardingStatusNotStarted, rec.Status)
	require.Equal(t, 1, rec.CurrentStep)

	exists, err := repo.SubdomainExists(ctx, "ACME")
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = repo.SubdomainExists(ctx, "other")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStoreRepository_FindByHostOrder(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	acme := seedStore(t, repo, "acme", "")
	// custom domain whose left-most label collides with another tenant's subdomain
	branded := seedStore(t, repo, "branded", "acme.example.org")

	got, err := repo.FindByHost(ctx, "acme.platform.example")
	require.NoError(t, err)
	require.Equal(t, acme.ID, got.ID)

	got, err = repo.FindByHost(ctx, "ACME.platform.example:443")
	require.NoError(t, err)
	require.Equal(t, acme.ID, got.ID)

	got, err = repo.FindByHost(ctx, "acme.example.org")
	require.NoError(t, err)
	require.Equal(t, branded.ID, got.ID, "custom domain match wins over subdomain label")

	_, err = repo.FindByHost(ctx, "unknown.platform.example")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.FindByHost(ctx, "acm.platform.example")
	require.ErrorIs(t, err, domainerrors.ErrNotFound, "no partial matching")

	_, err = repo.FindByHost(ctx, "")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.FindByHost(ctx, ".platform.example")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestStoreRepository_DuplicateSubdomain(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)

	seedStore(t, repo, "acme", "")
	dup := &entities.Store{
		Name:               "Acme 2",
		Subdomain:          "acme",
		ProvisioningStatus: entities.ProvisioningStatusPending,
		OnboardingStatus:   entities.OnboardingStatusNotStarted,
	}
	err := repo.Create(context.Background(), dup, &entities.OnboardingRecord{Status: entities.OnboardingStatusNotStarted, CurrentStep: 1})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestStoreRepository_TransitionOnboarding(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	s := seedStore(t, repo, "acme", "")

	err := repo.TransitionOnboarding(ctx, s.ID, entities.OnboardingTransition{
		From:              entities.OnboardingStatusNotStarted,
		To:                entities.OnboardingStatusInProgress,
		ExpectedVersion:   0,
		CurrentStep:       2,
		CompletionPercent: 40,
	})
	require.NoError(t, err)

	store, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entities.OnboardingStatusInProgress, store.OnboardingStatus)
	require.Equal(t, int64(1), store.Version)

	rec, err := repo.GetOnboarding(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entities.OnboardingStatusInProgress, rec.Status)
	require.Equal(t, 2, rec.CurrentStep)
	require.Equal(t, 40, rec.CompletionPercent)
	require.True(t, rec.StartedAt.Valid)

	err = repo.TransitionOnboarding(ctx, s.ID, entities.OnboardingTransition{
		From:              entities.OnboardingStatusInProgress,
		To:                entities.OnboardingStatusBlocked,
		ExpectedVersion:   1,
		CurrentStep:       2,
		CompletionPercent: 40,
		BlockReason:       "kyc failed",
	})
	require.NoError(t, err)

	rec, err = repo.GetOnboarding(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entities.OnboardingStatusBlocked, rec.Status)
	require.Equal(t, "kyc failed", rec.BlockReason.String)

	// stale version loses the compare-and-set
	err = repo.TransitionOnboarding(ctx, s.ID, entities.OnboardingTransition{
		From:            entities.OnboardingStatusBlocked,
		To:              entities.OnboardingStatusInProgress,
		ExpectedVersion: 1,
		CurrentStep:     2,
	})
	require.ErrorIs(t, err, domainerrors.ErrConcurrentConflict)

	// stale status loses too
	err = repo.TransitionOnboarding(ctx, s.ID, entities.OnboardingTransition{
		From:            entities.OnboardingStatusInProgress,
		To:              entities.OnboardingStatusCompleted,
		ExpectedVersion: 2,
		CurrentStep:     2,
	})
	require.ErrorIs(t, err, domainerrors.ErrConcurrentConflict)

	err = repo.TransitionOnboarding(ctx, uuid.New(), entities.OnboardingTransition{
		From: entities.OnboardingStatusNotStarted,
		To:   entities.OnboardingStatusInProgress,
	})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestStoreRepository_TransitionRollsBackOnRecordDivergence(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	s := seedStore(t, repo, "acme", "")

	mustExec(t, db, "UPDATE onboarding_records SET status = 'BLOCKED' WHERE store_id = ?", s.ID)

	err := repo.TransitionOnboarding(ctx, s.ID, entities.OnboardingTransition{
		From:        entities.OnboardingStatusNotStarted,
		To:          entities.OnboardingStatusInProgress,
		CurrentStep: 1,
	})
	require.ErrorIs(t, err, domainerrors.ErrConcurrentConflict)

	store, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entities.OnboardingStatusNotStarted, store.OnboardingStatus, "store update must roll back")
	require.Equal(t, int64(0), store.Version)
}

func TestStoreRepository_MarkProvisionedAndSetActive(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()
	s := seedStore(t, repo, "acme", "")

	require.NoError(t, repo.MarkProvisioned(ctx, s.ID, 0))
	store, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ProvisioningStatusCompleted, store.ProvisioningStatus)
	require.True(t, store.IsActive)
	require.Equal(t, int64(1), store.Version)

	require.ErrorIs(t, repo.MarkProvisioned(ctx, s.ID, 1), domainerrors.ErrConcurrentConflict)
	require.ErrorIs(t, repo.MarkProvisioned(ctx, uuid.New(), 0), domainerrors.ErrNotFound)

	require.NoError(t, repo.SetActive(ctx, s.ID, false, 1))
	store, err = repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.False(t, store.IsActive)
	require.Equal(t, int64(2), store.Version)

	require.ErrorIs(t, repo.SetActive(ctx, s.ID, true, 1), domainerrors.ErrConcurrentConflict)
}

func TestStoreRepository_ListOnboardingRecords(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	items, err := repo.ListOnboardingRecords(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	seedStore(t, repo, "a", "")
	seedStore(t, repo, "b", "")

	items, err = repo.ListOnboardingRecords(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestStoreRepository_List(t *testing.T) {
	db := newMigratedTestDB(t)
	repo := NewStoreRepository(db)
	ctx := context.Background()

	a := seedStore(t, repo, "a", "")
	seedStore(t, repo, "b", "")
	seedStore(t, repo, "c", "")
	require.NoError(t, repo.TransitionOnboarding(ctx, a.ID, entities.OnboardingTransition{
		From:              entities.OnboardingStatusNotStarted,
		To:                entities.OnboardingStatusInProgress,
		CurrentStep:       2,
		CompletionPercent: 20,
		ExpectedVersion:   0,
	}))

	items, total, err := repo.List(ctx, nil, utils.GetPaginationParams(1, 2))
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 2)

	items, total, err = repo.List(ctx, nil, utils.GetPaginationParams(2, 2))
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 1)

	items, _, err = repo.List(ctx, nil, utils.GetPaginationParams(1, 0))
	require.NoError(t, err)
	require.Len(t, items, 3)

	status := entities.OnboardingStatusInProgress
	items, total, err = repo.List(ctx, &status, utils.GetPaginationParams(1, 0))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.Equal(t, a.ID, items[0].ID)
}

func TestStoreRepository_DBErrorBranches(t *testing.T) {
	db := newTestDB(t)
	// intentionally skip migration
	repo := NewStoreRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	require.NotErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = repo.FindByHost(ctx, "acme.platform.example")
	require.Error(t, err)
	_, err = repo.GetOnboarding(ctx, uuid.New())
	require.Error(t, err)
	_, err = repo.SubdomainExists(ctx, "acme")
	require.Error(t, err)
	_, err = repo.ListOnboardingRecords(ctx)
	require.Error(t, err)
	_, _, err = repo.List(ctx, nil, utils.GetPaginationParams(1, 10))
	require.Error(t, err)
	err = repo.MarkProvisioned(ctx, uuid.New(), 0)
	require.Error(t, err)
}
