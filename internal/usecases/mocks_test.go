package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"orbit.backend/internal/domain/entities"
	"orbit.backend/pkg/utils"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

// Do runs f and, when f succeeds, returns the stubbed commit error.
func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	args := m.Called(ctx, f)
	if err := f(ctx); err != nil {
		return err
	}
	return args.Error(0)
}

func newPassthroughUOW() *MockUnitOfWork {
	return newCommitUOW(nil)
}

func newCommitUOW(commitErr error) *MockUnitOfWork {
	uow := new(MockUnitOfWork)
	uow.On("Do", mock.Anything, mock.Anything).Return(commitErr)
	return uow
}

// Mock StoreRepository
type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindByHost(ctx context.Context, host string) (*entities.Store, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Store), args.Error(1)
}

func (m *MockStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Store), args.Error(1)
}

func (m *MockStoreRepository) Create(ctx context.Context, store *entities.Store, record *entities.OnboardingRecord) error {
	args := m.Called(ctx, store, record)
	return args.Error(0)
}

func (m *MockStoreRepository) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	args := m.Called(ctx, subdomain)
	return args.Bool(0), args.Error(1)
}

func (m *MockStoreRepository) GetOnboarding(ctx context.Context, storeID uuid.UUID) (*entities.OnboardingRecord, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OnboardingRecord), args.Error(1)
}

func (m *MockStoreRepository) TransitionOnboarding(ctx context.Context, storeID uuid.UUID, t entities.OnboardingTransition) error {
	args := m.Called(ctx, storeID, t)
	return args.Error(0)
}

func (m *MockStoreRepository) MarkProvisioned(ctx context.Context, storeID uuid.UUID, expectedVersion int64) error {
	args := m.Called(ctx, storeID, expectedVersion)
	return args.Error(0)
}

func (m *MockStoreRepository) SetActive(ctx context.Context, storeID uuid.UUID, active bool, expectedVersion int64) error {
	args := m.Called(ctx, storeID, active, expectedVersion)
	return args.Error(0)
}

func (m *MockStoreRepository) List(ctx context.Context, status *entities.OnboardingStatus, pagination utils.PaginationParams) ([]*entities.Store, int64, error) {
	args := m.Called(ctx, status, pagination)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*entities.Store), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoreRepository) ListOnboardingRecords(ctx context.Context) ([]*entities.OnboardingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OnboardingRecord), args.Error(1)
}

// Mock CustomizationSource
type MockCustomizationSource struct {
	mock.Mock
}

func (m *MockCustomizationSource) GetByStoreID(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error) {
	args := m.Called(ctx, storeID)
	if fn, ok := args.Get(0).(func(context.Context) (*entities.Customization, error)); ok {
		return fn(ctx)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Customization), args.Error(1)
}

// Mock CustomizationWriter
type MockCustomizationWriter struct {
	mock.Mock
}

func (m *MockCustomizationWriter) Upsert(ctx context.Context, c *entities.Customization) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// Mock CustomizationCache
type MockCustomizationCache struct {
	mock.Mock
}

func (m *MockCustomizationCache) Get(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Customization), args.Error(1)
}

func (m *MockCustomizationCache) Set(ctx context.Context, c *entities.Customization, ttl time.Duration) error {
	args := m.Called(ctx, c, ttl)
	return args.Error(0)
}

func (m *MockCustomizationCache) Invalidate(ctx context.Context, storeID uuid.UUID) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}
