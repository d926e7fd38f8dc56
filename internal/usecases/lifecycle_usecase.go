package usecases

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/domain/repositories"
	"orbit.backend/pkg/logger"
	"orbit.backend/pkg/utils"
)

const (
	maxSubdomainLength   = 63
	maxSubdomainAttempts = 100
)

var (
	subdomainPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

	reservedSubdomains = map[string]bool{
		"www": true, "api": true, "admin": true, "app": true, "preview": true,
	}
)

// LifecycleUsecase drives store signup, provisioning and onboarding
type LifecycleUsecase struct {
	storeRepo repositories.StoreRepository
	uow       repositories.UnitOfWork
	metrics   *Metrics
}

// NewLifecycleUsecase creates a new lifecycle usecase
func NewLifecycleUsecase(
	storeRepo repositories.StoreRepository,
	uow repositories.UnitOfWork,
	metrics *Metrics,
) *LifecycleUsecase {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &LifecycleUsecase{
		storeRepo: storeRepo,
		uow:       uow,
		metrics:   metrics,
	}
}

// CreateStore registers a new store in PENDING / NOT_STARTED with a fresh
// onboarding record at step 1.
func (u *LifecycleUsecase) CreateStore(ctx context.Context, input *entities.CreateStoreInput) (*entities.StoreWithOnboarding, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", domainerrors.ErrInvalidInput)
	}

	store := &entities.Store{
		Name:               name,
		Category:           strings.TrimSpace(input.Category),
		ThemeRaw:           strings.TrimSpace(input.Theme),
		IsActive:           false,
		ProvisioningStatus: entities.ProvisioningStatusPending,
		OnboardingStatus:   entities.OnboardingStatusNotStarted,
	}
	if domain := entities.NormalizeHost(input.CustomDomain); domain != "" {
		store.CustomDomain = null.StringFrom(domain)
	}
	record := &entities.OnboardingRecord{
		Status:            entities.OnboardingStatusNotStarted,
		CurrentStep:       1,
		CompletionPercent: 0,
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		subdomain, err := u.pickSubdomain(txCtx, name, input.Subdomain)
		if err != nil {
			return err
		}
		store.Subdomain = subdomain
		return u.storeRepo.Create(txCtx, store, record)
	})
	if err != nil {
		return nil, err
	}

	u.metrics.LifecycleTransitions.WithLabelValues("create").Inc()
	logger.Info(ctx, "Store created",
		zap.String("store_id", store.ID.String()),
		zap.String("subdomain", store.Subdomain),
	)
	return &entities.StoreWithOnboarding{Store: store, Onboarding: record}, nil
}

// pickSubdomain validates a requested subdomain, or derives one from the
// store name with -1, -2 ... suffixes until it is free.
func (u *LifecycleUsecase) pickSubdomain(ctx context.Context, name, requested string) (string, error) {
	if requested = strings.ToLower(strings.TrimSpace(requested)); requested != "" {
		if !subdomainPattern.MatchString(requested) || reservedSubdomains[requested] {
			return "", fmt.Errorf("subdomain %q is not allowed: %w", requested, domainerrors.ErrInvalidInput)
		}
		exists, err := u.storeRepo.SubdomainExists(ctx, requested)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("subdomain %q: %w", requested, domainerrors.ErrAlreadyExists)
		}
		return requested, nil
	}

	base := Slugify(name)
	if base == "" || reservedSubdomains[base] {
		base = "store"
	}
	for i := 0; i < maxSubdomainAttempts; i++ {
		candidate := base
		if i > 0 {
			suffix := fmt.Sprintf("-%d", i)
			candidate = strings.TrimRight(truncate(base, maxSubdomainLength-len(suffix)), "-") + suffix
		}
		exists, err := u.storeRepo.SubdomainExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free subdomain for %q: %w", base, domainerrors.ErrAlreadyExists)
}

// Slugify turns a brand name into a URL-safe DNS label.
func Slugify(name string) string {
	return strings.TrimRight(truncate(NormalizeThemeKey(name), maxSubdomainLength), "-")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// GetStore returns a store with its onboarding record.
func (u *LifecycleUsecase) GetStore(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error) {
	store, err := u.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := u.storeRepo.GetOnboarding(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entities.StoreWithOnboarding{Store: store, Onboarding: record}, nil
}

// ListStores pages through stores, optionally filtered by onboarding status.
func (u *LifecycleUsecase) ListStores(ctx context.Context, status string, pagination utils.PaginationParams) ([]*entities.Store, int64, error) {
	var filter *entities.OnboardingStatus
	if status = strings.ToUpper(strings.TrimSpace(status)); status != "" {
		s := entities.OnboardingStatus(status)
		if !s.IsValid() {
			return nil, 0, fmt.Errorf("unknown onboarding status %q: %w", status, domainerrors.ErrInvalidInput)
		}
		filter = &s
	}
	return u.storeRepo.List(ctx, filter, pagination)
}

// MarkProvisioned moves provisioning PENDING -> COMPLETED and activates the
// store. Repeating it is a no-op.
func (u *LifecycleUsecase) MarkProvisioned(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error) {
	const op = "provision"
	applied := false
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		store, err := u.storeRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if store.ProvisioningStatus == entities.ProvisioningStatusCompleted {
			return nil
		}
		if err := entities.ValidateProvisioningTransition(store.ProvisioningStatus, entities.ProvisioningStatusCompleted); err != nil {
			return err
		}
		if err := u.storeRepo.MarkProvisioned(txCtx, id, store.Version); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, u.observe(ctx, op, id, err)
	}
	if applied {
		u.metrics.LifecycleTransitions.WithLabelValues(op).Inc()
		logger.Info(ctx, "Store provisioned", zap.String("store_id", id.String()))
	}
	return u.GetStore(ctx, id)
}

// AdvanceOnboarding records progress. NOT_STARTED and IN_PROGRESS move to
// IN_PROGRESS; reaching 100% does not complete onboarding by itself.
func (u *LifecycleUsecase) AdvanceOnboarding(ctx context.Context, id uuid.UUID, step, completionPercent int) (*entities.StoreWithOnboarding, error) {
	if err := entities.ValidateProgress(step, completionPercent); err != nil {
		return nil, err
	}
	return u.transition(ctx, "advance", id, func(store *entities.Store, rec *entities.OnboardingRecord) (*entities.OnboardingTransition, error) {
		switch store.OnboardingStatus {
		case entities.OnboardingStatusInProgress:
			if rec.CurrentStep == step && rec.CompletionPercent == completionPercent {
				return nil, nil
			}
		case entities.OnboardingStatusNotStarted:
		default:
			return nil, fmt.Errorf("advance from %s: %w", store.OnboardingStatus, domainerrors.ErrIllegalTransition)
		}
		return &entities.OnboardingTransition{
			To:                entities.OnboardingStatusInProgress,
			CurrentStep:       step,
			CompletionPercent: completionPercent,
		}, nil
	})
}

// BlockOnboarding pauses an in-progress onboarding, keeping step and percent.
func (u *LifecycleUsecase) BlockOnboarding(ctx context.Context, id uuid.UUID, reason string) (*entities.StoreWithOnboarding, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("block reason is required: %w", domainerrors.ErrInvalidInput)
	}
	return u.transition(ctx, "block", id, func(store *entities.Store, rec *entities.OnboardingRecord) (*entities.OnboardingTransition, error) {
		if store.OnboardingStatus == entities.OnboardingStatusBlocked {
			return nil, nil
		}
		if err := entities.ValidateOnboardingTransition(store.OnboardingStatus, entities.OnboardingStatusBlocked); err != nil {
			return nil, err
		}
		return &entities.OnboardingTransition{
			To:                entities.OnboardingStatusBlocked,
			CurrentStep:       rec.CurrentStep,
			CompletionPercent: rec.CompletionPercent,
			BlockReason:       reason,
		}, nil
	})
}

// UnblockOnboarding resumes a blocked onboarding where it stopped.
func (u *LifecycleUsecase) UnblockOnboarding(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error) {
	return u.transition(ctx, "unblock", id, func(store *entities.Store, rec *entities.OnboardingRecord) (*entities.OnboardingTransition, error) {
		switch store.OnboardingStatus {
		case entities.OnboardingStatusInProgress:
			return nil, nil
		case entities.OnboardingStatusBlocked:
		default:
			return nil, fmt.Errorf("unblock from %s: %w", store.OnboardingStatus, domainerrors.ErrIllegalTransition)
		}
		return &entities.OnboardingTransition{
			To:                entities.OnboardingStatusInProgress,
			CurrentStep:       rec.CurrentStep,
			CompletionPercent: rec.CompletionPercent,
		}, nil
	})
}

// CompleteOnboarding finishes an in-progress onboarding at 100%.
func (u *LifecycleUsecase) CompleteOnboarding(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error) {
	return u.transition(ctx, "complete", id, func(store *entities.Store, rec *entities.OnboardingRecord) (*entities.OnboardingTransition, error) {
		if store.OnboardingStatus == entities.OnboardingStatusCompleted {
			return nil, nil
		}
		if err := entities.ValidateOnboardingTransition(store.OnboardingStatus, entities.OnboardingStatusCompleted); err != nil {
			return nil, err
		}
		return &entities.OnboardingTransition{
			To:                entities.OnboardingStatusCompleted,
			CurrentStep:       rec.CurrentStep,
			CompletionPercent: 100,
		}, nil
	})
}

// transitionFunc decides the next onboarding state. A nil transition with a
// nil error means the store is already in the requested state.
type transitionFunc func(store *entities.Store, rec *entities.OnboardingRecord) (*entities.OnboardingTransition, error)

func (u *LifecycleUsecase) transition(ctx context.Context, op string, id uuid.UUID, decide transitionFunc) (*entities.StoreWithOnboarding, error) {
	var applied *entities.OnboardingTransition
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		store, err := u.storeRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		rec, err := u.storeRepo.GetOnboarding(txCtx, id)
		if err != nil {
			return err
		}

		t, err := decide(store, rec)
		if err != nil || t == nil {
			return err
		}
		t.From = store.OnboardingStatus
		t.ExpectedVersion = store.Version

		if err := u.storeRepo.TransitionOnboarding(txCtx, id, *t); err != nil {
			return err
		}
		applied = t
		return nil
	})
	if err != nil {
		return nil, u.observe(ctx, op, id, err)
	}
	if applied != nil {
		u.metrics.LifecycleTransitions.WithLabelValues(op).Inc()
		logger.Info(ctx, "Onboarding transition applied",
			zap.String("store_id", id.String()),
			zap.String("operation", op),
			zap.String("from", string(applied.From)),
			zap.String("to", string(applied.To)),
		)
	}
	return u.GetStore(ctx, id)
}

// DeactivateStore stops serving a store without touching its lifecycle.
func (u *LifecycleUsecase) DeactivateStore(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error) {
	return u.setActive(ctx, "deactivate", id, false)
}

// ActivateStore resumes serving a store.
func (u *LifecycleUsecase) ActivateStore(ctx context.Context, id uuid.UUID) (*entities.StoreWithOnboarding, error) {
	return u.setActive(ctx, "activate", id, true)
}

func (u *LifecycleUsecase) setActive(ctx context.Context, op string, id uuid.UUID, active bool) (*entities.StoreWithOnboarding, error) {
	applied := false
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		store, err := u.storeRepo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if store.IsActive == active {
			return nil
		}
		if err := u.storeRepo.SetActive(txCtx, id, active, store.Version); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return nil, u.observe(ctx, op, id, err)
	}
	if applied {
		u.metrics.LifecycleTransitions.WithLabelValues(op).Inc()
	}
	return u.GetStore(ctx, id)
}

// GetOnboardingFunnel aggregates the current onboarding status of every store.
func (u *LifecycleUsecase) GetOnboardingFunnel(ctx context.Context) (*entities.OnboardingFunnel, error) {
	records, err := u.storeRepo.ListOnboardingRecords(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]entities.OnboardingStatus, 0, len(records))
	for _, r := range records {
		statuses = append(statuses, r.Status)
	}
	funnel := entities.ComputeFunnel(statuses)
	funnel.StepSummary = entities.ComputeStepSummary(records)
	return &funnel, nil
}

func (u *LifecycleUsecase) observe(ctx context.Context, op string, id uuid.UUID, err error) error {
	if errors.Is(err, domainerrors.ErrConcurrentConflict) {
		u.metrics.LifecycleConflicts.WithLabelValues(op).Inc()
		logger.Warn(ctx, "Lifecycle write lost compare-and-set",
			zap.String("store_id", id.String()),
			zap.String("operation", op),
		)
	}
	return err
}
