package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/infrastructure/models"
	"orbit.backend/pkg/utils"
)

// StoreRepository implements the store directory and lifecycle persistence
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new store repository
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// FindByHost resolves a host by exact custom domain, then by its left-most
// label as subdomain.
func (r *StoreRepository) FindByHost(ctx context.Context, host string) (*entities.Store, error) {
	h := entities.NormalizeHost(host)
	if h == "" {
		return nil, domainerrors.ErrNotFound
	}

	var m models.Store
	err := GetDB(ctx, r.db).Where("custom_domain = ?", h).First(&m).Error
	if err == nil {
		return toStoreEntity(&m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	label := h
	if i := strings.Index(h, "."); i >= 0 {
		label = h[:i]
	}
	if label == "" {
		return nil, domainerrors.ErrNotFound
	}

	err = GetDB(ctx, r.db).Where("subdomain = ?", label).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toStoreEntity(&m), nil
}

func (r *StoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Store, error) {
	var m models.Store
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toStoreEntity(&m), nil
}

func (r *StoreRepository) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.Store{}).
		Where("subdomain = ?", strings.ToLower(subdomain)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the store and its onboarding record in one transaction.
func (r *StoreRepository) Create(ctx context.Context, store *entities.Store, record *entities.OnboardingRecord) error {
	if store.ID == uuid.Nil {
		store.ID = utils.GenerateUUIDv7()
	}
	now := time.Now()
	store.CreatedAt = now
	store.UpdatedAt = now
	record.StoreID = store.ID
	record.UpdatedAt = now

	sm := toStoreModel(store)
	rm := toOnboardingModel(record)

	err := GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sm).Error; err != nil {
			return err
		}
		return tx.Create(rm).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ErrAlreadyExists
	}
	return err
}

func (r *StoreRepository) GetOnboarding(ctx context.Context, storeID uuid.UUID) (*entities.OnboardingRecord, error) {
	var m models.OnboardingRecord
	if err := GetDB(ctx, r.db).Where("store_id = ?", storeID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toOnboardingEntity(&m), nil
}

// TransitionOnboarding compare-and-sets the store status and version, then
// mirrors the new status onto the onboarding record in the same transaction.
func (r *StoreRepository) TransitionOnboarding(ctx context.Context, storeID uuid.UUID, t entities.OnboardingTransition) error {
	now := time.Now()

	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Store{}).
			Where("id = ? AND onboarding_status = ? AND version = ?", storeID, string(t.From), t.ExpectedVersion).
			Updates(map[string]interface{}{
				"onboarding_status": string(t.To),
				"version":           gorm.Expr("version + 1"),
				"updated_at":        now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.missOrConflict(tx, storeID)
		}

		updates := map[string]interface{}{
			"status":             string(t.To),
			"current_step":       t.CurrentStep,
			"completion_percent": t.CompletionPercent,
			"updated_at":         now,
		}
		switch t.To {
		case entities.OnboardingStatusBlocked:
			updates["block_reason"] = t.BlockReason
		default:
			updates["block_reason"] = nil
		}
		if t.From == entities.OnboardingStatusNotStarted {
			updates["started_at"] = now
		}
		if t.To == entities.OnboardingStatusCompleted {
			updates["completed_at"] = now
		}

		result = tx.Model(&models.OnboardingRecord{}).
			Where("store_id = ? AND status = ?", storeID, string(t.From)).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// record diverged from the store row; refuse rather than coerce
			return domainerrors.ErrConcurrentConflict
		}
		return nil
	})
}

func (r *StoreRepository) MarkProvisioned(ctx context.Context, storeID uuid.UUID, expectedVersion int64) error {
	db := GetDB(ctx, r.db)
	result := db.Model(&models.Store{}).
		Where("id = ? AND provisioning_status = ? AND version = ?", storeID, string(entities.ProvisioningStatusPending), expectedVersion).
		Updates(map[string]interface{}{
			"provisioning_status": string(entities.ProvisioningStatusCompleted),
			"is_active":           true,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(db, storeID)
	}
	return nil
}

func (r *StoreRepository) SetActive(ctx context.Context, storeID uuid.UUID, active bool, expectedVersion int64) error {
	db := GetDB(ctx, r.db)
	result := db.Model(&models.Store{}).
		Where("id = ? AND version = ?", storeID, expectedVersion).
		Updates(map[string]interface{}{
			"is_active":  active,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(db, storeID)
	}
	return nil
}

func (r *StoreRepository) List(ctx context.Context, status *entities.OnboardingStatus, pagination utils.PaginationParams) ([]*entities.Store, int64, error) {
	var rows []models.Store
	var total int64

	query := GetDB(ctx, r.db).Model(&models.Store{})
	if status != nil {
		query = query.Where("onboarding_status = ?", string(*status))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit).Offset(pagination.CalculateOffset())
	}
	if err := query.Order("created_at DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.Store, 0, len(rows))
	for i := range rows {
		items = append(items, toStoreEntity(&rows[i]))
	}
	return items, total, nil
}

func (r *StoreRepository) ListOnboardingRecords(ctx context.Context) ([]*entities.OnboardingRecord, error) {
	var ms []models.OnboardingRecord
	if err := GetDB(ctx, r.db).Order("store_id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}

	items := make([]*entities.OnboardingRecord, 0, len(ms))
	for i := range ms {
		items = append(items, toOnboardingEntity(&ms[i]))
	}
	return items, nil
}

func (r *StoreRepository) missOrConflict(db *gorm.DB, storeID uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Store{}).Where("id = ?", storeID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrNotFound
	}
	return domainerrors.ErrConcurrentConflict
}

func toStoreEntity(m *models.Store) *entities.Store {
	return &entities.Store{
		ID:                 m.ID,
		Name:               m.Name,
		Subdomain:          m.Subdomain,
		CustomDomain:       null.StringFromPtr(m.CustomDomain),
		Category:           m.Category,
		ThemeRaw:           m.Theme,
		IsActive:           m.IsActive,
		ProvisioningStatus: entities.ProvisioningStatus(m.ProvisioningStatus),
		OnboardingStatus:   entities.OnboardingStatus(m.OnboardingStatus),
		Version:            m.Version,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toStoreModel(s *entities.Store) *models.Store {
	return &models.Store{
		ID:                 s.ID,
		Name:               s.Name,
		Subdomain:          strings.ToLower(s.Subdomain),
		CustomDomain:       lowerPtr(s.CustomDomain.Ptr()),
		Category:           s.Category,
		Theme:              s.ThemeRaw,
		IsActive:           s.IsActive,
		ProvisioningStatus: string(s.ProvisioningStatus),
		OnboardingStatus:   string(s.OnboardingStatus),
		Version:            s.Version,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func toOnboardingEntity(m *models.OnboardingRecord) *entities.OnboardingRecord {
	return &entities.OnboardingRecord{
		StoreID:           m.StoreID,
		Status:            entities.OnboardingStatus(m.Status),
		CurrentStep:       m.CurrentStep,
		CompletionPercent: m.CompletionPercent,
		BlockReason:       null.StringFromPtr(m.BlockReason),
		StartedAt:         null.TimeFromPtr(m.StartedAt),
		CompletedAt:       null.TimeFromPtr(m.CompletedAt),
		UpdatedAt:         m.UpdatedAt,
	}
}

func toOnboardingModel(e *entities.OnboardingRecord) *models.OnboardingRecord {
	return &models.OnboardingRecord{
		StoreID:           e.StoreID,
		Status:            string(e.Status),
		CurrentStep:       e.CurrentStep,
		CompletionPercent: e.CompletionPercent,
		BlockReason:       e.BlockReason.Ptr(),
		StartedAt:         e.StartedAt.Ptr(),
		CompletedAt:       e.CompletedAt.Ptr(),
		UpdatedAt:         e.UpdatedAt,
	}
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	if v == "" {
		return nil
	}
	return &v
}
