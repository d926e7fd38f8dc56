package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/infrastructure/models"
)

// CustomizationRepository stores website customization rows
type CustomizationRepository struct {
	db *gorm.DB
}

// NewCustomizationRepository creates a new customization repository
func NewCustomizationRepository(db *gorm.DB) *CustomizationRepository {
	return &CustomizationRepository{db: db}
}

func (r *CustomizationRepository) GetByStoreID(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error) {
	var m models.WebsiteCustomization
	if err := GetDB(ctx, r.db).Where("store_id = ?", storeID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	var colors entities.BrandColors
	if err := json.Unmarshal([]byte(m.BrandColors), &colors); err != nil {
		return nil, fmt.Errorf("brand_colors for store %s: %w", storeID, domainerrors.ErrMalformedPayload)
	}

	return &entities.Customization{
		StoreID:        m.StoreID,
		LogoURL:        null.StringFromPtr(m.LogoURL),
		Colors:         colors,
		HeroTitle:      m.HeroTitle,
		HeroSubtitle:   m.HeroSubtitle,
		SEOTitle:       m.SEOTitle,
		SEODescription: m.SEODescription,
	}, nil
}

func (r *CustomizationRepository) Upsert(ctx context.Context, c *entities.Customization) error {
	colors, err := json.Marshal(c.Colors)
	if err != nil {
		return err
	}

	m := &models.WebsiteCustomization{
		StoreID:        c.StoreID,
		LogoURL:        c.LogoURL.Ptr(),
		BrandColors:    string(colors),
		HeroTitle:      c.HeroTitle,
		HeroSubtitle:   c.HeroSubtitle,
		SEOTitle:       c.SEOTitle,
		SEODescription: c.SEODescription,
		UpdatedAt:      time.Now(),
	}

	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}},
		UpdateAll: true,
	}).Create(m).Error
}
