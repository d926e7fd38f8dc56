package models

import (
	"time"

	"github.com/google/uuid"
)

type Store struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"type:varchar(255);not null"`
	Subdomain          string    `gorm:"type:varchar(63);not null;uniqueIndex"`
	CustomDomain       *string   `gorm:"type:varchar(255);uniqueIndex"`
	Category           string    `gorm:"type:varchar(120);not null;default:''"`
	Theme              string    `gorm:"type:varchar(120);not null;default:''"`
	IsActive           bool      `gorm:"not null;default:false"`
	ProvisioningStatus string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	OnboardingStatus   string    `gorm:"type:varchar(20);not null;default:'NOT_STARTED';index"`
	Version            int64     `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OnboardingRecord struct {
	StoreID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Status            string    `gorm:"type:varchar(20);not null;default:'NOT_STARTED';index"`
	CurrentStep       int       `gorm:"not null;default:1"`
	CompletionPercent int       `gorm:"not null;default:0"`
	BlockReason       *string   `gorm:"type:text"`
	StartedAt         *time.Time
	CompletedAt       *time.Time
	UpdatedAt         time.Time
}

func (OnboardingRecord) TableName() string {
	return "onboarding_records"
}

type WebsiteCustomization struct {
	StoreID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LogoURL        *string   `gorm:"type:text"`
	BrandColors    string    `gorm:"type:text;not null;default:'{}'"`
	HeroTitle      string    `gorm:"type:text;not null;default:''"`
	HeroSubtitle   string    `gorm:"type:text;not null;default:''"`
	SEOTitle       string    `gorm:"column:seo_title;type:text;not null;default:''"`
	SEODescription string    `gorm:"column:seo_description;type:text;not null;default:''"`
	UpdatedAt      time.Time
}

// All returns every model managed by this service, in migration order.
func All() []interface{} {
	return []interface{}{&Store{}, &OnboardingRecord{}, &WebsiteCustomization{}}
}
