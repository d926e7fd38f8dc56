package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ProvisioningStatus represents storefront infrastructure status
type ProvisioningStatus string

const (
	ProvisioningStatusPending   ProvisioningStatus = "PENDING"
	ProvisioningStatusCompleted ProvisioningStatus = "COMPLETED"
)

// OnboardingStatus represents merchant onboarding progress
type OnboardingStatus string

const (
	OnboardingStatusNotStarted OnboardingStatus = "NOT_STARTED"
	OnboardingStatusInProgress OnboardingStatus = "IN_PROGRESS"
	OnboardingStatusCompleted  OnboardingStatus = "COMPLETED"
	OnboardingStatusBlocked    OnboardingStatus = "BLOCKED"
)

// OnboardingStatuses lists every onboarding status in funnel order.
var OnboardingStatuses = []OnboardingStatus{
	OnboardingStatusNotStarted,
	OnboardingStatusInProgress,
	OnboardingStatusBlocked,
	OnboardingStatusCompleted,
}

// IsValid reports whether s is a known onboarding status.
func (s OnboardingStatus) IsValid() bool {
	for _, known := range OnboardingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Store represents one tenant storefront
type Store struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Subdomain          string             `json:"subdomain"`
	CustomDomain       null.String        `json:"customDomain,omitempty"`
	Category           string             `json:"category"`
	ThemeRaw           string             `json:"theme"`
	IsActive           bool               `json:"isActive"`
	ProvisioningStatus ProvisioningStatus `json:"provisioningStatus"`
	OnboardingStatus   OnboardingStatus   `json:"onboardingStatus"`
	Version            int64              `json:"version"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// IsServable reports whether storefront traffic may be served for the store.
func (s *Store) IsServable() bool {
	return s.IsActive && s.ProvisioningStatus == ProvisioningStatusCompleted
}

// NormalizeHost lowercases host and strips any port and trailing dot.
func NormalizeHost(host string) string {
	h := strings.ToLower(strings.TrimSpace(host))
	if strings.HasPrefix(h, "[") {
		// IPv6 literal, never a tenant host
		return h
	}
	if i := strings.LastIndex(h, ":"); i >= 0 {
		h = h[:i]
	}
	return strings.TrimSuffix(h, ".")
}

// OnboardingRecord tracks the merchant setup flow of a store
type OnboardingRecord struct {
	StoreID           uuid.UUID        `json:"storeId"`
	Status            OnboardingStatus `json:"status"`
	CurrentStep       int              `json:"currentStep"`
	CompletionPercent int              `json:"completionPercent"`
	BlockReason       null.String      `json:"blockReason,omitempty"`
	StartedAt         null.Time        `json:"startedAt,omitempty"`
	CompletedAt       null.Time        `json:"completedAt,omitempty"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// StoreWithOnboarding is the admin view of a store
type StoreWithOnboarding struct {
	Store      *Store            `json:"store"`
	Onboarding *OnboardingRecord `json:"onboarding"`
}

// CreateStoreInput represents input for merchant signup
type CreateStoreInput struct {
	Name         string `json:"name" binding:"required,min=2,max=255"`
	Subdomain    string `json:"subdomain,omitempty"`
	CustomDomain string `json:"customDomain,omitempty"`
	Category     string `json:"category,omitempty"`
	Theme        string `json:"theme,omitempty"`
}

// AdvanceOnboardingInput represents an onboarding step submission
type AdvanceOnboardingInput struct {
	Step              int `json:"step" binding:"required"`
	CompletionPercent int `json:"completionPercent"`
}

// BlockOnboardingInput represents an external block signal
type BlockOnboardingInput struct {
	Reason string `json:"reason" binding:"required"`
}

// Onboarding step keys, indexed from step 1
const (
	StepBrandBasics           = "BRAND_BASICS"
	StepBusinessDetails       = "BUSINESS_DETAILS"
	StepStorefrontPreferences = "STOREFRONT_PREFERENCES"
	StepMarketingIntent       = "MARKETING_INTENT"
	StepConfirmation          = "CONFIRMATION"
)

var onboardingStepKeys = []string{
	StepBrandBasics,
	StepBusinessDetails,
	StepStorefrontPreferences,
	StepMarketingIntent,
	StepConfirmation,
}

// StepKey returns the step key for a 1-based step number. Steps past the
// known flow map to the last step.
func StepKey(step int) string {
	if step < 1 {
		return onboardingStepKeys[0]
	}
	if step > len(onboardingStepKeys) {
		return onboardingStepKeys[len(onboardingStepKeys)-1]
	}
	return onboardingStepKeys[step-1]
}

