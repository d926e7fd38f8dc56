package entities

import (
	"fmt"

	domainerrors "orbit.backend/internal/domain/errors"
)

var onboardingTransitions = map[OnboardingStatus]map[OnboardingStatus]bool{
	OnboardingStatusNotStarted: {
		OnboardingStatusInProgress: true,
	},
	OnboardingStatusInProgress: {
		OnboardingStatusInProgress: true,
		OnboardingStatusBlocked:    true,
		OnboardingStatusCompleted:  true,
	},
	OnboardingStatusBlocked: {
		OnboardingStatusInProgress: true,
	},
}

// CanTransitionOnboarding reports whether from -> to is a legal onboarding
// transition. COMPLETED is terminal.
func CanTransitionOnboarding(from, to OnboardingStatus) bool {
	return onboardingTransitions[from][to]
}

// ValidateOnboardingTransition returns ErrIllegalTransition for any move the
// onboarding state machine does not permit.
func ValidateOnboardingTransition(from, to OnboardingStatus) error {
	if !CanTransitionOnboarding(from, to) {
		return fmt.Errorf("onboarding %s -> %s: %w", from, to, domainerrors.ErrIllegalTransition)
	}
	return nil
}

// ValidateProvisioningTransition allows PENDING -> COMPLETED only.
func ValidateProvisioningTransition(from, to ProvisioningStatus) error {
	if from == ProvisioningStatusPending && to == ProvisioningStatusCompleted {
		return nil
	}
	return fmt.Errorf("provisioning %s -> %s: %w", from, to, domainerrors.ErrIllegalTransition)
}

// OnboardingTransition describes one compare-and-set mutation of a store and
// its onboarding record.
type OnboardingTransition struct {
	From              OnboardingStatus
	To                OnboardingStatus
	ExpectedVersion   int64
	CurrentStep       int
	CompletionPercent int
	BlockReason       string
}

// ValidateProgress checks step and percent bounds.
func ValidateProgress(step, completionPercent int) error {
	if step < 1 {
		return fmt.Errorf("step must be >= 1, got %d: %w", step, domainerrors.ErrInvalidInput)
	}
	if completionPercent < 0 || completionPercent > 100 {
		return fmt.Errorf("completionPercent must be within 0..100, got %d: %w", completionPercent, domainerrors.ErrInvalidInput)
	}
	return nil
}
