package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFunnel_ZeroStores(t *testing.T) {
	funnel := ComputeFunnel(nil)

	assert.Equal(t, 0, funnel.TotalStores)
	require.Len(t, funnel.StatusSummary, len(OnboardingStatuses))
	for _, status := range OnboardingStatuses {
		assert.Equal(t, 0, funnel.StatusSummary[status])
		assert.Equal(t, 0, funnel.Percentages[status])
	}
}

func TestComputeFunnel_CountsAndRounding(t *testing.T) {
	statuses := []OnboardingStatus{
		OnboardingStatusNotStarted,
		OnboardingStatusInProgress,
		OnboardingStatusInProgress,
		OnboardingStatusCompleted,
		OnboardingStatusCompleted,
		OnboardingStatusCompleted,
		OnboardingStatusBlocked,
	}

	funnel := ComputeFunnel(statuses)

	assert.Equal(t, 7, funnel.TotalStores)
	assert.Equal(t, 1, funnel.StatusSummary[OnboardingStatusNotStarted])
	assert.Equal(t, 2, funnel.StatusSummary[OnboardingStatusInProgress])
	assert.Equal(t, 3, funnel.StatusSummary[OnboardingStatusCompleted])
	assert.Equal(t, 1, funnel.StatusSummary[OnboardingStatusBlocked])

	// 1/7 = 14.29, 2/7 = 28.57, 3/7 = 42.86
	assert.Equal(t, 14, funnel.Percentages[OnboardingStatusNotStarted])
	assert.Equal(t, 29, funnel.Percentages[OnboardingStatusInProgress])
	assert.Equal(t, 43, funnel.Percentages[OnboardingStatusCompleted])
	assert.Equal(t, 14, funnel.Percentages[OnboardingStatusBlocked])
}

func TestComputeFunnel_PercentagesSumWithinRoundingBound(t *testing.T) {
	for n := 1; n <= 40; n++ {
		statuses := make([]OnboardingStatus, 0, n)
		for i := 0; i < n; i++ {
			statuses = append(statuses, OnboardingStatuses[i%len(OnboardingStatuses)])
		}

		funnel := ComputeFunnel(statuses)
		sum := 0
		for _, pct := range funnel.Percentages {
			sum += pct
		}
		diff := float64(sum - 100)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, float64(n)*0.5, "n=%d sum=%d", n, sum)
	}
}

func TestComputeStepSummary(t *testing.T) {
	records := []*OnboardingRecord{
		{Status: OnboardingStatusInProgress, CurrentStep: 1},
		{Status: OnboardingStatusInProgress, CurrentStep: 3},
		{Status: OnboardingStatusBlocked, CurrentStep: 3},
		{Status: OnboardingStatusCompleted, CurrentStep: 5},
		{Status: OnboardingStatusNotStarted, CurrentStep: 1},
		nil,
	}

	summary := ComputeStepSummary(records)
	assert.Equal(t, 1, summary[StepBrandBasics])
	assert.Equal(t, 2, summary[StepStorefrontPreferences])
	assert.Equal(t, 0, summary[StepConfirmation])
	assert.Len(t, summary, 5)
}
