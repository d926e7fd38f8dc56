package entities

import "math"

// OnboardingFunnel is the platform-wide onboarding aggregate
type OnboardingFunnel struct {
	TotalStores   int                      `json:"totalStores"`
	StatusSummary map[OnboardingStatus]int `json:"statusSummary"`
	Percentages   map[OnboardingStatus]int `json:"percentages"`
	StepSummary   map[string]int           `json:"stepSummary,omitempty"`
}

// ComputeFunnel reduces current onboarding statuses to counts and rounded
// percentages. Every status bucket is present; zero stores yields 0% each.
func ComputeFunnel(statuses []OnboardingStatus) OnboardingFunnel {
	funnel := OnboardingFunnel{
		TotalStores:   len(statuses),
		StatusSummary: make(map[OnboardingStatus]int, len(OnboardingStatuses)),
		Percentages:   make(map[OnboardingStatus]int, len(OnboardingStatuses)),
	}
	for _, status := range OnboardingStatuses {
		funnel.StatusSummary[status] = 0
	}
	for _, status := range statuses {
		funnel.StatusSummary[status]++
	}
	for status, count := range funnel.StatusSummary {
		funnel.Percentages[status] = percentOf(count, funnel.TotalStores)
	}
	return funnel
}

// ComputeStepSummary counts unfinished onboarding records per current step key.
func ComputeStepSummary(records []*OnboardingRecord) map[string]int {
	summary := make(map[string]int, len(onboardingStepKeys))
	for _, key := range onboardingStepKeys {
		summary[key] = 0
	}
	for _, r := range records {
		if r == nil || r.Status == OnboardingStatusCompleted || r.Status == OnboardingStatusNotStarted {
			continue
		}
		summary[StepKey(r.CurrentStep)]++
	}
	return summary
}

func percentOf(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}
