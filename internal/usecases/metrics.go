package usecases

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters exported by the storefront usecases
type Metrics struct {
	ThemeDispatchMiss     prometheus.Counter
	CustomizationFallback *prometheus.CounterVec
	LifecycleTransitions  *prometheus.CounterVec
	LifecycleConflicts    *prometheus.CounterVec
	TenantResolutions     *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg. A nil reg leaves
// them unregistered, which is what unit tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ThemeDispatchMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "orbit",
			Name:      "theme_dispatch_miss_total",
			Help:      "Theme identifiers that matched no alias and fell back to GENERAL.",
		}),
		CustomizationFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orbit",
			Name:      "customization_fallback_total",
			Help:      "Customization loads that returned defaults, by reason.",
		}, []string{"reason"}),
		LifecycleTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orbit",
			Name:      "lifecycle_transitions_total",
			Help:      "Applied store lifecycle transitions, by operation.",
		}, []string{"operation"}),
		LifecycleConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orbit",
			Name:      "lifecycle_conflicts_total",
			Help:      "Lifecycle writes that lost the compare-and-set, by operation.",
		}, []string{"operation"}),
		TenantResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orbit",
			Name:      "tenant_resolutions_total",
			Help:      "Host resolutions, by outcome.",
		}, []string{"outcome"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ThemeDispatchMiss,
			m.CustomizationFallback,
			m.LifecycleTransitions,
			m.LifecycleConflicts,
			m.TenantResolutions,
		)
	}
	return m
}
