package usecases

import (
	"context"

	"go.uber.org/zap"
	"orbit.backend/internal/domain/entities"
	"orbit.backend/pkg/logger"
)

// ThemeDispatcher selects the theme family a storefront renders with
type ThemeDispatcher struct {
	metrics *Metrics
}

// NewThemeDispatcher creates a new theme dispatcher
func NewThemeDispatcher(metrics *Metrics) *ThemeDispatcher {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &ThemeDispatcher{metrics: metrics}
}

// ThemeResolution is the outcome of resolving one theme identifier
type ThemeResolution struct {
	Raw         string               `json:"raw"`
	Normalized  string               `json:"normalized"`
	ThemeFamily entities.ThemeFamily `json:"themeFamily"`
	Matched     bool                 `json:"matched"`
}

// Resolve maps raw to a family. Unknown identifiers fall back to GENERAL and
// are reported as a dispatch miss; an empty identifier is not a miss.
func (d *ThemeDispatcher) Resolve(ctx context.Context, raw string) ThemeResolution {
	res := ThemeResolution{
		Raw:         raw,
		Normalized:  NormalizeThemeKey(raw),
		ThemeFamily: entities.ThemeFamilyGeneral,
	}
	if family, ok := LookupThemeFamily(raw); ok {
		res.ThemeFamily = family
		res.Matched = true
		return res
	}
	if res.Normalized != "" {
		d.recordMiss(ctx, raw, "")
	}
	return res
}

// DispatchStore picks the family for a store from its theme, falling back to
// its category, then GENERAL.
func (d *ThemeDispatcher) DispatchStore(ctx context.Context, store *entities.Store) entities.ThemeFamily {
	if store == nil {
		return entities.ThemeFamilyGeneral
	}
	if family, ok := LookupThemeFamily(store.ThemeRaw); ok {
		return family
	}
	if family, ok := LookupThemeFamily(store.Category); ok {
		if NormalizeThemeKey(store.ThemeRaw) != "" {
			d.recordMiss(ctx, store.ThemeRaw, store.Category)
		}
		return family
	}
	if NormalizeThemeKey(store.ThemeRaw) != "" || NormalizeThemeKey(store.Category) != "" {
		d.recordMiss(ctx, store.ThemeRaw, store.Category)
	}
	return entities.ThemeFamilyGeneral
}

func (d *ThemeDispatcher) recordMiss(ctx context.Context, raw, category string) {
	d.metrics.ThemeDispatchMiss.Inc()
	logger.Warn(ctx, "Theme dispatch miss",
		zap.String("theme", raw),
		zap.String("category", category),
	)
}
