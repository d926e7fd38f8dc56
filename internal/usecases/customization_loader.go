package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"orbit.backend/internal/domain/entities"
	domainerrors "orbit.backend/internal/domain/errors"
	"orbit.backend/internal/domain/repositories"
	"orbit.backend/pkg/logger"
)

const (
	DefaultCustomizationTimeout  = 2 * time.Second
	DefaultCustomizationCacheTTL = 60 * time.Second
)

// fallback reasons reported on orbit_customization_fallback_total
const (
	fallbackTimeout     = "timeout"
	fallbackNotFound    = "not_found"
	fallbackMalformed   = "malformed"
	fallbackUnavailable = "unavailable"
	fallbackPanic       = "panic"
)

// CustomizationLoaderConfig tunes the loader
type CustomizationLoaderConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

// CustomizationLoader loads store branding and degrades to defaults on any
// failure of the underlying source
type CustomizationLoader struct {
	source  repositories.CustomizationSource
	writer  repositories.CustomizationWriter
	cache   repositories.CustomizationCache
	stores  repositories.StoreDirectory
	cfg     CustomizationLoaderConfig
	metrics *Metrics
}

// NewCustomizationLoader creates a new loader. writer and cache are optional:
// without a writer Save is refused, without a cache every Load hits source.
func NewCustomizationLoader(
	source repositories.CustomizationSource,
	writer repositories.CustomizationWriter,
	cache repositories.CustomizationCache,
	stores repositories.StoreDirectory,
	cfg CustomizationLoaderConfig,
	metrics *Metrics,
) *CustomizationLoader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCustomizationTimeout
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &CustomizationLoader{
		source:  source,
		writer:  writer,
		cache:   cache,
		stores:  stores,
		cfg:     cfg,
		metrics: metrics,
	}
}

var errSourcePanic = errors.New("customization source panic")

type fetchResult struct {
	customization *entities.Customization
	err           error
}

// Load returns the store's customization. It never fails: a timeout, a
// missing record, a malformed payload or a panicking source all yield the
// total default with IsDefault set.
func (l *CustomizationLoader) Load(ctx context.Context, storeID uuid.UUID) *entities.Customization {
	if l.cache != nil {
		cached, err := l.cache.Get(ctx, storeID)
		if err != nil {
			logger.Debug(ctx, "Customization cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached
		}
	}

	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: fmt.Errorf("%w: %v", errSourcePanic, r)}
			}
		}()
		c, err := l.source.GetByStoreID(ctx, storeID)
		done <- fetchResult{customization: c, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return l.fallback(ctx, storeID, fallbackTimeout, ctx.Err())
	}

	if res.err != nil {
		return l.fallback(ctx, storeID, classifyFallback(res.err), res.err)
	}
	if res.customization == nil || !res.customization.Colors.Valid() {
		return l.fallback(ctx, storeID, fallbackMalformed, domainerrors.ErrMalformedPayload)
	}

	c := *res.customization
	c.StoreID = storeID
	c.IsDefault = false

	if l.cache != nil && l.cfg.CacheTTL > 0 {
		if err := l.cache.Set(ctx, &c, l.cfg.CacheTTL); err != nil {
			logger.Debug(ctx, "Customization cache write failed", zap.Error(err))
		}
	}
	return &c
}

// Refresh drops any cached payload and loads again from the source.
func (l *CustomizationLoader) Refresh(ctx context.Context, storeID uuid.UUID) *entities.Customization {
	l.invalidate(ctx, storeID)
	return l.Load(ctx, storeID)
}

// Save validates and persists an admin edit, then invalidates the cache.
func (l *CustomizationLoader) Save(ctx context.Context, storeID uuid.UUID, input *entities.CustomizationInput) (*entities.Customization, error) {
	if l.writer == nil {
		return nil, fmt.Errorf("customization is managed by the branding service: %w", domainerrors.ErrForbidden)
	}
	if input == nil || !input.Colors.Valid() {
		return nil, fmt.Errorf("colors must be #RGB or #RRGGBB: %w", domainerrors.ErrInvalidInput)
	}
	if l.stores != nil {
		if _, err := l.stores.FindByID(ctx, storeID); err != nil {
			return nil, err
		}
	}

	c := &entities.Customization{
		StoreID:        storeID,
		Colors:         input.Colors,
		HeroTitle:      strings.TrimSpace(input.HeroTitle),
		HeroSubtitle:   strings.TrimSpace(input.HeroSubtitle),
		SEOTitle:       strings.TrimSpace(input.SEOTitle),
		SEODescription: strings.TrimSpace(input.SEODescription),
	}
	if logo := strings.TrimSpace(input.LogoURL); logo != "" {
		c.LogoURL = null.StringFrom(logo)
	}

	if err := l.writer.Upsert(ctx, c); err != nil {
		return nil, err
	}
	l.invalidate(ctx, storeID)

	logger.Info(ctx, "Customization saved", zap.String("store_id", storeID.String()))
	return c, nil
}

func (l *CustomizationLoader) invalidate(ctx context.Context, storeID uuid.UUID) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Invalidate(ctx, storeID); err != nil {
		logger.Debug(ctx, "Customization cache invalidate failed", zap.Error(err))
	}
}

func (l *CustomizationLoader) fallback(ctx context.Context, storeID uuid.UUID, reason string, cause error) *entities.Customization {
	l.metrics.CustomizationFallback.WithLabelValues(reason).Inc()
	if reason != fallbackNotFound {
		logger.Warn(ctx, "Customization unavailable, using defaults",
			zap.String("store_id", storeID.String()),
			zap.String("reason", reason),
			zap.Error(cause),
		)
	}
	return entities.DefaultCustomization(storeID)
}

func classifyFallback(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return fallbackNotFound
	case errors.Is(err, domainerrors.ErrMalformedPayload):
		return fallbackMalformed
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fallbackTimeout
	case errors.Is(err, errSourcePanic):
		return fallbackPanic
	default:
		return fallbackUnavailable
	}
}
