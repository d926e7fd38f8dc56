package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"orbit.backend/internal/domain/entities"
	"orbit.backend/pkg/redis"
)

const customizationKeyPrefix = "customization:"

var (
	redisGet = redis.Get
	redisSet = redis.Set
	redisDel = redis.Del
)

// CustomizationCache keeps real customization payloads in redis for a short TTL
type CustomizationCache struct{}

// NewCustomizationCache creates a redis-backed customization cache
func NewCustomizationCache() *CustomizationCache {
	return &CustomizationCache{}
}

func customizationKey(storeID uuid.UUID) string {
	return customizationKeyPrefix + storeID.String()
}

// Get returns the cached customization, or (nil, nil) on a miss.
func (c *CustomizationCache) Get(ctx context.Context, storeID uuid.UUID) (*entities.Customization, error) {
	val, err := redisGet(ctx, customizationKey(storeID))
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out entities.Customization
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		// a corrupt entry is a miss; the next Set overwrites it
		return nil, nil
	}
	return &out, nil
}

// Set stores customization for ttl. Defaults are never cached.
func (c *CustomizationCache) Set(ctx context.Context, customization *entities.Customization, ttl time.Duration) error {
	if customization == nil || customization.IsDefault || ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(customization)
	if err != nil {
		return err
	}
	return redisSet(ctx, customizationKey(customization.StoreID), payload, ttl)
}

func (c *CustomizationCache) Invalidate(ctx context.Context, storeID uuid.UUID) error {
	return redisDel(ctx, customizationKey(storeID))
}
