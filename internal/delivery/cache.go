package delivery

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	settingsCacheKey = "delivery:settings"
	storesCacheKey   = "delivery:stores"
)

// Cache keeps delivery settings and the store list in Redis so every quote
// during a checkout session sees the same configuration without a database
// round trip. Admin writes invalidate both keys.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func (c Cache) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c.Client == nil || key == "" {
		return false, nil
	}
	data, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c Cache) setJSON(ctx context.Context, key string, v any) error {
	if c.Client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, data, c.TTL).Err()
}

// GetSettings returns cached settings if present.
func (c Cache) GetSettings(ctx context.Context) (Settings, bool) {
	var s Settings
	ok, err := c.getJSON(ctx, settingsCacheKey, &s)
	if err != nil || !ok {
		return Settings{}, false
	}
	return s, true
}

// SetSettings caches the settings with the configured TTL.
func (c Cache) SetSettings(ctx context.Context, s Settings) {
	_ = c.setJSON(ctx, settingsCacheKey, s)
}

// GetStores returns the cached store list if present.
func (c Cache) GetStores(ctx context.Context) ([]StoreLocation, bool) {
	var stores []StoreLocation
	ok, err := c.getJSON(ctx, storesCacheKey, &stores)
	if err != nil || !ok {
		return nil, false
	}
	return stores, true
}

// SetStores caches the store list with the configured TTL.
func (c Cache) SetStores(ctx context.Context, stores []StoreLocation) {
	_ = c.setJSON(ctx, storesCacheKey, stores)
}

// Invalidate drops both cached keys after an admin write.
func (c Cache) Invalidate(ctx context.Context) {
	if c.Client == nil {
		return
	}
	_ = c.Client.Del(ctx, settingsCacheKey, storesCacheKey).Err()
}
