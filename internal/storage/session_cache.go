package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/academy-backend/internal/models"
)

// SessionCache caches recently fetched profiles in Redis so session checks
// survive brief database outages. Entries expire; the cache is a fallback,
// never the source of truth.
type SessionCache struct {
	cache *RedisCache
	ttl   time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(cache *RedisCache, ttl time.Duration) *SessionCache {
	return &SessionCache{cache: cache, ttl: ttl}
}

func sessionKey(userID string) string {
	return fmt.Sprintf("session:%s", userID)
}

// Put stores a profile snapshot for a user
func (c *SessionCache) Put(ctx context.Context, profile *models.Profile) error {
	if c == nil || c.cache == nil {
		return nil
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal cached profile: %w", err)
	}

	return c.cache.Set(ctx, sessionKey(profile.ID), data, c.ttl)
}

// Get retrieves a cached profile snapshot. A cache miss returns (nil, nil).
func (c *SessionCache) Get(ctx context.Context, userID string) (*models.Profile, error) {
	if c == nil || c.cache == nil {
		return nil, nil
	}

	data, err := c.cache.Get(ctx, sessionKey(userID))
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached profile: %w", err)
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached profile: %w", err)
	}

	return &profile, nil
}

// Invalidate drops the cached snapshot for a user
func (c *SessionCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx, sessionKey(userID))
}
