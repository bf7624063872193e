package cache

import (
	"careerpilot/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IntelligenceCache handles Redis caching of per-user intelligence
// summaries and dashboard analytics payloads
type IntelligenceCache interface {
	GetIntelligence(ctx context.Context, userID string) (*model.Intelligence, error)
	SetIntelligence(ctx context.Context, userID string, intelligence *model.Intelligence) error
	GetAnalytics(ctx context.Context, userID string) (*model.UserAnalytics, error)
	SetAnalytics(ctx context.Context, userID string, analytics *model.UserAnalytics) error
	Invalidate(ctx context.Context, userID string) error
}

type intelligenceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIntelligenceCache creates a new intelligence cache
func NewIntelligenceCache(client *redis.Client, ttl time.Duration) IntelligenceCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &intelligenceCache{
		client: client,
		ttl:    ttl,
	}
}

// Key helpers
func (c *intelligenceCache) intelligenceKey(userID string) string {
	return fmt.Sprintf("user:%s:intelligence", userID)
}

func (c *intelligenceCache) analyticsKey(userID string) string {
	return fmt.Sprintf("user:%s:analytics", userID)
}

func (c *intelligenceCache) GetIntelligence(ctx context.Context, userID string) (*model.Intelligence, error) {
	data, err := c.client.Get(ctx, c.intelligenceKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var intelligence model.Intelligence
	if err := json.Unmarshal([]byte(data), &intelligence); err != nil {
		return nil, err
	}
	return &intelligence, nil
}

func (c *intelligenceCache) SetIntelligence(ctx context.Context, userID string, intelligence *model.Intelligence) error {
	data, err := json.Marshal(intelligence)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.intelligenceKey(userID), data, c.ttl).Err()
}

func (c *intelligenceCache) GetAnalytics(ctx context.Context, userID string) (*model.UserAnalytics, error) {
	data, err := c.client.Get(ctx, c.analyticsKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var analytics model.UserAnalytics
	if err := json.Unmarshal([]byte(data), &analytics); err != nil {
		return nil, err
	}
	return &analytics, nil
}

func (c *intelligenceCache) SetAnalytics(ctx context.Context, userID string, analytics *model.UserAnalytics) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.analyticsKey(userID), data, c.ttl).Err()
}

func (c *intelligenceCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.intelligenceKey(userID), c.analyticsKey(userID)).Err()
}
