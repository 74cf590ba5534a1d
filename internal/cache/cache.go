package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// SurveyCache is an optional Redis read-through cache for the public survey
// view. A nil *SurveyCache is valid and all methods degrade to misses, so
// callers never branch on whether caching is configured.
type SurveyCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns nil when addr is empty (caching disabled).
func New(addr, password string, db int, ttl time.Duration) *SurveyCache {
	if addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SurveyCache{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		ttl:    ttl,
	}
}

func key(surveyID string) string { return "survey:public:" + surveyID }

func (c *SurveyCache) GetSurvey(ctx context.Context, surveyID string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, key(surveyID)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (c *SurveyCache) SetSurvey(ctx context.Context, surveyID string, payload []byte) {
	if c == nil {
		return
	}
	c.client.Set(ctx, key(surveyID), payload, c.ttl)
}

// Invalidate drops the cached view after any admin mutation.
func (c *SurveyCache) Invalidate(ctx context.Context, surveyID string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, key(surveyID))
}

func (c *SurveyCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
