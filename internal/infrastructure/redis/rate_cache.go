package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// rateKey is the single cache slot; one active rate at a time, not per date.
const rateKey = "rates:current"

// cacheEntry wraps the record with its capture time for expiry checks.
type cacheEntry struct {
	Data      domain.RateRecord `json:"data"`
	Timestamp int64             `json:"timestamp"` // epoch millis
}

type RateCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

var _ application.RateCache = (*RateCache)(nil)

func New(client *redis.Client, ttl time.Duration, log *zap.Logger) *RateCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateCache{client: client, ttl: ttl, log: log, now: time.Now}
}

// Get returns the cached record when the entry is younger than the TTL.
// Corrupt or stale entries are evicted and read as a miss.
func (c *RateCache) Get(ctx context.Context) (domain.RateRecord, bool) {
	raw, err := c.client.Get(ctx, rateKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("rate_cache.get_failed", zap.Error(err))
		}
		return domain.RateRecord{}, false
	}
	var e cacheEntry
	if err := json.Unmarshal(raw, &e); err != nil || !e.Data.Valid() {
		_ = c.client.Del(ctx, rateKey).Err()
		return domain.RateRecord{}, false
	}
	if c.ttl > 0 && c.now().Sub(time.UnixMilli(e.Timestamp)) >= c.ttl {
		_ = c.client.Del(ctx, rateKey).Err()
		return domain.RateRecord{}, false
	}
	return e.Data, true
}

// Put overwrites the slot; the redis TTL doubles as a safety net should the
// process never read the entry again.
func (c *RateCache) Put(ctx context.Context, rec domain.RateRecord) error {
	if !rec.Valid() {
		return errors.New("rate_cache: refusing to store invalid rate")
	}
	raw, err := json.Marshal(cacheEntry{Data: rec, Timestamp: c.now().UnixMilli()})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, rateKey, raw, c.ttl).Err()
}

func (c *RateCache) Clear(ctx context.Context) error {
	return c.client.Del(ctx, rateKey).Err()
}
