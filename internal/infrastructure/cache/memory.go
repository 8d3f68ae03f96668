package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"
	infraconfig "bcvrates-service/internal/infrastructure/config"
)

const DefaultTTL = infraconfig.DefaultCacheTTL

// Memory is the in-process single-slot cache; same contract as the redis
// one, used when no redis is configured and in tests.
type Memory struct {
	TTL time.Duration
	Now func() time.Time

	mu       sync.Mutex
	rec      domain.RateRecord
	storedAt time.Time
	full     bool
}

var _ application.RateCache = (*Memory)(nil)

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Memory) ttl() time.Duration {
	if m.TTL > 0 {
		return m.TTL
	}
	return DefaultTTL
}

func (m *Memory) Get(context.Context) (domain.RateRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.full {
		return domain.RateRecord{}, false
	}
	if m.now().Sub(m.storedAt) >= m.ttl() {
		m.full = false
		return domain.RateRecord{}, false
	}
	return m.rec, true
}

func (m *Memory) Put(_ context.Context, rec domain.RateRecord) error {
	if !rec.Valid() {
		return errors.New("memory cache: refusing to store invalid rate")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec, m.storedAt, m.full = rec, m.now(), true
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.full = false
	return nil
}

// Noop never hits; used when caching is disabled outright.
type Noop struct{}

var _ application.RateCache = Noop{}

func (Noop) Get(context.Context) (domain.RateRecord, bool) { return domain.RateRecord{}, false }
func (Noop) Put(context.Context, domain.RateRecord) error  { return nil }
func (Noop) Clear(context.Context) error                   { return nil }
