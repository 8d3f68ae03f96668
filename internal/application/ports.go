package application

import (
	"context"
	"time"

	"bcvrates-service/internal/domain"
)

// RateCache is the short-TTL, single-slot cache in front of the provider.
// Corrupt or expired entries read as a miss, never as an error.
type RateCache interface {
	Get(ctx context.Context) (domain.RateRecord, bool)
	Put(ctx context.Context, rec domain.RateRecord) error
	Clear(ctx context.Context) error
}

// RateHistoryRepo is the durable one-rate-per-date store. Upsert is
// last-write-wins on the (date, currency) key.
type RateHistoryRepo interface {
	GetByDate(ctx context.Context, date time.Time) (domain.RateRecord, error)
	GetLatestBefore(ctx context.Context, date time.Time) (domain.RateRecord, error)
	Upsert(ctx context.Context, value float64, date time.Time, source domain.RateSource) error
}

// RateProvider fetches rates from the external source.
type RateProvider interface {
	Current(ctx context.Context) (domain.RateRecord, error)
	ForDate(ctx context.Context, date time.Time) (domain.RateRecord, error)
}

// TaskRunner executes best-effort background work. Implementations must
// never surface task failures to the submitter.
type TaskRunner interface {
	Submit(name string, fn func(ctx context.Context) error)
}

// Worker represents a background processor.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
