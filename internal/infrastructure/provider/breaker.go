package provider

import (
	"context"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"

	"github.com/sony/gobreaker"
)

// BreakerProvider stops hammering the relays after repeated failures.
// An open breaker reads as a transport failure, so callers keep their
// database fallback.
type BreakerProvider struct {
	next application.RateProvider
	cb   *gobreaker.CircuitBreaker
}

var _ application.RateProvider = (*BreakerProvider)(nil)

func NewBreakerProvider(next application.RateProvider, name string) *BreakerProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
	})
	return &BreakerProvider{next: next, cb: cb}
}

func (p *BreakerProvider) Current(ctx context.Context) (domain.RateRecord, error) {
	out, err := p.cb.Execute(func() (any, error) {
		return p.next.Current(ctx)
	})
	if err != nil {
		return domain.RateRecord{}, err
	}
	return out.(domain.RateRecord), nil
}

func (p *BreakerProvider) ForDate(ctx context.Context, date time.Time) (domain.RateRecord, error) {
	out, err := p.cb.Execute(func() (any, error) {
		return p.next.ForDate(ctx, date)
	})
	if err != nil {
		return domain.RateRecord{}, err
	}
	return out.(domain.RateRecord), nil
}
