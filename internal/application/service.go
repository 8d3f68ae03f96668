package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"bcvrates-service/internal/domain"

	"go.uber.org/zap"
)

// reconcileEpsilon is the smallest difference between a stored and a freshly
// fetched rate that still warrants another write.
const reconcileEpsilon = 1e-4

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// goRunner runs tasks on detached goroutines; used when no queue-backed
// runner is injected.
type goRunner struct{ log *zap.Logger }

func (g goRunner) Submit(name string, fn func(ctx context.Context) error) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				g.log.Warn("task.panic", zap.String("task", name), zap.Any("r", r))
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := fn(ctx); err != nil {
			g.log.Warn("task.failed", zap.String("task", name), zap.Error(err))
		}
	}()
}

// RateService reconciles the three tiers: cache, external source, history.
type RateService struct {
	cache    RateCache
	history  RateHistoryRepo
	provider RateProvider
	clock    Clock
	tasks    TaskRunner
	log      *zap.Logger
}

type Option func(*RateService)

func WithClock(c Clock) Option           { return func(s *RateService) { s.clock = c } }
func WithTaskRunner(r TaskRunner) Option { return func(s *RateService) { s.tasks = r } }

func NewRateService(cache RateCache, history RateHistoryRepo, provider RateProvider, log *zap.Logger, opts ...Option) *RateService {
	s := &RateService{
		cache:    cache,
		history:  history,
		provider: provider,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.tasks == nil {
		s.tasks = goRunner{log: s.log}
	}
	return s
}

// CurrentRate returns today's reference rate, cheapest tier first.
//
// A transport failure on the live fetch falls back to the database row for
// today; a live response that parses but carries no usable rate fails hard
// with ErrInvalidResponse, never masked by stale data. Persistence of the
// fetched rate runs in the background and cannot block or fail the caller;
// the trend lookup is synchronous but best effort.
func (s *RateService) CurrentRate(ctx context.Context) (domain.RateRecord, error) {
	if rec, ok := s.cache.Get(ctx); ok {
		rec.Source = domain.SourceCache
		return rec, nil
	}

	rec, err := s.provider.Current(ctx)
	if err != nil {
		today := domain.DateOnly(s.clock.Now())
		stored, dbErr := s.history.GetByDate(ctx, today)
		if dbErr == nil {
			stored.Source = domain.SourceDatabase
			return stored, nil
		}
		if !errors.Is(dbErr, ErrNotFound) {
			s.log.Warn("rate.fallback_lookup_failed", zap.Error(dbErr))
		}
		if errors.Is(err, ErrSourceUnavailable) {
			return domain.RateRecord{}, err
		}
		return domain.RateRecord{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if !rec.Valid() {
		return domain.RateRecord{}, fmt.Errorf("%w: source returned no usable rate", ErrInvalidResponse)
	}

	rec.Source = domain.SourceLiveAPI
	rec.CapturedAt = s.clock.Now()
	if rec.EffectiveDate.IsZero() {
		rec.EffectiveDate = domain.DateOnly(s.clock.Now())
	}

	if err := s.cache.Put(ctx, rec); err != nil {
		s.log.Warn("rate.cache_put_failed", zap.Error(err))
	}

	s.reconcileLater(rec)
	s.attachTrend(ctx, &rec)
	return rec, nil
}

// RateForDate returns the rate for one calendar date, database first.
// A provider hit is backfilled under the requested date so the next lookup
// stays on the durable tier.
func (s *RateService) RateForDate(ctx context.Context, date time.Time) (domain.RateRecord, error) {
	if date.IsZero() {
		return domain.RateRecord{}, fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}
	date = domain.DateOnly(date)

	stored, err := s.history.GetByDate(ctx, date)
	if err == nil {
		stored.Source = domain.SourceDatabase
		return stored, nil
	}
	if !errors.Is(err, ErrNotFound) {
		s.log.Warn("rate.history_lookup_failed", zap.Error(err))
	}

	rec, err := s.provider.ForDate(ctx, date)
	if err != nil {
		return domain.RateRecord{}, fmt.Errorf("%w: %v", ErrRateNotFound, err)
	}
	if !rec.Valid() {
		return domain.RateRecord{}, fmt.Errorf("%w: source returned no usable rate for %s", ErrRateNotFound, date.Format(time.DateOnly))
	}

	rec.Source = domain.SourceHistoricalAPI
	rec.EffectiveDate = date
	rec.CapturedAt = s.clock.Now()
	if err := s.history.Upsert(ctx, rec.Value, date, domain.SourceHistoricalAPI); err != nil {
		s.log.Warn("rate.backfill_failed", zap.Error(err), zap.Time("date", date))
	}
	return rec, nil
}

// reconcileLater persists the fetched rate without blocking the response.
// The write is skipped when the stored value is already within epsilon.
func (s *RateService) reconcileLater(rec domain.RateRecord) {
	date, value := rec.EffectiveDate, rec.Value
	s.tasks.Submit("rate.reconcile", func(ctx context.Context) error {
		stored, err := s.history.GetByDate(ctx, date)
		if err == nil && math.Abs(stored.Value-value) <= reconcileEpsilon {
			return nil
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.log.Warn("rate.reconcile_read_failed", zap.Error(err))
		}
		return s.history.Upsert(ctx, value, date, domain.SourceLiveAPI)
	})
}

// attachTrend annotates rec with its direction versus the nearest earlier
// stored date. On any failure the record ships without trend fields.
func (s *RateService) attachTrend(ctx context.Context, rec *domain.RateRecord) {
	prev, err := s.history.GetLatestBefore(ctx, rec.EffectiveDate)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("rate.trend_lookup_failed", zap.Error(err))
		}
		return
	}
	p := prev.Value
	rec.Trend = domain.CompareTrend(rec.Value, p)
	rec.PreviousValue = &p
}
