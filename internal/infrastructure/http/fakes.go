package httpserver

import (
	"context"
	"sync"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"
)

var _ application.RateCache = (*fakeCache)(nil)
var _ application.RateHistoryRepo = (*fakeHistory)(nil)
var _ application.RateProvider = (*fakeProvider)(nil)

type fakeCache struct {
	mu   sync.Mutex
	rec  domain.RateRecord
	full bool
}

func (f *fakeCache) Get(context.Context) (domain.RateRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec, f.full
}

func (f *fakeCache) Put(_ context.Context, rec domain.RateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rec, f.full = rec, true
	return nil
}

func (f *fakeCache) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.full = false
	return nil
}

type fakeHistory struct {
	mu    sync.Mutex
	store map[string]domain.RateRecord
}

func (f *fakeHistory) GetByDate(_ context.Context, date time.Time) (domain.RateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.store[date.Format(time.DateOnly)]
	if !ok {
		return domain.RateRecord{}, application.ErrNotFound
	}
	return rec, nil
}

func (f *fakeHistory) GetLatestBefore(_ context.Context, date time.Time) (domain.RateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best domain.RateRecord
	found := false
	for _, rec := range f.store {
		if rec.EffectiveDate.Before(domain.DateOnly(date)) &&
			(!found || rec.EffectiveDate.After(best.EffectiveDate)) {
			best, found = rec, true
		}
	}
	if !found {
		return domain.RateRecord{}, application.ErrNotFound
	}
	return best, nil
}

func (f *fakeHistory) Upsert(_ context.Context, value float64, date time.Time, source domain.RateSource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store == nil {
		f.store = map[string]domain.RateRecord{}
	}
	f.store[date.Format(time.DateOnly)] = domain.RateRecord{
		Value:         value,
		EffectiveDate: domain.DateOnly(date),
		Source:        source,
	}
	return nil
}

type fakeProvider struct {
	rec domain.RateRecord
	err error
}

func (f *fakeProvider) Current(context.Context) (domain.RateRecord, error) {
	if f.err != nil {
		return domain.RateRecord{}, f.err
	}
	return f.rec, nil
}

func (f *fakeProvider) ForDate(_ context.Context, date time.Time) (domain.RateRecord, error) {
	if f.err != nil {
		return domain.RateRecord{}, f.err
	}
	rec := f.rec
	rec.EffectiveDate = domain.DateOnly(date)
	return rec, nil
}

// syncRunner keeps handler tests deterministic.
type syncRunner struct{}

func (syncRunner) Submit(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

// NewInMemoryService wires a RateService from in-memory fakes.
func NewInMemoryService() (*application.RateService, *fakeCache, *fakeHistory, *fakeProvider) {
	fc := &fakeCache{}
	fh := &fakeHistory{store: map[string]domain.RateRecord{}}
	fp := &fakeProvider{rec: domain.RateRecord{
		Value:         36.42,
		EffectiveDate: domain.DateOnly(time.Now().UTC()),
	}}
	svc := application.NewRateService(fc, fh, fp, nil, application.WithTaskRunner(syncRunner{}))
	return svc, fc, fh, fp
}
