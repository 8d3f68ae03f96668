package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"bcvrates-service/internal/domain"
)

var ErrRepo = errors.New("repo error")

// syncRunner executes submitted tasks inline so tests stay deterministic.
type syncRunner struct{ errs []error }

func (r *syncRunner) Submit(_ string, fn func(ctx context.Context) error) {
	if err := fn(context.Background()); err != nil {
		r.errs = append(r.errs, err)
	}
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type fakeCache struct {
	mu   sync.Mutex
	rec  domain.RateRecord
	full bool
	puts int
}

func (f *fakeCache) Get(context.Context) (domain.RateRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.full {
		return domain.RateRecord{}, false
	}
	return f.rec, true
}

func (f *fakeCache) Put(_ context.Context, rec domain.RateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rec, f.full = rec, true
	f.puts++
	return nil
}

func (f *fakeCache) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.full = false
	return nil
}

type fakeHistory struct {
	mu      sync.Mutex
	store   map[string]domain.RateRecord // keyed by YYYY-MM-DD
	getErr  error
	upErr   error
	upserts int
}

func dateKey(t time.Time) string { return t.UTC().Format(time.DateOnly) }

func (f *fakeHistory) GetByDate(_ context.Context, date time.Time) (domain.RateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.RateRecord{}, f.getErr
	}
	rec, ok := f.store[dateKey(date)]
	if !ok {
		return domain.RateRecord{}, ErrNotFound
	}
	return rec, nil
}

func (f *fakeHistory) GetLatestBefore(_ context.Context, date time.Time) (domain.RateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return domain.RateRecord{}, f.getErr
	}
	var best domain.RateRecord
	found := false
	for _, rec := range f.store {
		if rec.EffectiveDate.Before(domain.DateOnly(date)) &&
			(!found || rec.EffectiveDate.After(best.EffectiveDate)) {
			best, found = rec, true
		}
	}
	if !found {
		return domain.RateRecord{}, ErrNotFound
	}
	return best, nil
}

func (f *fakeHistory) Upsert(_ context.Context, value float64, date time.Time, source domain.RateSource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upErr != nil {
		return f.upErr
	}
	if f.store == nil {
		f.store = map[string]domain.RateRecord{}
	}
	f.upserts++
	f.store[dateKey(date)] = domain.RateRecord{
		Value:         value,
		EffectiveDate: domain.DateOnly(date),
		Source:        source,
	}
	return nil
}

type fakeProvider struct {
	out          domain.RateRecord
	err          error
	currentCalls int
	forDateCalls int
}

func (f *fakeProvider) Current(context.Context) (domain.RateRecord, error) {
	f.currentCalls++
	if f.err != nil {
		return domain.RateRecord{}, f.err
	}
	return f.out, nil
}

func (f *fakeProvider) ForDate(context.Context, time.Time) (domain.RateRecord, error) {
	f.forDateCalls++
	if f.err != nil {
		return domain.RateRecord{}, f.err
	}
	return f.out, nil
}
