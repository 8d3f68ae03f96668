package application

import (
	"context"
	"testing"
	"time"

	"bcvrates-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func Test_RateForDate_ZeroDate_InvalidArgument(t *testing.T) {
	t.Parallel()
	svc := newService(&fakeCache{}, &fakeHistory{}, &fakeProvider{})

	_, err := svc.RateForDate(context.Background(), time.Time{})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func Test_RateForDate_DatabaseHit_NoFetch(t *testing.T) {
	t.Parallel()
	hist := &fakeHistory{store: map[string]domain.RateRecord{
		dateKey(mar1): {Value: 36.0, EffectiveDate: mar1, Source: domain.SourceHistoricalAPI},
	}}
	prov := &fakeProvider{}
	svc := newService(&fakeCache{}, hist, prov)

	rec, err := svc.RateForDate(context.Background(), mar1)
	require.NoError(t, err)
	require.Equal(t, domain.SourceDatabase, rec.Source)
	require.InDelta(t, 36.0, rec.Value, 1e-9)
	require.Zero(t, prov.forDateCalls)
}

func Test_RateForDate_Miss_FetchesAndBackfills(t *testing.T) {
	t.Parallel()
	hist := &fakeHistory{}
	// Provider states a different effective date; the backfill still lands
	// under the requested one.
	prov := &fakeProvider{out: domain.RateRecord{Value: 35.8, EffectiveDate: mar2}}
	svc := newService(&fakeCache{}, hist, prov)

	rec, err := svc.RateForDate(context.Background(), mar1)
	require.NoError(t, err)
	require.Equal(t, domain.SourceHistoricalAPI, rec.Source)
	require.Equal(t, mar1, rec.EffectiveDate)
	require.Contains(t, hist.store, dateKey(mar1))
}

func Test_RateForDate_SecondLookupStaysOnDatabase(t *testing.T) {
	t.Parallel()
	hist := &fakeHistory{}
	prov := &fakeProvider{out: domain.RateRecord{Value: 35.8, EffectiveDate: mar1}}
	svc := newService(&fakeCache{}, hist, prov)

	first, err := svc.RateForDate(context.Background(), mar1)
	require.NoError(t, err)
	second, err := svc.RateForDate(context.Background(), mar1)
	require.NoError(t, err)

	require.Equal(t, 1, prov.forDateCalls, "backfilled date must not be fetched twice")
	require.Equal(t, domain.SourceDatabase, second.Source)
	require.InDelta(t, first.Value, second.Value, 1e-9)
}

func Test_RateForDate_ProviderFails_RateNotFound(t *testing.T) {
	t.Parallel()
	prov := &fakeProvider{err: ErrSourceUnavailable}
	svc := newService(&fakeCache{}, &fakeHistory{}, prov)

	_, err := svc.RateForDate(context.Background(), mar1)
	require.ErrorIs(t, err, ErrRateNotFound)
}

func Test_RateForDate_UnusableRate_RateNotFound(t *testing.T) {
	t.Parallel()
	prov := &fakeProvider{out: domain.RateRecord{Value: 0}}
	svc := newService(&fakeCache{}, &fakeHistory{}, prov)

	_, err := svc.RateForDate(context.Background(), mar1)
	require.ErrorIs(t, err, ErrRateNotFound)
}

func Test_RateForDate_BackfillFailure_StillReturnsRate(t *testing.T) {
	t.Parallel()
	hist := &fakeHistory{upErr: ErrRepo}
	prov := &fakeProvider{out: domain.RateRecord{Value: 35.8, EffectiveDate: mar1}}
	svc := newService(&fakeCache{}, hist, prov)

	rec, err := svc.RateForDate(context.Background(), mar1)
	require.NoError(t, err)
	require.InDelta(t, 35.8, rec.Value, 1e-9)
}
