package provider

import (
	"context"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"
)

// Ensure Fake implements application.RateProvider.
var _ application.RateProvider = (*Fake)(nil)

type Fake struct {
	value float64
}

func NewFake(value float64) *Fake { return &Fake{value: value} }

func (f *Fake) Current(context.Context) (domain.RateRecord, error) {
	return domain.RateRecord{
		Value:         f.value,
		EffectiveDate: domain.DateOnly(time.Now().UTC()),
	}, nil
}

func (f *Fake) ForDate(_ context.Context, date time.Time) (domain.RateRecord, error) {
	return domain.RateRecord{
		Value:         f.value,
		EffectiveDate: domain.DateOnly(date),
	}, nil
}
