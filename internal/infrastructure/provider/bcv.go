package provider

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"
)

const currentRatePath = "/rates/"

// jsonGetter is the slice of the relay dispatcher the provider needs.
type jsonGetter interface {
	GetJSON(ctx context.Context, target string, out any) error
}

// BCVProvider reads the central-bank reference rate from the external
// source, always through the relay dispatcher.
type BCVProvider struct {
	BaseURL string
	Fetch   jsonGetter
	Now     func() time.Time
}

var _ application.RateProvider = (*BCVProvider)(nil)

type bcvRateResp struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
	// bank_rates ships on historical responses but is not authoritative.
	BankRates json.RawMessage `json:"bank_rates,omitempty"`
}

func (p *BCVProvider) Current(ctx context.Context) (domain.RateRecord, error) {
	var body bcvRateResp
	if err := p.get(ctx, p.BaseURL+currentRatePath, &body); err != nil {
		return domain.RateRecord{}, err
	}
	return domain.RateRecord{
		Value:         body.Price,
		EffectiveDate: p.effectiveDate(body.Date),
	}, nil
}

func (p *BCVProvider) ForDate(ctx context.Context, date time.Time) (domain.RateRecord, error) {
	target := p.BaseURL + currentRatePath + date.UTC().Format(time.DateOnly)
	var body bcvRateResp
	if err := p.get(ctx, target, &body); err != nil {
		return domain.RateRecord{}, err
	}
	return domain.RateRecord{
		Value:         body.Price,
		EffectiveDate: domain.DateOnly(date),
	}, nil
}

func (p *BCVProvider) get(ctx context.Context, target string, out any) error {
	if p.BaseURL == "" {
		return errors.New("bcv: missing base url")
	}
	if p.Fetch == nil {
		return errors.New("bcv: missing dispatcher")
	}
	return p.Fetch.GetJSON(ctx, target, out)
}

// effectiveDate prefers the source's own stated date; the published rate
// lags wall-clock today on weekends and holidays. An absent or mangled
// date field falls back to today.
func (p *BCVProvider) effectiveDate(s string) time.Time {
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return domain.DateOnly(d)
	}
	return domain.DateOnly(p.now())
}

func (p *BCVProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}
