package pg

import (
	"context"
	"errors"
	"time"

	"bcvrates-service/internal/application"
	"bcvrates-service/internal/domain"

	"github.com/jackc/pgx/v5"
)

// RateRepo is the durable one-rate-per-date store. Exchange rates are
// global, not tenant-scoped, so queries carry no tenant filter.
type RateRepo struct{ db *DB }

func NewRateRepo(db *DB) *RateRepo { return &RateRepo{db: db} }

var _ application.RateHistoryRepo = (*RateRepo)(nil)

func (r *RateRepo) GetByDate(ctx context.Context, date time.Time) (domain.RateRecord, error) {
	const q = `
        SELECT rate_value::float8, effective_date, source, captured_at
        FROM rates
        WHERE effective_date=$1 AND currency_code=$2`
	return r.queryOne(ctx, q, domain.DateOnly(date), domain.CurrencyCode)
}

func (r *RateRepo) GetLatestBefore(ctx context.Context, date time.Time) (domain.RateRecord, error) {
	const q = `
        SELECT rate_value::float8, effective_date, source, captured_at
        FROM rates
        WHERE effective_date < $1 AND currency_code=$2
        ORDER BY effective_date DESC
        LIMIT 1`
	return r.queryOne(ctx, q, domain.DateOnly(date), domain.CurrencyCode)
}

func (r *RateRepo) Upsert(ctx context.Context, value float64, date time.Time, source domain.RateSource) error {
	const up = `
        INSERT INTO rates(effective_date, currency_code, rate_value, source, captured_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
        ON CONFLICT (effective_date, currency_code) DO UPDATE
          SET rate_value=EXCLUDED.rate_value, source=EXCLUDED.source, updated_at=NOW()`
	_, err := r.db.Pool.Exec(ctx, up, domain.DateOnly(date), domain.CurrencyCode, value, string(source))
	return err
}

func (r *RateRepo) queryOne(ctx context.Context, q string, args ...any) (domain.RateRecord, error) {
	var out domain.RateRecord
	var src string
	err := r.db.Pool.QueryRow(ctx, q, args...).Scan(&out.Value, &out.EffectiveDate, &src, &out.CapturedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RateRecord{}, application.ErrNotFound
	}
	if err != nil {
		return domain.RateRecord{}, err
	}
	out.EffectiveDate = domain.DateOnly(out.EffectiveDate)
	out.Source = domain.RateSource(src)
	return out, nil
}
