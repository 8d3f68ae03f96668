package domain

import (
	"math"
	"time"
)

// CurrencyCode is the single foreign currency the service quotes against.
// Rates are expressed as VES per one unit of it.
const CurrencyCode = "USD"

type RateSource string

const (
	SourceLiveAPI       RateSource = "live_api"
	SourceHistoricalAPI RateSource = "historical_api"
	SourceDatabase      RateSource = "database"
	SourceCache         RateSource = "cache"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// RateRecord is the reference rate for one calendar date. Trend and
// PreviousValue are derived against the nearest earlier stored date;
// when no earlier record exists they stay empty.
type RateRecord struct {
	Value         float64    `json:"value"`
	EffectiveDate time.Time  `json:"effective_date"`
	Source        RateSource `json:"source"`
	CapturedAt    time.Time  `json:"captured_at"`
	Trend         Trend      `json:"trend,omitempty"`
	PreviousValue *float64   `json:"previous_value,omitempty"`
}

// Valid reports whether the rate value may be cached or persisted.
func (r RateRecord) Valid() bool {
	return r.Value > 0 && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0)
}

// DateOnly truncates t to UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CompareTrend derives the direction of value relative to previous.
func CompareTrend(value, previous float64) Trend {
	switch {
	case value > previous:
		return TrendUp
	case value < previous:
		return TrendDown
	default:
		return TrendStable
	}
}
