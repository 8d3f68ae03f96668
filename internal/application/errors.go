package application

import "errors"

var (
	// ErrNotFound is the internal repo-level miss; rate lookups translate
	// it into one of the caller-facing errors below.
	ErrNotFound = errors.New("not found")

	ErrInvalidArgument   = errors.New("invalid argument")
	ErrSourceUnavailable = errors.New("rate source unavailable")
	ErrInvalidResponse   = errors.New("invalid rate response")
	ErrRateNotFound      = errors.New("rate not found")
)
