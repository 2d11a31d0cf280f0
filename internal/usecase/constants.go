package usecase

import "time"

const (
	// DefaultPageSize bounds list queries when the caller sends none.
	DefaultPageSize = 20

	// MaxPageSize is the hard cap for list queries.
	MaxPageSize = 100

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
