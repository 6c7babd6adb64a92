package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which domain events a subscriber has already
// handled, so retried or redelivered events (certificate mints, notification
// dispatches) are not processed twice.
type IdempotencyStore interface {
	// MarkProcessed records an event as handled for the given TTL.
	// It returns true when the event was newly recorded and false when it
	// had already been seen.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event has already been handled.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases the store's resources.
	Close() error
}

// IdempotencyConfig controls duplicate-event suppression.
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered. Once it lapses
	// the same event ID may be handled again.
	TTL time.Duration

	// Enabled toggles the duplicate check entirely.
	Enabled bool
}

// DefaultIdempotencyConfig remembers processed events for 24 hours.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
