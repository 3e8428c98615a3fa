package repository

import (
	"context"
	"time"
)

// Repository remembers which channels have already been announced
type Repository interface {
	// Remember atomically records the channel and reports whether this call was
	// the first to do so. A false result means the channel was already seen.
	Remember(ctx context.Context, channelID string, created int64, ttl time.Duration) (bool, error)
}
