package repository

import (
	"context"
	"time"
)

// Repository persists short-lived per-user feature flags
type Repository interface {
	HasFeature(ctx context.Context, userID, feature string) (bool, error)
	SetFeature(ctx context.Context, userID, feature string, ttl time.Duration) error
}
