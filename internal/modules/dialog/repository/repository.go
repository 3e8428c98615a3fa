package repository

import (
	"context"
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
)

// Repository persists one dialog state per channel
type Repository interface {
	Load(ctx context.Context, channelID string) (*domain.State, error)
	Save(ctx context.Context, channelID string, st *domain.State, ttl time.Duration) error
}
