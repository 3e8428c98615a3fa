package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/shared/kvstore"
	"github.com/samber/oops"
)

// KVStorage implements Repository with one marker key per channel
type KVStorage struct {
	store kvstore.Store
}

// NewKVStorage creates a dedup repository backed by store
func NewKVStorage(store kvstore.Store) Repository {
	return &KVStorage{store: store}
}

func markerKey(channelID string) string {
	return "channel:" + channelID
}

func (s *KVStorage) Remember(ctx context.Context, channelID string, created int64, ttl time.Duration) (bool, error) {
	fresh, err := s.store.SetNX(ctx, markerKey(channelID), strconv.FormatInt(created, 10), ttl)
	if err != nil {
		return false, oops.With("channel_id", channelID, "context", "failed to set dedup marker").Wrap(err)
	}
	return fresh, nil
}
