package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/reshetovitsme/channel-telltale/internal/shared/kvstore"
	"github.com/samber/oops"
)

// KVStorage stores dialog state as JSON under dialog:<channel_id>
type KVStorage struct {
	store kvstore.Store
}

// NewKVStorage creates a dialog repository backed by store
func NewKVStorage(store kvstore.Store) Repository {
	return &KVStorage{store: store}
}

func stateKey(channelID string) string {
	return "dialog:" + channelID
}

// Load returns ErrSessionNotFound when no valid state is stored for the channel
func (s *KVStorage) Load(ctx context.Context, channelID string) (*domain.State, error) {
	raw, err := s.store.Get(ctx, stateKey(channelID))
	if errors.Is(err, sharedErrors.ErrKeyNotFound) {
		return nil, oops.With("channel_id", channelID).Wrap(sharedErrors.ErrSessionNotFound)
	}
	if err != nil {
		return nil, oops.With("channel_id", channelID, "context", "failed to load dialog state").Wrap(err)
	}

	st, err := domain.DecodeState([]byte(raw))
	if err != nil {
		return nil, oops.With("channel_id", channelID).Wrap(err)
	}
	return st, nil
}

func (s *KVStorage) Save(ctx context.Context, channelID string, st *domain.State, ttl time.Duration) error {
	data, err := json.Marshal(st)
	if err != nil {
		return oops.With("channel_id", channelID, "context", "failed to marshal dialog state").Wrap(err)
	}
	if err := s.store.Set(ctx, stateKey(channelID), string(data), ttl); err != nil {
		return oops.With("channel_id", channelID, "context", "failed to save dialog state").Wrap(err)
	}
	return nil
}
