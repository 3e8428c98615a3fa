package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/reshetovitsme/channel-telltale/internal/shared/kvstore"
	"github.com/samber/oops"
)

// KVStorage implements Repository on top of a key-value store
type KVStorage struct {
	store kvstore.Store
}

// NewKVStorage creates a feature flag repository backed by store
func NewKVStorage(store kvstore.Store) Repository {
	return &KVStorage{store: store}
}

func featureKey(userID, feature string) string {
	return fmt.Sprintf("user-feature:%s:%s", userID, feature)
}

func (s *KVStorage) HasFeature(ctx context.Context, userID, feature string) (bool, error) {
	_, err := s.store.Get(ctx, featureKey(userID, feature))
	if errors.Is(err, sharedErrors.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, oops.With("user_id", userID, "feature", feature).Wrap(err)
	}
	return true, nil
}

func (s *KVStorage) SetFeature(ctx context.Context, userID, feature string, ttl time.Duration) error {
	if err := s.store.Set(ctx, featureKey(userID, feature), "true", ttl); err != nil {
		return oops.With("user_id", userID, "feature", feature).Wrap(err)
	}
	return nil
}
