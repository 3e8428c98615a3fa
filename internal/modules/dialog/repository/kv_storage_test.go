package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/reshetovitsme/channel-telltale/internal/shared/kvstore"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
)

func TestKVStorageSaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewKVStorage(kvstore.NewMemory())

	st := &domain.State{
		StateID:           domain.StateIDImpatient,
		SearchTerms:       []string{"cute", "dogs"},
		PreviousDialog:    []string{"What about this one?"},
		PreviousImageURLs: []string{"http://img/1.png"},
		Msg:               &messaging.Message{Text: "hello"},
	}
	if err := repo.Save(ctx, "C1", st, time.Hour); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx, "C1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(st, got); diff != "" {
		t.Errorf("loaded state mismatch (-want +got):\n%s", diff)
	}
}

func TestKVStorageLoadMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewKVStorage(store)

	if _, err := repo.Load(ctx, "nope"); !errors.Is(err, sharedErrors.ErrSessionNotFound) {
		t.Errorf("missing: error = %v, want ErrSessionNotFound", err)
	}

	_ = store.Set(ctx, "dialog:C2", "not json", 0)
	if _, err := repo.Load(ctx, "C2"); !errors.Is(err, sharedErrors.ErrSessionNotFound) {
		t.Errorf("corrupt: error = %v, want ErrSessionNotFound", err)
	}

	_ = store.Set(ctx, "dialog:C3", `{"state_id":"bogus"}`, 0)
	if _, err := repo.Load(ctx, "C3"); !errors.Is(err, sharedErrors.ErrSessionNotFound) {
		t.Errorf("unknown state: error = %v, want ErrSessionNotFound", err)
	}
}
