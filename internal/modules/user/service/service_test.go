package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/user/repository"
	"github.com/reshetovitsme/channel-telltale/internal/shared/kvstore"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging/messagingtest"
)

func newTestService(t *testing.T, interests []domain.Interest) (*Service, *messagingtest.Client) {
	t.Helper()
	client := messagingtest.New()
	client.Members["U1"] = &domain.User{ID: "U1", Name: "alice"}
	client.Members["U2"] = &domain.User{ID: "U2", Name: "bob"}
	client.Members["U3"] = &domain.User{ID: "U3", Name: "carol"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewKVStorage(kvstore.NewMemory())
	return New(repo, client, interests, logger), client
}

func TestInterestedUsers(t *testing.T) {
	interests := []domain.Interest{
		{Prefix: "bug-", UserNames: []string{"alice", "bob", "ghost"}},
		{Prefix: "bug-ui", UserNames: []string{"U3", "alice"}},
		{Prefix: "ops-", UserNames: []string{"carol"}},
	}

	tests := []struct {
		name    string
		channel channelDomain.Channel
		wantIDs []string
	}{
		{
			name:    "members excluded and unknown names skipped",
			channel: channelDomain.Channel{ID: "C1", Name: "bug-api", MemberIDs: []string{"U2"}},
			wantIDs: []string{"U1"},
		},
		{
			name:    "several prefixes merge without duplicates",
			channel: channelDomain.Channel{ID: "C2", Name: "bug-ui-crash"},
			wantIDs: []string{"U1", "U2", "U3"},
		},
		{
			name:    "no matching prefix",
			channel: channelDomain.Channel{ID: "C3", Name: "random"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, interests)
			users, err := svc.InterestedUsers(context.Background(), &tt.channel)
			if err != nil {
				t.Fatalf("InterestedUsers: %v", err)
			}

			var ids []string
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("InterestedUsers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterestedUsersSkipsDirectoryWhenNothingMatches(t *testing.T) {
	svc, client := newTestService(t, []domain.Interest{{Prefix: "bug-", UserNames: []string{"alice"}}})

	if _, err := svc.InterestedUsers(context.Background(), &channelDomain.Channel{Name: "dev-x"}); err != nil {
		t.Fatalf("InterestedUsers: %v", err)
	}
	if client.UsersCalls != 0 {
		t.Errorf("Users called %d times, want 0", client.UsersCalls)
	}
}

func TestInterestedUsersDirectoryFailure(t *testing.T) {
	svc, client := newTestService(t, []domain.Interest{{Prefix: "bug-", UserNames: []string{"alice"}}})
	client.UsersErr = errors.New("boom")

	if _, err := svc.InterestedUsers(context.Background(), &channelDomain.Channel{Name: "bug-x"}); err == nil {
		t.Fatal("InterestedUsers error = nil, want failure")
	}
}

func TestEnableFeature(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	if err := svc.EnableFeature(ctx, "U1", domain.FeatureAprilFool); err != nil {
		t.Fatalf("EnableFeature: %v", err)
	}
	has, err := svc.HasFeature(ctx, "U1", domain.FeatureAprilFool)
	if err != nil || !has {
		t.Errorf("HasFeature = %v, %v; want true, nil", has, err)
	}
}
