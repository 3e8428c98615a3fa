package slack

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/slack-go/slack"
)

type fakeAPI struct {
	channel     *slack.Channel
	channelErr  error
	memberPages [][]string
	memberCalls []string
	user        *slack.User
	users       []slack.User
	postErr     error
	postCalls   int
	updateCalls int
}

func (f *fakeAPI) GetConversationInfoContext(_ context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error) {
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	return f.channel, nil
}

func (f *fakeAPI) GetUsersInConversationContext(_ context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error) {
	f.memberCalls = append(f.memberCalls, params.Cursor)
	page := len(f.memberCalls) - 1
	next := ""
	if page+1 < len(f.memberPages) {
		next = "cursor-" + string(rune('a'+page))
	}
	return f.memberPages[page], next, nil
}

func (f *fakeAPI) GetUserInfoContext(_ context.Context, user string) (*slack.User, error) {
	return f.user, nil
}

func (f *fakeAPI) GetUsersContext(_ context.Context, _ ...slack.GetUsersOption) ([]slack.User, error) {
	return f.users, nil
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.postCalls++
	if f.postErr != nil {
		return "", "", f.postErr
	}
	return channelID, "1700000000.000001", nil
}

func (f *fakeAPI) UpdateMessageContext(_ context.Context, channelID, timestamp string, _ ...slack.MsgOption) (string, string, string, error) {
	f.updateCalls++
	return channelID, timestamp, "", nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func slackChannel(members []string) *slack.Channel {
	ch := &slack.Channel{}
	ch.ID = "C1"
	ch.Name = "dev-test-1"
	ch.Creator = "U1"
	ch.Purpose.Value = "testing things"
	ch.Members = members
	ch.Created = 1700000000
	return ch
}

func TestChannelInfoFollowsMemberPages(t *testing.T) {
	api := &fakeAPI{
		channel:     slackChannel(nil),
		memberPages: [][]string{{"U1", "U2"}, {"U3"}},
	}
	c := NewWithAPI(api, quietLogger())

	got, err := c.ChannelInfo(context.Background(), "C1")
	if err != nil {
		t.Fatalf("ChannelInfo: %v", err)
	}

	want := &channelDomain.Channel{
		ID:        "C1",
		Name:      "dev-test-1",
		CreatorID: "U1",
		Purpose:   "testing things",
		MemberIDs: []string{"U1", "U2", "U3"},
		Created:   1700000000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ChannelInfo mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "cursor-a"}, api.memberCalls); diff != "" {
		t.Errorf("member cursors mismatch (-want +got):\n%s", diff)
	}
}

func TestChannelInfoUsesInlineMembers(t *testing.T) {
	api := &fakeAPI{channel: slackChannel([]string{"U9"})}
	c := NewWithAPI(api, quietLogger())

	got, err := c.ChannelInfo(context.Background(), "C1")
	if err != nil {
		t.Fatalf("ChannelInfo: %v", err)
	}
	if diff := cmp.Diff([]string{"U9"}, got.MemberIDs); diff != "" {
		t.Errorf("members mismatch (-want +got):\n%s", diff)
	}
	if len(api.memberCalls) != 0 {
		t.Errorf("expected no member listing, got %d calls", len(api.memberCalls))
	}
}

func TestChannelInfoError(t *testing.T) {
	boom := errors.New("channel_not_found")
	c := NewWithAPI(&fakeAPI{channelErr: boom}, quietLogger())

	if _, err := c.ChannelInfo(context.Background(), "C1"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped %v, got %v", boom, err)
	}
}

func TestUserConversion(t *testing.T) {
	su := slack.User{ID: "U1", Name: "alice", RealName: "Alice A", TZOffset: -18000}
	su.Profile.RealNameNormalized = "Alice Normalized"
	su.Profile.Image24 = "https://img/24.png"

	api := &fakeAPI{user: &su, users: []slack.User{su, {ID: "U2", Name: "bob", RealName: "Bob"}}}
	c := NewWithAPI(api, quietLogger())

	got, err := c.UserInfo(context.Background(), "U1")
	if err != nil {
		t.Fatalf("UserInfo: %v", err)
	}
	want := &userDomain.User{ID: "U1", Name: "alice", RealName: "Alice Normalized", Image24: "https://img/24.png", TZOffset: -18000}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UserInfo mismatch (-want +got):\n%s", diff)
	}

	all, err := c.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	// only the normalized profile name counts; bob has a top-level name but no profile
	wantAll := []userDomain.User{*want, {ID: "U2", Name: "bob"}}
	if diff := cmp.Diff(wantAll, all); diff != "" {
		t.Errorf("Users mismatch (-want +got):\n%s", diff)
	}
}

func TestPostAndUpdate(t *testing.T) {
	api := &fakeAPI{}
	c := NewWithAPI(api, quietLogger())
	ctx := context.Background()

	ts, err := c.PostMessage(ctx, "C1", messaging.Message{Text: "hi"})
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if ts != "1700000000.000001" {
		t.Errorf("ts = %q", ts)
	}
	if err := c.UpdateMessage(ctx, "C1", ts, messaging.Message{Text: "bye"}); err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if api.postCalls != 1 || api.updateCalls != 1 {
		t.Errorf("calls: post=%d update=%d", api.postCalls, api.updateCalls)
	}

	api.postErr = errors.New("not_in_channel")
	if _, err := c.PostMessage(ctx, "C1", messaging.Message{Text: "hi"}); !errors.Is(err, api.postErr) {
		t.Errorf("expected wrapped post error, got %v", err)
	}
}

func TestMsgOptionsSkipEmptyParts(t *testing.T) {
	tests := []struct {
		name string
		msg  messaging.Message
		want int
	}{
		{name: "empty", msg: messaging.Message{}, want: 0},
		{name: "text only", msg: messaging.Message{Text: "hi"}, want: 1},
		{
			name: "everything",
			msg: messaging.Message{
				Text:        "hi",
				Attachments: []slack.Attachment{{Title: "t"}},
				Blocks:      []slack.Block{slack.NewDividerBlock()},
				AsUser:      true,
			},
			want: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(msgOptions(tt.msg)); got != tt.want {
				t.Errorf("len(msgOptions) = %d, want %d", got, tt.want)
			}
		})
	}
}
