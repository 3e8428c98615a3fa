// Package messaging defines the narrow chat-platform contract the core depends on.
package messaging

import (
	"context"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/slack-go/slack"
)

// Message is an outbound chat message. Empty parts are left out of the API call.
type Message struct {
	Text        string             `json:"text,omitempty"`
	Attachments []slack.Attachment `json:"attachments,omitempty"`
	Blocks      []slack.Block      `json:"-"`
	AsUser      bool               `json:"-"`
}

// Client posts and updates chat messages and looks up channel and user metadata
type Client interface {
	ChannelInfo(ctx context.Context, channelID string) (*channelDomain.Channel, error)
	UserInfo(ctx context.Context, userID string) (*userDomain.User, error)
	Users(ctx context.Context) ([]userDomain.User, error)
	PostMessage(ctx context.Context, channelID string, msg Message) (string, error)
	UpdateMessage(ctx context.Context, channelID, ts string, msg Message) error
}
