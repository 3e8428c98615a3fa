// Package slack adapts the slack-go Web API client to the messaging contract.
package slack

import (
	"context"
	"log/slog"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/slack-go/slack"
)

// membersPageSize is the page size used when listing channel members
const membersPageSize = 200

// API is the subset of *slack.Client the adapter calls
type API interface {
	GetConversationInfoContext(ctx context.Context, input *slack.GetConversationInfoInput) (*slack.Channel, error)
	GetUsersInConversationContext(ctx context.Context, params *slack.GetUsersInConversationParameters) ([]string, string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
}

// Client implements messaging.Client against the Slack Web API
type Client struct {
	api    API
	logger *slog.Logger
}

var _ messaging.Client = (*Client)(nil)

// New creates a client authenticated with a bot token
func New(token string, logger *slog.Logger) *Client {
	return NewWithAPI(slack.New(token), logger)
}

// NewWithAPI wraps an existing API implementation
func NewWithAPI(api API, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{api: api, logger: logger}
}

// ChannelInfo fetches channel metadata together with its full member list
func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*channelDomain.Channel, error) {
	info, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: channelID})
	if err != nil {
		return nil, oops.In("slack").With("channel_id", channelID).Wrapf(err, "conversations.info")
	}

	ch := toChannel(info)
	if len(ch.MemberIDs) == 0 {
		members, err := c.members(ctx, channelID)
		if err != nil {
			return nil, err
		}
		ch.MemberIDs = members
	}
	return ch, nil
}

func (c *Client) members(ctx context.Context, channelID string) ([]string, error) {
	var (
		all    []string
		cursor string
	)
	for {
		page, next, err := c.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
			Limit:     membersPageSize,
		})
		if err != nil {
			return nil, oops.In("slack").With("channel_id", channelID).Wrapf(err, "conversations.members")
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// UserInfo fetches a single user profile
func (c *Client) UserInfo(ctx context.Context, userID string) (*userDomain.User, error) {
	u, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, oops.In("slack").With("user_id", userID).Wrapf(err, "users.info")
	}
	user := toUser(*u)
	return &user, nil
}

// Users lists every workspace member, following pagination
func (c *Client) Users(ctx context.Context) ([]userDomain.User, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, oops.In("slack").Wrapf(err, "users.list")
	}
	return lo.Map(users, func(u slack.User, _ int) userDomain.User {
		return toUser(u)
	}), nil
}

// PostMessage posts msg to channelID and returns the message timestamp
func (c *Client) PostMessage(ctx context.Context, channelID string, msg messaging.Message) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID, msgOptions(msg)...)
	if err != nil {
		return "", oops.In("slack").With("channel_id", channelID).Wrapf(err, "chat.postMessage")
	}
	c.logger.Debug("Posted message", "channel_id", channelID, "ts", ts)
	return ts, nil
}

// UpdateMessage replaces the message at ts
func (c *Client) UpdateMessage(ctx context.Context, channelID, ts string, msg messaging.Message) error {
	if _, _, _, err := c.api.UpdateMessageContext(ctx, channelID, ts, msgOptions(msg)...); err != nil {
		return oops.In("slack").With("channel_id", channelID, "ts", ts).Wrapf(err, "chat.update")
	}
	return nil
}

func msgOptions(msg messaging.Message) []slack.MsgOption {
	var opts []slack.MsgOption
	if msg.Text != "" {
		opts = append(opts, slack.MsgOptionText(msg.Text, false))
	}
	if len(msg.Attachments) > 0 {
		opts = append(opts, slack.MsgOptionAttachments(msg.Attachments...))
	}
	if len(msg.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(msg.Blocks...))
	}
	if msg.AsUser {
		opts = append(opts, slack.MsgOptionAsUser(true))
	}
	return opts
}

func toChannel(info *slack.Channel) *channelDomain.Channel {
	return &channelDomain.Channel{
		ID:        info.ID,
		Name:      info.Name,
		CreatorID: info.Creator,
		Purpose:   info.Purpose.Value,
		MemberIDs: info.Members,
		Created:   int64(info.Created),
	}
}

func toUser(u slack.User) userDomain.User {
	return userDomain.User{
		ID:       u.ID,
		Name:     u.Name,
		RealName: u.Profile.RealNameNormalized,
		Image24:  u.Profile.Image24,
		TZOffset: u.TZOffset,
	}
}
