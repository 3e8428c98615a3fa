// Package messagingtest provides an in-memory messaging.Client for tests.
package messagingtest

import (
	"context"
	"fmt"
	"sync"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
)

// Post records one PostMessage call
type Post struct {
	ChannelID string
	TS        string
	Message   messaging.Message
}

// Update records one UpdateMessage call
type Update struct {
	ChannelID string
	TS        string
	Message   messaging.Message
}

// Client is a fake messaging.Client. Channels and users are looked up in the
// exported maps; every post and update is recorded.
type Client struct {
	mu sync.Mutex

	Channels map[string]*channelDomain.Channel
	Members  map[string]*userDomain.User

	// ChannelInfoFunc, when set, replaces the map lookup in ChannelInfo
	ChannelInfoFunc func(ctx context.Context, channelID string) (*channelDomain.Channel, error)
	UserErr         error
	UsersErr        error
	PostErr         error
	UpdateErr       error

	ChannelInfoCalls int
	UsersCalls       int
	Posts            []Post
	Updates          []Update
}

// New returns an empty fake
func New() *Client {
	return &Client{
		Channels: make(map[string]*channelDomain.Channel),
		Members:  make(map[string]*userDomain.User),
	}
}

func (c *Client) ChannelInfo(ctx context.Context, channelID string) (*channelDomain.Channel, error) {
	c.mu.Lock()
	c.ChannelInfoCalls++
	fn := c.ChannelInfoFunc
	ch, ok := c.Channels[channelID]
	c.mu.Unlock()

	if fn != nil {
		return fn(ctx, channelID)
	}
	if !ok {
		return nil, sharedErrors.ErrChannelNotFound
	}
	cp := *ch
	return &cp, nil
}

func (c *Client) UserInfo(_ context.Context, userID string) (*userDomain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.UserErr != nil {
		return nil, c.UserErr
	}
	u, ok := c.Members[userID]
	if !ok {
		return nil, sharedErrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (c *Client) Users(_ context.Context) ([]userDomain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.UsersCalls++
	if c.UsersErr != nil {
		return nil, c.UsersErr
	}
	out := make([]userDomain.User, 0, len(c.Members))
	for _, u := range c.Members {
		out = append(out, *u)
	}
	return out, nil
}

func (c *Client) PostMessage(_ context.Context, channelID string, msg messaging.Message) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.PostErr != nil {
		return "", c.PostErr
	}
	ts := fmt.Sprintf("1700000000.%06d", len(c.Posts)+1)
	c.Posts = append(c.Posts, Post{ChannelID: channelID, TS: ts, Message: msg})
	return ts, nil
}

func (c *Client) UpdateMessage(_ context.Context, channelID, ts string, msg messaging.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.UpdateErr != nil {
		return c.UpdateErr
	}
	c.Updates = append(c.Updates, Update{ChannelID: channelID, TS: ts, Message: msg})
	return nil
}

// PostsTo returns the recorded posts addressed to channelID
func (c *Client) PostsTo(channelID string) []Post {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Post
	for _, p := range c.Posts {
		if p.ChannelID == channelID {
			out = append(out, p)
		}
	}
	return out
}

// AllPosts returns a copy of every recorded post
func (c *Client) AllPosts() []Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Post(nil), c.Posts...)
}

// AllUpdates returns a copy of every recorded update
func (c *Client) AllUpdates() []Update {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Update(nil), c.Updates...)
}

var _ messaging.Client = (*Client)(nil)
