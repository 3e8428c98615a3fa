package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	interactionDomain "github.com/reshetovitsme/channel-telltale/internal/modules/interaction/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/slack-go/slack"
)

// ClickEnough is the button value that opts a user out for the day
const ClickEnough = "click_enough"

const clickPrefix = "click_"

// FeatureFlags reads and sets per-user feature flags
type FeatureFlags interface {
	HasFeature(ctx context.Context, userID, feature string) (bool, error)
	EnableFeature(ctx context.Context, userID, feature string) error
}

// Service pesters channel creators with a paperclip assistant on April 1
type Service struct {
	flags  FeatureFlags
	client messaging.Client
	logger *slog.Logger
	now    func() time.Time
	intn   func(int) int
}

// New creates a new April Fools service
func New(flags FeatureFlags, client messaging.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		flags:  flags,
		client: client,
		logger: logger,
		now:    time.Now,
		intn:   rand.IntN,
	}
}

// IsClick reports whether a button value belongs to this flow
func IsClick(value string) bool {
	return strings.HasPrefix(value, clickPrefix)
}

// IsAprilFools reports whether it is April 1 on the user's wall clock
func IsAprilFools(u *userDomain.User, now time.Time) bool {
	local := u.LocalTime(now)
	return local.Month() == time.April && local.Day() == 1
}

// AfterCreate posts one of the assistant messages to the new channel when it is
// April 1 for the creator and they have not opted out.
func (s *Service) AfterCreate(ctx context.Context, ch *channelDomain.Channel, creator *userDomain.User) {
	if creator == nil {
		return
	}
	logger := s.logger.With("channel_id", ch.ID, "creator_id", creator.ID)

	if !IsAprilFools(creator, s.now()) {
		logger.Debug("Not April Fools for the creator")
		return
	}

	annoyed, err := s.flags.HasFeature(ctx, creator.ID, userDomain.FeatureAprilFool)
	if err != nil {
		logger.Error("Failed to read feature flag", "error", err)
		return
	}
	if annoyed {
		logger.Info("Creator already had enough, skipping")
		return
	}

	blocks := newGroupBlocks()
	if s.intn(2) == 1 {
		blocks = newThreadBlocks()
	}
	if _, err := s.client.PostMessage(ctx, ch.ID, messaging.Message{Blocks: blocks}); err != nil {
		logger.Error("Failed to post April Fools message", "error", err)
		return
	}
	logger.Info("Annoyed channel creator")
}

// HandleClick replaces the clicked message with the matching response
func (s *Service) HandleClick(ctx context.Context, click interactionDomain.Click) {
	logger := s.logger.With("channel_id", click.ChannelID, "user_id", click.UserID, "action", click.Value)

	blocks := Response(click.Value)
	if err := s.client.UpdateMessage(ctx, click.ChannelID, click.MessageTS, messaging.Message{Blocks: blocks}); err != nil {
		logger.Error("Failed to update April Fools message", "error", err)
	}

	if click.Value != ClickEnough {
		return
	}
	if err := s.flags.EnableFeature(ctx, click.UserID, userDomain.FeatureAprilFool); err != nil {
		logger.Error("Failed to set feature flag", "error", err)
		return
	}
	logger.Info("User has had enough", "user_name", click.UserName)
}

// Response returns the blocks shown after clicking value
func Response(value string) []slack.Block {
	if build, ok := responses[value]; ok {
		return build()
	}
	return []slack.Block{slack.NewSectionBlock(markdown(fmt.Sprintf("unknown action: %s", value)), nil, nil)}
}
