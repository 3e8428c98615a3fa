package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	channelRepo "github.com/reshetovitsme/channel-telltale/internal/modules/channel/repository"
	messageDomain "github.com/reshetovitsme/channel-telltale/internal/modules/message/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/reshetovitsme/channel-telltale/internal/shared/metrics"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/slack-go/slack"
)

// Config holds the processing knobs of the channel service
type Config struct {
	Routing              domain.RoutingTable
	AlwaysInteresting    []string
	DedupTTL             time.Duration
	IssueTrackerURL      string
	PurposeRetryAttempts uint64
	PurposeRetryDelay    time.Duration
}

// UserDirectory looks up creators and the users interested in a channel
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*userDomain.User, error)
	InterestedUsers(ctx context.Context, ch *domain.Channel) ([]userDomain.User, error)
}

// Hook runs once for every newly created channel after it has been announced
type Hook interface {
	AfterCreate(ctx context.Context, ch *domain.Channel, creator *userDomain.User)
}

// Recorder stores announcements that were sent
type Recorder interface {
	Record(ctx context.Context, a *messageDomain.Announcement) error
}

// Mirror republishes announcements outside the chat workspace
type Mirror interface {
	Mirror(ctx context.Context, a *messageDomain.Announcement) error
}

var errEmptyPurpose = errors.New("channel purpose is empty")

// Service turns channel lifecycle events into announcements
type Service struct {
	cfg     Config
	repo    channelRepo.Repository
	client  messaging.Client
	users   UserDirectory
	hooks   []Hook
	history Recorder
	mirror  Mirror
	metrics *metrics.Metrics
	logger  *slog.Logger
	intn    func(n int) int
}

// New creates a new channel service
func New(cfg Config, repo channelRepo.Repository, client messaging.Client, users UserDirectory, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.IssueTrackerURL != "" {
		cfg.IssueTrackerURL = NormalizeIssueTrackerURL(cfg.IssueTrackerURL)
	}
	return &Service{
		cfg:     cfg,
		repo:    repo,
		client:  client,
		users:   users,
		metrics: metrics.NewNop(),
		logger:  logger,
		intn:    rand.IntN,
	}
}

// AddHook registers a post-announcement hook for created channels
func (s *Service) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

// SetHistory sets where sent announcements are recorded
func (s *Service) SetHistory(r Recorder) {
	s.history = r
}

// SetMirror sets the external announcement mirror
func (s *Service) SetMirror(m Mirror) {
	s.mirror = m
}

// SetMetrics replaces the default throwaway collectors
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// InterestingPrefixes is every prefix that lets an event past the interest filter
func (s *Service) InterestingPrefixes() []string {
	return lo.Uniq(append(s.cfg.Routing.Prefixes(), s.cfg.AlwaysInteresting...))
}

// ProcessChannelEvent announces a created or renamed channel to every matching
// destination and triggers the create-only side effects. Failures are logged
// and end processing of the event; nothing is returned to the caller.
func (s *Service) ProcessChannelEvent(ctx context.Context, ev domain.ChannelEvent) {
	logger := s.logger.With("channel_id", ev.ChannelID, "channel_name", ev.ChannelName, "event_type", ev.Type)

	if ev.ChannelID == "" || ev.ChannelName == "" || !ev.Type.IsValid() {
		logger.Error("Ignored channel event: missing required attributes")
		s.ignore(metrics.ReasonMalformed)
		return
	}
	s.metrics.EventsReceived.WithLabelValues(ev.Type.String()).Inc()

	if !domain.HasAnyPrefix(ev.ChannelName, s.InterestingPrefixes()) {
		logger.Info("Ignored channel event: name does not start with an interesting prefix")
		s.ignore(metrics.ReasonUninteresting)
		return
	}

	fresh, err := s.repo.Remember(ctx, ev.ChannelID, ev.Created, s.cfg.DedupTTL)
	if err != nil {
		logger.Error("Ignored channel event: failed to check dedup marker", "error", err)
		s.ignore(metrics.ReasonUpstream)
		return
	}
	if !fresh {
		logger.Info("Ignored channel event: channel already processed")
		s.ignore(metrics.ReasonDuplicate)
		return
	}

	ch, err := s.insistentChannelInfo(ctx, ev.ChannelID)
	if err != nil {
		logger.Error("Ignored channel event: failed to get channel information", "error", err)
		s.ignore(metrics.ReasonUpstream)
		return
	}
	if ch.ID == "" {
		ch.ID = ev.ChannelID
	}
	if ch.Name == "" {
		ch.Name = ev.ChannelName
	}

	creatorID := lo.CoalesceOrEmpty(ch.CreatorID, ev.CreatorID)
	if creatorID == "" {
		logger.Error("Ignored channel event: channel has no creator")
		s.ignore(metrics.ReasonUpstream)
		return
	}
	creator, err := s.users.GetUser(ctx, creatorID)
	if err != nil {
		logger.Error("Ignored channel event: failed to get creator", "creator_id", creatorID, "error", err)
		s.ignore(metrics.ReasonUpstream)
		return
	}
	if creator.ID == "" {
		creator.ID = creatorID
	}

	destinations := s.cfg.Routing.Destinations(ev.ChannelName)
	s.announce(ctx, logger, ev.Type, ch, creator, destinations)

	if ev.Type != domain.EventTypeCreate {
		return
	}

	s.postIssueLink(ctx, logger, ch)
	s.pageInterestedUsers(ctx, logger, ch)
	for _, h := range s.hooks {
		h.AfterCreate(ctx, ch, creator)
	}
}

// insistentChannelInfo fetches the channel, retrying with a fixed delay while its
// purpose is still empty. Transport errors are not retried. When the retries run
// out the channel is returned without a purpose.
func (s *Service) insistentChannelInfo(ctx context.Context, channelID string) (*domain.Channel, error) {
	var ch *domain.Channel
	attempt := 0

	backoff := retry.WithMaxRetries(s.cfg.PurposeRetryAttempts, retry.NewConstant(max(s.cfg.PurposeRetryDelay, time.Nanosecond)))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 {
			s.logger.Info("Waiting for channel to find its purpose in life", "channel_id", channelID, "attempt", attempt)
		}
		attempt++

		got, err := s.client.ChannelInfo(ctx, channelID)
		if err != nil {
			return oops.With("channel_id", channelID).Wrap(err)
		}
		ch = got
		if got.Purpose == "" {
			return retry.RetryableError(errEmptyPurpose)
		}
		return nil
	})

	if err != nil && !(errors.Is(err, errEmptyPurpose) && ch != nil) {
		return nil, err
	}
	return ch, nil
}

func (s *Service) announce(ctx context.Context, logger *slog.Logger, eventType domain.EventType, ch *domain.Channel, creator *userDomain.User, destinations []string) {
	if len(destinations) == 0 {
		logger.Info("No destination routes this channel, skipping announcement")
		return
	}

	msg := messaging.Message{
		Attachments: []slack.Attachment{s.announcementAttachment(eventType, ch, creator)},
	}

	var sent []string
	for _, dest := range destinations {
		if _, err := s.client.PostMessage(ctx, dest, msg); err != nil {
			logger.Error("Failed to post announcement", "destination", dest, "error", err)
			continue
		}
		sent = append(sent, dest)
		s.metrics.NotificationsSent.WithLabelValues("announcement").Inc()
		logger.Info("Announced channel", "destination", dest)
	}
	if len(sent) == 0 {
		return
	}

	a := &messageDomain.Announcement{
		ChannelID:    ch.ID,
		ChannelName:  ch.Name,
		Purpose:      ch.Purpose,
		CreatorID:    creator.ID,
		CreatorName:  creator.DisplayName(),
		EventType:    eventType,
		Destinations: sent,
	}
	if s.history != nil {
		if err := s.history.Record(ctx, a); err != nil {
			logger.Error("Failed to record announcement", "error", err)
		}
	}
	if s.mirror != nil {
		if err := s.mirror.Mirror(ctx, a); err != nil {
			logger.Error("Failed to mirror announcement", "error", err)
		} else {
			s.metrics.NotificationsSent.WithLabelValues("mirror").Inc()
		}
	}
}

func (s *Service) ignore(reason string) {
	s.metrics.EventsIgnored.WithLabelValues(reason).Inc()
}
