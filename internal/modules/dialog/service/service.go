package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/repository"
	interactionDomain "github.com/reshetovitsme/channel-telltale/internal/modules/interaction/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/reshetovitsme/channel-telltale/internal/shared/metrics"
	"github.com/samber/lo"
)

// SessionTTL is how long an idle dialog survives
const SessionTTL = 24 * time.Hour

// Service runs photo dialogs: it starts one for every new channel and advances
// it when a button is clicked.
type Service struct {
	gen      *Generator
	repo     repository.Repository
	client   messaging.Client
	prefixes []string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New creates a new dialog service. prefixes are stripped from channel names
// before they are turned into search terms.
func New(gen *Generator, repo repository.Repository, client messaging.Client, prefixes []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gen:      gen,
		repo:     repo,
		client:   client,
		prefixes: prefixes,
		metrics:  metrics.NewNop(),
		logger:   logger,
	}
}

// SetMetrics replaces the default throwaway collectors
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// SearchTerms derives image search terms from a channel name
func SearchTerms(name string, prefixes []string) []string {
	for _, p := range channelDomain.MatchingPrefixes(name, prefixes) {
		if rest := strings.TrimPrefix(name, p); rest != "" {
			name = rest
			break
		}
	}

	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words = lo.Filter(words, func(w string, _ int) bool {
		return strings.IndexFunc(w, unicode.IsLetter) >= 0
	})
	return lo.Uniq(words)
}

// AfterCreate starts a photo dialog in the newly created channel
func (s *Service) AfterCreate(ctx context.Context, ch *channelDomain.Channel, _ *userDomain.User) {
	logger := s.logger.With("channel_id", ch.ID, "channel_name", ch.Name)

	st := s.gen.Start(ctx, SearchTerms(ch.Name, s.prefixes))
	if st.Msg == nil {
		logger.Error("Photo dialog produced no first message")
		return
	}

	if _, err := s.client.PostMessage(ctx, ch.ID, *st.Msg); err != nil {
		logger.Error("Failed to post photo suggestion", "error", err)
		return
	}
	s.metrics.NotificationsSent.WithLabelValues("photo_dialog").Inc()

	if err := s.repo.Save(ctx, ch.ID, st, SessionTTL); err != nil {
		logger.Error("Failed to save dialog state", "error", err)
	}
}

// HandleClick advances the channel's dialog and updates the clicked message in
// place. A missing or corrupt session, a terminated dialog or an unknown action
// leaves the message untouched.
func (s *Service) HandleClick(ctx context.Context, click interactionDomain.Click) {
	logger := s.logger.With("channel_id", click.ChannelID, "action", click.Value)

	action, err := domain.ParseAction(click.Value)
	if err != nil {
		logger.Error("Unknown photo dialog action", "error", err)
		return
	}
	s.metrics.DialogActions.WithLabelValues(action.String()).Inc()

	st, err := s.repo.Load(ctx, click.ChannelID)
	if err != nil {
		logger.Error("No photo dialog for channel", "error", err)
		return
	}

	msg := s.gen.Advance(ctx, st, action, click.UserName)
	if msg == nil {
		return
	}

	if err := s.repo.Save(ctx, click.ChannelID, st, SessionTTL); err != nil {
		logger.Error("Failed to save dialog state", "error", err)
	}
	if err := s.client.UpdateMessage(ctx, click.ChannelID, click.MessageTS, *msg); err != nil {
		logger.Error("Failed to update photo suggestion", "error", err)
	}
}
