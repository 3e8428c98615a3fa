package service

import (
	"context"
	"log/slog"
	"time"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/user/repository"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FeatureTTL is how long a user feature flag lives
const FeatureTTL = 24 * time.Hour

// Service handles user lookups, interests and feature flags
type Service struct {
	repo      repository.Repository
	client    messaging.Client
	interests []domain.Interest
	logger    *slog.Logger
}

// New creates a new user service
func New(repo repository.Repository, client messaging.Client, interests []domain.Interest, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		client:    client,
		interests: interests,
		logger:    logger,
	}
}

// GetUser fetches a user from the chat platform
func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.client.UserInfo(ctx, userID)
}

// HasFeature reports whether the flag is currently set for userID
func (s *Service) HasFeature(ctx context.Context, userID, feature string) (bool, error) {
	return s.repo.HasFeature(ctx, userID, feature)
}

// EnableFeature sets the flag for userID for FeatureTTL
func (s *Service) EnableFeature(ctx context.Context, userID, feature string) error {
	return s.repo.SetFeature(ctx, userID, feature, FeatureTTL)
}

// InterestedUsers resolves the users registered against any prefix of ch.Name
// who are not already members of ch. Names that match no workspace user are
// logged and skipped.
func (s *Service) InterestedUsers(ctx context.Context, ch *channelDomain.Channel) ([]domain.User, error) {
	names := lo.Uniq(lo.FlatMap(s.interests, func(in domain.Interest, _ int) []string {
		if !channelDomain.HasAnyPrefix(ch.Name, []string{in.Prefix}) {
			return nil
		}
		return in.UserNames
	}))
	if len(names) == 0 {
		return nil, nil
	}

	all, err := s.client.Users(ctx)
	if err != nil {
		return nil, oops.With("channel_id", ch.ID).Wrap(err)
	}

	var out []domain.User
	for _, name := range names {
		u, ok := lo.Find(all, func(u domain.User) bool {
			return u.Name == name || u.ID == name
		})
		if !ok {
			s.logger.Warn("Interested user not found", "name", name, "channel_name", ch.Name)
			continue
		}
		if ch.HasMember(u.ID) {
			continue
		}
		out = append(out, u)
	}

	return lo.UniqBy(out, func(u domain.User) string { return u.ID }), nil
}
