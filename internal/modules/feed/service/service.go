package service

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/reshetovitsme/channel-telltale/internal/modules/feed/domain"
	messageDomain "github.com/reshetovitsme/channel-telltale/internal/modules/message/domain"
	"github.com/samber/oops"
)

// History is the read side of the announcement history
type History interface {
	Recent(limit int) ([]*messageDomain.Announcement, error)
	Since(since time.Time) ([]*messageDomain.Announcement, error)
}

// Service handles RSS feed generation
type Service struct {
	cfg     domain.FeedConfig
	history History
}

// New creates a new feed service
func New(cfg domain.FeedConfig, history History) *Service {
	if cfg.Limit <= 0 {
		cfg.Limit = domain.DefaultFeedConfig().Limit
	}
	return &Service{
		cfg:     cfg,
		history: history,
	}
}

// GenerateFeed builds an RSS feed of the most recent announcements.
// A non-zero since keeps only the announcements made after it.
func (s *Service) GenerateFeed(baseURL string, since time.Time) (*feeds.Feed, error) {
	announcements, err := s.announcements(since)
	if err != nil {
		return nil, oops.With("context", "failed to get announcements").Wrap(err)
	}

	link := s.cfg.Link
	if link == "" {
		link = baseURL + "/feed"
	}

	feed := &feeds.Feed{
		Title:       s.cfg.Title,
		Link:        &feeds.Link{Href: link},
		Description: s.cfg.Description,
		Created:     time.Unix(0, 0).UTC(),
	}
	if len(announcements) > 0 {
		feed.Updated = announcements[0].AnnouncedAt
	}

	for _, a := range announcements {
		feed.Items = append(feed.Items, announcementToFeedItem(a))
	}
	return feed, nil
}

// announcements returns at most cfg.Limit entries, newest first
func (s *Service) announcements(since time.Time) ([]*messageDomain.Announcement, error) {
	if since.IsZero() {
		return s.history.Recent(s.cfg.Limit)
	}
	found, err := s.history.Since(since)
	if err != nil {
		return nil, err
	}
	slices.Reverse(found)
	if len(found) > s.cfg.Limit {
		found = found[:s.cfg.Limit]
	}
	return found, nil
}

func announcementToFeedItem(a *messageDomain.Announcement) *feeds.Item {
	description := a.Purpose
	if description == "" {
		description = "No purpose set"
	}

	var content strings.Builder
	fmt.Fprintf(&content, "<p>%s</p>", html.EscapeString(description))
	if len(a.Destinations) > 0 {
		fmt.Fprintf(&content, "<p>Announced in: %s</p>", html.EscapeString(strings.Join(a.Destinations, ", ")))
	}

	return &feeds.Item{
		Title:       a.Headline(),
		Link:        &feeds.Link{Href: "https://slack.com/app_redirect?channel=" + a.ChannelID},
		Description: description,
		Content:     content.String(),
		Author:      &feeds.Author{Name: a.CreatorName},
		Created:     a.AnnouncedAt,
		Id:          a.ID,
	}
}
