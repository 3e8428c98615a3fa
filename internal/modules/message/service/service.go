package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/channel-telltale/internal/modules/message/domain"
	"github.com/reshetovitsme/channel-telltale/internal/modules/message/repository"
)

// Service keeps the history of sent announcements
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

// New creates a new announcement history service
func New(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Record stores a, assigning an id and timestamp when they are missing
func (s *Service) Record(_ context.Context, a *domain.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AnnouncedAt.IsZero() {
		a.AnnouncedAt = s.now().UTC()
	}
	return s.repo.SaveAnnouncement(a)
}

// Recent retrieves up to limit announcements, newest first
func (s *Service) Recent(limit int) ([]*domain.Announcement, error) {
	return s.repo.GetAnnouncements(limit)
}

// Since retrieves the announcements made after since
func (s *Service) Since(since time.Time) ([]*domain.Announcement, error) {
	return s.repo.GetAnnouncementsSince(since)
}
