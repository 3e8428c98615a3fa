package repository

import (
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/modules/message/domain"
)

// Repository defines the interface for announcement history persistence
type Repository interface {
	SaveAnnouncement(a *domain.Announcement) error
	GetAnnouncements(limit int) ([]*domain.Announcement, error)
	GetAnnouncementsSince(since time.Time) ([]*domain.Announcement, error)
}
