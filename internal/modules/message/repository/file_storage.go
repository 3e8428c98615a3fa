package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/reshetovitsme/channel-telltale/internal/modules/message/domain"
	"github.com/samber/oops"
)

// FileStorage implements Repository with one JSON file per announcement.
// File names start with the zero-padded announcement time so directory order is chronological.
type FileStorage struct {
	basePath string
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based announcement repository
func NewFileStorage(basePath string, logger *slog.Logger) (Repository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	announcementPath := filepath.Join(basePath, "announcements")
	if err := os.MkdirAll(announcementPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create announcements directory").Wrap(err)
	}

	return &FileStorage{basePath: announcementPath, logger: logger}, nil
}

func fileName(a *domain.Announcement) string {
	return fmt.Sprintf("%020d-%s.json", a.AnnouncedAt.UnixNano(), a.ID)
}

func (s *FileStorage) SaveAnnouncement(a *domain.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return oops.With("announcement_id", a.ID, "context", "failed to marshal announcement").Wrap(err)
	}

	path := filepath.Join(s.basePath, fileName(a))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return oops.With("announcement_id", a.ID, "path", path).Wrap(err)
	}
	return nil
}

// GetAnnouncements returns up to limit announcements, newest first
func (s *FileStorage) GetAnnouncements(limit int) ([]*domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	var out []*domain.Announcement
	for i := len(names) - 1; i >= 0 && len(out) < limit; i-- {
		a, err := s.read(names[i])
		if err != nil {
			s.logger.Warn("Skipping unreadable announcement", "file", names[i], "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// GetAnnouncementsSince returns the announcements made after since, oldest first
func (s *FileStorage) GetAnnouncementsSince(since time.Time) ([]*domain.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.listFiles()
	if err != nil {
		return nil, err
	}

	var out []*domain.Announcement
	for _, name := range names {
		a, err := s.read(name)
		if err != nil {
			s.logger.Warn("Skipping unreadable announcement", "file", name, "error", err)
			continue
		}
		if a.AnnouncedAt.After(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *FileStorage) listFiles() ([]string, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("directory", s.basePath, "context", "failed to read announcements directory").Wrap(err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *FileStorage) read(name string) (*domain.Announcement, error) {
	data, err := os.ReadFile(filepath.Join(s.basePath, name))
	if err != nil {
		return nil, err
	}

	var a domain.Announcement
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
