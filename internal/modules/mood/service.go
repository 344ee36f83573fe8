package mood

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moodnotes/core/internal/models"
	"github.com/moodnotes/core/internal/pkg/apperr"
	"go.uber.org/zap"
)

// Service is the append-only mood log. Every operation is scoped to the
// authenticated user and refuses to run without one; timestamps, ids
// and the owner are assigned here, never taken from the caller.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Save appends one entry for userID and returns the assigned id.
func (s *Service) Save(ctx context.Context, userID, moodTag, note string) (string, error) {
	if userID == "" {
		return "", apperr.ErrAuthRequired
	}
	m := models.Mood(strings.ToLower(strings.TrimSpace(moodTag)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidMood, moodTag)
	}

	now := s.now().UTC()
	entry := models.MoodEntry{
		Mood:      m,
		Note:      strings.TrimSpace(note),
		Timestamp: now,
		CreatedAt: now,
		UserID:    userID,
	}

	id, err := s.repo.Insert(ctx, entry)
	if err != nil {
		s.logger.Error("save mood entry failed", zap.Error(err))
		return "", apperr.ErrBackend
	}
	return id, nil
}

// List returns all of the user's entries, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]models.MoodEntry, error) {
	if userID == "" {
		return nil, apperr.ErrAuthRequired
	}
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		s.logger.Error("list mood entries failed", zap.Error(err))
		return nil, apperr.ErrBackend
	}
	return entries, nil
}

// ListRange returns the user's entries with start <= timestamp <= end,
// most recent first.
func (s *Service) ListRange(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntry, error) {
	if userID == "" {
		return nil, apperr.ErrAuthRequired
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end before start", apperr.ErrInvalidDate)
	}
	entries, err := s.repo.ListRange(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("list mood entries by range failed", zap.Error(err))
		return nil, apperr.ErrBackend
	}
	return entries, nil
}
