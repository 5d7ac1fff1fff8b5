package service

import (
	"context"
	"strings"
	"time"

	"urge/internal/model"
	"urge/internal/repository"
	"urge/internal/timeutil"

	"github.com/rs/zerolog"
)

const (
	maxJournalsPerDay = 3
	maxContentLength  = 500
)

// JournalService manages a user's daily notes: trimmed, length-bounded
// content with at most three entries per server-local calendar day.
type JournalService interface {
	Create(ctx context.Context, userID, content string) (*model.Journal, error)
	ListToday(ctx context.Context, userID string) ([]model.Journal, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]model.Journal, error)
	Delete(ctx context.Context, userID, journalID string) error
}

type journalService struct {
	repo   repository.JournalRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewJournalService creates a new JournalService.
func NewJournalService(repo repository.JournalRepository, logger zerolog.Logger) JournalService {
	return &journalService{
		repo:   repo,
		logger: logger.With().Str("service", "JournalService").Logger(),
		now:    time.Now,
	}
}

func (s *journalService) Create(ctx context.Context, userID, content string) (*model.Journal, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrJournalEmpty
	}
	if len(trimmed) > maxContentLength {
		return nil, ErrJournalTooLong
	}

	// The rate limit and ListToday must share one day-boundary definition or
	// the cap can drift across a midnight rollover.
	todayStart, todayEnd := timeutil.DayBounds(s.now())
	count, err := s.repo.CountBetween(ctx, userID, todayStart, todayEnd)
	if err != nil {
		return nil, err
	}
	if count >= maxJournalsPerDay {
		return nil, ErrJournalDailyLimit
	}

	j := &model.Journal{UserID: userID, Content: trimmed}
	if err := s.repo.CreateJournal(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (s *journalService) ListToday(ctx context.Context, userID string) ([]model.Journal, error) {
	todayStart, todayEnd := timeutil.DayBounds(s.now())
	return s.repo.ListBetween(ctx, userID, todayStart, todayEnd)
}

func (s *journalService) ListRecent(ctx context.Context, userID string, limit int) ([]model.Journal, error) {
	return s.repo.ListRecent(ctx, userID, limit)
}

func (s *journalService) Delete(ctx context.Context, userID, journalID string) error {
	// Ownership is enforced in the delete itself; a client-supplied owner id
	// is never trusted.
	deleted, err := s.repo.DeleteOwned(ctx, userID, journalID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrJournalNotFound
	}
	return nil
}
