package service

import (
	"context"
	"fmt"
	"time"

	"urge/internal/model"
	"urge/internal/repository"
	"urge/internal/timeutil"

	"github.com/rs/zerolog"
)

// StreakSummary is the read-side view of a user's streak. DisplaySeconds is
// true elapsed wall time while the streak runs, or the cached day count
// converted to seconds while it is idle.
type StreakSummary struct {
	DisplaySeconds    int64
	CurrentStreakDays int
	LongestStreakDays int
	StartedAt         *time.Time
	RecentRelapses    []model.Relapse
	RelapseCount      int
}

// StreakService owns the streak state machine: IDLE (no started_at) and
// RUNNING. Start arms an idle streak, GaveIn closes a running one and logs
// the relapse, Summary reads the current state with read-repair of the
// cached day count.
type StreakService interface {
	Start(ctx context.Context, userID string) error
	GaveIn(ctx context.Context, userID string, trigger, feeling *string) error
	Summary(ctx context.Context, userID string) (*StreakSummary, error)
	ListRelapses(ctx context.Context, userID string, limit int) ([]model.Relapse, error)
}

type streakService struct {
	streakRepo  repository.StreakRepository
	relapseRepo repository.RelapseRepository
	logger      zerolog.Logger
	now         func() time.Time
}

const recentRelapseLimit = 10

// NewStreakService creates a new StreakService.
func NewStreakService(streakRepo repository.StreakRepository, relapseRepo repository.RelapseRepository, logger zerolog.Logger) StreakService {
	return &streakService{
		streakRepo:  streakRepo,
		relapseRepo: relapseRepo,
		logger:      logger.With().Str("service", "StreakService").Logger(),
		now:         time.Now,
	}
}

func (s *streakService) Start(ctx context.Context, userID string) error {
	existing, err := s.streakRepo.GetStreak(ctx, userID)
	if err != nil {
		return err
	}
	// A streak that has already accumulated days must not be clobbered by a
	// stray second press of the start button.
	if existing != nil && existing.CurrentStreakDays > 0 {
		return nil
	}
	if err := s.streakRepo.UpsertStart(ctx, userID, s.now()); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("Streak started")
	return nil
}

func (s *streakService) GaveIn(ctx context.Context, userID string, trigger, feeling *string) error {
	now := s.now()
	existing, err := s.streakRepo.GetStreak(ctx, userID)
	if err != nil {
		return err
	}

	// Length of the streak that just ended: wall-clock days while running,
	// the cached count as a fallback for a row with no started_at.
	streakDays := 0
	var streakStart *time.Time
	longest := 0
	if existing != nil {
		longest = existing.LongestStreakDays
		streakStart = existing.StartedAt
		if existing.StartedAt != nil {
			streakDays = timeutil.ElapsedDays(*existing.StartedAt, now)
		} else {
			streakDays = existing.CurrentStreakDays
		}
	}
	if streakDays > longest {
		longest = streakDays
	}

	rel := &model.Relapse{
		UserID:      userID,
		StreakDays:  streakDays,
		StreakStart: streakStart,
		Trigger:     trigger,
		Feeling:     feeling,
	}
	if err := s.streakRepo.RelapseAndReset(ctx, rel, longest, now); err != nil {
		return fmt.Errorf("recording relapse: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Int("streak_days", streakDays).Msg("Relapse recorded")
	return nil
}

func (s *streakService) Summary(ctx context.Context, userID string) (*StreakSummary, error) {
	now := s.now()
	streak, err := s.streakRepo.GetStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &StreakSummary{}
	if streak != nil {
		summary.CurrentStreakDays = streak.CurrentStreakDays
		summary.LongestStreakDays = streak.LongestStreakDays
		summary.StartedAt = streak.StartedAt

		if streak.StartedAt != nil {
			summary.DisplaySeconds = timeutil.ElapsedSeconds(*streak.StartedAt, now)
			// Read-repair: the cached day count lags real time, so correct
			// and persist it whenever a read finds it stale.
			computedDays := int(summary.DisplaySeconds / 86400)
			if computedDays != streak.CurrentStreakDays {
				if err := s.streakRepo.UpdateCurrentDays(ctx, userID, computedDays); err != nil {
					return nil, err
				}
				summary.CurrentStreakDays = computedDays
			}
		} else {
			summary.DisplaySeconds = timeutil.DaysToSeconds(streak.CurrentStreakDays)
		}
	}

	relapses, err := s.relapseRepo.ListRecent(ctx, userID, recentRelapseLimit)
	if err != nil {
		return nil, err
	}
	summary.RecentRelapses = relapses

	count, err := s.relapseRepo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.RelapseCount = count

	return summary, nil
}

func (s *streakService) ListRelapses(ctx context.Context, userID string, limit int) ([]model.Relapse, error) {
	return s.relapseRepo.ListRecent(ctx, userID, limit)
}
