package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"urge/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StreakRepository owns the one-row-per-user streak table. GetStreak returns
// nil without error when the user has no streak row yet.
type StreakRepository interface {
	GetStreak(ctx context.Context, userID string) (*model.Streak, error)
	// UpsertStart arms the streak: zero day count, fresh started_at and
	// last_reset_at, creating the row if absent.
	UpsertStart(ctx context.Context, userID string, now time.Time) error
	// UpdateCurrentDays persists a read-repaired day count.
	UpdateCurrentDays(ctx context.Context, userID string, days int) error
	// RelapseAndReset inserts the relapse row and resets the streak in one
	// transaction. Partial application would leave the ledger inconsistent,
	// so either both writes land or neither does.
	RelapseAndReset(ctx context.Context, rel *model.Relapse, longestDays int, now time.Time) error
}

type streakRepo struct {
	pool *pgxpool.Pool
}

// NewStreakRepo creates a new StreakRepository.
func NewStreakRepo(pool *pgxpool.Pool) StreakRepository {
	return &streakRepo{pool: pool}
}

func (r *streakRepo) GetStreak(ctx context.Context, userID string) (*model.Streak, error) {
	const q = `
        SELECT user_id, current_streak, longest_streak, started_at, last_reset_at, created_at, updated_at
        FROM streaks
        WHERE user_id = $1
    `
	var s model.Streak
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&s.UserID, &s.CurrentStreakDays, &s.LongestStreakDays, &s.StartedAt, &s.LastResetAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching streak for user %s: %w", userID, err)
	}
	return &s, nil
}

func (r *streakRepo) UpsertStart(ctx context.Context, userID string, now time.Time) error {
	const q = `
        INSERT INTO streaks (user_id, current_streak, longest_streak, started_at, last_reset_at, created_at, updated_at)
        VALUES ($1, 0, 0, $2, $2, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET current_streak = 0,
            started_at = EXCLUDED.started_at,
            last_reset_at = EXCLUDED.last_reset_at,
            updated_at = NOW()
    `
	if _, err := r.pool.Exec(ctx, q, userID, now); err != nil {
		return fmt.Errorf("starting streak for user %s: %w", userID, err)
	}
	return nil
}

func (r *streakRepo) UpdateCurrentDays(ctx context.Context, userID string, days int) error {
	const q = `
        UPDATE streaks
        SET current_streak = $2, updated_at = NOW()
        WHERE user_id = $1
    `
	if _, err := r.pool.Exec(ctx, q, userID, days); err != nil {
		return fmt.Errorf("updating streak days for user %s: %w", userID, err)
	}
	return nil
}

func (r *streakRepo) RelapseAndReset(ctx context.Context, rel *model.Relapse, longestDays int, now time.Time) error {
	if rel.ID == "" {
		rel.ID = uuid.NewString()
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction for relapse: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const insertQ = `
        INSERT INTO relapses (id, user_id, streak_days, streak_start, trigger, feeling, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	if _, err := tx.Exec(ctx, insertQ,
		rel.ID, rel.UserID, rel.StreakDays, rel.StreakStart, rel.Trigger, rel.Feeling, now,
	); err != nil {
		return fmt.Errorf("inserting relapse for user %s: %w", rel.UserID, err)
	}

	const resetQ = `
        INSERT INTO streaks (user_id, current_streak, longest_streak, started_at, last_reset_at, created_at, updated_at)
        VALUES ($1, 0, $2, NULL, $3, NOW(), NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET current_streak = 0,
            longest_streak = EXCLUDED.longest_streak,
            started_at = NULL,
            last_reset_at = EXCLUDED.last_reset_at,
            updated_at = NOW()
    `
	if _, err := tx.Exec(ctx, resetQ, rel.UserID, longestDays, now); err != nil {
		return fmt.Errorf("resetting streak for user %s: %w", rel.UserID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing relapse for user %s: %w", rel.UserID, err)
	}
	rel.CreatedAt = now
	return nil
}
