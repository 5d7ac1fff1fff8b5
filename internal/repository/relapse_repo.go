package repository

import (
	"context"
	"fmt"
	"time"

	"urge/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RelapseRepository reads the append-only relapse history. Inserts happen
// only through StreakRepository.RelapseAndReset; no update or delete is
// exposed here because relapses are permanent history.
type RelapseRepository interface {
	ListRecent(ctx context.Context, userID string, limit int) ([]model.Relapse, error)
	// ListSince returns relapses at or after the given instant, for the
	// buddy progress window.
	ListSince(ctx context.Context, userID string, since time.Time) ([]model.Relapse, error)
	Count(ctx context.Context, userID string) (int, error)
}

type relapseRepo struct {
	pool *pgxpool.Pool
}

// NewRelapseRepo creates a new RelapseRepository.
func NewRelapseRepo(pool *pgxpool.Pool) RelapseRepository {
	return &relapseRepo{pool: pool}
}

func (r *relapseRepo) ListRecent(ctx context.Context, userID string, limit int) ([]model.Relapse, error) {
	const q = `
        SELECT id, user_id, streak_days, streak_start, trigger, feeling, created_at
        FROM relapses
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing relapses for user %s: %w", userID, err)
	}
	return scanRelapses(rows, userID)
}

func (r *relapseRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]model.Relapse, error) {
	const q = `
        SELECT id, user_id, streak_days, streak_start, trigger, feeling, created_at
        FROM relapses
        WHERE user_id = $1 AND created_at >= $2
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, userID, since)
	if err != nil {
		return nil, fmt.Errorf("listing relapses since %s for user %s: %w", since, userID, err)
	}
	return scanRelapses(rows, userID)
}

func (r *relapseRepo) Count(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM relapses WHERE user_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting relapses for user %s: %w", userID, err)
	}
	return count, nil
}

func scanRelapses(rows pgx.Rows, userID string) ([]model.Relapse, error) {
	defer rows.Close()
	relapses := []model.Relapse{}
	for rows.Next() {
		var rel model.Relapse
		if err := rows.Scan(&rel.ID, &rel.UserID, &rel.StreakDays, &rel.StreakStart, &rel.Trigger, &rel.Feeling, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning relapse for user %s: %w", userID, err)
		}
		relapses = append(relapses, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading relapses for user %s: %w", userID, err)
	}
	return relapses, nil
}
