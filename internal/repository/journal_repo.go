package repository

import (
	"context"
	"fmt"
	"time"

	"urge/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JournalRepository defines journal DB operations.
type JournalRepository interface {
	CreateJournal(ctx context.Context, j *model.Journal) error
	// CountBetween counts the user's entries with created_at inside the
	// inclusive [start, end] window. The daily cap depends on this using the
	// same day bounds as every other day-bucketed read.
	CountBetween(ctx context.Context, userID string, start, end time.Time) (int, error)
	ListBetween(ctx context.Context, userID string, start, end time.Time) ([]model.Journal, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]model.Journal, error)
	// DeleteOwned removes the entry only when it belongs to userID and
	// reports whether a row was deleted.
	DeleteOwned(ctx context.Context, userID, journalID string) (bool, error)
}

type journalRepo struct {
	pool *pgxpool.Pool
}

// NewJournalRepo creates a new JournalRepository.
func NewJournalRepo(pool *pgxpool.Pool) JournalRepository {
	return &journalRepo{pool: pool}
}

func (r *journalRepo) CreateJournal(ctx context.Context, j *model.Journal) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	const q = `
        INSERT INTO journals (id, user_id, content, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING created_at
    `
	if err := r.pool.QueryRow(ctx, q, j.ID, j.UserID, j.Content).Scan(&j.CreatedAt); err != nil {
		return fmt.Errorf("creating journal for user %s: %w", j.UserID, err)
	}
	return nil
}

func (r *journalRepo) CountBetween(ctx context.Context, userID string, start, end time.Time) (int, error) {
	const q = `
        SELECT COUNT(*)
        FROM journals
        WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
    `
	var count int
	if err := r.pool.QueryRow(ctx, q, userID, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting journals for user %s: %w", userID, err)
	}
	return count, nil
}

func (r *journalRepo) ListBetween(ctx context.Context, userID string, start, end time.Time) ([]model.Journal, error) {
	const q = `
        SELECT id, user_id, content, created_at
        FROM journals
        WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing journals for user %s: %w", userID, err)
	}
	return scanJournals(rows, userID)
}

func (r *journalRepo) ListRecent(ctx context.Context, userID string, limit int) ([]model.Journal, error) {
	const q = `
        SELECT id, user_id, content, created_at
        FROM journals
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent journals for user %s: %w", userID, err)
	}
	return scanJournals(rows, userID)
}

func (r *journalRepo) DeleteOwned(ctx context.Context, userID, journalID string) (bool, error) {
	const q = `DELETE FROM journals WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, q, journalID, userID)
	if err != nil {
		return false, fmt.Errorf("deleting journal %s: %w", journalID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanJournals(rows pgx.Rows, userID string) ([]model.Journal, error) {
	defer rows.Close()
	journals := []model.Journal{}
	for rows.Next() {
		var j model.Journal
		if err := rows.Scan(&j.ID, &j.UserID, &j.Content, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning journal for user %s: %w", userID, err)
		}
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading journals for user %s: %w", userID, err)
	}
	return journals, nil
}
