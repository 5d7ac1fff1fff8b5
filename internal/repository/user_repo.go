package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"urge/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository defines user profile DB operations. Lookups return nil
// without error when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a new UserRepository.
func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(u.Email)
	const q = `
        INSERT INTO users (id, username, email, is_paid_user, subscription_status, trial_ends_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q,
		u.ID, u.Username, u.Email, u.IsPaidUser, u.SubscriptionStatus, u.TrialEndsAt,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating user %s: %w", u.Email, err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
        SELECT id, username, email, is_paid_user, subscription_status, trial_ends_at, created_at, updated_at
        FROM users
        WHERE id = $1
    `
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
        SELECT id, username, email, is_paid_user, subscription_status, trial_ends_at, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	return r.scanUser(r.pool.QueryRow(ctx, q, strings.ToLower(email)))
}

func (r *userRepo) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsPaidUser, &u.SubscriptionStatus, &u.TrialEndsAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return &u, nil
}
