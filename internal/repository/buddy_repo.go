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

const buddyColumns = `id, inviter_id, invitee_id, invitee_email, status, created_at, updated_at`

// BuddyRepository defines buddy edge DB operations. Lookups return nil
// without error when no row matches.
type BuddyRepository interface {
	CreateBuddy(ctx context.Context, b *model.Buddy) error
	// FindPendingForInvitee finds a PENDING edge by id addressed to the
	// given invitee email.
	FindPendingForInvitee(ctx context.Context, buddyID, inviteeEmail string) (*model.Buddy, error)
	// FindNonTerminal finds the inviter's PENDING or ACCEPTED edge to an
	// email, for the duplicate-invite check.
	FindNonTerminal(ctx context.Context, inviterID, inviteeEmail string) (*model.Buddy, error)
	// FindForParty finds an edge by id where userID is inviter or invitee.
	FindForParty(ctx context.Context, buddyID, userID string) (*model.Buddy, error)
	// CountActive counts the inviter's edges in {PENDING, ACCEPTED}, the
	// quantity bounded by the buddy capacity.
	CountActive(ctx context.Context, inviterID string) (int, error)
	UpdateStatus(ctx context.Context, buddyID string, status model.BuddyStatus, inviteeID *string) error
	DeleteBuddy(ctx context.Context, buddyID string) error
	// ListAccepted returns ACCEPTED edges where userID is on either side.
	ListAccepted(ctx context.Context, userID string) ([]model.Buddy, error)
	ListPendingByInviteeEmail(ctx context.Context, inviteeEmail string) ([]model.Buddy, error)
	ListPendingByInviter(ctx context.Context, inviterID string) ([]model.Buddy, error)
	// LinkInvitee fills invitee_id on PENDING edges addressed to the email,
	// run when that email registers an account.
	LinkInvitee(ctx context.Context, inviteeEmail, inviteeID string) error
}

type buddyRepo struct {
	pool *pgxpool.Pool
}

// NewBuddyRepo creates a new BuddyRepository.
func NewBuddyRepo(pool *pgxpool.Pool) BuddyRepository {
	return &buddyRepo{pool: pool}
}

func (r *buddyRepo) CreateBuddy(ctx context.Context, b *model.Buddy) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.InviteeEmail = strings.ToLower(b.InviteeEmail)
	const q = `
        INSERT INTO buddies (id, inviter_id, invitee_id, invitee_email, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING created_at, updated_at
    `
	err := r.pool.QueryRow(ctx, q, b.ID, b.InviterID, b.InviteeID, b.InviteeEmail, b.Status).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating buddy invite from %s: %w", b.InviterID, err)
	}
	return nil
}

func (r *buddyRepo) FindPendingForInvitee(ctx context.Context, buddyID, inviteeEmail string) (*model.Buddy, error) {
	const q = `
        SELECT ` + buddyColumns + `
        FROM buddies
        WHERE id = $1 AND invitee_email = $2 AND status = 'PENDING'
    `
	return r.scanBuddy(r.pool.QueryRow(ctx, q, buddyID, strings.ToLower(inviteeEmail)))
}

func (r *buddyRepo) FindNonTerminal(ctx context.Context, inviterID, inviteeEmail string) (*model.Buddy, error) {
	const q = `
        SELECT ` + buddyColumns + `
        FROM buddies
        WHERE inviter_id = $1 AND invitee_email = $2 AND status IN ('PENDING', 'ACCEPTED')
        LIMIT 1
    `
	return r.scanBuddy(r.pool.QueryRow(ctx, q, inviterID, strings.ToLower(inviteeEmail)))
}

func (r *buddyRepo) FindForParty(ctx context.Context, buddyID, userID string) (*model.Buddy, error) {
	const q = `
        SELECT ` + buddyColumns + `
        FROM buddies
        WHERE id = $1 AND (inviter_id = $2 OR invitee_id = $2)
    `
	return r.scanBuddy(r.pool.QueryRow(ctx, q, buddyID, userID))
}

func (r *buddyRepo) CountActive(ctx context.Context, inviterID string) (int, error) {
	const q = `
        SELECT COUNT(*)
        FROM buddies
        WHERE inviter_id = $1 AND status IN ('PENDING', 'ACCEPTED')
    `
	var count int
	if err := r.pool.QueryRow(ctx, q, inviterID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting buddies for user %s: %w", inviterID, err)
	}
	return count, nil
}

func (r *buddyRepo) UpdateStatus(ctx context.Context, buddyID string, status model.BuddyStatus, inviteeID *string) error {
	const q = `
        UPDATE buddies
        SET status = $2,
            invitee_id = COALESCE($3, invitee_id),
            updated_at = NOW()
        WHERE id = $1
    `
	if _, err := r.pool.Exec(ctx, q, buddyID, status, inviteeID); err != nil {
		return fmt.Errorf("updating buddy %s to %s: %w", buddyID, status, err)
	}
	return nil
}

func (r *buddyRepo) DeleteBuddy(ctx context.Context, buddyID string) error {
	const q = `DELETE FROM buddies WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, buddyID); err != nil {
		return fmt.Errorf("deleting buddy %s: %w", buddyID, err)
	}
	return nil
}

func (r *buddyRepo) ListAccepted(ctx context.Context, userID string) ([]model.Buddy, error) {
	const q = `
        SELECT ` + buddyColumns + `
        FROM buddies
        WHERE status = 'ACCEPTED' AND (inviter_id = $1 OR invitee_id = $1)
        ORDER BY created_at
    `
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accepted buddies for user %s: %w", userID, err)
	}
	return scanBuddies(rows)
}

func (r *buddyRepo) ListPendingByInviteeEmail(ctx context.Context, inviteeEmail string) ([]model.Buddy, error) {
	const q = `
        SELECT ` + buddyColumns + `
        FROM buddies
        WHERE invitee_email = $1 AND status = 'PENDING'
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, strings.ToLower(inviteeEmail))
	if err != nil {
		return nil, fmt.Errorf("listing pending invites for %s: %w", inviteeEmail, err)
	}
	return scanBuddies(rows)
}

func (r *buddyRepo) ListPendingByInviter(ctx context.Context, inviterID string) ([]model.Buddy, error) {
	const q = `
        SELECT ` + buddyColumns + `
        FROM buddies
        WHERE inviter_id = $1 AND status = 'PENDING'
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, q, inviterID)
	if err != nil {
		return nil, fmt.Errorf("listing sent invites for user %s: %w", inviterID, err)
	}
	return scanBuddies(rows)
}

func (r *buddyRepo) LinkInvitee(ctx context.Context, inviteeEmail, inviteeID string) error {
	const q = `
        UPDATE buddies
        SET invitee_id = $2, updated_at = NOW()
        WHERE invitee_email = $1 AND status = 'PENDING' AND invitee_id IS NULL
    `
	if _, err := r.pool.Exec(ctx, q, strings.ToLower(inviteeEmail), inviteeID); err != nil {
		return fmt.Errorf("linking invites for %s: %w", inviteeEmail, err)
	}
	return nil
}

func (r *buddyRepo) scanBuddy(row pgx.Row) (*model.Buddy, error) {
	var b model.Buddy
	err := row.Scan(&b.ID, &b.InviterID, &b.InviteeID, &b.InviteeEmail, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching buddy: %w", err)
	}
	return &b, nil
}

func scanBuddies(rows pgx.Rows) ([]model.Buddy, error) {
	defer rows.Close()
	buddies := []model.Buddy{}
	for rows.Next() {
		var b model.Buddy
		if err := rows.Scan(&b.ID, &b.InviterID, &b.InviteeID, &b.InviteeEmail, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning buddy: %w", err)
		}
		buddies = append(buddies, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading buddies: %w", err)
	}
	return buddies, nil
}
