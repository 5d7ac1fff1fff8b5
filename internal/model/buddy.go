package model

import "time"

// BuddyStatus is the lifecycle state of a buddy invite edge.
type BuddyStatus string

const (
	BuddyPending  BuddyStatus = "PENDING"
	BuddyAccepted BuddyStatus = "ACCEPTED"
	BuddyDeclined BuddyStatus = "DECLINED"
)

// Buddy is a directed invite edge from inviter to invitee. While PENDING the
// invitee may not be registered yet, in which case InviteeID is nil and the
// edge is addressed by the lowercase-normalized InviteeEmail only. Once
// ACCEPTED the relationship is treated as symmetric.
type Buddy struct {
	ID           string      `db:"id" json:"id"`
	InviterID    string      `db:"inviter_id" json:"inviter_id"`
	InviteeID    *string     `db:"invitee_id" json:"invitee_id,omitempty"`
	InviteeEmail string      `db:"invitee_email" json:"invitee_email"`
	Status       BuddyStatus `db:"status" json:"status"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// BuddyProgress is the read-side projection shown on a user's dashboard for
// one accepted buddy. DayHistory covers the last 14 calendar days, oldest
// first; true means no relapse was logged on that day.
type BuddyProgress struct {
	BuddyID    string     `json:"buddy_id"`
	Username   string     `json:"username"`
	StreakDays int        `json:"streak_days"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	DayHistory []bool     `json:"day_history"`
}

// PendingBuddyRequest is an incoming invite awaiting the current user's
// accept/decline decision.
type PendingBuddyRequest struct {
	ID              string    `json:"id"`
	InviterUsername string    `json:"inviter_username"`
	InviterEmail    string    `json:"inviter_email"`
	CreatedAt       time.Time `json:"created_at"`
}
