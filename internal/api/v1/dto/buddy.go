package dto

import "time"

// BuddyInviteDTO is used for incoming invite requests.
type BuddyInviteDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// ActionResultDTO is the success/error envelope the buddy endpoints return.
// Domain failures travel as data with a 200 status so the client can render
// them inline.
type ActionResultDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BuddyProgressResponseDTO is one entry of the buddy progress view.
type BuddyProgressResponseDTO struct {
	BuddyID    string     `json:"buddy_id"`
	Username   string     `json:"username"`
	StreakDays int        `json:"streak_days"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	DayHistory []bool     `json:"day_history"`
}

// PendingBuddyRequestDTO is an incoming invite awaiting a decision.
type PendingBuddyRequestDTO struct {
	ID              string    `json:"id"`
	InviterUsername string    `json:"inviter_username"`
	InviterEmail    string    `json:"inviter_email"`
	CreatedAt       time.Time `json:"created_at"`
}

// SentBuddyInviteDTO is an outgoing invite that has not been answered.
type SentBuddyInviteDTO struct {
	ID           string    `json:"id"`
	InviteeEmail string    `json:"invitee_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
