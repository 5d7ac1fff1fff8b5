package model

import "time"

// Streak is the single abstinence timer owned by a user.
//
// StartedAt is authoritative while the streak is running: elapsed wall-clock
// time since StartedAt is the true duration. CurrentStreakDays is a cached
// day count that may lag real time and is corrected on read. A nil StartedAt
// means no streak is currently running.
type Streak struct {
	UserID            string     `db:"user_id" json:"user_id"`
	CurrentStreakDays int        `db:"current_streak" json:"current_streak"`
	LongestStreakDays int        `db:"longest_streak" json:"longest_streak"`
	StartedAt         *time.Time `db:"started_at" json:"started_at,omitempty"`
	LastResetAt       *time.Time `db:"last_reset_at" json:"last_reset_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Relapse is an immutable record of a streak ending. StreakDays is the length
// of the streak that was lost, computed at the moment of the relapse;
// StreakStart preserves the streak's StartedAt for audit.
type Relapse struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	StreakDays  int        `db:"streak_days" json:"streak_days"`
	StreakStart *time.Time `db:"streak_start" json:"streak_start,omitempty"`
	Trigger     *string    `db:"trigger" json:"trigger,omitempty"`
	Feeling     *string    `db:"feeling" json:"feeling,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
