package dto

import "time"

// GaveInRequest is the optional context a user attaches when logging a
// relapse.
type GaveInRequest struct {
	Trigger *string `json:"trigger,omitempty" validate:"omitempty,max=100"`
	Feeling *string `json:"feeling,omitempty" validate:"omitempty,max=500"`
}

// RelapseResponseDTO is one relapse history entry.
type RelapseResponseDTO struct {
	ID          string     `json:"id"`
	StreakDays  int        `json:"streak_days"`
	StreakStart *time.Time `json:"streak_start,omitempty"`
	Trigger     *string    `json:"trigger,omitempty"`
	Feeling     *string    `json:"feeling,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// StreakSummaryResponseDTO is the dashboard view of a user's streak.
type StreakSummaryResponseDTO struct {
	DisplaySeconds    int64                `json:"display_seconds"`
	CurrentStreakDays int                  `json:"current_streak_days"`
	LongestStreakDays int                  `json:"longest_streak_days"`
	StartedAt         *time.Time           `json:"started_at,omitempty"`
	RelapseCount      int                  `json:"relapse_count"`
	RecentRelapses    []RelapseResponseDTO `json:"recent_relapses"`
}
