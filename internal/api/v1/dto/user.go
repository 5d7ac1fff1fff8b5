package dto

import "time"

// UserCreateDTO is used for incoming registration requests. The id and email
// come from the authenticated session, never the body.
type UserCreateDTO struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
}

// SubscriptionInfoDTO mirrors the paid-plan state kept on the user row.
type SubscriptionInfoDTO struct {
	IsPaidUser         bool   `json:"is_paid_user"`
	SubscriptionStatus string `json:"subscription_status"`
	TrialDaysRemaining *int   `json:"trial_days_remaining,omitempty"`
}

// UserResponseDTO is returned in API responses.
type UserResponseDTO struct {
	ID           string              `json:"id"`
	Username     string              `json:"username"`
	Email        string              `json:"email"`
	Subscription SubscriptionInfoDTO `json:"subscription"`
	CreatedAt    time.Time           `json:"created_at"`
}
