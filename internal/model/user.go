package model

import "time"

// SubscriptionStatus tracks where a user sits in the paid-plan lifecycle.
// Transitions are driven by the external payment processor's webhooks,
// which are outside this service; we only store the latest state.
type SubscriptionStatus string

const (
	SubscriptionNone      SubscriptionStatus = "NONE"
	SubscriptionTrialing  SubscriptionStatus = "TRIALING"
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionOnHold    SubscriptionStatus = "ON_HOLD"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
)

// User represents a registered user in the system
type User struct {
	ID                 string             `db:"id" json:"id"`
	Username           string             `db:"username" json:"username"`
	Email              string             `db:"email" json:"email"`
	IsPaidUser         bool               `db:"is_paid_user" json:"is_paid_user"`
	SubscriptionStatus SubscriptionStatus `db:"subscription_status" json:"subscription_status"`
	TrialEndsAt        *time.Time         `db:"trial_ends_at" json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}
