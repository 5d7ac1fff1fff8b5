package model

import "time"

// Journal is a short daily note. Entries are capped per calendar day and can
// only be deleted by their owner.
type Journal struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
