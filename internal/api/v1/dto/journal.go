package dto

import "time"

// JournalCreateDTO is used for incoming journal requests. Trimming and the
// length/daily-cap checks live in the service so every caller shares them.
type JournalCreateDTO struct {
	Content string `json:"content" validate:"required"`
}

// JournalResponseDTO is returned in API responses.
type JournalResponseDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
