package models

import (
	"time"

	"github.com/google/uuid"
)

// Note represents a free-form note on an application
type Note struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	UserID        uuid.UUID `json:"user_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
}
