package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact represents a person attached to an application
type Contact struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	Name          string    `json:"name"`
	Email         *string   `json:"email,omitempty"`
	Role          *string   `json:"role,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
