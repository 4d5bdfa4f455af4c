package models

import (
	"time"

	"github.com/google/uuid"
)

// Reminder represents a follow-up reminder on an application.
// Sent transitions false to true via the due-reminder sweep and never reverts.
type Reminder struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"application_id"`
	DueAt         time.Time `json:"due_at"`
	Message       string    `json:"message"`
	Sent          bool      `json:"sent"`
}
