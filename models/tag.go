package models

import (
	"github.com/google/uuid"
)

// Tag represents a label shared across applications via a join table
type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
