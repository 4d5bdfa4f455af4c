package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StageType represents the kind of interview-pipeline event
type StageType string

const (
	StageRecruiter  StageType = "RECRUITER"
	StageTechScreen StageType = "TECH_SCREEN"
	StageOA         StageType = "OA"
	StageOnsite     StageType = "ONSITE"
	StageOffer      StageType = "OFFER"
	StageOther      StageType = "OTHER"
)

// ParseStageType converts a string into a StageType, rejecting out-of-set values
func ParseStageType(s string) (StageType, error) {
	switch StageType(s) {
	case StageRecruiter, StageTechScreen, StageOA, StageOnsite, StageOffer, StageOther:
		return StageType(s), nil
	}
	return "", fmt.Errorf("invalid stage type: %q", s)
}

// Stage represents one interview-pipeline event tied to an application
type Stage struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	Type          StageType  `json:"type"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	Outcome       *string    `json:"outcome,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
