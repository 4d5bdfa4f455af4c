package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the pipeline status of an application
type Status string

const (
	StatusApplied   Status = "APPLIED"
	StatusOA        Status = "OA"
	StatusInterview Status = "INTERVIEW"
	StatusOnsite    Status = "ONSITE"
	StatusOffer     Status = "OFFER"
	StatusRejected  Status = "REJECTED"
)

// ParseStatus converts a string into a Status, rejecting out-of-set values
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusApplied, StatusOA, StatusInterview, StatusOnsite, StatusOffer, StatusRejected:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

// Application represents a job application entity
type Application struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Company      string     `json:"company"`
	Role         string     `json:"role"`
	Location     *string    `json:"location,omitempty"`
	Source       *string    `json:"source,omitempty"`
	SalaryMin    *int       `json:"salary_min,omitempty"`
	SalaryMax    *int       `json:"salary_max,omitempty"`
	Status       Status     `json:"status"`
	JobURL       *string    `json:"job_url,omitempty"`
	JDText       *string    `json:"jd_text,omitempty"`
	AppliedAt    *time.Time `json:"applied_at,omitempty"`
	LastUpdateAt time.Time  `json:"last_update_at"`
}
