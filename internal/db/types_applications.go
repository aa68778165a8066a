package db

import (
	"time"

	"github.com/google/uuid"
)

// Application status constants
const (
	ApplicationStatusSaved        = "saved"
	ApplicationStatusApplied      = "applied"
	ApplicationStatusInterviewing = "interviewing"
	ApplicationStatusOffer        = "offer"
	ApplicationStatusRejected     = "rejected"
	ApplicationStatusWithdrawn    = "withdrawn"
)

// ValidApplicationStatuses lists every status an application may hold
var ValidApplicationStatuses = []string{
	ApplicationStatusSaved,
	ApplicationStatusApplied,
	ApplicationStatusInterviewing,
	ApplicationStatusOffer,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// Application represents a tracked job application
type Application struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Company   string     `json:"company"`
	RoleTitle string     `json:"role_title"`
	Status    string     `json:"status"`
	JobURL    *string    `json:"job_url,omitempty"`
	Location  *string    `json:"location,omitempty"`
	SalaryMin *int       `json:"salary_min,omitempty"`
	SalaryMax *int       `json:"salary_max,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsValidApplicationStatus reports whether s is a known application status
func IsValidApplicationStatus(s string) bool {
	for _, v := range ValidApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}
