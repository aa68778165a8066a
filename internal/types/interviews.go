package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateInterviewRequest represents the request to schedule an interview.
type CreateInterviewRequest struct {
	ApplicationID   uuid.UUID `json:"application_id" validate:"required"`
	Kind            string    `json:"kind" validate:"required,oneof=phone technical behavioral onsite final"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Location        *string   `json:"location,omitempty"`
	MeetingLink     *string   `json:"meeting_link,omitempty" validate:"omitempty,url"`
	Interviewer     *string   `json:"interviewer,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

// UpdateInterviewRequest represents an interview update. A changed
// scheduled_at reschedules the reminders.
type UpdateInterviewRequest struct {
	Kind            string    `json:"kind" validate:"required,oneof=phone technical behavioral onsite final"`
	Status          string    `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled rescheduled no_show pending_confirmation"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Location        *string   `json:"location,omitempty"`
	MeetingLink     *string   `json:"meeting_link,omitempty" validate:"omitempty,url"`
	Interviewer     *string   `json:"interviewer,omitempty"`
	Outcome         *string   `json:"outcome,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
}

// Validate validates the CreateInterviewRequest using the validator.
func (r *CreateInterviewRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateInterviewRequest using the validator.
func (r *UpdateInterviewRequest) Validate() error {
	return validator.New().Struct(r)
}
