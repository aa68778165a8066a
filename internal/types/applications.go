package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CreateApplicationRequest represents the request to track a new application.
type CreateApplicationRequest struct {
	Company   string     `json:"company" validate:"required,min=1"`
	RoleTitle string     `json:"role_title" validate:"required,min=1"`
	Status    string     `json:"status,omitempty" validate:"omitempty,oneof=saved applied interviewing offer rejected withdrawn"`
	JobURL    *string    `json:"job_url,omitempty" validate:"omitempty,url"`
	Location  *string    `json:"location,omitempty"`
	SalaryMin *int       `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax *int       `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	Notes     *string    `json:"notes,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// UpdateApplicationRequest represents a full application update.
type UpdateApplicationRequest struct {
	Company   string     `json:"company" validate:"required,min=1"`
	RoleTitle string     `json:"role_title" validate:"required,min=1"`
	Status    string     `json:"status" validate:"required,oneof=saved applied interviewing offer rejected withdrawn"`
	JobURL    *string    `json:"job_url,omitempty" validate:"omitempty,url"`
	Location  *string    `json:"location,omitempty"`
	SalaryMin *int       `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax *int       `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	Notes     *string    `json:"notes,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// UpdateApplicationStatusRequest moves an application through the pipeline.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=saved applied interviewing offer rejected withdrawn"`
}

// Validate validates the CreateApplicationRequest using the validator.
func (r *CreateApplicationRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateApplicationRequest using the validator.
func (r *UpdateApplicationRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateApplicationStatusRequest using the validator.
func (r *UpdateApplicationStatusRequest) Validate() error {
	return validator.New().Struct(r)
}
