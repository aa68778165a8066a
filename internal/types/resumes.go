package types

import (
	"github.com/go-playground/validator/v10"
)

// CreateResumeRequest represents the request to store a resume.
type CreateResumeRequest struct {
	Title      string         `json:"title" validate:"required,min=1"`
	TargetRole *string        `json:"target_role,omitempty"`
	Content    map[string]any `json:"content" validate:"required,min=1"`
}

// UpdateResumeRequest replaces a resume's content.
type UpdateResumeRequest struct {
	Content map[string]any `json:"content" validate:"required,min=1"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the UpdateResumeRequest using the validator.
func (r *UpdateResumeRequest) Validate() error {
	return validator.New().Struct(r)
}
