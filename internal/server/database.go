package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/daniel/jobtrackr/internal/db"
)

// Database defines the persistence operations the HTTP handlers use.
// Implemented by db.DB; tests substitute a mock.
type Database interface {
	Ping(ctx context.Context) error
	Close()

	CreateApplication(ctx context.Context, p db.CreateApplicationParams) (uuid.UUID, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID, opts db.ListApplicationsOptions) ([]db.Application, int, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, p db.UpdateApplicationParams) error
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteApplication(ctx context.Context, id uuid.UUID) error

	CreateInterview(ctx context.Context, p db.CreateInterviewParams) (uuid.UUID, error)
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	ListInterviewsByApplication(ctx context.Context, applicationID uuid.UUID) ([]db.Interview, error)
	ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]db.Interview, error)
	UpdateInterview(ctx context.Context, id uuid.UUID, p db.UpdateInterviewParams) error
	DeleteInterview(ctx context.Context, id uuid.UUID) error

	CreateResume(ctx context.Context, userID uuid.UUID, title string, targetRole *string, content map[string]any) (uuid.UUID, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	UpdateResumeContent(ctx context.Context, id uuid.UUID, title string, targetRole *string, content map[string]any) error
	SaveEnhancedResume(ctx context.Context, id uuid.UUID, content map[string]any, model string) error
	DeleteResume(ctx context.Context, id uuid.UUID) error

	GetSubscriptionByUser(ctx context.Context, userID uuid.UUID) (*db.Subscription, error)
}
