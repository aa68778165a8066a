package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `id, user_id, company, role_title, status, job_url, location,
	salary_min, salary_max, notes, applied_at, created_at, updated_at`

func scanApplication(row pgx.Row) (*Application, error) {
	var a Application
	err := row.Scan(&a.ID, &a.UserID, &a.Company, &a.RoleTitle, &a.Status, &a.JobURL,
		&a.Location, &a.SalaryMin, &a.SalaryMax, &a.Notes, &a.AppliedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplicationParams holds the fields for creating an application
type CreateApplicationParams struct {
	UserID    uuid.UUID
	Company   string
	RoleTitle string
	Status    string
	JobURL    *string
	Location  *string
	SalaryMin *int
	SalaryMax *int
	Notes     *string
	AppliedAt *time.Time
}

// CreateApplication creates a new job application and returns its ID
func (db *DB) CreateApplication(ctx context.Context, p CreateApplicationParams) (uuid.UUID, error) {
	if p.Status == "" {
		p.Status = ApplicationStatusSaved
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, company, role_title, status, job_url, location,
		                           salary_min, salary_max, notes, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		p.UserID, p.Company, p.RoleTitle, p.Status, p.JobURL, p.Location,
		p.SalaryMin, p.SalaryMax, p.Notes, p.AppliedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create application: %w", err)
	}
	return id, nil
}

// GetApplication retrieves an application by ID
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*Application, error) {
	app, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

// ListApplicationsOptions holds optional filters for listing applications
type ListApplicationsOptions struct {
	Status  string
	Company string
	Limit   int
	Offset  int
}

// ListApplications retrieves a user's applications with optional filters,
// newest first, and returns the total count for pagination.
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID, opts ListApplicationsOptions) ([]Application, int, error) {
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	where := ` WHERE user_id = $1`
	args := []any{userID}
	argNum := 2

	if opts.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, opts.Status)
		argNum++
	}
	if opts.Company != "" {
		where += fmt.Sprintf(" AND company ILIKE $%d", argNum)
		args = append(args, "%"+opts.Company+"%")
		argNum++
	}

	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `SELECT ` + applicationColumns + ` FROM applications` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, total, nil
}

// ListAllApplications retrieves every application for a user, unpaged. Used by
// the analytics aggregation, which needs the full set.
func (db *DB) ListAllApplications(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// UpdateApplicationParams holds the updatable fields of an application
type UpdateApplicationParams struct {
	Company   string
	RoleTitle string
	Status    string
	JobURL    *string
	Location  *string
	SalaryMin *int
	SalaryMax *int
	Notes     *string
	AppliedAt *time.Time
}

// UpdateApplication updates an application's fields
func (db *DB) UpdateApplication(ctx context.Context, id uuid.UUID, p UpdateApplicationParams) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications
		 SET company = $1, role_title = $2, status = $3, job_url = $4, location = $5,
		     salary_min = $6, salary_max = $7, notes = $8, applied_at = $9, updated_at = NOW()
		 WHERE id = $10`,
		p.Company, p.RoleTitle, p.Status, p.JobURL, p.Location,
		p.SalaryMin, p.SalaryMax, p.Notes, p.AppliedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// UpdateApplicationStatus updates only the status of an application
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}

// DeleteApplication deletes an application and its interviews (via cascade)
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("application not found: %s", id)
	}
	return nil
}
