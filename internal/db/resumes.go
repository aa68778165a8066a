package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, user_id, title, target_role, content, enhanced, enhanced_model, created_at, updated_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var content []byte
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.TargetRole, &content,
		&r.Enhanced, &r.EnhancedModel, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &r.Content); err != nil {
			return nil, fmt.Errorf("failed to decode resume content: %w", err)
		}
	}
	return &r, nil
}

// CreateResume creates a new resume and returns its ID
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, targetRole *string, content map[string]any) (uuid.UUID, error) {
	payload, err := json.Marshal(content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode resume content: %w", err)
	}
	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, target_role, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, title, targetRole, payload,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes retrieves all resumes for a user, newest first
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, nil
}

// UpdateResumeContent replaces a resume's content
func (db *DB) UpdateResumeContent(ctx context.Context, id uuid.UUID, title string, targetRole *string, content map[string]any) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode resume content: %w", err)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET title = $1, target_role = $2, content = $3, updated_at = NOW() WHERE id = $4`,
		title, targetRole, payload, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}

// SaveEnhancedResume replaces a resume's content with the AI-enhanced version
// and records the model that produced it.
func (db *DB) SaveEnhancedResume(ctx context.Context, id uuid.UUID, content map[string]any, model string) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to encode resume content: %w", err)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE resumes SET content = $1, enhanced = TRUE, enhanced_model = $2, updated_at = NOW() WHERE id = $3`,
		payload, model, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save enhanced resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}

// DeleteResume deletes a resume
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", id)
	}
	return nil
}
