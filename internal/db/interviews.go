package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const interviewColumns = `id, application_id, user_id, kind, status, scheduled_at, duration_minutes,
	location, meeting_link, interviewer, outcome, notes, notifications, created_at, updated_at`

func scanInterview(row pgx.Row) (*Interview, error) {
	var iv Interview
	var notifications []byte
	err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.UserID, &iv.Kind, &iv.Status, &iv.ScheduledAt,
		&iv.DurationMinutes, &iv.Location, &iv.MeetingLink, &iv.Interviewer, &iv.Outcome, &iv.Notes,
		&notifications, &iv.CreatedAt, &iv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(notifications) > 0 {
		if err := json.Unmarshal(notifications, &iv.Notifications); err != nil {
			return nil, fmt.Errorf("failed to decode notifications: %w", err)
		}
	}
	return &iv, nil
}

// CreateInterviewParams holds the fields for creating an interview
type CreateInterviewParams struct {
	ApplicationID   uuid.UUID
	UserID          uuid.UUID
	Kind            string
	ScheduledAt     time.Time
	DurationMinutes int
	Location        *string
	MeetingLink     *string
	Interviewer     *string
	Notes           *string
}

// CreateInterview creates a new interview in 'scheduled' status and returns its ID
func (db *DB) CreateInterview(ctx context.Context, p CreateInterviewParams) (uuid.UUID, error) {
	if p.Kind == "" {
		p.Kind = InterviewKindPhone
	}
	if p.DurationMinutes == 0 {
		p.DurationMinutes = 60
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interviews (application_id, user_id, kind, status, scheduled_at, duration_minutes,
		                         location, meeting_link, interviewer, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		p.ApplicationID, p.UserID, p.Kind, InterviewStatusScheduled, p.ScheduledAt, p.DurationMinutes,
		p.Location, p.MeetingLink, p.Interviewer, p.Notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return id, nil
}

// GetInterview retrieves an interview by ID
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*Interview, error) {
	iv, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// ListInterviewsByApplication retrieves all interviews for an application,
// soonest first.
func (db *DB) ListInterviewsByApplication(ctx context.Context, applicationID uuid.UUID) ([]Interview, error) {
	return db.listInterviews(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE application_id = $1 ORDER BY scheduled_at ASC`,
		applicationID)
}

// ListInterviewsByUser retrieves all interviews for a user, soonest first.
func (db *DB) ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]Interview, error) {
	return db.listInterviews(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE user_id = $1 ORDER BY scheduled_at ASC`,
		userID)
}

// ListUpcomingInterviews retrieves interviews in an active status scheduled at
// or after the given time. Used to rebuild the reminder registry at startup.
func (db *DB) ListUpcomingInterviews(ctx context.Context, from time.Time) ([]Interview, error) {
	return db.listInterviews(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE status = ANY($1) AND scheduled_at >= $2
		 ORDER BY scheduled_at ASC`,
		[]string{InterviewStatusScheduled, InterviewStatusConfirmed, InterviewStatusPendingConfirmation},
		from)
}

// ListInterviewsAwaitingThankYou retrieves completed interviews older than the
// cutoff whose thank-you follow-up has not been sent.
func (db *DB) ListInterviewsAwaitingThankYou(ctx context.Context, before time.Time) ([]Interview, error) {
	return db.listInterviews(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE status = $1 AND scheduled_at < $2
		   AND COALESCE(notifications #>> '{follow_ups,thank_you,sent}', 'false') <> 'true'
		 ORDER BY scheduled_at ASC`,
		InterviewStatusCompleted, before)
}

// ListInterviewsAwaitingDecision retrieves completed interviews older than the
// cutoff with no recorded outcome and no decision follow-up sent.
func (db *DB) ListInterviewsAwaitingDecision(ctx context.Context, completedBefore time.Time) ([]Interview, error) {
	return db.listInterviews(ctx,
		`SELECT `+interviewColumns+` FROM interviews
		 WHERE status = $1 AND scheduled_at < $2 AND outcome IS NULL
		   AND COALESCE(notifications #>> '{follow_ups,decision,sent}', 'false') <> 'true'
		 ORDER BY scheduled_at ASC`,
		InterviewStatusCompleted, completedBefore)
}

func (db *DB) listInterviews(ctx context.Context, query string, args ...any) ([]Interview, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *iv)
	}
	return interviews, nil
}

// UpdateInterviewParams holds the updatable fields of an interview
type UpdateInterviewParams struct {
	Kind            string
	Status          string
	ScheduledAt     time.Time
	DurationMinutes int
	Location        *string
	MeetingLink     *string
	Interviewer     *string
	Outcome         *string
	Notes           *string
}

// UpdateInterview updates an interview's fields
func (db *DB) UpdateInterview(ctx context.Context, id uuid.UUID, p UpdateInterviewParams) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE interviews
		 SET kind = $1, status = $2, scheduled_at = $3, duration_minutes = $4, location = $5,
		     meeting_link = $6, interviewer = $7, outcome = $8, notes = $9, updated_at = NOW()
		 WHERE id = $10`,
		p.Kind, p.Status, p.ScheduledAt, p.DurationMinutes, p.Location,
		p.MeetingLink, p.Interviewer, p.Outcome, p.Notes, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interview not found: %s", id)
	}
	return nil
}

// UpdateInterviewStatus updates only the status of an interview
func (db *DB) UpdateInterviewStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE interviews SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update interview status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interview not found: %s", id)
	}
	return nil
}

// DeleteInterview deletes an interview
func (db *DB) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interview not found: %s", id)
	}
	return nil
}

// setInterviewNotifications writes back the full notification tracking record.
// Callers read-modify-write; the scheduler is the only writer so the record
// cannot race with itself.
func (db *DB) setInterviewNotifications(ctx context.Context, id uuid.UUID, n InterviewNotifications) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notifications: %w", err)
	}
	result, err := db.pool.Exec(ctx,
		`UPDATE interviews SET notifications = $1, updated_at = NOW() WHERE id = $2`,
		payload, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update notifications: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interview not found: %s", id)
	}
	return nil
}

// MarkReminderSent records that the reminder of the given kind was sent at
// the given time.
func (db *DB) MarkReminderSent(ctx context.Context, interviewID uuid.UUID, kind string, at time.Time) error {
	iv, err := db.GetInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if iv == nil {
		return fmt.Errorf("interview not found: %s", interviewID)
	}
	n := iv.Notifications
	if n.Reminders == nil {
		n.Reminders = make(map[string]NotificationMark)
	}
	n.Reminders[kind] = NotificationMark{Sent: true, SentAt: &at}
	return db.setInterviewNotifications(ctx, interviewID, n)
}

// MarkThankYouSent records that the thank-you follow-up was sent.
func (db *DB) MarkThankYouSent(ctx context.Context, interviewID uuid.UUID, at time.Time) error {
	iv, err := db.GetInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if iv == nil {
		return fmt.Errorf("interview not found: %s", interviewID)
	}
	n := iv.Notifications
	n.FollowUps.ThankYou = NotificationMark{Sent: true, SentAt: &at}
	return db.setInterviewNotifications(ctx, interviewID, n)
}

// MarkDecisionFollowUpSent records that the decision follow-up was sent.
func (db *DB) MarkDecisionFollowUpSent(ctx context.Context, interviewID uuid.UUID, at time.Time) error {
	iv, err := db.GetInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if iv == nil {
		return fmt.Errorf("interview not found: %s", interviewID)
	}
	n := iv.Notifications
	n.FollowUps.Decision = NotificationMark{Sent: true, SentAt: &at}
	return db.setInterviewNotifications(ctx, interviewID, n)
}
