// Package reminder implements the in-process interview reminder scheduler:
// an in-memory registry of pending notification jobs, a polling trigger loop
// that dispatches due jobs, and daily sweeps for thank-you and decision
// follow-up notices.
package reminder

import (
	"time"

	"github.com/google/uuid"

	"github.com/daniel/jobtrackr/internal/db"
)

// Job is one scheduled notification. Jobs live only in the registry; they are
// re-derived from upcoming interviews at startup, never persisted.
type Job struct {
	ID          string
	InterviewID uuid.UUID
	UserID      uuid.UUID
	Kind        string
	FiresAt     time.Time
	Attempts    int
}

// reminderOffsets maps each pre-interview reminder kind to its lead time.
var reminderOffsets = map[string]time.Duration{
	db.ReminderKind24Hours: 24 * time.Hour,
	db.ReminderKind4Hours:  4 * time.Hour,
	db.ReminderKind1Hour:   time.Hour,
	db.ReminderKind15Min:   15 * time.Minute,
}

// thankYouDelay is how long after the interview the thank-you nudge fires.
const thankYouDelay = 24 * time.Hour

// jobKey builds the registry key for an (interview, kind) pair. Cancel relies
// on the interview ID prefix to find every job for an interview.
func jobKey(interviewID uuid.UUID, kind string) string {
	return interviewID.String() + "-" + kind
}

// jobsFor computes the full set of jobs for an interview: one per reminder
// offset plus the thank-you nudge. Fire times already in the past as of now
// are omitted.
func jobsFor(interview *db.Interview, now time.Time) []*Job {
	jobs := make([]*Job, 0, len(reminderOffsets)+1)

	for _, kind := range db.PreInterviewReminderKinds {
		firesAt := interview.ScheduledAt.Add(-reminderOffsets[kind])
		if !firesAt.After(now) {
			continue
		}
		jobs = append(jobs, &Job{
			ID:          jobKey(interview.ID, kind),
			InterviewID: interview.ID,
			UserID:      interview.UserID,
			Kind:        kind,
			FiresAt:     firesAt,
		})
	}

	if firesAt := interview.ScheduledAt.Add(thankYouDelay); firesAt.After(now) {
		jobs = append(jobs, &Job{
			ID:          jobKey(interview.ID, db.ReminderKindThankYou),
			InterviewID: interview.ID,
			UserID:      interview.UserID,
			Kind:        db.ReminderKindThankYou,
			FiresAt:     firesAt,
		})
	}

	return jobs
}
