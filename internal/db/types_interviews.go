package db

import (
	"time"

	"github.com/google/uuid"
)

// Interview status constants
const (
	InterviewStatusScheduled           = "scheduled"
	InterviewStatusConfirmed           = "confirmed"
	InterviewStatusCompleted           = "completed"
	InterviewStatusCancelled           = "cancelled"
	InterviewStatusRescheduled         = "rescheduled"
	InterviewStatusNoShow              = "no_show"
	InterviewStatusPendingConfirmation = "pending_confirmation"
)

// Reminder kind constants. These key the notifications tracking record and
// name the email template used for a send.
const (
	ReminderKind24Hours     = "reminder_24h"
	ReminderKind4Hours      = "reminder_4h"
	ReminderKind1Hour       = "reminder_1h"
	ReminderKind15Min       = "reminder_15m"
	ReminderKindThankYou    = "thank_you"
	ReminderKindFollowUp    = "follow_up"
	ReminderKindRescheduled = "rescheduled"
)

// PreInterviewReminderKinds lists the reminder kinds fired before an
// interview, in decreasing lead-time order.
var PreInterviewReminderKinds = []string{
	ReminderKind24Hours,
	ReminderKind4Hours,
	ReminderKind1Hour,
	ReminderKind15Min,
}

// IsValidReminderKind reports whether s is a known reminder kind
func IsValidReminderKind(s string) bool {
	switch s {
	case ReminderKind24Hours, ReminderKind4Hours, ReminderKind1Hour, ReminderKind15Min,
		ReminderKindThankYou, ReminderKindFollowUp, ReminderKindRescheduled:
		return true
	}
	return false
}

// Interview kind constants
const (
	InterviewKindPhone      = "phone"
	InterviewKindTechnical  = "technical"
	InterviewKindBehavioral = "behavioral"
	InterviewKindOnsite     = "onsite"
	InterviewKindFinal      = "final"
)

// ValidInterviewStatuses lists every status an interview may hold
var ValidInterviewStatuses = []string{
	InterviewStatusScheduled,
	InterviewStatusConfirmed,
	InterviewStatusCompleted,
	InterviewStatusCancelled,
	InterviewStatusRescheduled,
	InterviewStatusNoShow,
	InterviewStatusPendingConfirmation,
}

// Interview represents a scheduled interview for an application
type Interview struct {
	ID              uuid.UUID              `json:"id"`
	ApplicationID   uuid.UUID              `json:"application_id"`
	UserID          uuid.UUID              `json:"user_id"`
	Kind            string                 `json:"kind"`
	Status          string                 `json:"status"`
	ScheduledAt     time.Time              `json:"scheduled_at"`
	DurationMinutes int                    `json:"duration_minutes"`
	Location        *string                `json:"location,omitempty"`
	MeetingLink     *string                `json:"meeting_link,omitempty"`
	Interviewer     *string                `json:"interviewer,omitempty"`
	Outcome         *string                `json:"outcome,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	Notifications   InterviewNotifications `json:"notifications"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// NotificationMark records a single sent notification
type NotificationMark struct {
	Sent   bool       `json:"sent"`
	SentAt *time.Time `json:"sent_at,omitempty"`
}

// FollowUpMarks tracks post-interview follow-up notifications
type FollowUpMarks struct {
	ThankYou NotificationMark `json:"thank_you"`
	Decision NotificationMark `json:"decision"`
}

// InterviewNotifications is the per-interview notification tracking record,
// stored as JSONB on the interviews row. The dispatcher writes it back after a
// successful send; the key of Reminders is the reminder kind.
type InterviewNotifications struct {
	Reminders map[string]NotificationMark `json:"reminders,omitempty"`
	FollowUps FollowUpMarks               `json:"follow_ups"`
}

// ReminderSent reports whether the reminder of the given kind was already sent.
func (n InterviewNotifications) ReminderSent(kind string) bool {
	if n.Reminders == nil {
		return false
	}
	return n.Reminders[kind].Sent
}

// IsValidInterviewStatus reports whether s is a known interview status
func IsValidInterviewStatus(s string) bool {
	for _, v := range ValidInterviewStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsActiveInterviewStatus reports whether an interview in status s should
// still receive reminders.
func IsActiveInterviewStatus(s string) bool {
	switch s {
	case InterviewStatusScheduled, InterviewStatusConfirmed, InterviewStatusPendingConfirmation:
		return true
	}
	return false
}
