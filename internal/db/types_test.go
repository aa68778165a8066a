package db

import (
	"testing"
	"time"
)

func TestIsValidApplicationStatus(t *testing.T) {
	for _, s := range ValidApplicationStatuses {
		if !IsValidApplicationStatus(s) {
			t.Errorf("IsValidApplicationStatus(%q) = false, expected true", s)
		}
	}
	for _, s := range []string{"", "open", "SAVED", "ghosted"} {
		if IsValidApplicationStatus(s) {
			t.Errorf("IsValidApplicationStatus(%q) = true, expected false", s)
		}
	}
}

func TestIsValidInterviewStatus(t *testing.T) {
	for _, s := range ValidInterviewStatuses {
		if !IsValidInterviewStatus(s) {
			t.Errorf("IsValidInterviewStatus(%q) = false, expected true", s)
		}
	}
	if IsValidInterviewStatus("done") {
		t.Error("IsValidInterviewStatus(\"done\") = true, expected false")
	}
}

func TestIsActiveInterviewStatus(t *testing.T) {
	tests := []struct {
		status string
		active bool
	}{
		{InterviewStatusScheduled, true},
		{InterviewStatusConfirmed, true},
		{InterviewStatusPendingConfirmation, true},
		{InterviewStatusCompleted, false},
		{InterviewStatusCancelled, false},
		{InterviewStatusRescheduled, false},
		{InterviewStatusNoShow, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := IsActiveInterviewStatus(tt.status); got != tt.active {
				t.Errorf("IsActiveInterviewStatus(%q) = %v, expected %v", tt.status, got, tt.active)
			}
		})
	}
}

func TestIsValidReminderKind(t *testing.T) {
	for _, k := range PreInterviewReminderKinds {
		if !IsValidReminderKind(k) {
			t.Errorf("IsValidReminderKind(%q) = false, expected true", k)
		}
	}
	for _, k := range []string{ReminderKindThankYou, ReminderKindFollowUp, ReminderKindRescheduled} {
		if !IsValidReminderKind(k) {
			t.Errorf("IsValidReminderKind(%q) = false, expected true", k)
		}
	}
	if IsValidReminderKind("reminder_30s") {
		t.Error("IsValidReminderKind(\"reminder_30s\") = true, expected false")
	}
}

func TestInterviewNotificationsReminderSent(t *testing.T) {
	var n InterviewNotifications
	if n.ReminderSent(ReminderKind1Hour) {
		t.Error("zero-value notifications reported a sent reminder")
	}

	at := time.Now()
	n.Reminders = map[string]NotificationMark{
		ReminderKind1Hour: {Sent: true, SentAt: &at},
	}
	if !n.ReminderSent(ReminderKind1Hour) {
		t.Error("expected reminder_1h to be reported sent")
	}
	if n.ReminderSent(ReminderKind24Hours) {
		t.Error("reminder_24h reported sent, only reminder_1h was marked")
	}
}
