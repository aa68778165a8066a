package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/daniel/jobtrackr/internal/db"
)

func templateFixtures() (*db.User, *db.Interview, *db.Application) {
	user := &db.User{ID: uuid.New(), Name: "Ada Lovelace", Email: "ada@example.com"}
	app := &db.Application{ID: uuid.New(), Company: "Acme", RoleTitle: "Backend Engineer"}
	iv := &db.Interview{
		ID:            uuid.New(),
		ApplicationID: app.ID,
		UserID:        user.ID,
		Kind:          db.InterviewKindTechnical,
		Status:        db.InterviewStatusScheduled,
		ScheduledAt:   time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC),
	}
	return user, iv, app
}

func TestComposeInterviewEmailPerKind(t *testing.T) {
	user, iv, app := templateFixtures()

	tests := []struct {
		kind          string
		wantInSubject string
		wantInBody    string
	}{
		{db.ReminderKind24Hours, "tomorrow", "24 hours"},
		{db.ReminderKind4Hours, "4 hours", "4 hours"},
		{db.ReminderKind1Hour, "1 hour", "an hour"},
		{db.ReminderKind15Min, "Starting soon", "15 minutes"},
		{db.ReminderKindThankYou, "thank-you", "thank-you note"},
		{db.ReminderKindFollowUp, "follow up", "follow-up"},
		{db.ReminderKindRescheduled, "rescheduled", "rescheduled"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			subject, body := ComposeInterviewEmail(user, iv, app, tt.kind)

			assert.Contains(t, subject, tt.wantInSubject)
			assert.Contains(t, subject, "Acme")
			assert.Contains(t, body, tt.wantInBody)
			assert.True(t, strings.HasPrefix(body, "Hi Ada,"), "greeting should use the first name")
		})
	}
}

func TestComposeInterviewEmailUnknownKindFallsBack(t *testing.T) {
	user, iv, app := templateFixtures()

	subject, body := ComposeInterviewEmail(user, iv, app, "carrier_pigeon")
	assert.Contains(t, subject, "Upcoming interview")
	assert.Contains(t, body, "Backend Engineer")
}

func TestComposeInterviewEmailIncludesLogistics(t *testing.T) {
	user, iv, app := templateFixtures()
	location := "HQ, Floor 3"
	link := "https://meet.example.com/xyz"
	iv.Location = &location
	iv.MeetingLink = &link

	_, body := ComposeInterviewEmail(user, iv, app, db.ReminderKind1Hour)
	assert.Contains(t, body, "HQ, Floor 3")
	assert.Contains(t, body, "https://meet.example.com/xyz")
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"ada@example.com", "a@b.co"}
	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}

	invalid := []string{"", "no-at-sign", "@example.com", "trailing@", "sp ace@example.com", "crlf@exa\r\nmple.com"}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}
