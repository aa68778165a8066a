package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/daniel/jobtrackr/internal/db"
)

// ComposeInterviewEmail builds the subject and plain-text body for a
// notification of the given kind. Unknown kinds fall back to a generic
// reminder so a send never fails on template lookup.
func ComposeInterviewEmail(user *db.User, interview *db.Interview, app *db.Application, kind string) (subject, body string) {
	when := interview.ScheduledAt.Format("Monday, January 2 at 3:04 PM MST")
	role := app.RoleTitle
	company := app.Company

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(user.Name))

	switch kind {
	case db.ReminderKind24Hours:
		subject = fmt.Sprintf("Interview tomorrow: %s at %s", role, company)
		fmt.Fprintf(&b, "Your %s interview for %s at %s is coming up in about 24 hours, on %s.\n\n",
			interview.Kind, role, company, when)
		b.WriteString("Now is a good time to review the role description and your notes.\n")
	case db.ReminderKind4Hours:
		subject = fmt.Sprintf("Interview in 4 hours: %s at %s", role, company)
		fmt.Fprintf(&b, "Your %s interview for %s at %s starts in about 4 hours (%s).\n",
			interview.Kind, role, company, when)
	case db.ReminderKind1Hour:
		subject = fmt.Sprintf("Interview in 1 hour: %s at %s", role, company)
		fmt.Fprintf(&b, "Your %s interview for %s at %s starts in about an hour (%s).\n",
			interview.Kind, role, company, when)
	case db.ReminderKind15Min:
		subject = fmt.Sprintf("Starting soon: %s at %s", role, company)
		fmt.Fprintf(&b, "Your %s interview for %s at %s starts in 15 minutes.\n",
			interview.Kind, role, company)
	case db.ReminderKindThankYou:
		subject = fmt.Sprintf("Send a thank-you note for your %s interview", company)
		fmt.Fprintf(&b, "You interviewed for %s at %s yesterday. A short thank-you note to your interviewer keeps you on their radar.\n",
			role, company)
	case db.ReminderKindFollowUp:
		subject = fmt.Sprintf("Time to follow up with %s", company)
		fmt.Fprintf(&b, "It has been a few days since your %s interview for %s at %s with no recorded decision. Consider sending a polite follow-up.\n",
			interview.Kind, role, company)
	case db.ReminderKindRescheduled:
		subject = fmt.Sprintf("Interview rescheduled: %s at %s", role, company)
		fmt.Fprintf(&b, "Your %s interview for %s at %s has been rescheduled to %s.\n",
			interview.Kind, role, company, when)
	default:
		subject = fmt.Sprintf("Upcoming interview: %s at %s", role, company)
		fmt.Fprintf(&b, "Reminder: your %s interview for %s at %s is scheduled for %s.\n",
			interview.Kind, role, company, when)
	}

	appendLogistics(&b, interview)
	b.WriteString("\nGood luck!\nJobTrackr\n")

	return subject, b.String()
}

// appendLogistics adds location and meeting-link details when present.
func appendLogistics(b *strings.Builder, interview *db.Interview) {
	if interview.Location != nil && *interview.Location != "" {
		fmt.Fprintf(b, "\nLocation: %s\n", *interview.Location)
	}
	if interview.MeetingLink != nil && *interview.MeetingLink != "" {
		fmt.Fprintf(b, "Meeting link: %s\n", *interview.MeetingLink)
	}
	if interview.Interviewer != nil && *interview.Interviewer != "" {
		fmt.Fprintf(b, "Interviewer: %s\n", *interview.Interviewer)
	}
	if interview.DurationMinutes > 0 {
		fmt.Fprintf(b, "Duration: %s\n", time.Duration(interview.DurationMinutes)*time.Minute)
	}
}

func firstName(full string) string {
	if i := strings.Index(full, " "); i > 0 {
		return full[:i]
	}
	return full
}
