package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/mailer"
)

// Store defines the database operations required by the scheduler.
type Store interface {
	GetInterview(ctx context.Context, id uuid.UUID) (*db.Interview, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListUpcomingInterviews(ctx context.Context, from time.Time) ([]db.Interview, error)
	ListInterviewsAwaitingThankYou(ctx context.Context, before time.Time) ([]db.Interview, error)
	ListInterviewsAwaitingDecision(ctx context.Context, completedBefore time.Time) ([]db.Interview, error)
	MarkReminderSent(ctx context.Context, interviewID uuid.UUID, kind string, at time.Time) error
	MarkThankYouSent(ctx context.Context, interviewID uuid.UUID, at time.Time) error
	MarkDecisionFollowUpSent(ctx context.Context, interviewID uuid.UUID, at time.Time) error
}

// Config holds the scheduler cadences and limits.
type Config struct {
	// PollInterval is how often due jobs are checked (default: 5 minutes)
	PollInterval time.Duration

	// SweepInterval is how often the thank-you and decision sweeps run
	// (default: 24 hours)
	SweepInterval time.Duration

	// MaxAttempts bounds retries of a job whose email send failed (default: 3)
	MaxAttempts int

	// SendTimeout caps a single email send (default: 30 seconds)
	SendTimeout time.Duration

	// DecisionFollowUpAfter is how long after a completed interview with no
	// recorded outcome the follow-up nudge fires (default: 5 days)
	DecisionFollowUpAfter time.Duration
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:          5 * time.Minute,
		SweepInterval:         24 * time.Hour,
		MaxAttempts:           3,
		SendTimeout:           30 * time.Second,
		DecisionFollowUpAfter: 5 * 24 * time.Hour,
	}
}

// Service owns the registry and the trigger loop. It is a constructed
// dependency: handlers receive an instance, and tests run isolated instances
// with a fake store, mailer, and clock.
type Service struct {
	store    Store
	mailer   mailer.Mailer
	registry *Registry
	cfg      Config
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// errInactive marks a permanent drop: the interview left an active status.
var errInactive = errors.New("interview no longer active")

// errNotFound marks a permanent drop: a related record is gone.
var errNotFound = errors.New("related record not found")

// NewService creates a reminder service. A nil clock defaults to time.Now.
func NewService(store Store, m mailer.Mailer, cfg Config, clock func() time.Time) *Service {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 24 * time.Hour
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.DecisionFollowUpAfter <= 0 {
		cfg.DecisionFollowUpAfter = 5 * 24 * time.Hour
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:    store,
		mailer:   m,
		registry: NewRegistry(clock),
		cfg:      cfg,
		now:      clock,
	}
}

// Start rebuilds the registry from upcoming interviews and launches the
// trigger loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("reminder service already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.Rebuild(ctx); err != nil {
		log.Printf("[reminder] Startup rebuild failed: %v", err)
	}

	go s.run(ctx)
	log.Printf("[reminder] Scheduler started (poll %s, sweep %s)", s.cfg.PollInterval, s.cfg.SweepInterval)
	return nil
}

// Stop stops the trigger loop and waits for it to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	<-s.doneCh
	log.Printf("[reminder] Scheduler stopped")
}

// run is the trigger loop: a poll ticker for due jobs and a sweep ticker for
// the daily thank-you and decision sweeps.
func (s *Service) run(ctx context.Context) {
	defer close(s.doneCh)

	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()
	sweep := time.NewTicker(s.cfg.SweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-poll.C:
			s.DispatchDue(ctx)
		case <-sweep.C:
			s.SweepThankYou(ctx)
			s.SweepDecisions(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Rebuild re-derives the registry from upcoming active interviews. Fire times
// that elapsed while the process was down are not resurrected; the count of
// skipped slots is logged so the miss is operator-visible.
func (s *Service) Rebuild(ctx context.Context) error {
	now := s.now()
	interviews, err := s.store.ListUpcomingInterviews(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list upcoming interviews: %w", err)
	}

	registered, skipped := 0, 0
	for i := range interviews {
		n := s.registry.Schedule(&interviews[i])
		registered += n
		skipped += len(db.PreInterviewReminderKinds) + 1 - n
	}

	log.Printf("[reminder] Registry rebuilt: %d interviews, %d jobs registered, %d elapsed slots skipped",
		len(interviews), registered, skipped)
	return nil
}

// Schedule registers notification jobs for an interview. Called by the
// interview handlers on create.
func (s *Service) Schedule(interview *db.Interview) int {
	n := s.registry.Schedule(interview)
	log.Printf("[reminder] Scheduled %d jobs for interview %s", n, interview.ID)
	return n
}

// Cancel removes all jobs for an interview. Called on delete or cancel.
func (s *Service) Cancel(interviewID uuid.UUID) int {
	n := s.registry.Cancel(interviewID)
	log.Printf("[reminder] Cancelled %d jobs for interview %s", n, interviewID)
	return n
}

// Reschedule cancels the old jobs, sends an immediate "rescheduled" notice,
// and registers fresh jobs computed from the new time.
func (s *Service) Reschedule(ctx context.Context, interview *db.Interview) int {
	s.registry.Cancel(interview.ID)

	if err := s.notify(ctx, interview, db.ReminderKindRescheduled); err != nil {
		log.Printf("[reminder] Reschedule notice for interview %s failed: %v", interview.ID, err)
	}

	n := s.registry.Schedule(interview)
	log.Printf("[reminder] Rescheduled interview %s: %d jobs", interview.ID, n)
	return n
}

// SendTest dispatches one notification of the given kind immediately without
// touching the registry or the sent flags. Exposed for the manual test
// endpoint and CLI.
func (s *Service) SendTest(ctx context.Context, interviewID uuid.UUID, kind string) error {
	interview, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if interview == nil {
		return fmt.Errorf("interview not found: %s", interviewID)
	}
	return s.notify(ctx, interview, kind)
}

// Status returns the queue introspection counts.
func (s *Service) Status() QueueStatus {
	return s.registry.Status()
}

// DispatchDue fires every due job once. Permanent failures (missing records,
// inactive interview) drop the job immediately; transport failures are
// retried on later ticks up to MaxAttempts.
func (s *Service) DispatchDue(ctx context.Context) {
	due := s.registry.Due(s.now())
	for i := range due {
		job := &due[i]
		err := s.dispatch(ctx, job)
		switch {
		case err == nil:
			s.registry.Remove(job.ID)
		case errors.Is(err, errNotFound), errors.Is(err, errInactive):
			log.Printf("[reminder] Dropping job %s: %v", job.ID, err)
			s.registry.Remove(job.ID)
		default:
			attempts := s.registry.RecordFailure(job.ID)
			if attempts >= s.cfg.MaxAttempts {
				log.Printf("[reminder] Abandoning job %s after %d attempts: %v", job.ID, attempts, err)
				s.registry.Remove(job.ID)
			} else {
				log.Printf("[reminder] Job %s failed (attempt %d/%d), will retry: %v",
					job.ID, attempts, s.cfg.MaxAttempts, err)
			}
		}
	}
}

// dispatch loads the records for a job, sends the email, and persists the
// sent flag.
func (s *Service) dispatch(ctx context.Context, job *Job) error {
	interview, err := s.store.GetInterview(ctx, job.InterviewID)
	if err != nil {
		return err
	}
	if interview == nil {
		return fmt.Errorf("%w: interview %s", errNotFound, job.InterviewID)
	}
	if job.Kind != db.ReminderKindThankYou && !db.IsActiveInterviewStatus(interview.Status) {
		return fmt.Errorf("%w: interview %s is %s", errInactive, interview.ID, interview.Status)
	}
	// Thank-you nudges make sense only once the interview actually happened.
	if job.Kind == db.ReminderKindThankYou &&
		(interview.Status == db.InterviewStatusCancelled || interview.Status == db.InterviewStatusNoShow) {
		return fmt.Errorf("%w: interview %s is %s", errInactive, interview.ID, interview.Status)
	}
	alreadySent := interview.Notifications.ReminderSent(job.Kind)
	if job.Kind == db.ReminderKindThankYou {
		alreadySent = interview.Notifications.FollowUps.ThankYou.Sent
	}
	if alreadySent {
		return fmt.Errorf("%w: %s already sent", errInactive, job.ID)
	}

	if err := s.notify(ctx, interview, job.Kind); err != nil {
		return err
	}

	sentAt := s.now()
	if job.Kind == db.ReminderKindThankYou {
		err = s.store.MarkThankYouSent(ctx, interview.ID, sentAt)
	} else {
		err = s.store.MarkReminderSent(ctx, interview.ID, job.Kind, sentAt)
	}
	if err != nil {
		// The email went out; a failed flag write must not trigger a resend.
		log.Printf("[reminder] Failed to persist sent flag for %s: %v", job.ID, err)
	}
	return nil
}

// notify loads the user and application for an interview and sends one email.
func (s *Service) notify(ctx context.Context, interview *db.Interview, kind string) error {
	user, err := s.store.GetUser(ctx, interview.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", errNotFound, interview.UserID)
	}

	app, err := s.store.GetApplication(ctx, interview.ApplicationID)
	if err != nil {
		return err
	}
	if app == nil {
		return fmt.Errorf("%w: application %s", errNotFound, interview.ApplicationID)
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if err := s.mailer.SendInterviewEmail(sendCtx, user, interview, app, kind); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	return nil
}

// SweepThankYou sends the thank-you nudge for completed interviews older than
// a day that never got one. Safety net behind the registry's thank-you jobs:
// a restart can lose them, and the DB flag is the durable record.
func (s *Service) SweepThankYou(ctx context.Context) {
	cutoff := s.now().Add(-thankYouDelay)
	interviews, err := s.store.ListInterviewsAwaitingThankYou(ctx, cutoff)
	if err != nil {
		log.Printf("[reminder] Thank-you sweep failed: %v", err)
		return
	}

	for i := range interviews {
		interview := &interviews[i]
		if err := s.notify(ctx, interview, db.ReminderKindThankYou); err != nil {
			log.Printf("[reminder] Thank-you for interview %s failed: %v", interview.ID, err)
			continue
		}
		s.registry.Remove(jobKey(interview.ID, db.ReminderKindThankYou))
		if err := s.store.MarkThankYouSent(ctx, interview.ID, s.now()); err != nil {
			log.Printf("[reminder] Failed to persist thank-you flag for %s: %v", interview.ID, err)
		}
	}
}

// SweepDecisions sends the decision follow-up for completed interviews with
// no recorded outcome after the configured wait.
func (s *Service) SweepDecisions(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.DecisionFollowUpAfter)
	interviews, err := s.store.ListInterviewsAwaitingDecision(ctx, cutoff)
	if err != nil {
		log.Printf("[reminder] Decision sweep failed: %v", err)
		return
	}

	for i := range interviews {
		interview := &interviews[i]
		if err := s.notify(ctx, interview, db.ReminderKindFollowUp); err != nil {
			log.Printf("[reminder] Follow-up for interview %s failed: %v", interview.ID, err)
			continue
		}
		if err := s.store.MarkDecisionFollowUpSent(ctx, interview.ID, s.now()); err != nil {
			log.Printf("[reminder] Failed to persist follow-up flag for %s: %v", interview.ID, err)
		}
	}
}
