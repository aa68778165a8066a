// Package analytics computes per-user job search statistics from the stored
// applications and interviews. Everything is aggregated in process; there are
// no materialized views to keep in sync.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/daniel/jobtrackr/internal/db"
)

// Store defines the queries the aggregation needs.
type Store interface {
	ListAllApplications(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	ListInterviewsByUser(ctx context.Context, userID uuid.UUID) ([]db.Interview, error)
}

// Stats is the aggregated view of one user's job search.
type Stats struct {
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[string]int `json:"by_status"`

	TotalInterviews    int `json:"total_interviews"`
	UpcomingInterviews int `json:"upcoming_interviews"`

	// InterviewRate is the share of applications that reached at least one
	// interview; OfferRate the share that reached an offer.
	InterviewRate float64 `json:"interview_rate"`
	OfferRate     float64 `json:"offer_rate"`

	// AvgDaysToFirstInterview averages applied-at to first interview over
	// applications where both dates are known. Nil when no such pair exists.
	AvgDaysToFirstInterview *float64 `json:"avg_days_to_first_interview,omitempty"`
}

// Service computes stats for a user.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates an analytics service. A nil clock defaults to time.Now.
func NewService(store Store, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, now: clock}
}

// UserStats loads a user's applications and interviews and aggregates them.
// The two queries are independent and run concurrently.
func (s *Service) UserStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	var (
		apps       []db.Application
		interviews []db.Interview
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.store.ListAllApplications(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		interviews, err = s.store.ListInterviewsByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load analytics data: %w", err)
	}

	return s.aggregate(apps, interviews), nil
}

func (s *Service) aggregate(apps []db.Application, interviews []db.Interview) *Stats {
	now := s.now()
	stats := &Stats{
		TotalApplications: len(apps),
		ByStatus:          make(map[string]int),
		TotalInterviews:   len(interviews),
	}

	// Earliest interview per application
	firstInterview := make(map[uuid.UUID]time.Time)
	for _, iv := range interviews {
		if first, ok := firstInterview[iv.ApplicationID]; !ok || iv.ScheduledAt.Before(first) {
			firstInterview[iv.ApplicationID] = iv.ScheduledAt
		}
		if db.IsActiveInterviewStatus(iv.Status) && iv.ScheduledAt.After(now) {
			stats.UpcomingInterviews++
		}
	}

	interviewed, offers := 0, 0
	var daysSum float64
	var daysCount int
	for _, app := range apps {
		stats.ByStatus[app.Status]++
		if app.Status == db.ApplicationStatusOffer {
			offers++
		}

		first, ok := firstInterview[app.ID]
		if !ok {
			continue
		}
		interviewed++
		if app.AppliedAt != nil && first.After(*app.AppliedAt) {
			daysSum += first.Sub(*app.AppliedAt).Hours() / 24
			daysCount++
		}
	}

	if len(apps) > 0 {
		stats.InterviewRate = float64(interviewed) / float64(len(apps))
		stats.OfferRate = float64(offers) / float64(len(apps))
	}
	if daysCount > 0 {
		avg := daysSum / float64(daysCount)
		stats.AvgDaysToFirstInterview = &avg
	}
	return stats
}
