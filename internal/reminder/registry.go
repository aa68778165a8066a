package reminder

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daniel/jobtrackr/internal/db"
)

// Registry holds pending reminder jobs keyed by "<interviewID>-<kind>". It is
// process-local and unreplicated; running more than one scheduler process
// would duplicate sends.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
	now  func() time.Time
}

// NewRegistry creates an empty registry. A nil clock defaults to time.Now.
func NewRegistry(clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		jobs: make(map[string]*Job),
		now:  clock,
	}
}

// Schedule registers the reminder and thank-you jobs for an interview,
// skipping fire times already in the past, and returns how many were
// registered. Existing jobs for the interview are replaced.
func (r *Registry) Schedule(interview *db.Interview) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(interview.ID)

	jobs := jobsFor(interview, r.now())
	for _, job := range jobs {
		r.jobs[job.ID] = job
	}
	return len(jobs)
}

// Cancel removes every job belonging to the interview and returns how many
// were removed.
func (r *Registry) Cancel(interviewID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(interviewID)
}

func (r *Registry) removeLocked(interviewID uuid.UUID) int {
	prefix := interviewID.String() + "-"
	removed := 0
	for key := range r.jobs {
		if strings.HasPrefix(key, prefix) {
			delete(r.jobs, key)
			removed++
		}
	}
	return removed
}

// Due returns copies of all jobs whose fire time has passed as of now,
// earliest first.
func (r *Registry) Due(now time.Time) []Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []Job
	for _, job := range r.jobs {
		if !job.FiresAt.After(now) {
			due = append(due, *job)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FiresAt.Before(due[j].FiresAt) })
	return due
}

// Remove deletes a job by ID.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

// RecordFailure increments a job's attempt counter and returns the new count.
// Returns 0 if the job no longer exists.
func (r *Registry) RecordFailure(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return 0
	}
	job.Attempts++
	return job.Attempts
}

// Len returns the number of pending jobs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// QueueStatus is a point-in-time summary of the registry contents.
type QueueStatus struct {
	Total   int            `json:"total"`
	Due     int            `json:"due"`
	Pending int            `json:"pending"`
	ByKind  map[string]int `json:"by_kind"`
}

// Status summarizes the registry contents by state and kind.
func (r *Registry) Status() QueueStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := QueueStatus{ByKind: make(map[string]int)}
	now := r.now()
	for _, job := range r.jobs {
		status.Total++
		status.ByKind[job.Kind]++
		if job.FiresAt.After(now) {
			status.Pending++
		} else {
			status.Due++
		}
	}
	return status
}
