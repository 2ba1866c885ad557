package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a cache-build job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusBuilding  JobStatus = "building"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// DocResult records the outcome for one document in a batch build.
type DocResult struct {
	Document string `json:"document"`
	ID       string `json:"id,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}

// Job tracks a batch cache-build request across the worker pool.
type Job struct {
	mu sync.Mutex

	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Documents []string  `json:"documents"`
	Force     bool      `json:"force"`
	Results   []DocResult
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJob creates a queued job for the given document references.
func NewJob(documents []string, force bool) *Job {
	now := time.Now()
	return &Job{
		ID:        newJobID(),
		Status:    StatusQueued,
		Documents: documents,
		Force:     force,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// AddResult records the outcome for one document.
func (j *Job) AddResult(r DocResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Results = append(j.Results, r)
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string      `json:"job_id"`
	Status    JobStatus   `json:"status"`
	Documents []string    `json:"documents"`
	Results   []DocResult `json:"results"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	results := make([]DocResult, len(j.Results))
	copy(results, j.Results)
	docs := make([]string, len(j.Documents))
	copy(docs, j.Documents)
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Documents: docs,
		Results:   results,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
