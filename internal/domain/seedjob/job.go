package seedjob

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio/internal/domain/content"
)

type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var ErrJobNotFound = errors.New("seed job not found")

// Request is the message the API enqueues for the worker. An empty Collection
// means every collection plus the singleton documents.
type Request struct {
	JobID       uuid.UUID `json:"job_id"`
	ClearFirst  bool      `json:"clear_first"`
	Collection  string    `json:"collection,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// Job is the externally visible state of one seed run.
type Job struct {
	ID         uuid.UUID                `json:"id"`
	Status     Status                   `json:"status"`
	ClearFirst bool                     `json:"clear_first"`
	Collection string                   `json:"collection,omitempty"`
	Progress   []content.UploadProgress `json:"progress"`
	Results    []content.UploadResult   `json:"results,omitempty"`
	Failures   bool                     `json:"failures"`
	Error      string                   `json:"error,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func NewJob(clearFirst bool, collection string, now time.Time) *Job {
	return &Job{
		ID:         uuid.New(),
		Status:     StatusQueued,
		ClearFirst: clearFirst,
		Collection: collection,
		Progress:   []content.UploadProgress{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (j *Job) Request() Request {
	return Request{JobID: j.ID, ClearFirst: j.ClearFirst, Collection: j.Collection, RequestedAt: j.CreatedAt}
}

func (j *Job) Start(now time.Time) {
	j.Status = StatusRunning
	j.UpdatedAt = now
}

// Finish records the results. Per-record failures do not fail the job; they
// only set Failures.
func (j *Job) Finish(results []content.UploadResult, failures bool, now time.Time) {
	j.Status = StatusCompleted
	j.Results = results
	j.Failures = failures
	j.UpdatedAt = now
}

func (j *Job) Fail(err error, now time.Time) {
	j.Status = StatusFailed
	j.Error = err.Error()
	j.UpdatedAt = now
}

func (j *Job) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

type Repository interface {
	Save(ctx context.Context, job *Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
}
