// internal/process/job.go
package process

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of one dispatched job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Job captures the minimal metadata the dispatcher tracks for auditing purposes.
type Job struct {
	ID         string
	Kind       string
	Args       []string
	Status     JobStatus
	Error      string
	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

func NewJob(kind string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
	}
}

func MarkRunning(j *Job, args []string) {
	j.Status = JobStatusRunning
	j.Args = args
	j.StartedAt = time.Now()
}

func MarkSucceeded(j *Job) {
	j.Status = JobStatusSucceeded
	j.FinishedAt = time.Now()
}

func MarkFailed(j *Job, err error) {
	j.Status = JobStatusFailed
	j.FinishedAt = time.Now()
	if err != nil {
		j.Error = err.Error()
	}
}

// Duration is the time between creation and completion, or zero while unfinished.
func (j *Job) Duration() time.Duration {
	if j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.CreatedAt)
}
