package process

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewJobAssignsID(t *testing.T) {
	job := NewJob("identify")

	if job.Kind != "identify" || job.Status != JobStatusPending {
		t.Fatalf("unexpected job: %+v", job)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Fatalf("job id is not a uuid: %q", job.ID)
	}
	if NewJob("identify").ID == job.ID {
		t.Fatal("job ids collided")
	}
}

func TestMarkRunningRecordsArgs(t *testing.T) {
	job := NewJob("wordlist_list")
	MarkRunning(job, []string{"wordlist", "list"})

	if job.Status != JobStatusRunning {
		t.Fatalf("job status not running: %v", job.Status)
	}
	if len(job.Args) != 2 || job.StartedAt.IsZero() {
		t.Fatalf("running job missing args or start time: %+v", job)
	}
	if job.Duration() != 0 {
		t.Fatalf("unfinished job reported duration %s", job.Duration())
	}
}

func TestMarkFailedSetsStatusAndError(t *testing.T) {
	job := NewJob("crack_mask")
	MarkFailed(job, errors.New("boom"))

	if job.Status != JobStatusFailed {
		t.Fatalf("job status not failed: %v", job.Status)
	}
	if job.Error != "boom" {
		t.Fatalf("job error not recorded: %q", job.Error)
	}
	if job.FinishedAt.IsZero() {
		t.Fatal("finish time not recorded")
	}
}

func TestMarkFailedDoesNotOverwriteErrorWhenNil(t *testing.T) {
	job := NewJob("crack_mask")
	MarkFailed(job, nil)

	if job.Status != JobStatusFailed {
		t.Fatalf("job status not failed: %v", job.Status)
	}
	if job.Error != "" {
		t.Fatalf("expected empty error string, got %q", job.Error)
	}
}

func TestMarkSucceeded(t *testing.T) {
	job := NewJob("identify")
	MarkSucceeded(job)

	if job.Status != JobStatusSucceeded || job.FinishedAt.IsZero() {
		t.Fatalf("unexpected job after success: %+v", job)
	}
}
