// Package dispatch is the entry point for hashkit jobs: it validates requests,
// serializes tool invocations and maps their outcomes to response envelopes.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/simple-hashkit/internal/artifact"
	"github.com/tendant/simple-hashkit/internal/gate"
	"github.com/tendant/simple-hashkit/internal/hashkit"
	"github.com/tendant/simple-hashkit/internal/process"
	"github.com/tendant/simple-hashkit/internal/runner"
	"github.com/tendant/simple-hashkit/pkg/schema"
)

// InternalErrorMessage is returned for failures the caller cannot act on.
const InternalErrorMessage = "An error occurred while processing the request."

// ArtifactScoper provides a temporary file for the duration of fn.
type ArtifactScoper interface {
	WithArtifact(content string, fn func(path string) error) error
}

// Publisher emits job events. *bus.Client satisfies it.
type Publisher interface {
	PublishJSON(subject string, v any) error
}

// Options configures a Dispatcher. Runner is required; the rest have defaults.
type Options struct {
	Gate          gate.Gate
	Runner        runner.Runner
	Artifacts     ArtifactScoper
	Publisher     Publisher
	ResultSubject string
	Logger        *slog.Logger
}

type Dispatcher struct {
	gate      gate.Gate
	runner    runner.Runner
	artifacts ArtifactScoper
	publisher Publisher
	subject   string
	logger    *slog.Logger
}

// Response is the result of one dispatch. Envelope is the wire-compatible
// body; Kind and Outcome expose the stricter classification.
type Response struct {
	Envelope schema.Envelope
	Kind     schema.ErrorKind
	Outcome  runner.Outcome
	JobID    string
}

func New(opts Options) (*Dispatcher, error) {
	if opts.Runner == nil {
		return nil, errors.New("dispatch: runner is required")
	}
	d := &Dispatcher{
		gate:      opts.Gate,
		runner:    opts.Runner,
		artifacts: opts.Artifacts,
		publisher: opts.Publisher,
		subject:   opts.ResultSubject,
		logger:    opts.Logger,
	}
	if d.gate == nil {
		d.gate = gate.New()
	}
	if d.artifacts == nil {
		d.artifacts = artifact.NewManager("")
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d, nil
}

// Process handles the identify and crack operations.
func (d *Dispatcher) Process(ctx context.Context, in schema.ProcessRequest) Response {
	req, err := hashkit.ParseProcess(in)
	if err != nil {
		return d.rejected("process", in.Action, err)
	}
	return d.Dispatch(ctx, req)
}

// Wordlist handles the wordlist management operations.
func (d *Dispatcher) Wordlist(ctx context.Context, in schema.WordlistRequest) Response {
	req, err := hashkit.ParseWordlist(in)
	if err != nil {
		return d.rejected("wordlist", in.Action, err)
	}
	return d.Dispatch(ctx, req)
}

// Dispatch validates a job and runs it through the gate and the tool.
func (d *Dispatcher) Dispatch(ctx context.Context, req hashkit.JobRequest) Response {
	if err := req.Validate(); err != nil {
		return d.rejected("dispatch", string(req.Kind), err)
	}

	job := process.NewJob(string(req.Kind))
	logger := d.logger.With("job_id", job.ID, "kind", req.Kind)
	d.publishLifecycle(job, schema.StageValidation, nil, schema.ErrorKindNone)

	out, err := d.invoke(ctx, job, req, logger)
	if err != nil {
		process.MarkFailed(job, err)
		logger.Error("dispatch failed", "err", err)
		d.publishLifecycle(job, schema.StageFailed, err, schema.ErrorKindInternal)
		d.publishDone(job, schema.StatusError, "", schema.ErrorKindInternal)
		return Response{
			Envelope: schema.Envelope{Status: schema.StatusError, Message: InternalErrorMessage},
			Kind:     schema.ErrorKindInternal,
			JobID:    job.ID,
		}
	}

	kind := errorKind(out.Reason)
	if out.Succeeded {
		process.MarkSucceeded(job)
		d.publishLifecycle(job, schema.StageCompleted, nil, kind)
	} else {
		process.MarkFailed(job, errors.New(out.Message))
		logger.Warn("tool invocation failed", "reason", out.Reason.String(), "stderr", out.Stderr)
		d.publishLifecycle(job, schema.StageFailed, errors.New(out.Message), kind)
	}
	d.publishDone(job, schema.StatusSuccess, out.Message, kind)
	logger.Info("completed job", "status", job.Status, "duration_ms", job.Duration().Milliseconds())

	// Tool failures still travel in a success envelope with the error text as results.
	return Response{
		Envelope: schema.Envelope{Status: schema.StatusSuccess, Results: out.Message},
		Kind:     kind,
		Outcome:  out,
		JobID:    job.ID,
	}
}

// invoke holds the gate from artifact creation through artifact removal.
// ctx only bounds the wait for the gate; once started, an invocation ends on
// its own or through the runner's timeout.
func (d *Dispatcher) invoke(ctx context.Context, job *process.Job, req hashkit.JobRequest, logger *slog.Logger) (runner.Outcome, error) {
	var out runner.Outcome

	waitStart := time.Now()
	if err := d.gate.Acquire(ctx); err != nil {
		return out, fmt.Errorf("acquire gate: %w", err)
	}
	defer d.gate.Release()
	logger.Debug("acquired gate", "wait_ms", time.Since(waitStart).Milliseconds())

	run := func(wordlistPath string) {
		args := hashkit.BuildArgs(req, wordlistPath)
		process.MarkRunning(job, args)
		d.publishLifecycle(job, schema.StageInvocation, nil, schema.ErrorKindNone)
		out = d.runner.Run(context.WithoutCancel(ctx), args)
	}

	if !req.NeedsWordlist() {
		run("")
		return out, nil
	}

	ran := false
	err := d.artifacts.WithArtifact(req.Wordlist(), func(path string) error {
		ran = true
		run(path)
		return nil
	})
	if err != nil {
		if ran {
			logger.Warn("wordlist cleanup failed", "err", err)
			return out, nil
		}
		return out, fmt.Errorf("prepare wordlist: %w", err)
	}
	return out, nil
}

func (d *Dispatcher) rejected(op, action string, err error) Response {
	var verr *hashkit.ValidationError
	if !errors.As(err, &verr) {
		d.logger.Error("parse request failed", "operation", op, "err", err)
		return Response{
			Envelope: schema.Envelope{Status: schema.StatusError, Message: InternalErrorMessage},
			Kind:     schema.ErrorKindInternal,
		}
	}
	d.logger.Info("rejected request", "operation", op, "action", action, "reason", verr.Message)
	return Response{
		Envelope: schema.Envelope{Status: schema.StatusError, Message: verr.Message},
		Kind:     schema.ErrorKindValidation,
	}
}

func errorKind(r runner.Reason) schema.ErrorKind {
	switch r {
	case runner.ReasonToolReportedError:
		return schema.ErrorKindToolReportedError
	case runner.ReasonToolNotFound:
		return schema.ErrorKindToolNotFound
	case runner.ReasonToolTimeout:
		return schema.ErrorKindToolTimeout
	default:
		return schema.ErrorKindNone
	}
}

func (d *Dispatcher) publishLifecycle(job *process.Job, stage schema.JobStage, cause error, kind schema.ErrorKind) {
	if d.publisher == nil || d.subject == "" {
		return
	}
	event := schema.JobLifecycleEvent{
		JobID:         job.ID,
		Kind:          job.Kind,
		Stage:         stage,
		FailureReason: kind,
		HappenedAt:    time.Now().Unix(),
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if err := d.publisher.PublishJSON(d.subject+".lifecycle", event); err != nil {
		d.logger.Error("publish lifecycle event failed", "subject", d.subject, "stage", stage, "err", err)
	}
}

func (d *Dispatcher) publishDone(job *process.Job, status, results string, kind schema.ErrorKind) {
	if d.publisher == nil || d.subject == "" {
		return
	}
	done := schema.JobDone{
		JobID:         job.ID,
		Kind:          job.Kind,
		Args:          job.Args,
		Status:        status,
		Results:       results,
		FailureReason: kind,
		Error:         job.Error,
		DurationMs:    job.Duration().Milliseconds(),
		HappenedAt:    time.Now().Unix(),
	}
	if err := d.publisher.PublishJSON(d.subject, done); err != nil {
		d.logger.Error("publish result failed", "subject", d.subject, "job_id", job.ID, "err", err)
	}
}
