// Package runner executes the external hashkit tool and classifies how each
// invocation ended.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Reason classifies a failed invocation.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonToolReportedError
	ReasonToolNotFound
	ReasonToolTimeout
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonToolReportedError:
		return "tool_reported_error"
	case ReasonToolNotFound:
		return "tool_not_found"
	case ReasonToolTimeout:
		return "tool_timeout"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Outcome is the result of a single invocation. Message is the caller-facing
// text: trimmed stdout on success, a human readable error otherwise.
type Outcome struct {
	Succeeded bool
	Stdout    string
	Stderr    string
	Reason    Reason
	Message   string
	Duration  time.Duration
}

// Runner invokes the tool once with the given argument vector.
type Runner interface {
	Run(ctx context.Context, args []string) Outcome
}

// DefaultEncodingEnv forces the tool's text output to UTF-8.
const DefaultEncodingEnv = "PYTHONIOENCODING=utf-8"

// ExecRunner runs Binary as a subprocess.
type ExecRunner struct {
	Binary  string
	Env     []string      // appended to the parent environment
	Timeout time.Duration // zero disables the limit
	Logger  *slog.Logger
}

// NewExecRunner returns a runner for binary with the UTF-8 encoding variable set.
func NewExecRunner(binary string, timeout time.Duration, logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{
		Binary:  binary,
		Env:     []string{DefaultEncodingEnv},
		Timeout: timeout,
		Logger:  logger,
	}
}

// Available reports whether Binary can be resolved, so startup can warn early.
func (r *ExecRunner) Available() error {
	if _, err := exec.LookPath(r.Binary); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", r.Binary, err)
	}
	return nil
}

func (r *ExecRunner) Run(ctx context.Context, args []string) Outcome {
	start := time.Now()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Debug("invoking tool", "binary", r.Binary, "args", args)
	err := cmd.Run()

	out := Outcome{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}
	out = r.classify(ctx, out, err)

	r.Logger.Info("tool finished",
		"binary", r.Binary,
		"subcommand", firstArg(args),
		"succeeded", out.Succeeded,
		"reason", out.Reason.String(),
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out
}

func (r *ExecRunner) classify(ctx context.Context, out Outcome, err error) Outcome {
	if err == nil {
		out.Succeeded = true
		out.Message = out.Stdout
		return out
	}

	if r.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.Reason = ReasonToolTimeout
		out.Message = fmt.Sprintf("Error: `%s` timed out after %s.", r.Binary, r.Timeout)
		return out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.Reason = ReasonToolReportedError
		out.Message = "Error executing command: " + out.Stderr
		return out
	}

	var execErr *exec.Error
	var pathErr *fs.PathError
	if errors.As(err, &execErr) || errors.As(err, &pathErr) {
		out.Reason = ReasonToolNotFound
		out.Message = fmt.Sprintf("Error: `%s` executable not found. Make sure it's installed correctly.", r.Binary)
		return out
	}

	out.Reason = ReasonToolReportedError
	out.Message = "Error executing command: " + err.Error()
	return out
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
