// pkg/schema/events.go
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ProcessRequest is the payload of the process operation (identify or crack).
type ProcessRequest struct {
	HashValue    string  `json:"hash_value"`
	Action       string  `json:"action"`
	Mode         string  `json:"mode,omitempty"`
	Threads      FlexInt `json:"threads,omitempty"`
	WordlistText string  `json:"wordlist_text,omitempty"`
	MaxLength    FlexInt `json:"max_length,omitempty"`
	Mask         string  `json:"mask,omitempty"`
}

// WordlistRequest is the payload of the wordlist management operation.
type WordlistRequest struct {
	Action string `json:"action"`
}

// FlexInt decodes from a JSON number or a numeric string. Form posts send
// numbers as strings; null and "" decode to zero, which callers treat as unset.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %q", raw)
	}
	*f = FlexInt(v)
	return nil
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the caller-facing result of every operation.
type Envelope struct {
	Status  string `json:"status"`
	Results string `json:"results,omitempty"`
	Message string `json:"message,omitempty"`
}

type envelopeJSON struct {
	Status  string  `json:"status"`
	Results *string `json:"results,omitempty"`
	Message string  `json:"message,omitempty"`
}

func (e Envelope) wire() envelopeJSON {
	w := envelopeJSON{Status: e.Status, Message: e.Message}
	// Success always carries results, even when the tool printed nothing.
	if e.Status == StatusSuccess || e.Results != "" {
		results := e.Results
		w.Results = &results
	}
	return w
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.wire())
}

// ErrorKind classifies how a dispatch ended.
type ErrorKind string

const (
	ErrorKindNone              ErrorKind = ""
	ErrorKindValidation        ErrorKind = "validation"
	ErrorKindToolReportedError ErrorKind = "tool_reported_error"
	ErrorKindToolNotFound      ErrorKind = "tool_not_found"
	ErrorKindToolTimeout       ErrorKind = "tool_timeout"
	ErrorKindInternal          ErrorKind = "internal"
)

// Reply is the NATS request/reply response: the envelope plus the strict outcome.
type Reply struct {
	Envelope
	JobID         string    `json:"job_id,omitempty"`
	FailureReason ErrorKind `json:"failure_reason,omitempty"`
}

// MarshalJSON flattens the envelope next to the reply fields; without it the
// promoted Envelope.MarshalJSON would drop them.
func (r Reply) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		envelopeJSON
		JobID         string    `json:"job_id,omitempty"`
		FailureReason ErrorKind `json:"failure_reason,omitempty"`
	}{r.Envelope.wire(), r.JobID, r.FailureReason})
}

type JobStage string

const (
	StageValidation JobStage = "validation"
	StageInvocation JobStage = "invocation"
	StageCompleted  JobStage = "completed"
	StageFailed     JobStage = "failed"
)

type JobLifecycleEvent struct {
	JobID         string    `json:"job_id"`
	Kind          string    `json:"kind"`
	Stage         JobStage  `json:"stage"`
	Error         string    `json:"error,omitempty"`
	FailureReason ErrorKind `json:"failure_reason,omitempty"`
	HappenedAt    int64     `json:"happened_at"`
}

type JobDone struct {
	JobID         string    `json:"job_id"`
	Kind          string    `json:"kind"`
	Args          []string  `json:"args,omitempty"`
	Status        string    `json:"status"`
	Results       string    `json:"results,omitempty"`
	FailureReason ErrorKind `json:"failure_reason,omitempty"`
	Error         string    `json:"error,omitempty"`
	DurationMs    int64     `json:"duration_ms"`
	HappenedAt    int64     `json:"happened_at"`
}
