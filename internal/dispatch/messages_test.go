package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/tendant/simple-hashkit/internal/runner"
	"github.com/tendant/simple-hashkit/pkg/schema"
)

func TestHandleProcessMessage(t *testing.T) {
	fr := &fakeRunner{outcome: runner.Outcome{Reason: runner.ReasonToolReportedError, Message: "Error executing command: nope"}}
	d := newTestDispatcher(t, fr, Options{})

	got := d.HandleProcessMessage(context.Background(), []byte(`{"action":"crack","mode":"bruteforce","hash_value":"abc","max_length":"4","threads":2}`))

	rep, ok := got.(schema.Reply)
	if !ok {
		t.Fatalf("unexpected reply type %T", got)
	}
	if rep.Status != "success" || rep.Results != "Error executing command: nope" {
		t.Fatalf("unexpected reply %+v", rep)
	}
	if rep.FailureReason != schema.ErrorKindToolReportedError || rep.JobID == "" {
		t.Fatalf("strict fields missing: %+v", rep)
	}
	want := []string{"crack", "abc", "-m", "bruteforce", "--max-length", "4", "--threads", "2"}
	if args := fr.lastCall(t); len(args) != len(want) || args[5] != "4" || args[7] != "2" {
		t.Fatalf("args = %q, want %q", args, want)
	}

	b, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	var flat map[string]any
	if err := json.Unmarshal(b, &flat); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if flat["status"] != "success" || flat["failure_reason"] != "tool_reported_error" {
		t.Fatalf("reply not flattened: %s", b)
	}
}

func TestHandleMessageInvalidJSON(t *testing.T) {
	fr := &fakeRunner{}
	d := newTestDispatcher(t, fr, Options{})

	for name, handle := range map[string]func(context.Context, []byte) any{
		"process":  d.HandleProcessMessage,
		"wordlist": d.HandleWordlistMessage,
	} {
		t.Run(name, func(t *testing.T) {
			rep := handle(context.Background(), []byte(`{not json`)).(schema.Reply)
			if rep.Status != "error" || rep.Message != "Invalid JSON payload." {
				t.Fatalf("unexpected reply %+v", rep)
			}
		})
	}
	if len(fr.calls) != 0 {
		t.Fatal("runner invoked for malformed payload")
	}
}

func TestHandleWordlistMessage(t *testing.T) {
	fr := &fakeRunner{outcome: runner.Outcome{Succeeded: true, Message: "rockyou.txt"}}
	d := newTestDispatcher(t, fr, Options{})

	rep := d.HandleWordlistMessage(context.Background(), []byte(`{"action":"list"}`)).(schema.Reply)
	if rep.Status != "success" || rep.Results != "rockyou.txt" || rep.FailureReason != schema.ErrorKindNone {
		t.Fatalf("unexpected reply %+v", rep)
	}
}
