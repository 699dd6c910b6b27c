package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlexIntDecoding(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    FlexInt
		wantErr bool
	}{
		{"number", `{"threads":4}`, 4, false},
		{"string", `{"threads":"8"}`, 8, false},
		{"padded string", `{"threads":" 2 "}`, 2, false},
		{"empty string", `{"threads":""}`, 0, false},
		{"null", `{"threads":null}`, 0, false},
		{"absent", `{}`, 0, false},
		{"negative", `{"threads":-1}`, -1, false},
		{"garbage", `{"threads":"many"}`, 0, true},
		{"fraction", `{"threads":1.5}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req ProcessRequest
			err := json.Unmarshal([]byte(tt.payload), &req)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Threads != tt.want {
				t.Fatalf("threads = %d, want %d", req.Threads, tt.want)
			}
		})
	}
}

func TestEnvelopeOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Envelope{Status: StatusError, Message: "Invalid action."})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"status":"error","message":"Invalid action."}` {
		t.Fatalf("unexpected envelope json %s", b)
	}
}

func TestEnvelopeSuccessAlwaysHasResults(t *testing.T) {
	b, err := json.Marshal(Envelope{Status: StatusSuccess})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"status":"success","results":""}` {
		t.Fatalf("unexpected envelope json %s", b)
	}
}

func TestReplyKeepsStrictFields(t *testing.T) {
	b, err := json.Marshal(Reply{
		Envelope:      Envelope{Status: StatusSuccess},
		JobID:         "job-1",
		FailureReason: ErrorKindToolNotFound,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"status":"success","results":"","job_id":"job-1","failure_reason":"tool_not_found"}`
	if string(b) != want {
		t.Fatalf("reply json = %s, want %s", b, want)
	}

	b, err = json.Marshal(Reply{Envelope: Envelope{Status: StatusError, Message: "Invalid action."}, FailureReason: ErrorKindValidation})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "results") {
		t.Fatalf("error reply should not carry results: %s", b)
	}
}
