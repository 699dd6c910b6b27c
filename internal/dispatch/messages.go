package dispatch

import (
	"context"
	"encoding/json"

	"github.com/tendant/simple-hashkit/pkg/schema"
)

const invalidPayloadMessage = "Invalid JSON payload."

// HandleProcessMessage serves the process operation over request/reply messaging.
func (d *Dispatcher) HandleProcessMessage(ctx context.Context, data []byte) any {
	var in schema.ProcessRequest
	if err := json.Unmarshal(data, &in); err != nil {
		d.logger.Info("rejected message", "operation", "process", "err", err)
		return invalidPayloadReply()
	}
	return reply(d.Process(ctx, in))
}

// HandleWordlistMessage serves the wordlist operation over request/reply messaging.
func (d *Dispatcher) HandleWordlistMessage(ctx context.Context, data []byte) any {
	var in schema.WordlistRequest
	if err := json.Unmarshal(data, &in); err != nil {
		d.logger.Info("rejected message", "operation", "wordlist", "err", err)
		return invalidPayloadReply()
	}
	return reply(d.Wordlist(ctx, in))
}

func reply(resp Response) schema.Reply {
	return schema.Reply{
		Envelope:      resp.Envelope,
		JobID:         resp.JobID,
		FailureReason: resp.Kind,
	}
}

func invalidPayloadReply() schema.Reply {
	return schema.Reply{
		Envelope:      schema.Envelope{Status: schema.StatusError, Message: invalidPayloadMessage},
		FailureReason: schema.ErrorKindValidation,
	}
}
