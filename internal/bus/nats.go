// internal/bus/nats.go
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Client struct{ nc *nats.Conn }

func Connect(url string) (*Client, error) {
	nc, err := nats.Connect(url,
		nats.Name("simple-hashkit"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

func (c *Client) Close() {
	if c.nc != nil {
		_ = c.nc.Drain()
	}
}

func (c *Client) PublishJSON(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.nc.Publish(subject, b)
}

// ReplyHandler turns a request body into a value that is sent back as JSON.
type ReplyHandler func(ctx context.Context, data []byte) any

// ServeJSON answers requests on subject within a queue group. Handlers run
// without a deadline because tool invocations may legitimately wait their turn.
func (c *Client) ServeJSON(subject, queue string, handler ReplyHandler) (*nats.Subscription, error) {
	return c.nc.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		reply := handler(context.Background(), msg.Data)
		if msg.Reply == "" {
			slog.Warn("request without reply subject", "subject", msg.Subject)
			return
		}
		if err := respondJSON(msg, reply); err != nil {
			slog.Error("send reply failed", "subject", msg.Subject, "reply", msg.Reply, "err", err)
		}
	})
}

func respondJSON(msg *nats.Msg, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}
	if err := msg.Respond(b); err != nil {
		return fmt.Errorf("respond: %w", err)
	}
	return nil
}
