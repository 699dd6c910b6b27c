// Package gate serializes access to the external tool.
package gate

import "context"

// Gate admits one holder at a time.
type Gate interface {
	// Acquire blocks until the gate is held or ctx is done.
	Acquire(ctx context.Context) error
	Release()
}

type slot chan struct{}

// New returns a single-holder gate. Waiters are admitted in an unspecified order.
func New() Gate {
	return make(slot, 1)
}

func (s slot) Acquire(ctx context.Context) error {
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s slot) Release() {
	select {
	case <-s:
	default:
		panic("gate: release of unheld gate")
	}
}

type noop struct{}

// Noop returns a gate that never blocks, for single-threaded harnesses.
func Noop() Gate { return noop{} }

func (noop) Acquire(context.Context) error { return nil }
func (noop) Release() {}
