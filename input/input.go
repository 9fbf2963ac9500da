// Package input implements the operator acknowledgment: polling key presses
// from a terminal or a window, with an optional timeout.
package input

import (
	"context"
	"time"

	"koala64/emu/log"
)

// DefaultInterval is the polling interval used when none is set.
const DefaultInterval = 20 * time.Millisecond

// A Poller reports whether a key has been pressed since the last call.
type Poller interface {
	KeyPressed() bool
}

// PollerFunc adapts a function to the Poller interface.
type PollerFunc func() bool

func (f PollerFunc) KeyPressed() bool { return f() }

// Never is a poller without keys.
type Never struct{}

func (Never) KeyPressed() bool { return false }

// Any reports a key press when any of its pollers does. All pollers are
// polled on each call, so that none keeps a stale key press.
type Any []Poller

func (a Any) KeyPressed() bool {
	pressed := false
	for _, p := range a {
		if p.KeyPressed() {
			pressed = true
		}
	}
	return pressed
}

// Waiter waits for a key press or a timeout.
type Waiter struct {
	Poller   Poller
	Timeout  time.Duration // 0 waits forever
	Interval time.Duration // polling interval, DefaultInterval if 0
}

// Wait blocks until a key is pressed, the timeout elapses or ctx is done. In
// the last case it returns ctx error.
func (w *Waiter) Wait(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	var timeout <-chan time.Time
	if w.Timeout > 0 {
		timer := time.NewTimer(w.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		if w.Poller != nil && w.Poller.KeyPressed() {
			log.ModInput.DebugZ("key pressed").End()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timeout:
			log.ModInput.DebugZ("timeout").Duration("after", w.Timeout).End()
			return nil
		case <-tick.C:
		}
	}
}
