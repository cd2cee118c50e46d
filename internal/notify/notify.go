// Package notify delivers engine progress and log lines to a consumer
// without ever blocking the engine.
package notify

import (
	"sync"
	"sync/atomic"
)

// Kind identifies the shape of an Event.
type Kind int

const (
	// ScanProgress carries Category and Percent (0-100).
	ScanProgress Kind = iota
	// CleanProgress carries Category, Processed and Total.
	CleanProgress
	// Log carries a free-text Message.
	Log
)

func (k Kind) String() string {
	switch k {
	case ScanProgress:
		return "scan"
	case CleanProgress:
		return "clean"
	case Log:
		return "log"
	}
	return "unknown"
}

// Event is a single notification from an engine.
type Event struct {
	Kind      Kind
	Category  string
	Percent   int
	Processed int
	Total     int
	Message   string
}

// Fraction returns clean progress as 0..1, or Percent/100 for scan events.
func (e Event) Fraction() float64 {
	switch e.Kind {
	case ScanProgress:
		return float64(e.Percent) / 100
	case CleanProgress:
		if e.Total <= 0 {
			return 1
		}
		return float64(e.Processed) / float64(e.Total)
	}
	return 0
}

// Sink consumes events. Publish must not block.
type Sink interface {
	Publish(Event)
}

// Func adapts a function to Sink. The function runs on the engine's
// goroutine, so it should hand off quickly.
type Func func(Event)

// Publish calls f.
func (f Func) Publish(e Event) { f(e) }

type discard struct{}

func (discard) Publish(Event) {}

// Discard drops every event.
var Discard Sink = discard{}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}

// Channel is a buffered Sink. Publish never blocks: when the buffer is
// full the event is dropped and counted.
type Channel struct {
	mu      sync.RWMutex
	ch      chan Event
	closed  bool
	dropped atomic.Int64
}

// NewChannel creates a channel sink with the given buffer size.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 256
	}
	return &Channel{ch: make(chan Event, buffer)}
}

// Publish enqueues e or drops it if the consumer is behind or the sink
// is closed.
func (c *Channel) Publish(e Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.dropped.Add(1)
		return
	}
	select {
	case c.ch <- e:
	default:
		c.dropped.Add(1)
	}
}

// Events returns the receive side. It is closed by Close.
func (c *Channel) Events() <-chan Event {
	return c.ch
}

// Close closes the event stream. Safe to call more than once.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// Dropped returns how many events were discarded.
func (c *Channel) Dropped() int64 {
	return c.dropped.Load()
}
