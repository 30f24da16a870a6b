package events

import (
	"context"
	"sync"
	"time"
)

type Type string

const (
	BookingHoldCreated  Type = "booking.hold_created"
	BookingConfirmed    Type = "booking.confirmed"
	BookingCancelled    Type = "booking.cancelled"
	BookingHoldsExpired Type = "booking.holds_expired"
)

// Event is one booking lifecycle fact. Key is the booking id, or empty for
// batch events such as a sweep.
type Event struct {
	Type       Type           `json:"type"`
	Key        string         `json:"key,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many events of type t were published.
func (r *Recorder) Count(t Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}
