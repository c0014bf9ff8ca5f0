// Package events announces allocation results to the message broker and to
// connected seat board screens.
package events

import (
	"context"
	"log"
	"time"
)

const (
	TypeAllocationCompleted = "allocation.completed"
	TypeSeatsGenerated      = "seats.generated"
	TypeSeatSwapped         = "seat.swapped"
	TypeSeatAssigned        = "seat.assigned"
)

type Event struct {
	Type      string    `json:"type"`
	SessionID int64     `json:"session_id"`
	At        time.Time `json:"at"`
	Data      any       `json:"data,omitempty"`
}

func New(eventType string, sessionID int64, data any) Event {
	return Event{Type: eventType, SessionID: sessionID, At: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

type multi []Publisher

// Multi fans an event out to every publisher. Failures are logged and the
// first one is returned after all publishers ran.
func Multi(publishers ...Publisher) Publisher {
	return multi(publishers)
}

func (m multi) Publish(ctx context.Context, ev Event) error {
	var first error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			log.Printf("events: publish type=%s session_id=%d err=%v", ev.Type, ev.SessionID, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
