package events

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	BookingPaid      Type = "booking.paid"
	BookingCompleted Type = "booking.completed"
	ReviewSubmitted  Type = "review.submitted"
	CatalogChanged   Type = "catalog.changed"
)

// Event is emitted after the change it describes has been committed.
type Event struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	OccurredAt   time.Time `json:"occurredAt"`
	BookingID    int64     `json:"bookingId,omitempty"`
	BookingCode  string    `json:"bookingCode,omitempty"`
	UserID       int64     `json:"userId,omitempty"`
	TaxiID       int64     `json:"taxiId,omitempty"`
	RouteID      int64     `json:"routeId,omitempty"`
	RideDay      string    `json:"rideDay,omitempty"`
	Amount       int64     `json:"amount,omitempty"`
	RefundAmount int64     `json:"refundAmount,omitempty"`
	Rating       int       `json:"rating,omitempty"`
}

func New(t Type) Event {
	return Event{ID: uuid.NewString(), Type: t, OccurredAt: time.Now().UTC()}
}

type Handler func(ctx context.Context, e Event) error

// Bus delivers events synchronously to every subscriber of the event type, in
// subscription order. A failing subscriber is logged and never affects the
// publisher or the other subscribers.
type Bus struct {
	mu      sync.RWMutex
	subs    map[Type][]named
	all     []named
	loggerf func(format string, args ...interface{})
}

type named struct {
	name string
	fn   Handler
}

func NewBus(loggerf func(format string, args ...interface{})) *Bus {
	if loggerf == nil {
		loggerf = log.Printf
	}
	return &Bus{subs: make(map[Type][]named), loggerf: loggerf}
}

// Subscribe registers fn for the given types, or for every type when none are given.
func (b *Bus) Subscribe(name string, fn Handler, types ...Type) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := named{name: name, fn: fn}
	if len(types) == 0 {
		b.all = append(b.all, n)
		return
	}
	for _, t := range types {
		b.subs[t] = append(b.subs[t], n)
	}
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	targets := make([]named, 0, len(b.subs[e.Type])+len(b.all))
	targets = append(targets, b.subs[e.Type]...)
	targets = append(targets, b.all...)
	b.mu.RUnlock()

	for _, s := range targets {
		b.deliver(ctx, s, e)
	}
}

func (b *Bus) deliver(ctx context.Context, s named, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.loggerf("level=error msg=event subscriber panicked subscriber=%s event=%s id=%s panic=%v", s.name, e.Type, e.ID, r)
		}
	}()
	if err := s.fn(ctx, e); err != nil {
		b.loggerf("level=error msg=event subscriber failed subscriber=%s event=%s id=%s err=%v", s.name, e.Type, e.ID, err)
	}
}
