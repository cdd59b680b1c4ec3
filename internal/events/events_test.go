package events

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversByTypeAndToWildcards(t *testing.T) {
	bus := NewBus(func(string, ...interface{}) {})

	var got []string
	bus.Subscribe("created", func(_ context.Context, e Event) error {
		got = append(got, "created:"+string(e.Type))
		return nil
	}, BookingCreated)
	bus.Subscribe("all", func(_ context.Context, e Event) error {
		got = append(got, "all:"+string(e.Type))
		return nil
	})

	bus.Publish(context.Background(), New(BookingCreated))
	bus.Publish(context.Background(), New(BookingPaid))

	assert.Equal(t, []string{
		"created:booking.created",
		"all:booking.created",
		"all:booking.paid",
	}, got)
}

func TestBus_SubscriberFailureIsLoggedNotPropagated(t *testing.T) {
	var logged []string
	bus := NewBus(func(format string, args ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})

	reached := false
	bus.Subscribe("broken", func(context.Context, Event) error { return errors.New("boom") }, BookingCancelled)
	bus.Subscribe("panicky", func(context.Context, Event) error { panic("bad") }, BookingCancelled)
	bus.Subscribe("ok", func(context.Context, Event) error {
		reached = true
		return nil
	}, BookingCancelled)

	bus.Publish(context.Background(), Event{Type: BookingCancelled})

	assert.True(t, reached)
	require.Len(t, logged, 2)
	assert.Contains(t, logged[0], "subscriber=broken")
	assert.Contains(t, logged[0], "err=boom")
	assert.Contains(t, logged[1], "subscriber=panicky")
}

func TestNew_AssignsIdentity(t *testing.T) {
	a := New(ReviewSubmitted)
	b := New(ReviewSubmitted)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.OccurredAt.IsZero())
}
