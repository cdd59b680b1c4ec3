package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibooking/internal/events"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	if !durable {
		return amqp.Queue{}, errors.New("queue must be durable")
	}
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newFakeForwarder(chans ...*fakeChannel) (*Forwarder, *int) {
	opened := 0
	f := &Forwarder{}
	f.open = func() (channel, error) {
		if opened >= len(chans) {
			return nil, errors.New("broker down")
		}
		ch := chans[opened]
		opened++
		return ch, nil
	}
	return f, &opened
}

func TestForwarder_PublishesPersistentJSON(t *testing.T) {
	ch := &fakeChannel{}
	f, _ := newFakeForwarder(ch)

	e := events.New(events.BookingCancelled)
	e.BookingID = 42
	e.BookingCode = "TAXIABC12345"
	e.RefundAmount = 4500

	require.NoError(t, f.Handler()(context.Background(), e))

	assert.Equal(t, []string{EventsQueue}, ch.declared)
	require.Len(t, ch.published, 1)
	assert.Equal(t, EventsQueue, ch.keys[0])

	msg := ch.published[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), msg.DeliveryMode)
	assert.Equal(t, e.ID, msg.MessageId)
	assert.Equal(t, "booking.cancelled", msg.Type)

	var got events.Event
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, int64(42), got.BookingID)
	assert.Equal(t, int64(4500), got.RefundAmount)
}

func TestForwarder_ReopensChannelAfterFailure(t *testing.T) {
	broken := &fakeChannel{publishErr: amqp.ErrClosed}
	healthy := &fakeChannel{}
	f, opened := newFakeForwarder(broken, healthy)
	ctx := context.Background()

	err := f.Forward(ctx, events.New(events.BookingCreated))
	require.Error(t, err)
	assert.True(t, broken.closed)

	require.NoError(t, f.Forward(ctx, events.New(events.BookingPaid)))
	assert.Equal(t, 2, *opened)
	assert.Len(t, healthy.published, 1)
	assert.Equal(t, []string{EventsQueue}, healthy.declared)
}

func TestForwarder_BrokerDownDoesNotPanic(t *testing.T) {
	f, _ := newFakeForwarder()
	bus := events.NewBus(func(string, ...interface{}) {})
	bus.Subscribe("rabbitmq", f.Handler())

	assert.NotPanics(t, func() {
		bus.Publish(context.Background(), events.New(events.BookingCreated))
	})
	assert.Error(t, f.Forward(context.Background(), events.New(events.BookingCreated)))
}
