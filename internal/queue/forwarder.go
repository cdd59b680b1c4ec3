// Package queue forwards booking events to RabbitMQ for downstream consumers
// (notifications, reporting). Broker failures never reach the booking flow.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"taxibooking/internal/events"
)

const EventsQueue = "taxi.booking.events"

type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Forwarder struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
	open func() (channel, error)
}

// NewForwarder dials the broker and declares the durable events queue.
func NewForwarder(url string) (*Forwarder, error) {
	f := &Forwarder{url: url}
	f.open = f.dial
	if _, err := f.channel(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Forwarder) dial() (channel, error) {
	if f.conn == nil || f.conn.IsClosed() {
		conn, err := amqp.Dial(f.url)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq dial: %w", err)
		}
		f.conn = conn
	}
	ch, err := f.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel open: %w", err)
	}
	return ch, nil
}

// channel returns the open channel, reopening it after a broker error.
func (f *Forwarder) channel() (channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ch != nil {
		return f.ch, nil
	}
	ch, err := f.open()
	if err != nil {
		return nil, err
	}
	if _, err := ch.QueueDeclare(EventsQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	f.ch = ch
	return ch, nil
}

func (f *Forwarder) reset(ch channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ch == ch {
		_ = ch.Close()
		f.ch = nil
	}
}

func (f *Forwarder) Forward(ctx context.Context, e events.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ch, err := f.channel()
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    e.ID,
		Type:         string(e.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", EventsQueue, false, false, pub); err != nil {
		f.reset(ch)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

// Handler adapts the forwarder to an event bus subscriber.
func (f *Forwarder) Handler() events.Handler {
	return f.Forward
}

func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ch != nil {
		_ = f.ch.Close()
		f.ch = nil
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}
