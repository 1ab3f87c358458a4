// Package notify publishes change signals to RabbitMQ. Publishing is
// fire-and-forget: errors are returned for the caller to log and ignore, and
// no delivery or ordering guarantee is made.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"eventmanagement/internal/domain"
)

const changeQueue = "events.changed"

type amqpPublisher struct {
	url    string
	logger *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a ChangePublisher that sends JSON change events to
// the events.changed queue. The connection is established lazily and redialed
// after failures.
func NewAMQPPublisher(url string, logger *slog.Logger) domain.ChangePublisher {
	return &amqpPublisher{url: url, logger: logger}
}

func (p *amqpPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	if p.conn != nil {
		p.logger.Info("amqp connection lost, redialing")
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	// Idempotent declare; durable so signals survive broker restarts.
	if _, err := ch.QueueDeclare(changeQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	p.ch = ch
	return ch, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, change domain.ChangeEvent) error {
	ch, err := p.channel()
	if err != nil {
		return err
	}
	body, err := json.Marshal(change)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", changeQueue, false, false, pub); err != nil {
		// Drop the channel so the next publish redials.
		p.logger.Warn("amqp publish failed, dropping channel", "queue", changeQueue, "err", err)
		p.mu.Lock()
		p.ch = nil
		p.mu.Unlock()
		return err
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher returns a ChangePublisher that discards every signal.
// Used when no broker is configured.
func NewNoopPublisher() domain.ChangePublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, domain.ChangeEvent) error { return nil }
