package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portssvc "github.com/SscSPs/loan_desk_app/internal/core/ports/services"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultStatusEventsQueue receives every status transition.
const DefaultStatusEventsQueue = "loan_desk.status_changed"

// RabbitMQPublisher publishes status events as persistent JSON messages on a durable queue.
type RabbitMQPublisher struct {
	conn  *amqp.Connection
	queue string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewRabbitMQPublisher declares the queue up front so publishes never race the declaration.
func NewRabbitMQPublisher(conn *amqp.Connection, queue string) (*RabbitMQPublisher, error) {
	if queue == "" {
		queue = DefaultStatusEventsQueue
	}
	p := &RabbitMQPublisher{conn: conn, queue: queue}
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

var _ portssvc.StatusEventPublisher = (*RabbitMQPublisher)(nil)

// channel returns the open channel, reopening it after a broker-side close.
// Callers must hold p.mu, except the constructor.
func (p *RabbitMQPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *RabbitMQPublisher) PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.channel()
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.Entity + "." + event.To,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

// Close closes the channel. The connection is owned by the caller.
func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		return nil
	}
	return p.ch.Close()
}
