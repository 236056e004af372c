package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/skateshop/storefront/internal/core/domain/cart"
)

const cartChangedEventType = "CartChanged"

const publishTimeout = 2 * time.Second

// CartChanged is the message body published for every cart mutation.
type CartChanged struct {
	EventType string `json:"eventType"`
	cart.ChangeEvent
}

// Publisher sends cart change events to a durable queue on the default exchange.
// It implements ports.CartObserver.
type Publisher struct {
	conn  *amqp.Connection
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

// Dial connects to the broker and declares queue.
func Dial(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	p, err := NewPublisher(conn, queue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return p, nil
}

func NewPublisher(conn *amqp.Connection, queue string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the queue so publish never fails due to missing infra
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare %s: %w", queue, err)
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// CartChanged implements ports.CartObserver.
func (p *Publisher) CartChanged(ctx context.Context, ev cart.ChangeEvent) error {
	body, err := json.Marshal(CartChanged{EventType: cartChangedEventType, ChangeEvent: ev})
	if err != nil {
		return fmt.Errorf("marshal CartChanged: %w", err)
	}
	return p.publishJSON(ctx, body)
}

func (p *Publisher) publishJSON(ctx context.Context, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(
		pubCtx,
		"",      // default exchange
		p.queue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

// Ping reports whether the broker connection is still open.
func (p *Publisher) Ping(context.Context) error {
	if p.conn == nil || p.conn.IsClosed() {
		return amqp.ErrClosed
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
