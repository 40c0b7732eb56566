// Package events announces committed transaction changes on an AMQP topic
// exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// Message is the JSON body of every published event.
type Message struct {
	Event      transaction.Event `json:"event"`
	ID         string            `json:"id"`
	Type       transaction.Type  `json:"type,omitempty"`
	Amount     string            `json:"amount,omitempty"`
	Category   string            `json:"category,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewMessage describes tx after event. Deletions carry only the id.
func NewMessage(event transaction.Event, tx *transaction.Transaction, at time.Time) Message {
	msg := Message{Event: event, ID: tx.ID.String(), OccurredAt: at.UTC()}

	if event != transaction.EventDeleted {
		msg.Type = tx.Type
		msg.Amount = tx.Amount.String()
		msg.Category = tx.Category
	}

	return msg
}

// RoutingKey returns the topic a given event is published under.
func RoutingKey(event transaction.Event) string {
	return "transaction." + string(event)
}

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	ch       channel
	exchange string
	now      func() time.Time
}

// Dial connects to the broker and declares a durable topic exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()

		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, ch: ch, exchange: exchange, now: time.Now}, nil
}

func (p *Publisher) Publish(ctx context.Context, event transaction.Event, tx *transaction.Transaction) error {
	body, err := json.Marshal(NewMessage(event, tx, p.now()))
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,        // exchange
		RoutingKey(event), // routing key
		false,             // mandatory
		false,             // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	slog.DebugContext(ctx, "published transaction event", "event", event, "id", tx.ID, "exchange", p.exchange)

	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}

	if p.conn != nil {
		return p.conn.Close()
	}

	return nil
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, transaction.Event, *transaction.Transaction) error { return nil }
