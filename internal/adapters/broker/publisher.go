// Package broker publishes booking notifications to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"campusbooking/internal/domain"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// channel is the part of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends each notification to a durable topic exchange, routed
// by its type (e.g. "ticket.purchased").
type AMQPPublisher struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	ch       channel
	logger   *slog.Logger
}

// NewAMQPPublisher dials url and declares exchange.
func NewAMQPPublisher(url, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: url, exchange: exchange, logger: logger}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}
	p.conn = conn
	p.ch = ch
	return nil
}

// Publish sends n as a persistent JSON message. A dropped connection is
// redialed once per call.
func (p *AMQPPublisher) Publish(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil && p.conn.IsClosed() {
		p.logger.Warn("rabbitmq connection lost, reconnecting")
		if err := p.connect(); err != nil {
			return err
		}
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    n.OccurredAt,
		Type:         string(n.Type),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, string(n.Type), false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", n.Type, err)
	}
	p.logger.Debug("notification published", "type", n.Type, "message_id", msg.MessageId)
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NoopPublisher discards notifications. Used when AMQP_URL is unset.
type NoopPublisher struct {
	Logger *slog.Logger
}

func (p NoopPublisher) Publish(ctx context.Context, n domain.Notification) error {
	if p.Logger != nil {
		p.Logger.Debug("notification dropped (noop)", "type", n.Type)
	}
	return nil
}
