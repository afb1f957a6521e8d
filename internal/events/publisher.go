// Package events publishes marketplace domain events to a RabbitMQ topic
// exchange. When no broker is configured the no-op publisher is used and
// every publish succeeds silently.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Routing keys on the marketplace exchange.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	RentalCreated      = "rental.created"
	RentalReturned     = "rental.returned"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close() error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) error { return nil }
func (noopPublisher) Close() error                               { return nil }

// Noop returns a publisher that drops everything.
func Noop() Publisher {
	return noopPublisher{}
}

type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.DialConfig(amqpURL, amqp091.Config{
		Dial: amqp091.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := declareExchange(channel, exchange); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: channel, exchange: exchange}, nil
}

func declareExchange(channel *amqp091.Channel, exchange string) error {
	return channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil)
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	publishing := amqp091.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        payload,
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, publishing)
	if err == nil {
		return nil
	}

	// One-shot retry over a fresh channel; broker restarts close channels.
	channel, chErr := p.conn.Channel()
	if chErr != nil {
		return err
	}
	if exErr := declareExchange(channel, p.exchange); exErr != nil {
		channel.Close()
		return err
	}
	p.channel = channel
	return p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, publishing)
}

func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
