// Package broker delivers booking lifecycle events to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"meeting-room-booking/internal/pkg/config"
	"meeting-room-booking/internal/pkg/errs"
	"meeting-room-booking/internal/usecase/shared"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpChannel is the subset of *amqp.Channel the publisher needs.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher keeps one connection and channel open for the process
// lifetime. amqp channels are not safe for concurrent publishing.
type AMQPPublisher struct {
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     amqpChannel
	queue  string
	logger *slog.Logger
}

func NewAMQPPublisher(cfg config.BrokerConfig, logger *slog.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errs.Wrap(err, "rabbitmq: dial failed")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "rabbitmq: channel open failed")
	}

	p, err := newPublisher(ch, cfg.Queue, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch amqpChannel, queue string, logger *slog.Logger) (*AMQPPublisher, error) {
	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		return nil, errs.Wrapf(err, "rabbitmq: queue declare failed for %s", queue)
	}
	return &AMQPPublisher{ch: ch, queue: queue, logger: logger}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event shared.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "rabbitmq: marshal event failed")
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         string(event.Type),
		MessageId:    event.AggregateID.String(),
		Timestamp:    event.OccurredAt.UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// default exchange, routing key = queue name
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return errs.Wrapf(err, "rabbitmq: publish %s failed", event.Type)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	chErr := p.ch.Close()
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return errs.Wrap(err, "rabbitmq: connection close failed")
		}
	}
	return chErr
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event shared.Event) error {
	p.logger.Debug("event",
		slog.String("type", string(event.Type)),
		slog.String("aggregate_id", event.AggregateID.String()),
		slog.Any("attributes", event.Attributes))
	return nil
}
