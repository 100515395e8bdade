// Package notify publishes workflow activity to a message broker.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/entity"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, activity entity.Activity) error
	Close() error
}

type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

// NewRabbitMQ connects and declares the durable activity queue.
func NewRabbitMQ(cfg *config.BrokerConfig) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Объявляем очередь активности
	q, err := channel.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		amqp.Table{
			"x-queue-mode": "lazy",
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitMQ{conn: conn, channel: channel, queue: q}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, activity entity.Activity) error {
	body, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    activity.ID,
			Type:         string(activity.Type),
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish activity: %w", err)
	}
	return nil
}

// Consume delivers activities to handler until ctx ends. Messages that fail
// to decode are dropped; handler errors requeue the message.
func (r *RabbitMQ) Consume(ctx context.Context, handler func(entity.Activity) error) error {
	if err := r.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to consume activities: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var activity entity.Activity
			if err := json.Unmarshal(msg.Body, &activity); err != nil {
				logrus.WithError(err).Warn("Dropping malformed activity")
				msg.Nack(false, false)
				continue
			}
			if err := handler(activity); err != nil {
				logrus.WithError(err).Warn("Activity handler failed, message will be retried")
				msg.Nack(false, true)
				continue
			}
			msg.Ack(false)
		}
	}
}

func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing RabbitMQ: %w", errors.Join(errs...))
	}
	return nil
}

type noop struct{}

// Noop discards every activity.
func Noop() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, entity.Activity) error { return nil }
func (noop) Close() error                                   { return nil }

// New returns the broker publisher when enabled, Noop otherwise. A broker
// that cannot be reached degrades to Noop with a warning.
func New(cfg *config.BrokerConfig) Publisher {
	if !cfg.Enabled {
		return Noop()
	}
	r, err := NewRabbitMQ(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Activity broker unavailable, notifications disabled")
		return Noop()
	}
	logrus.WithField("queue", cfg.Queue).Info("Activity broker connected")
	return r
}
