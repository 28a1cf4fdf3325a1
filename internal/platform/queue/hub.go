// Package queue is the RabbitMQ connection hub backing the post-commit
// indexer and notifier job queues, grounded on the teacher's
// common/mrabbitmq.RabbitMQConnection. It uses rabbitmq/amqp091-go
// rather than the teacher's streadway/amqp: streadway/amqp is
// unmaintained and amqp091-go is its maintained continuation with the
// same wire protocol and a near-identical API.
package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/openfairdb/ofdb-core/internal/platform/log"
)

// Hub holds a singleton RabbitMQ connection and channel.
type Hub struct {
	URL    string
	Logger log.Logger

	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
}

// Connect dials the broker and opens a channel.
func (h *Hub) Connect(context.Context) error {
	h.Logger.Info("connecting to rabbitmq")

	conn, err := amqp.Dial(h.URL)
	if err != nil {
		return fmt.Errorf("queue: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("queue: channel: %w", err)
	}

	h.conn = conn
	h.channel = ch
	h.connected = true

	h.Logger.Info("connected to rabbitmq")

	return nil
}

// Channel returns the open channel, connecting lazily if needed.
func (h *Hub) Channel(ctx context.Context) (*amqp.Channel, error) {
	if !h.connected {
		if err := h.Connect(ctx); err != nil {
			return nil, err
		}
	}

	return h.channel, nil
}

// Close tears down the channel and connection.
func (h *Hub) Close() error {
	if h.channel != nil {
		if err := h.channel.Close(); err != nil {
			return err
		}
	}

	if h.conn != nil {
		return h.conn.Close()
	}

	return nil
}
