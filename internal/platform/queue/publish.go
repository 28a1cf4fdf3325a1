package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openfairdb/ofdb-core/internal/platform/otelx"
)

// Publisher publishes msgpack-encoded job payloads to a fixed
// exchange/routing-key pair, grounded on the teacher's
// ProducerRabbitMQRepository.ProducerDefault but encoding with
// msgpack rather than JSON, since the payloads are internal job
// envelopes with no external consumer needing a self-describing
// format.
type Publisher struct {
	Hub      *Hub
	Exchange string
	Key      string
}

// Publish encodes payload and publishes it as a persistent message.
func (p *Publisher) Publish(ctx context.Context, payload any) error {
	ctx, span := otelx.StartSpan(ctx, "queue.publish")
	defer span.End()

	ch, err := p.Hub.Channel(ctx)
	if err != nil {
		otelx.Fail(span, "channel", err)
		return err
	}

	body, err := msgpack.Marshal(payload)
	if err != nil {
		otelx.Fail(span, "marshal", err)
		return fmt.Errorf("queue: marshal: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		p.Exchange,
		p.Key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/msgpack",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		otelx.Fail(span, "publish", err)
		return fmt.Errorf("queue: publish: %w", err)
	}

	return nil
}

// Consumer drains jobs off a declared queue, decoding each with
// msgpack before handing it to handle. One failed handle logs and
// continues rather than aborting the whole consumer, matching the
// fire-and-forget nature of post-commit side effects (spec.md §4.4:
// "failures ... SHALL be logged at WARN and SHALL NOT roll back").
type Consumer struct {
	Hub   *Hub
	Queue string
}

// Run consumes until ctx is done or the channel closes.
func (c *Consumer) Run(ctx context.Context, handle func(ctx context.Context, body []byte) error) error {
	ch, err := c.Hub.Channel(ctx)
	if err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue: consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("queue: delivery channel closed")
			}

			if err := handle(ctx, d.Body); err != nil {
				c.Hub.Logger.Warnf("queue %s: handle delivery: %v", c.Queue, err)
				_ = d.Nack(false, false)
				continue
			}

			_ = d.Ack(false)
		}
	}
}
