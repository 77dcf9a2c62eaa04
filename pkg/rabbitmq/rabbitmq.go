// Package rabbitmq publishes and consumes shop domain events over a topic
// exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

const eventsQueue = "shopcart_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   zerolog.Logger

	// amqp channels must not be used for publishing from several goroutines at once.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// Envelope is the JSON body of every published event.
type Envelope struct {
	ID         string          `json:"id"`
	RoutingKey string          `json:"routing_key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewClient connects to RabbitMQ and declares the durable topic exchange.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.Exchange == "" {
		return nil, fmt.Errorf("rabbitmq exchange name is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logger.Info().Str("exchange", cfg.Exchange).Msg("RabbitMQ client connected")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewPublishing wraps payload in an Envelope and builds the persistent AMQP
// message for it.
func NewPublishing(routingKey string, payload interface{}, now time.Time) (amqp.Publishing, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s payload: %w", routingKey, err)
	}

	env := Envelope{
		ID:         uuid.NewString(),
		RoutingKey: routingKey,
		OccurredAt: now.UTC(),
		Payload:    raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s envelope: %w", routingKey, err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    env.ID,
		Type:         routingKey,
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    env.OccurredAt,
	}, nil
}

// Publish sends payload to the exchange under routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := NewPublishing(routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	err = c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.logger.Debug().Str("routing_key", routingKey).Str("message_id", msg.MessageId).Msg("event published")
	return nil
}

// DecodeEnvelope parses a delivered message body.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to decode event envelope: %w", err)
	}
	if env.RoutingKey == "" {
		return Envelope{}, fmt.Errorf("event envelope has no routing key")
	}
	return env, nil
}

// ConsumeEvents binds the events queue to every routing key on the exchange
// and hands each decoded envelope to handler until ctx is cancelled.
// Messages the handler fails on are requeued once; undecodable ones are dropped.
func (c *Client) ConsumeEvents(ctx context.Context, handler func(Envelope) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		eventsQueue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	if err := c.channel.QueueBind(queue.Name, "#", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", queue.Name, err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info().Str("queue", queue.Name).Msg("waiting for shop events")

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.handleDelivery(msg, handler)
			}
		}
	}()

	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(Envelope) error) {
	env, err := DecodeEnvelope(msg.Body)
	if err != nil {
		c.logger.Warn().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("dropping malformed event")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error().Err(nackErr).Msg("failed to nack message")
		}
		return
	}

	if err := handler(env); err != nil {
		c.logger.Error().Err(err).Str("routing_key", env.RoutingKey).Msg("error processing event")
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			c.logger.Error().Err(nackErr).Msg("failed to nack message")
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error().Err(ackErr).Uint64("delivery_tag", msg.DeliveryTag).Msg("failed to ack message")
	}
}

// LogEvents returns a handler that records each event with logger.
func LogEvents(logger zerolog.Logger) func(Envelope) error {
	return func(env Envelope) error {
		logger.Info().
			Str("event_id", env.ID).
			Str("routing_key", env.RoutingKey).
			Time("occurred_at", env.OccurredAt).
			RawJSON("payload", env.Payload).
			Msg("shop event received")
		return nil
	}
}
