package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ErrDeliveriesClosed is returned by Dispatch when the broker closes the
// delivery channel before the context ends.
var ErrDeliveriesClosed = errors.New("rabbitmq: delivery channel closed")

// Config holds RabbitMQ connection details.
type Config struct {
	URL        string
	Exchange   string // topic exchange events are published to
	Queue      string // durable queue the consumer reads
	BindingKey string // pattern binding Queue to Exchange
}

// HandlerFunc processes one delivery. A nil return acks it.
type HandlerFunc func(ctx context.Context, d amqp.Delivery) error

// Client holds the RabbitMQ connection and channel.
type Client struct {
	cfg     Config
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *zap.Logger
	mu      sync.Mutex // serialises publishes on the shared channel
}

// NewClient connects to RabbitMQ and declares the exchange, the queue and
// the binding between them.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = "order_queue"
	}
	if cfg.BindingKey == "" {
		cfg.BindingKey = "order.#"
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

	c := &Client{cfg: cfg, conn: conn, channel: ch, log: log}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}
	log.Info("rabbitmq connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
	)
	return c, nil
}

func (c *Client) declare() error {
	err := c.channel.ExchangeDeclare(
		c.cfg.Exchange, // name
		"topic",        // kind
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", c.cfg.Exchange, err)
	}
	_, err = c.channel.QueueDeclare(
		c.cfg.Queue, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.cfg.Queue, err)
	}
	if err := c.channel.QueueBind(c.cfg.Queue, c.cfg.BindingKey, c.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", c.cfg.Queue, err)
	}
	return nil
}

// Publish sends payload as a persistent JSON message under routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", routingKey, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		c.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", routingKey, err)
	}
	c.log.Debug("event published", zap.String("routing_key", routingKey))
	return nil
}

// Consume registers a consumer on the queue and dispatches deliveries to
// handler until ctx is cancelled.
func (c *Client) Consume(ctx context.Context, handler HandlerFunc) error {
	msgs, err := c.channel.Consume(
		c.cfg.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	c.log.Info("waiting for order events", zap.String("queue", c.cfg.Queue))
	return Dispatch(ctx, msgs, handler, c.log)
}

// Dispatch feeds deliveries to handler. Handled messages are acked. A failed
// message is requeued once and dropped if it fails again on redelivery.
func Dispatch(ctx context.Context, deliveries <-chan amqp.Delivery, handler HandlerFunc, log *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return ErrDeliveriesClosed
			}
			settle(ctx, d, handler, log)
		}
	}
}

func settle(ctx context.Context, d amqp.Delivery, handler HandlerFunc, log *zap.Logger) {
	if err := handler(ctx, d); err != nil {
		requeue := !d.Redelivered
		log.Warn("failed to process message",
			zap.Uint64("delivery_tag", d.DeliveryTag),
			zap.String("routing_key", d.RoutingKey),
			zap.Bool("requeue", requeue),
			zap.Error(err),
		)
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(ackErr))
	}
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
	return errors.Join(errs...)
}
