package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ErrReject marks a message that can never be processed. It is dropped instead of requeued.
var ErrReject = errors.New("reject message")

// Handler processes the body of one delivery.
type Handler func(ctx context.Context, body []byte) error

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	logger  *zap.Logger

	// mu serialises publishes on the shared channel.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL        string
	Exchange   string
	Queue      string
	BindingKey string
	Prefetch   int
}

func (c Config) withDefaults() Config {
	if c.BindingKey == "" {
		c.BindingKey = "order.#"
	}
	if c.Prefetch <= 0 {
		c.Prefetch = 10
	}
	return c
}

// NewClient connects to RabbitMQ, declares the topic exchange and binds the event queue to it.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
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

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq connected",
		zap.String("exchange", cfg.Exchange),
		zap.String("queue", cfg.Queue),
	)
	return &Client{conn: conn, channel: ch, cfg: cfg, logger: logger}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.QueueBind(cfg.Queue, cfg.BindingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
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

// Publish marshals payload to JSON and publishes it on the exchange with routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, payload any) error {
	if c == nil || c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := newPublishing(routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.channel.Publish(c.cfg.Exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	c.logger.Debug("published event", zap.String("routing_key", routingKey), zap.String("message_id", msg.MessageId))
	return nil
}

func newPublishing(routingKey string, payload any, at time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal %s payload: %w", routingKey, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    at,
		Type:         routingKey,
		Body:         body,
	}, nil
}

// Consume starts delivering messages of the event queue to handler until ctx is done
// or the channel closes. Deliveries are acknowledged manually.
func (c *Client) Consume(ctx context.Context, handler Handler) error {
	if c == nil || c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}
	if err := c.channel.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := c.channel.Consume(c.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for order events", zap.String("queue", c.cfg.Queue))
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("rabbitmq delivery channel closed")
					return
				}
				process(ctx, c.logger, handler, msg)
			}
		}
	}()
	return nil
}

// process runs handler for one delivery: success acks, ErrReject drops and anything else requeues.
func process(ctx context.Context, logger *zap.Logger, handler Handler, msg amqp.Delivery) {
	err := handler(ctx, msg.Body)
	if err == nil {
		if ackErr := msg.Ack(false); ackErr != nil {
			logger.Error("failed to ack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
		}
		return
	}

	requeue := !errors.Is(err, ErrReject)
	logger.Warn("failed to process message",
		zap.Uint64("delivery_tag", msg.DeliveryTag),
		zap.String("message_id", msg.MessageId),
		zap.Bool("requeue", requeue),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false, requeue); nackErr != nil {
		logger.Error("failed to nack message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
	}
}
