// Package kafka fans notifications out through a Kafka topic so every
// server instance can push them to its websocket clients.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"forum/logger"
	"forum/metrics"
	"forum/models"
)

// Producer writes notifications to the notifications topic and malformed
// records to the dead letter topic.
type Producer struct {
	broker string
	w      *kafka.Writer
	dlq    *kafka.Writer
}

func NewProducer(broker, topic, dlqTopic string) *Producer {
	p := &Producer{
		broker: broker,
		w: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
	if dlqTopic != "" {
		p.dlq = &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    dlqTopic,
			Balancer: &kafka.LeastBytes{},
		}
	}
	return p
}

func (p *Producer) Publish(ctx context.Context, n models.Notification) error {
	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(n.RecipientID), Value: b}); err != nil {
		return fmt.Errorf("write notification: %w", err)
	}
	logger.Debug("notification written to kafka", logger.FieldKV("notification_id", n.ID.String()))
	return nil
}

// DeadLetter parks a record that could not be consumed, with the reason as
// an "error" header.
func (p *Producer) DeadLetter(ctx context.Context, value []byte, reason error) error {
	if p.dlq == nil {
		return nil
	}
	return p.dlq.WriteMessages(ctx, kafka.Message{
		Value:   value,
		Headers: []kafka.Header{{Key: "error", Value: []byte(reason.Error())}},
	})
}

// Ping dials the broker to check it is reachable.
func (p *Producer) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.broker)
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	return conn.Close()
}

func (p *Producer) Close() error {
	err := p.w.Close()
	if p.dlq != nil {
		err = errors.Join(err, p.dlq.Close())
	}
	return err
}

// DeadLetterer receives records the reader could not decode.
type DeadLetterer interface {
	DeadLetter(ctx context.Context, value []byte, reason error) error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads partition 0 of the notifications topic and forwards
// decoded notifications. Every instance reads the whole topic, so the topic
// is expected to have a single partition. A failed read restarts the reader
// with backoff; Ping reports the failure until the restart.
type Consumer struct {
	dlq       DeadLetterer
	newReader func() (messageReader, error)
	backoff   func(attempt int) time.Duration

	mu  sync.Mutex
	err error
}

func NewConsumer(broker, topic string, dlq DeadLetterer) *Consumer {
	return &Consumer{
		dlq: dlq,
		newReader: func() (messageReader, error) {
			r := kafka.NewReader(kafka.ReaderConfig{
				Brokers:   []string{broker},
				Topic:     topic,
				Partition: 0,
				MinBytes:  1,
				MaxBytes:  10e6, // 10MB
			})
			if err := r.SetOffset(kafka.LastOffset); err != nil {
				_ = r.Close()
				return nil, fmt.Errorf("set offset: %w", err)
			}
			return r, nil
		},
		backoff: func(attempt int) time.Duration {
			return time.Duration(math.Min(float64(30*time.Second), float64(time.Second)*math.Pow(2, float64(attempt-1))))
		},
	}
}

// Ping returns the error that stopped the last reader while a restart is
// pending.
func (c *Consumer) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return fmt.Errorf("kafka reader down: %w", c.err)
	}
	return nil
}

func (c *Consumer) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Run consumes until ctx is done and then closes out.
func (c *Consumer) Run(ctx context.Context, out chan<- models.Notification) {
	defer close(out)
	logger.Info("starting kafka reader")
	for attempt := 1; ; attempt++ {
		err := c.read(ctx, out)
		if ctx.Err() != nil {
			return
		}
		c.setErr(err)
		sleep := c.backoff(attempt)
		logger.Error("kafka reader stopped, restarting", err, logger.FieldKV("attempt", attempt), logger.FieldKV("next_sleep", sleep.String()))
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return
		}
		metrics.IncKafkaReaderRestarts()
		c.setErr(nil)
	}
}

// read runs one reader until it fails or ctx is done.
func (c *Consumer) read(ctx context.Context, out chan<- models.Notification) error {
	r, err := c.newReader()
	if err != nil {
		return err
	}
	defer func() {
		if err := r.Close(); err != nil {
			logger.Error("failed to close kafka reader", err)
		}
	}()

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			return err
		}
		logger.Debug("message read from kafka",
			logger.FieldKV("partition", m.Partition),
			logger.FieldKV("offset", m.Offset))

		n, err := decodeNotification(m.Value)
		if err != nil {
			logger.Warn("dropping malformed notification", logger.FieldKV("offset", m.Offset), logger.FieldKV("error", err.Error()))
			if c.dlq != nil {
				if err := c.dlq.DeadLetter(ctx, m.Value, err); err != nil {
					logger.Error("dead letter write failed", err)
				}
			}
			continue
		}

		select {
		case out <- n:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

var errMissingRecipient = errors.New("notification without recipient")

func decodeNotification(value []byte) (models.Notification, error) {
	var n models.Notification
	if err := json.Unmarshal(value, &n); err != nil {
		return models.Notification{}, fmt.Errorf("unmarshal notification: %w", err)
	}
	if n.RecipientID.IsZero() {
		return models.Notification{}, errMissingRecipient
	}
	return n, nil
}
