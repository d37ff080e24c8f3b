// Package publish emits market snapshots to Kafka for downstream
// consumers (backtests, alerting). Publishing is optional and
// best-effort; the collector treats a failed publish like any other
// sink error.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/RafaAmft/projeto-backtestv1-sub001/internal/model"
)

// messageWriter is the subset of kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes summary snapshots to a Kafka topic, keyed by
// snapshot ID so replays land on the same partition.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// New creates a Publisher for the given brokers and topic.
func New(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return newWithWriter(w, topic, logger)
}

func newWithWriter(w messageWriter, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer: w,
		topic:  topic,
		logger: logger.With("component", "publish"),
	}
}

// Publish writes one snapshot.
func (p *Publisher) Publish(ctx context.Context, s model.MarketSummary) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(s.ID.String()),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", s.ID, err)
	}

	p.logger.Debug("snapshot published",
		"topic", p.topic,
		"id", s.ID,
		"bytes", len(payload),
	)
	return nil
}

// Close flushes buffered messages and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
