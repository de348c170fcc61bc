package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures a Kafka timer.
type KafkaConfig struct {
	// Brokers is the list of Kafka broker addresses.
	Brokers []string
	// Topic is the topic to consume from.
	Topic string
	// GroupID is the consumer group ID. Required for production use, so
	// that multiple timer instances share partitions instead of each
	// reading every message.
	GroupID string
	// StartOffset controls where to start reading when no committed
	// offset exists. Default kafka.LastOffset.
	StartOffset int64
	// MaxWait is passed to the reader as ReaderConfig.MaxWait: how long a
	// fetch request waits at the broker for new data. FetchMessage itself
	// blocks until a message arrives or the reader is closed. Default 1s.
	MaxWait time.Duration
	// Logger receives connection lifecycle events. Default slog.Default().
	Logger *slog.Logger
}

func (c KafkaConfig) applyDefaults() KafkaConfig {
	if c.StartOffset == 0 {
		c.StartOffset = kafka.LastOffset
	}
	if c.MaxWait <= 0 {
		c.MaxWait = time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Kafka is a Timer whose ticks are driven by messages fetched from a
// Kafka consumer group: every fetched message fires the listeners once
// and is then committed. Run blocks until Stop is called.
type Kafka struct {
	base
	config KafkaConfig
	reader *kafka.Reader
	msg    kafka.Message
}

// NewKafka creates a Kafka timer. It does not connect until Run is called.
func NewKafka(config KafkaConfig) *Kafka {
	return &Kafka{config: config.applyDefaults()}
}

// Message returns the message that triggered the tick currently being
// delivered to listeners, valid only from inside a listener callback.
func (k *Kafka) Message() kafka.Message { return k.msg }

// Run connects to the brokers, fetches from the configured topic and
// group, and fires listeners once per message until Stop is called.
func (k *Kafka) Run() error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     k.config.Brokers,
		GroupID:     k.config.GroupID,
		Topic:       k.config.Topic,
		StartOffset: k.config.StartOffset,
		MaxWait:     k.config.MaxWait,
	})
	k.reader = reader
	defer reader.Close()

	k.config.Logger.Info("timer: kafka consumer started", "topic", k.config.Topic, "group", k.config.GroupID)

	ctx := context.Background()
	for !k.Stopped() {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if k.Stopped() {
				return nil
			}
			k.config.Logger.Warn("timer: kafka fetch failed", "error", err)
			continue
		}
		if k.Stopped() {
			return nil
		}
		k.msg = msg
		k.fire()
		if err := reader.CommitMessages(ctx, msg); err != nil {
			k.config.Logger.Warn("timer: kafka commit failed", "error", err)
		}
	}
	return nil
}

// Stop closes the reader in addition to the base Stop bookkeeping, which
// unblocks the in-flight FetchMessage call in Run.
func (k *Kafka) Stop() {
	k.base.Stop()
	if k.reader != nil {
		k.reader.Close()
	}
}
