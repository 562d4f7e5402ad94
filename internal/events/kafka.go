package events

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

// KafkaConfig names the broker this publisher writes to, mirroring the
// teacher's config.KafkaConfig field set.
type KafkaConfig struct {
	BootstrapServers string
	APIKey           string
	APISecret        string
	Topic            string
}

// PublisherConfig tunes retry and circuit-breaker behaviour.
type PublisherConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
	CircuitBreaker  *CircuitBreaker
}

// DefaultPublisherConfig matches the teacher's DefaultProducerConfig values.
func DefaultPublisherConfig() *PublisherConfig {
	return &PublisherConfig{
		MaxRetries:      3,
		RetryBackoff:    100 * time.Millisecond,
		MaxRetryBackoff: 5 * time.Second,
		CircuitBreaker:  NewCircuitBreaker(5, 3, 30*time.Second),
	}
}

// ErrCircuitOpen is returned while the circuit breaker is rejecting requests.
var ErrCircuitOpen = errors.New("events: circuit breaker is open")

// KafkaPublisher publishes lifecycle events to a Kafka topic, grounded on
// the teacher's internal/analytics/producer.go Producer: same writer setup,
// same circuit breaker plus exponential-backoff retry loop, generalized from
// models.GameEvent to the generic {source, detail_type, detail} Event.
type KafkaPublisher struct {
	writer *kafka.Writer
	config *PublisherConfig
	logger *slog.Logger

	eventsSent   atomic.Int64
	eventsFailed atomic.Int64
	retriesTotal atomic.Int64
}

// NewKafkaPublisher builds a publisher with the default retry/circuit config.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	return NewKafkaPublisherWithConfig(cfg, DefaultPublisherConfig())
}

// NewKafkaPublisherWithConfig builds a publisher with a custom config.
func NewKafkaPublisherWithConfig(cfg KafkaConfig, pubCfg *PublisherConfig) *KafkaPublisher {
	logger := slog.Default().With("component", "event-publisher")

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BootstrapServers),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
		MaxAttempts:  1, // retries are handled by sendWithRetry
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	if cfg.APIKey != "" && cfg.APISecret != "" {
		mechanism := plain.Mechanism{Username: cfg.APIKey, Password: cfg.APISecret}
		writer.Transport = &kafka.Transport{
			SASL: mechanism,
			TLS:  &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	return &KafkaPublisher{writer: writer, config: pubCfg, logger: logger}
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if !p.config.CircuitBreaker.AllowRequest() {
		p.eventsFailed.Add(1)
		p.logger.Warn("circuit breaker open, rejecting event",
			"source", evt.Source, "detailType", evt.DetailType)
		return ErrCircuitOpen
	}

	data, err := json.Marshal(evt)
	if err != nil {
		p.eventsFailed.Add(1)
		return fmt.Errorf("events: marshal event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(evt.Source),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "detail_type", Value: []byte(evt.DetailType)},
		},
	}

	if err := p.sendWithRetry(ctx, message); err != nil {
		p.eventsFailed.Add(1)
		p.config.CircuitBreaker.RecordFailure()
		p.logger.Error("failed to publish event after retries",
			"source", evt.Source, "detailType", evt.DetailType, "error", err)
		return fmt.Errorf("events: publish after retries: %w", err)
	}

	p.eventsSent.Add(1)
	p.config.CircuitBreaker.RecordSuccess()
	return nil
}

func (p *KafkaPublisher) sendWithRetry(ctx context.Context, message kafka.Message) error {
	var lastErr error
	backoff := p.config.RetryBackoff

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			p.retriesTotal.Add(1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff = min(backoff*2, p.config.MaxRetryBackoff)
			}
		}

		err := p.writer.WriteMessages(ctx, message)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryableKafkaError(err) {
			return err
		}
	}

	return lastErr
}

func isRetryableKafkaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := err.Error()
	retryable := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"i/o timeout",
		"temporary failure",
		"broker not available",
		"leader not available",
		"request timed out",
		"network is unreachable",
	}
	for _, substr := range retryable {
		if containsSubstring(errStr, substr) {
			return true
		}
	}
	return false
}

func containsSubstring(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("closing event publisher",
		"eventsSent", p.eventsSent.Load(),
		"eventsFailed", p.eventsFailed.Load(),
		"retriesTotal", p.retriesTotal.Load(),
	)
	return p.writer.Close()
}

// KafkaSubscriber reads lifecycle events off the same topic KafkaPublisher
// writes to, for cmd/worker's delayed-trigger consumer. Grounded on the
// same kafka-go dependency as KafkaPublisher; the teacher has no consumer
// side to draw on since its analytics producer is write-only.
type KafkaSubscriber struct {
	reader *kafka.Reader
}

// NewKafkaSubscriber builds a subscriber bound to cfg.Topic using a
// consumer group so multiple worker replicas share the partition set.
func NewKafkaSubscriber(cfg KafkaConfig, consumerGroup string) *KafkaSubscriber {
	readerCfg := kafka.ReaderConfig{
		Brokers: []string{cfg.BootstrapServers},
		Topic:   cfg.Topic,
		GroupID: consumerGroup,
	}

	if cfg.APIKey != "" && cfg.APISecret != "" {
		mechanism := plain.Mechanism{Username: cfg.APIKey, Password: cfg.APISecret}
		readerCfg.Dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			SASLMechanism: mechanism,
			TLS:       &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}

	return &KafkaSubscriber{reader: kafka.NewReader(readerCfg)}
}

// ReadEvent blocks until the next message arrives or ctx is cancelled.
func (s *KafkaSubscriber) ReadEvent(ctx context.Context) (Event, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("events: read message: %w", err)
	}
	var evt Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return Event{}, fmt.Errorf("events: decode message: %w", err)
	}
	return evt, nil
}

// Close closes the underlying reader.
func (s *KafkaSubscriber) Close() error {
	return s.reader.Close()
}
