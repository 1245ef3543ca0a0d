package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

const (
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

type ConsumerGroup struct {
	brokers  []string
	groupID  string
	topics   []string
	handle   HandlerFunc
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

type Option func(*ConsumerGroup)

// WithRetry sets how many times a message is handed to the handler before it
// is given up on, and the base delay between tries. The delay doubles per try.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *ConsumerGroup) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.backoff = backoff
	}
}

func NewConsumerGroup(
	brokers []string,
	groupID string,
	topics []string,
	handle HandlerFunc,
	logger *zap.Logger,
	opts ...Option,
) *ConsumerGroup {
	c := &ConsumerGroup{
		brokers:  brokers,
		groupID:  groupID,
		topics:   topics,
		handle:   handle,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled.
func (c *ConsumerGroup) Run(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Version = sarama.V3_0_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	group, err := sarama.NewConsumerGroup(c.brokers, c.groupID, config)
	if err != nil {
		return fmt.Errorf("create consumer group %s: %w", c.groupID, err)
	}
	defer func() {
		if err := group.Close(); err != nil {
			mylogger.Error(ctx, c.logger, "Error closing consumer group", zap.Error(err))
		}
	}()

	go func() {
		for err := range group.Errors() {
			mylogger.Warn(ctx, c.logger, "Consumer group error", zap.Error(err))
		}
	}()

	mylogger.Info(ctx, c.logger, "Consumer group started",
		zap.String("group", c.groupID),
		zap.Strings("topics", c.topics),
	)

	for {
		err := group.Consume(ctx, c.topics, c)
		if err != nil && !errors.Is(err, sarama.ErrClosedConsumerGroup) {
			mylogger.Error(ctx, c.logger, "Error consuming in consumer loop", zap.Error(err))
		}

		if ctx.Err() != nil {
			mylogger.Info(ctx, c.logger, "Context cancelled, shutting down consumer")
			return nil
		}
	}
}

func (c *ConsumerGroup) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *ConsumerGroup) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks every message once it is handled or its retries are
// spent, so one poison message cannot stall the partition. Handlers are
// expected to be idempotent on redelivery.
func (c *ConsumerGroup) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := c.process(session.Context(), msg); err != nil {
			if session.Context().Err() != nil {
				return nil
			}
			mylogger.Error(session.Context(), c.logger, "Giving up on message",
				zap.String("topic", msg.Topic),
				zap.Int32("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Int("attempts", c.attempts),
				zap.Error(err),
			)
		}
		session.MarkMessage(msg, "")
	}

	return nil
}

// process runs the handler inside a consumer span, retrying with backoff.
func (c *ConsumerGroup) process(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ctx, span := startSpan(ctx, msg)
	defer span.End()

	var err error
	delay := c.backoff
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err = c.handle(ctx, msg); err == nil {
			return nil
		}

		span.RecordError(err)
		mylogger.Warn(ctx, c.logger, "Failed to process message",
			zap.String("topic", msg.Topic),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt == c.attempts {
			break
		}

		select {
		case <-ctx.Done():
			span.SetStatus(codes.Error, "cancelled")
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	span.SetStatus(codes.Error, err.Error())
	return err
}

func startSpan(ctx context.Context, msg *sarama.ConsumerMessage) (context.Context, trace.Span) {
	carrier := propagation.MapCarrier{}
	for _, header := range msg.Headers {
		carrier[string(header.Key)] = string(header.Value)
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	return otel.Tracer("pkg/kafka/consumer").Start(ctx, "kafka_process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.kafka.partition", int(msg.Partition)),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
}
