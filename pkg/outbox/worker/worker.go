package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OutboxRepository interface {
	SaveOutboxEvent(ctx context.Context, tx pgx.Tx, event *domain.OutboxEvent) error
	GetUnpublishedEvents(ctx context.Context, tx pgx.Tx, batchSize int) ([]*domain.OutboxEvent, error)
	MarkEventPublished(ctx context.Context, tx pgx.Tx, eventID int64) error
	MarkEventFailed(ctx context.Context, tx pgx.Tx, eventID int64, error string) error
}

type KafkaProducer interface {
	ProduceMessage(ctx context.Context, topic, key string, message interface{}) error
}

type OutboxProcessor struct {
	pool          *pgxpool.Pool
	repo          OutboxRepository
	kafkaProducer KafkaProducer
	logger        *zap.Logger
	batchSize     int
	interval      time.Duration
	tracer        trace.Tracer
	published     *prometheus.CounterVec
	failed        *prometheus.CounterVec
}

type Option func(*OutboxProcessor)

func WithBatchSize(n int) Option {
	return func(p *OutboxProcessor) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(p *OutboxProcessor) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithRegisterer exposes publish outcomes per event type on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *OutboxProcessor) {
		factory := promauto.With(reg)
		p.published = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_published_total",
			Help: "Outbox events delivered to the broker",
		}, []string{"event_type"})
		p.failed = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_events_failed_total",
			Help: "Outbox publish attempts that failed",
		}, []string{"event_type"})
	}
}

func NewOutboxProcessor(
	pool *pgxpool.Pool,
	repo OutboxRepository,
	producer KafkaProducer,
	logger *zap.Logger,
	opts ...Option,
) *OutboxProcessor {
	p := &OutboxProcessor{
		pool:          pool,
		repo:          repo,
		kafkaProducer: producer,
		logger:        logger,
		batchSize:     50,
		interval:      500 * time.Millisecond,
		tracer:        otel.Tracer("outbox-worker"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start polls the outbox until ctx is cancelled.
func (p *OutboxProcessor) Start(ctx context.Context) {
	mylogger.Info(ctx, p.logger, "Starting outbox processor",
		zap.Int("batch_size", p.batchSize),
		zap.Duration("interval", p.interval),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			mylogger.Info(ctx, p.logger, "Outbox processor stopping")
			return
		case <-ticker.C:
			if err := p.processBatch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				mylogger.Error(ctx, p.logger, "Error processing outbox batch", zap.Error(err))
			}
		}
	}
}

func (p *OutboxProcessor) processBatch(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "OutboxProcessor.processBatch")
	defer span.End()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Error(
				cleanupCtx,
				p.logger,
				"Outbox worker failed to rollback transaction",
				zap.Error(err),
			)
		}
	}()

	events, err := p.repo.GetUnpublishedEvents(ctx, tx, p.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	span.SetAttributes(attribute.Int("outbox.batch", len(events)))
	mylogger.Debug(ctx, p.logger, "Processing outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			mylogger.Warn(
				ctx,
				p.logger,
				"Outbox event publish failed",
				zap.Int64("id", event.Id),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)

			count(p.failed, event.EventType)
			if dbErr := p.repo.MarkEventFailed(ctx, tx, event.Id, err.Error()); dbErr != nil {
				return dbErr
			}
			continue
		}

		if err := p.repo.MarkEventPublished(ctx, tx, event.Id); err != nil {
			return err
		}
		count(p.published, event.EventType)
	}

	return tx.Commit(ctx)
}

func (p *OutboxProcessor) publish(ctx context.Context, event *domain.OutboxEvent) error {
	var payloadMap map[string]any
	if err := json.Unmarshal(event.Payload, &payloadMap); err != nil {
		return fmt.Errorf("unmarshal event payload: %w", err)
	}

	payloadMap["event_id"] = event.Id

	return p.kafkaProducer.ProduceMessage(ctx, event.Topic, event.AggregateID, payloadMap)
}

func count(vec *prometheus.CounterVec, eventType string) {
	if vec != nil {
		vec.WithLabelValues(eventType).Inc()
	}
}
