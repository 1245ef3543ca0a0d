package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	deliveryAttempts = 3
	retryDelay       = 500 * time.Millisecond
)

// ProcessWithDeduplication runs action at most once per eventID. The event id is
// claimed in processed_events inside a transaction that only commits after
// action succeeds, so a failed delivery can be retried on redelivery.
func ProcessWithDeduplication(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger *zap.Logger,
	eventID int64,
	action func(ctx context.Context) error,
) error {
	span := trace.SpanFromContext(ctx)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)

		err := tx.Rollback(cleanupCtx)
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Error(cleanupCtx, logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	_, err = tx.Exec(ctx, `INSERT INTO processed_events (event_id) VALUES ($1)`, eventID)
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == "23505" {
			mylogger.Info(ctx, logger, "Event already processed, skipping", zap.Int64("event_id", eventID))
			return nil
		}

		span.RecordError(err)
		return fmt.Errorf("claim event %d: %w", eventID, err)
	}

	for attempt := 1; ; attempt++ {
		err = action(ctx)
		if err == nil {
			break
		}

		if attempt == deliveryAttempts {
			span.RecordError(err)
			mylogger.Error(ctx, logger, "Failed to deliver after retries",
				zap.Int64("event_id", eventID),
				zap.Error(err),
			)
			return fmt.Errorf("deliver event %d: %w", eventID, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit processed event %d: %w", eventID, err)
	}

	return nil
}
