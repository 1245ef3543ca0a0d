// Package service holds the storefront's business operations. Writes that
// publish events record them in the outbox inside the same transaction.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	outboxDomain "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// inTx runs fn in a transaction and commits when it returns nil.
func inTx(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		mylogger.Error(ctx, logger, "Error starting transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		err := tx.Rollback(cleanupCtx)

		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			mylogger.Warn(ctx, logger, "Error rolling back transaction", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		mylogger.Error(ctx, logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

func saveEvent(
	ctx context.Context,
	repo worker.OutboxRepository,
	tx pgx.Tx,
	topic, aggregateType string,
	aggregateID int64,
	eventType string,
	payload any,
) error {
	event, err := outboxDomain.NewEvent(topic, aggregateType, aggregateID, eventType, payload)
	if err != nil {
		return err
	}

	if err := repo.SaveOutboxEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	return nil
}
