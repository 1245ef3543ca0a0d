package repository

import (
	"context"
	"fmt"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type StatsRepository interface {
	Counts(ctx context.Context) (*domain.AdminStats, error)
}

type statsRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewStatsRepository(pool *pgxpool.Pool, logger *zap.Logger) StatsRepository {
	return &statsRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/stats_repo"),
	}
}

func (r *statsRepo) Counts(ctx context.Context) (*domain.AdminStats, error) {
	ctx, span := r.tracer.Start(ctx, "StatsRepository.Counts")
	defer span.End()

	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM collections),
			(SELECT COUNT(*) FROM offers WHERE is_active),
			(SELECT COUNT(*) FROM contact_messages WHERE status = 'unread')
	`

	var stats domain.AdminStats
	err := r.pool.QueryRow(ctx, query).
		Scan(&stats.Products, &stats.Collections, &stats.ActiveOffers, &stats.UnreadEnquiries)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error counting stats", zap.Error(err))

		return nil, fmt.Errorf("error counting stats: %w", err)
	}

	return &stats, nil
}
