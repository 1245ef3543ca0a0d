package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SettingsRepository interface {
	GetAnnouncement(ctx context.Context) (*domain.Announcement, error)
	SaveAnnouncement(ctx context.Context, input *domain.AnnouncementInput) (*domain.Announcement, error)
}

type settingsRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewSettingsRepository(pool *pgxpool.Pool, logger *zap.Logger) SettingsRepository {
	return &settingsRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/settings_repo"),
	}
}

// GetAnnouncement returns nil without error while nothing has been saved.
func (r *settingsRepo) GetAnnouncement(ctx context.Context) (*domain.Announcement, error) {
	ctx, span := r.tracer.Start(ctx, "SettingsRepository.GetAnnouncement")
	defer span.End()

	var a domain.Announcement
	err := r.pool.QueryRow(ctx, `SELECT enabled, message, type, updated_at FROM announcement WHERE id = 1`).
		Scan(&a.Enabled, &a.Message, &a.Type, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error reading announcement", zap.Error(err))

		return nil, fmt.Errorf("error reading announcement: %w", err)
	}

	return &a, nil
}

// SaveAnnouncement upserts the single announcement row.
func (r *settingsRepo) SaveAnnouncement(ctx context.Context, input *domain.AnnouncementInput) (*domain.Announcement, error) {
	ctx, span := r.tracer.Start(ctx, "SettingsRepository.SaveAnnouncement")
	defer span.End()

	query := `
		INSERT INTO announcement (id, enabled, message, type, updated_at)
		VALUES (1, $1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
			message = EXCLUDED.message,
			type = EXCLUDED.type,
			updated_at = NOW()
		RETURNING enabled, message, type, updated_at
	`

	var a domain.Announcement
	err := r.pool.QueryRow(ctx, query, input.Enabled, input.Message, input.Type).
		Scan(&a.Enabled, &a.Message, &a.Type, &a.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error saving announcement", zap.Error(err))

		return nil, fmt.Errorf("error saving announcement: %w", err)
	}

	return &a, nil
}
