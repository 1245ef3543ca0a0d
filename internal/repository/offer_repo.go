package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OfferRepository interface {
	List(ctx context.Context) ([]domain.Offer, error)
	ListLive(ctx context.Context, now time.Time) ([]domain.Offer, error)
	Create(ctx context.Context, input *domain.OfferInput) (*domain.Offer, error)
	Update(ctx context.Context, id int64, input *domain.OfferInput) (*domain.Offer, error)
	SetImage(ctx context.Context, id int64, url string) (*domain.Offer, error)
	Delete(ctx context.Context, id int64) error
}

type offerRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOfferRepository(pool *pgxpool.Pool, logger *zap.Logger) OfferRepository {
	return &offerRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/offer_repo"),
	}
}

const offerColumns = `id, title, description, discount_percentage, image_url, start_date, end_date, is_active, created_at, updated_at`

func (r *offerRepo) many(ctx context.Context, span trace.Span, query string, args ...any) ([]domain.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error selecting offers", zap.Error(err))

		return nil, fmt.Errorf("error selecting offers: %w", err)
	}

	offers, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Offer])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error scanning offers: %w", err)
	}

	return offers, nil
}

func (r *offerRepo) one(ctx context.Context, span trace.Span, query string, args ...any) (*domain.Offer, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error querying offer: %w", err)
	}

	offer, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Offer])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOfferNotFound
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error scanning offer", zap.Error(err))

		return nil, fmt.Errorf("error scanning offer: %w", err)
	}

	return &offer, nil
}

func (r *offerRepo) List(ctx context.Context) ([]domain.Offer, error) {
	ctx, span := r.tracer.Start(ctx, "OfferRepository.List")
	defer span.End()

	return r.many(ctx, span, `SELECT `+offerColumns+` FROM offers ORDER BY created_at DESC, id DESC`)
}

// ListLive returns active offers whose window contains now. Open ended windows
// count as live.
func (r *offerRepo) ListLive(ctx context.Context, now time.Time) ([]domain.Offer, error) {
	ctx, span := r.tracer.Start(ctx, "OfferRepository.ListLive")
	defer span.End()

	query := `
		SELECT ` + offerColumns + `
		FROM offers
		WHERE is_active
			AND (start_date IS NULL OR start_date <= $1)
			AND (end_date IS NULL OR end_date >= $1)
		ORDER BY created_at DESC, id DESC
	`

	return r.many(ctx, span, query, now)
}

func (r *offerRepo) Create(ctx context.Context, input *domain.OfferInput) (*domain.Offer, error) {
	ctx, span := r.tracer.Start(ctx, "OfferRepository.Create")
	defer span.End()

	query := `
		INSERT INTO offers (title, description, discount_percentage, image_url, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, TRUE))
		RETURNING ` + offerColumns

	return r.one(ctx, span, query,
		input.Title,
		input.Description,
		input.DiscountPercentage,
		input.ImageURL,
		input.StartDate,
		input.EndDate,
		input.IsActive,
	)
}

func (r *offerRepo) Update(ctx context.Context, id int64, input *domain.OfferInput) (*domain.Offer, error) {
	ctx, span := r.tracer.Start(ctx, "OfferRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE offers
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			discount_percentage = COALESCE($4, discount_percentage),
			image_url = COALESCE($5, image_url),
			start_date = COALESCE($6, start_date),
			end_date = COALESCE($7, end_date),
			is_active = COALESCE($8, is_active),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + offerColumns

	return r.one(ctx, span, query, id,
		input.Title,
		input.Description,
		input.DiscountPercentage,
		input.ImageURL,
		input.StartDate,
		input.EndDate,
		input.IsActive,
	)
}

func (r *offerRepo) SetImage(ctx context.Context, id int64, url string) (*domain.Offer, error) {
	ctx, span := r.tracer.Start(ctx, "OfferRepository.SetImage")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE offers SET image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + offerColumns

	return r.one(ctx, span, query, id, url)
}

func (r *offerRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "OfferRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	commandTag, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error deleting offer", zap.Int64("id", id), zap.Error(err))

		return fmt.Errorf("error deleting offer: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrOfferNotFound
	}

	return nil
}
