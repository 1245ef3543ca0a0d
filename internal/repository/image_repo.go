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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ImageRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, productID int64, url string, altText *string) (*domain.ProductImage, error)
	SetPrimary(ctx context.Context, tx pgx.Tx, productID, imageID int64) error
	Delete(ctx context.Context, tx pgx.Tx, productID, imageID int64) (*domain.ProductImage, error)
	ListByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error)
}

type imageRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewImageRepository(pool *pgxpool.Pool, logger *zap.Logger) ImageRepository {
	return &imageRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/image_repo"),
	}
}

// Insert records an uploaded image. It becomes primary when the product has no
// primary image yet; callers hold the product row lock so the check cannot race.
func (r *imageRepo) Insert(ctx context.Context, tx pgx.Tx, productID int64, url string, altText *string) (*domain.ProductImage, error) {
	ctx, span := r.tracer.Start(ctx, "ImageRepository.Insert")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID))

	query := `
		INSERT INTO product_images (product_id, image_url, alt_text, is_primary)
		VALUES ($1, $2, $3, NOT EXISTS (
			SELECT 1 FROM product_images WHERE product_id = $1 AND is_primary
		))
		RETURNING id, product_id, image_url, alt_text, is_primary
	`

	var img domain.ProductImage
	err := tx.QueryRow(ctx, query, productID, url, altText).
		Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.AltText, &img.IsPrimary)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error inserting product image", zap.Int64("product_id", productID), zap.Error(err))

		return nil, fmt.Errorf("error inserting product image: %w", err)
	}

	return &img, nil
}

// SetPrimary flips is_primary for every image of the product in one statement,
// so there is no moment with zero or two primaries.
func (r *imageRepo) SetPrimary(ctx context.Context, tx pgx.Tx, productID, imageID int64) error {
	ctx, span := r.tracer.Start(ctx, "ImageRepository.SetPrimary")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID), attribute.Int64("image_id", imageID))

	query := `
		UPDATE product_images
		SET is_primary = (id = $2)
		WHERE product_id = $1
			AND EXISTS (SELECT 1 FROM product_images WHERE id = $2 AND product_id = $1)
	`

	commandTag, err := tx.Exec(ctx, query, productID, imageID)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error setting primary image",
			zap.Int64("product_id", productID),
			zap.Int64("image_id", imageID),
			zap.Error(err),
		)

		return fmt.Errorf("error setting primary image: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrImageNotFound
	}

	return nil
}

// Delete removes the image row and, if it was primary, promotes the lowest id
// remaining image. The stored object is left in place.
func (r *imageRepo) Delete(ctx context.Context, tx pgx.Tx, productID, imageID int64) (*domain.ProductImage, error) {
	ctx, span := r.tracer.Start(ctx, "ImageRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID), attribute.Int64("image_id", imageID))

	query := `
		DELETE FROM product_images
		WHERE id = $1 AND product_id = $2
		RETURNING id, product_id, image_url, alt_text, is_primary
	`

	var img domain.ProductImage
	err := tx.QueryRow(ctx, query, imageID, productID).
		Scan(&img.ID, &img.ProductID, &img.ImageURL, &img.AltText, &img.IsPrimary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrImageNotFound
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error deleting product image", zap.Int64("image_id", imageID), zap.Error(err))

		return nil, fmt.Errorf("error deleting product image: %w", err)
	}

	if img.IsPrimary {
		promote := `
			UPDATE product_images
			SET is_primary = TRUE
			WHERE id = (SELECT MIN(id) FROM product_images WHERE product_id = $1)
		`
		if _, err := tx.Exec(ctx, promote, productID); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error promoting primary image: %w", err)
		}
	}

	return &img, nil
}

func (r *imageRepo) ListByProduct(ctx context.Context, productID int64) ([]domain.ProductImage, error) {
	ctx, span := r.tracer.Start(ctx, "ImageRepository.ListByProduct")
	defer span.End()

	query := `
		SELECT id, product_id, image_url, alt_text, is_primary
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_primary DESC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error selecting product images: %w", err)
	}

	images, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.ProductImage])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error scanning product images: %w", err)
	}

	return images, nil
}
