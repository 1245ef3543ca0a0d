package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CollectionRepository interface {
	List(ctx context.Context, includeInactive, featuredOnly bool, limit uint64) ([]domain.Collection, error)
	GetByID(ctx context.Context, id int64) (*domain.Collection, error)
	Create(ctx context.Context, tx pgx.Tx, slug string, input *domain.CollectionInput) (*domain.Collection, error)
	Update(ctx context.Context, tx pgx.Tx, id int64, input *domain.CollectionInput) (*domain.Collection, error)
	SetProducts(ctx context.Context, tx pgx.Tx, id int64, productIDs []int64) error
	SetImagePath(ctx context.Context, id int64, path string) (*domain.Collection, error)
	ToggleFeatured(ctx context.Context, id int64) (*domain.Collection, error)
	Delete(ctx context.Context, id int64) error
}

type collectionRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCollectionRepository(pool *pgxpool.Pool, logger *zap.Logger) CollectionRepository {
	return &collectionRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/collection_repo"),
	}
}

const collectionColumns = `id, name, slug, description, image_path, is_active, is_featured, created_at, updated_at`

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var c domain.Collection
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.ImagePath,
		&c.IsActive,
		&c.IsFeatured,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}

	return &c, nil
}

func (r *collectionRepo) List(ctx context.Context, includeInactive, featuredOnly bool, limit uint64) ([]domain.Collection, error) {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Bool("include_inactive", includeInactive),
		attribute.Bool("featured_only", featuredOnly),
	)

	query, args, err := catalog.CollectionListQuery(includeInactive, featuredOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("error building collection query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error selecting collections", zap.Error(err))

		return nil, fmt.Errorf("error selecting collections: %w", err)
	}
	defer rows.Close()

	collections := make([]domain.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning collection: %w", err)
		}
		collections = append(collections, *c)
	}

	return collections, rows.Err()
}

func (r *collectionRepo) GetByID(ctx context.Context, id int64) (*domain.Collection, error) {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	c, err := scanCollection(r.pool.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrCollectionNotFound) {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error get collection by id", zap.Int64("id", id), zap.Error(err))

		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	return c, err
}

func (r *collectionRepo) Create(ctx context.Context, tx pgx.Tx, slug string, input *domain.CollectionInput) (*domain.Collection, error) {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("slug", slug))

	query := `
		INSERT INTO collections (name, slug, description, is_active, is_featured)
		VALUES ($1, $2, $3, COALESCE($4, TRUE), COALESCE($5, FALSE))
		RETURNING ` + collectionColumns

	c, err := scanCollection(tx.QueryRow(ctx, query, input.Name, slug, input.Description, input.IsActive, input.IsFeatured))
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error creating collection", zap.Error(err))

		return nil, fmt.Errorf("error creating collection: %w", err)
	}

	return c, nil
}

func (r *collectionRepo) Update(ctx context.Context, tx pgx.Tx, id int64, input *domain.CollectionInput) (*domain.Collection, error) {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE collections
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			is_active = COALESCE($4, is_active),
			is_featured = COALESCE($5, is_featured),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + collectionColumns

	c, err := scanCollection(tx.QueryRow(ctx, query, id, input.Name, input.Description, input.IsActive, input.IsFeatured))
	if err != nil {
		if errors.Is(err, ErrCollectionNotFound) {
			return nil, err
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error updating collection", zap.Int64("id", id), zap.Error(err))

		return nil, fmt.Errorf("error updating collection: %w", err)
	}

	return c, nil
}

// SetProducts replaces the membership list; a product's sort_order is its index.
func (r *collectionRepo) SetProducts(ctx context.Context, tx pgx.Tx, id int64, productIDs []int64) error {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.SetProducts")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id), attribute.Int("products", len(productIDs)))

	if _, err := tx.Exec(ctx, `DELETE FROM collection_products WHERE collection_id = $1`, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error clearing collection products: %w", err)
	}

	if len(productIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO collection_products (collection_id, product_id, sort_order)
		SELECT $1, p.product_id, p.ord - 1
		FROM unnest($2::bigint[]) WITH ORDINALITY AS p(product_id, ord)
		ON CONFLICT (collection_id, product_id) DO NOTHING
	`
	if _, err := tx.Exec(ctx, query, id, productIDs); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error inserting collection products", zap.Int64("id", id), zap.Error(err))

		return fmt.Errorf("error inserting collection products: %w", err)
	}

	return nil
}

func (r *collectionRepo) SetImagePath(ctx context.Context, id int64, path string) (*domain.Collection, error) {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.SetImagePath")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE collections SET image_path = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + collectionColumns

	c, err := scanCollection(r.pool.QueryRow(ctx, query, id, path))
	if err != nil && !errors.Is(err, ErrCollectionNotFound) {
		span.RecordError(err)
		return nil, fmt.Errorf("error setting collection image: %w", err)
	}

	return c, err
}

func (r *collectionRepo) ToggleFeatured(ctx context.Context, id int64) (*domain.Collection, error) {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.ToggleFeatured")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE collections SET is_featured = NOT is_featured, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + collectionColumns

	c, err := scanCollection(r.pool.QueryRow(ctx, query, id))
	if err != nil && !errors.Is(err, ErrCollectionNotFound) {
		span.RecordError(err)
		return nil, fmt.Errorf("error toggling collection featured: %w", err)
	}

	return c, err
}

func (r *collectionRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "CollectionRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	commandTag, err := r.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error deleting collection", zap.Int64("id", id), zap.Error(err))

		return fmt.Errorf("error deleting collection: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}

	return nil
}
