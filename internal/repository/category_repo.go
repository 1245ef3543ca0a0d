package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	List(ctx context.Context, gender string) ([]domain.Category, error)
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, slug string, input *domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, input *domain.CategoryInput) (*domain.Category, error)
	SetImage(ctx context.Context, id int64, url string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCategoryRepository(pool *pgxpool.Pool, logger *zap.Logger) CategoryRepository {
	return &categoryRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/category_repo"),
	}
}

const categoryColumns = `id, name, slug, gender, description, image_url, created_at, updated_at`

func (r *categoryRepo) one(ctx context.Context, span trace.Span, query string, args ...any) (*domain.Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error querying category: %w", err)
	}

	category, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error scanning category", zap.Error(err))

		return nil, fmt.Errorf("error scanning category: %w", err)
	}

	return &category, nil
}

// List returns categories by name. A non-empty gender also keeps the categories
// without one.
func (r *categoryRepo) List(ctx context.Context, gender string) ([]domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.List")
	defer span.End()

	span.SetAttributes(attribute.String("gender", gender))

	q := psql.Select(categoryColumns).From("categories").OrderBy("name ASC", "id ASC")
	if gender != "" {
		q = q.Where(sq.Or{sq.Eq{"gender": gender}, sq.Eq{"gender": nil}})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building category query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error selecting categories", zap.Error(err))

		return nil, fmt.Errorf("error selecting categories: %w", err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Category])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error scanning categories: %w", err)
	}

	return categories, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	return r.one(ctx, span, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

func (r *categoryRepo) Create(ctx context.Context, slug string, input *domain.CategoryInput) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("slug", slug))

	query := `
		INSERT INTO categories (name, slug, description, gender)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	return r.one(ctx, span, query, input.Name, slug, input.Description, input.Gender)
}

func (r *categoryRepo) Update(ctx context.Context, id int64, input *domain.CategoryInput) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE categories
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			gender = COALESCE($4, gender),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	return r.one(ctx, span, query, id, input.Name, input.Description, input.Gender)
}

func (r *categoryRepo) SetImage(ctx context.Context, id int64, url string) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.SetImage")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		UPDATE categories SET image_url = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	return r.one(ctx, span, query, id, url)
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	commandTag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error deleting category", zap.Int64("id", id), zap.Error(err))

		return fmt.Errorf("error deleting category: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
