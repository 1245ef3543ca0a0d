package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductRepository interface {
	List(ctx context.Context, filter catalog.Filter) ([]domain.Product, error)
	Recent(ctx context.Context, limit uint64) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, tx pgx.Tx, slug string, input *domain.CreateProductInput) (int64, error)
	Update(ctx context.Context, tx pgx.Tx, id int64, slug *string, input *domain.UpdateProductInput) error
	ReplaceVariants(ctx context.Context, tx pgx.Tx, productID int64, variants []domain.VariantInput) error
	DeleteByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error)
	LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) error
	LockForOrder(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error)
	DecreaseStock(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, quantity int32) error
	IncreaseStock(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, quantity int32) error
	IDsByCategory(ctx context.Context, categoryID int64) ([]int64, error)
}

type productRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(pool *pgxpool.Pool, logger *zap.Logger) ProductRepository {
	return &productRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/product_repo"),
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.CompareAtPrice,
		&p.SKU,
		&p.Barcode,
		&p.Quantity,
		&p.CategoryID,
		&p.CategoryName,
		&p.Gender,
		&p.IsFeatured,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.PrimaryImage,
		&p.Images,
	)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []domain.ProductImage{}
	}

	return &p, nil
}

func (r *productRepo) query(ctx context.Context, span trace.Span, query string, args []any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error selecting products", zap.Error(err))

		return nil, fmt.Errorf("error selecting products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, r.logger, "Error scanning product", zap.Error(err))

			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepo) List(ctx context.Context, filter catalog.Filter) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("category", filter.Category),
		attribute.String("gender", filter.Gender),
		attribute.String("search", filter.Search),
		attribute.String("sort", filter.Sort),
		attribute.Bool("include_inactive", filter.IncludeInactive),
	)

	query, args, err := catalog.ProductListQuery(filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error building product query: %w", err)
	}

	return r.query(ctx, span, query, args)
}

func (r *productRepo) Recent(ctx context.Context, limit uint64) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Recent")
	defer span.End()

	query, args, err := catalog.RecentProductsQuery(limit)
	if err != nil {
		return nil, fmt.Errorf("error building recent query: %w", err)
	}

	return r.query(ctx, span, query, args)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query, args, err := catalog.ProductByIDQuery(id)
	if err != nil {
		return nil, fmt.Errorf("error building product query: %w", err)
	}

	product, err := scanProduct(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error get by id", zap.Int64("id", id), zap.Error(err))

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	variants, err := r.variants(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	product.Variants = variants

	return product, nil
}

func (r *productRepo) variants(ctx context.Context, productID int64) ([]domain.Variant, error) {
	query := `
		SELECT id, product_id, name, value, price_adjustment, sku, quantity
		FROM variants
		WHERE product_id = $1
		ORDER BY name, id
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("error selecting variants: %w", err)
	}
	defer rows.Close()

	variants := make([]domain.Variant, 0)
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Value, &v.PriceAdjustment, &v.SKU, &v.Quantity); err != nil {
			return nil, fmt.Errorf("error scanning variant: %w", err)
		}
		variants = append(variants, v)
	}

	return variants, rows.Err()
}

func (r *productRepo) Create(ctx context.Context, tx pgx.Tx, slug string, input *domain.CreateProductInput) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("name", input.Name), attribute.String("slug", slug))

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	query := `
		INSERT INTO products (
			name, slug, description, price, compare_at_price, sku, barcode,
			quantity, category_id, gender, is_featured, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`

	var id int64
	err := tx.QueryRow(
		ctx,
		query,
		input.Name,
		slug,
		input.Description,
		input.Price,
		input.CompareAtPrice,
		input.SKU,
		input.Barcode,
		input.Quantity,
		input.CategoryID,
		input.Gender,
		input.IsFeatured,
		isActive,
	).Scan(&id)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error creating product", zap.Error(err))

		return 0, fmt.Errorf("error creating product: %w", err)
	}

	return id, nil
}

// Update applies only the fields set on input. Clearing a nullable column is
// not expressible, matching the COALESCE semantics of partial updates.
func (r *productRepo) Update(ctx context.Context, tx pgx.Tx, id int64, slug *string, input *domain.UpdateProductInput) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	set := map[string]any{}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if slug != nil {
		set["slug"] = *slug
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Price != nil {
		set["price"] = *input.Price
	}
	if input.CompareAtPrice != nil {
		set["compare_at_price"] = *input.CompareAtPrice
	}
	if input.SKU != nil {
		set["sku"] = *input.SKU
	}
	if input.Barcode != nil {
		set["barcode"] = *input.Barcode
	}
	if input.Quantity != nil {
		set["quantity"] = *input.Quantity
	}
	if input.CategoryID != nil {
		set["category_id"] = *input.CategoryID
	}
	if input.Gender != nil {
		set["gender"] = *input.Gender
	}
	if input.IsFeatured != nil {
		set["is_featured"] = *input.IsFeatured
	}
	if input.IsActive != nil {
		set["is_active"] = *input.IsActive
	}

	set["updated_at"] = sq.Expr("NOW()")

	query, args, err := psql.Update("products").SetMap(set).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("error building update: %w", err)
	}

	commandTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Failed to update product", zap.Int64("id", id), zap.Error(err))

		return fmt.Errorf("error updating product: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepo) ReplaceVariants(ctx context.Context, tx pgx.Tx, productID int64, variants []domain.VariantInput) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.ReplaceVariants")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID), attribute.Int("variants", len(variants)))

	if _, err := tx.Exec(ctx, `DELETE FROM variants WHERE product_id = $1`, productID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("error clearing variants: %w", err)
	}

	if len(variants) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, v := range variants {
		adjustment := decimal.Zero
		if v.PriceAdjustment != nil {
			adjustment = *v.PriceAdjustment
		}

		batch.Queue(`
			INSERT INTO variants (product_id, name, value, price_adjustment, sku, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, productID, v.Name, v.Value, adjustment, v.SKU, v.Quantity)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error inserting variants", zap.Int64("product_id", productID), zap.Error(err))

		return fmt.Errorf("error inserting variants: %w", err)
	}

	return nil
}

func (r *productRepo) DeleteByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query := `
		DELETE FROM products
		WHERE id = $1
		RETURNING id, name, slug, is_active
	`

	var p domain.Product
	if err := tx.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Slug, &p.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error deleting product by id", zap.Int64("id", id), zap.Error(err))

		return nil, fmt.Errorf("error deleting product by id: %w", err)
	}

	return &p, nil
}

// LockForUpdate takes a row lock on the product so image writes for one product
// are serialized.
func (r *productRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id int64) error {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("error locking product: %w", err)
	}

	return nil
}

func (r *productRepo) LockForOrder(ctx context.Context, tx pgx.Tx, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.LockForOrder")
	defer span.End()

	query := `
		SELECT id, name, price, quantity, is_active
		FROM products
		WHERE id = $1
		FOR UPDATE
	`

	var p domain.Product
	if err := tx.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error locking product %d: %w", id, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, product_id, name, value, price_adjustment, sku, quantity
		FROM variants WHERE product_id = $1 ORDER BY id
	`, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error selecting variants: %w", err)
	}

	variants, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Variant])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error selecting variants: %w", err)
	}
	p.Variants = variants

	return &p, nil
}

func (r *productRepo) DecreaseStock(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, quantity int32) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DecreaseStock")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID), attribute.Int("quantity", int(quantity)))

	query := `
		UPDATE products
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
	`
	args := []any{productID, quantity}
	if variantID != nil {
		query = `
			UPDATE variants
			SET quantity = quantity - $2
			WHERE id = $3 AND product_id = $1 AND quantity >= $2
		`
		args = append(args, *variantID)
	}

	commandTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error decreasing stock",
			zap.Int64("product_id", productID),
			zap.Int32("quantity", quantity),
			zap.Error(err),
		)

		return fmt.Errorf("error decreasing stock for product %d: %w", productID, err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// IncreaseStock returns stock for a cancelled line. Lines whose product or
// variant has since been deleted are skipped.
func (r *productRepo) IncreaseStock(ctx context.Context, tx pgx.Tx, productID int64, variantID *int64, quantity int32) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.IncreaseStock")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID), attribute.Int("quantity", int(quantity)))

	query := `UPDATE products SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1`
	args := []any{productID, quantity}
	if variantID != nil {
		query = `UPDATE variants SET quantity = quantity + $2 WHERE id = $3 AND product_id = $1`
		args = append(args, *variantID)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		span.RecordError(err)
		mylogger.Warn(ctx, r.logger, "Failed to increase stock", zap.Int64("product_id", productID), zap.Error(err))

		return fmt.Errorf("error increasing stock for product %d: %w", productID, err)
	}

	return nil
}

func (r *productRepo) IDsByCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.IDsByCategory")
	defer span.End()

	span.SetAttributes(attribute.Int64("category_id", categoryID))

	rows, err := r.pool.Query(ctx, `SELECT id FROM products WHERE category_id = $1 ORDER BY id`, categoryID)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error listing category products", zap.Int64("category_id", categoryID), zap.Error(err))

		return nil, fmt.Errorf("error listing products of category %d: %w", categoryID, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error scanning product ids: %w", err)
	}

	return ids, nil
}
