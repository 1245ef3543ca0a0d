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

type OrderRepository interface {
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Order, error)
	List(ctx context.Context, userID int64, status string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status string) error
}

type orderRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/order_repo"),
	}
}

var orderColumns = []string{
	"id", "user_id", "status", "payment_status", "payment_method",
	"shipping_name", "shipping_phone", "shipping_address", "shipping_city", "shipping_state", "shipping_postal_code",
	"subtotal", "total", "notes", "created_at", "updated_at",
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.Shipping.Name,
		&o.Shipping.Phone,
		&o.Shipping.Address,
		&o.Shipping.City,
		&o.Shipping.State,
		&o.Shipping.PostalCode,
		&o.Subtotal,
		&o.Total,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	return &o, nil
}

func (r *orderRepo) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", order.UserID), attribute.Int("items", len(order.Items)))

	query := `
		INSERT INTO orders (
			user_id, payment_method, shipping_name, shipping_phone, shipping_address,
			shipping_city, shipping_state, shipping_postal_code, subtotal, total, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, status, payment_status, created_at, updated_at
	`

	err := tx.QueryRow(ctx, query,
		order.UserID,
		order.PaymentMethod,
		order.Shipping.Name,
		order.Shipping.Phone,
		order.Shipping.Address,
		order.Shipping.City,
		order.Shipping.State,
		order.Shipping.PostalCode,
		order.Subtotal,
		order.Total,
		order.Notes,
	).Scan(&order.ID, &order.Status, &order.PaymentStatus, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error creating order", zap.Error(err))

		return fmt.Errorf("error creating order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, variant_id, product_name, variant_label, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, total_price
	`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err := tx.QueryRow(ctx, itemQuery,
			order.ID,
			item.ProductID,
			item.VariantID,
			item.ProductName,
			item.VariantLabel,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID, &item.TotalPrice)
		if err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, r.logger, "Error creating order item", zap.Int64("order_id", order.ID), zap.Error(err))

			return fmt.Errorf("error creating order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query, args, err := psql.Select(orderColumns...).From("orders").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) {
			span.RecordError(err)
		}
		return nil, err
	}

	items, err := r.items(ctx, r.pool, []int64{id})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	order.Items = items[id]

	return order, nil
}

func (r *orderRepo) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.LockByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	query, args, err := psql.Select(orderColumns...).From("orders").Where(sq.Eq{"id": id}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return nil, err
	}

	order, err := scanOrder(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	items, err := r.items(ctx, tx, []int64{id})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	order.Items = items[id]

	return order, nil
}

// List returns orders newest first. A zero userID lists every customer's orders.
func (r *orderRepo) List(ctx context.Context, userID int64, status string) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("status", status))

	q := psql.Select(orderColumns...).From("orders").OrderBy("created_at DESC", "id DESC")
	if userID != 0 {
		q = q.Where(sq.Eq{"user_id": userID})
	}
	if status != "" {
		q = q.Where(sq.Eq{"status": status})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error selecting orders", zap.Error(err))

		return nil, fmt.Errorf("error selecting orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, r.pool, ids)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

func (r *orderRepo) items(ctx context.Context, db DBTX, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, variant_id, product_name, variant_label, quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`

	rows, err := db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("error selecting order items: %w", err)
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.OrderItem])
	if err != nil {
		return nil, fmt.Errorf("error scanning order items: %w", err)
	}

	byOrder := make(map[int64][]domain.OrderItem, len(orderIDs))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	return byOrder, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status string) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdateStatus")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id), attribute.String("status", status))

	commandTag, err := tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error updating order status", zap.Int64("id", id), zap.Error(err))

		return fmt.Errorf("error updating order status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
