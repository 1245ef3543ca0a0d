package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	generalDomain "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPaymentMethod = "cod"

type OrderService interface {
	Place(ctx context.Context, customer *domain.User, input *domain.PlaceOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, customer *domain.User) ([]domain.Order, error)
	Get(ctx context.Context, viewer *domain.User, id int64) (*domain.Order, error)
	ListAll(ctx context.Context, status string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	outboxRepo  worker.OutboxRepository
	cache       CacheInvalidator
	pool        *pgxpool.Pool
	logger      *zap.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	outboxRepo worker.OutboxRepository,
	cache CacheInvalidator,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		pool:        pool,
		logger:      logger,
		now:         time.Now,
	}
}

// Place prices every line from the locked product rows, decrements stock and
// records the order in one transaction. Products are locked in id order.
func (s *orderService) Place(ctx context.Context, customer *domain.User, input *domain.PlaceOrderInput) (*domain.Order, error) {
	order := &domain.Order{
		UserID:        customer.ID,
		PaymentMethod: input.PaymentMethod,
		Shipping:      input.Shipping,
		Notes:         input.Notes,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = defaultPaymentMethod
	}

	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		products, err := s.lockProducts(ctx, tx, input.Items)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, line := range input.Items {
			item, err := priceLine(products[line.ProductID], line)
			if err != nil {
				return err
			}

			if err := s.productRepo.DecreaseStock(ctx, tx, line.ProductID, line.VariantID, line.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					mylogger.Warn(ctx, s.logger, "Insufficient stock",
						zap.Int64("product_id", line.ProductID),
						zap.Int32("quantity", line.Quantity),
					)
					return domain.Errorf(domain.ErrConflict, "Insufficient stock for %s", item.ProductName)
				}
				return err
			}

			subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)))
			order.Items = append(order.Items, item)
		}

		order.Subtotal = subtotal
		order.Total = subtotal

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		return saveEvent(ctx, s.outboxRepo, tx,
			generalDomain.TopicOrderEvents, "Order", order.ID, generalDomain.EventOrderPlaced,
			orderPlacedEvent(order, customer),
		)
	})
	if err != nil {
		return nil, err
	}

	invalidateProducts(ctx, s.cache, orderedProducts(order.Items)...)

	mylogger.Info(ctx, s.logger, "Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", customer.ID),
		zap.String("total", order.Total.StringFixed(2)),
	)

	return order, nil
}

func (s *orderService) lockProducts(ctx context.Context, tx pgx.Tx, lines []domain.OrderLineInput) (map[int64]*domain.Product, error) {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	products := make(map[int64]*domain.Product, len(ids))
	for _, id := range ids {
		product, err := s.productRepo.LockForOrder(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, domain.Errorf(domain.ErrInvalidInput, "%s is no longer available", product.Name)
		}
		products[id] = product
	}

	return products, nil
}

// priceLine snapshots the product name and unit price, adding the variant's
// price adjustment when a variant is chosen.
func priceLine(product *domain.Product, line domain.OrderLineInput) (domain.OrderItem, error) {
	productID := product.ID
	item := domain.OrderItem{
		ProductID:   &productID,
		ProductName: product.Name,
		Quantity:    line.Quantity,
		UnitPrice:   product.Price,
	}

	if line.VariantID == nil {
		return item, nil
	}

	for _, v := range product.Variants {
		if v.ID == *line.VariantID {
			variantID := v.ID
			label := v.Label()
			item.VariantID = &variantID
			item.VariantLabel = &label
			item.UnitPrice = product.Price.Add(v.PriceAdjustment)

			return item, nil
		}
	}

	return domain.OrderItem{}, repository.ErrVariantNotFound
}

// orderedProducts lists the distinct products whose stock an order touched.
func orderedProducts(items []domain.OrderItem) []int64 {
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item.ProductID != nil {
			ids = append(ids, *item.ProductID)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func orderPlacedEvent(order *domain.Order, customer *domain.User) generalDomain.OrderPlacedEvent {
	items := make([]generalDomain.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		label := ""
		if item.VariantLabel != nil {
			label = *item.VariantLabel
		}
		items = append(items, generalDomain.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			VariantLabel: label,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice.StringFixed(2),
			TotalPrice:   item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity)).StringFixed(2),
		})
	}

	return generalDomain.OrderPlacedEvent{
		OrderID:       order.ID,
		UserID:        customer.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Total:         order.Total.StringFixed(2),
		Items:         items,
		PlacedAt:      order.CreatedAt,
	}
}

func (s *orderService) ListMine(ctx context.Context, customer *domain.User) ([]domain.Order, error) {
	return s.orderRepo.List(ctx, customer.ID, "")
}

// Get answers not found for orders the viewer does not own, unless the viewer
// is an admin.
func (s *orderService) Get(ctx context.Context, viewer *domain.User, id int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.UserID != viewer.ID && !viewer.IsAdmin() {
		mylogger.Warn(ctx, s.logger, "Order requested by non-owner",
			zap.Int64("order_id", id),
			zap.Int64("user_id", viewer.ID),
		)
		return nil, repository.ErrOrderNotFound
	}

	return order, nil
}

func (s *orderService) ListAll(ctx context.Context, status string) ([]domain.Order, error) {
	return s.orderRepo.List(ctx, 0, status)
}

// UpdateStatus moves an order along its lifecycle. Cancelling returns the
// ordered quantities to stock.
func (s *orderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	var order *domain.Order
	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		var err error
		order, err = s.orderRepo.LockByID(ctx, tx, id)
		if err != nil {
			return err
		}

		from := order.Status
		if !domain.CanTransition(from, status) {
			return domain.Errorf(domain.ErrInvalidInput, "Cannot change order status from %s to %s", from, status)
		}

		if status == domain.OrderCancelled {
			for _, item := range order.Items {
				if item.ProductID == nil {
					continue
				}
				if err := s.productRepo.IncreaseStock(ctx, tx, *item.ProductID, item.VariantID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, id, status); err != nil {
			return err
		}
		order.Status = status

		customer, err := s.userRepo.GetByID(ctx, order.UserID)
		if err != nil {
			return err
		}

		return saveEvent(ctx, s.outboxRepo, tx,
			generalDomain.TopicOrderEvents, "Order", id, generalDomain.EventOrderStatusChanged,
			generalDomain.OrderStatusChangedEvent{
				OrderID:       id,
				CustomerEmail: customer.Email,
				From:          from,
				To:            status,
				ChangedAt:     s.now().UTC(),
			},
		)
	})
	if err != nil {
		return nil, err
	}

	if status == domain.OrderCancelled {
		invalidateProducts(ctx, s.cache, orderedProducts(order.Items)...)
	}

	mylogger.Info(ctx, s.logger, "Order status changed", zap.Int64("order_id", id), zap.String("status", status))
	return order, nil
}
