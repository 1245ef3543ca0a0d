package service

import (
	"context"
	"errors"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	generalDomain "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const newArrivalsLimit = 8

var ErrNoUpdateData = domain.Errorf(domain.ErrInvalidInput, "No update data provided")

type ProductService interface {
	List(ctx context.Context, filter catalog.Filter) ([]domain.Product, error)
	Featured(ctx context.Context) ([]domain.Product, error)
	NewArrivals(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64, isAdmin bool) (*domain.Product, error)
	Create(ctx context.Context, input *domain.CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// CacheInvalidator drops cached product state after a change made outside
// ProductService: images, stock, categories.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, productIDs ...int64)
}

// invalidateProducts is a no-op when caching is disabled.
func invalidateProducts(ctx context.Context, cache CacheInvalidator, productIDs ...int64) {
	if cache != nil && len(productIDs) > 0 {
		cache.Invalidate(ctx, productIDs...)
	}
}

type productService struct {
	productRepo repository.ProductRepository
	outboxRepo  worker.OutboxRepository
	pool        *pgxpool.Pool
	logger      *zap.Logger
	now         func() time.Time
}

func NewProductService(
	productRepo repository.ProductRepository,
	outboxRepo worker.OutboxRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		pool:        pool,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *productService) List(ctx context.Context, filter catalog.Filter) ([]domain.Product, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *productService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.List(ctx, catalog.Filter{Featured: true, Sort: catalog.SortNewest})
}

func (s *productService) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.List(ctx, catalog.Filter{Sort: catalog.SortNewest, Limit: newArrivalsLimit})
}

// GetByID hides inactive products from everyone but admins.
func (s *productService) GetByID(ctx context.Context, id int64, isAdmin bool) (*domain.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return visible(product, isAdmin)
}

func visible(product *domain.Product, isAdmin bool) (*domain.Product, error) {
	if !product.IsActive && !isAdmin {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, input *domain.CreateProductInput) (*domain.Product, error) {
	slug := catalog.ProductSlug(input.Name, s.now())

	var id int64
	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		var err error
		id, err = s.productRepo.Create(ctx, tx, slug, input)
		if err != nil {
			mylogger.Error(ctx, s.logger, "create error", zap.Error(err))
			return err
		}

		if err := s.productRepo.ReplaceVariants(ctx, tx, id, input.Variants); err != nil {
			return err
		}

		isActive := input.IsActive == nil || *input.IsActive
		return s.productEvent(ctx, tx, generalDomain.EventProductCreated, id, slug, input.Name, isActive)
	})
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Product created", zap.Int64("product_id", id), zap.String("slug", slug))
	return s.productRepo.GetByID(ctx, id)
}

// Update applies a partial update. Renaming regenerates the slug; a non-nil
// variant list replaces the stored variants.
func (s *productService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error) {
	if input.IsEmpty() {
		return nil, ErrNoUpdateData
	}

	var slug *string
	if input.Name != nil {
		generated := catalog.ProductSlug(*input.Name, s.now())
		slug = &generated
	}

	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		if err := s.productRepo.Update(ctx, tx, id, slug, input); err != nil {
			return err
		}

		if input.Variants != nil {
			if err := s.productRepo.ReplaceVariants(ctx, tx, id, input.Variants); err != nil {
				return err
			}
		}

		name, isActive, current := "", true, ""
		if input.Name != nil {
			name = *input.Name
		}
		if input.IsActive != nil {
			isActive = *input.IsActive
		}
		if slug != nil {
			current = *slug
		}
		return s.productEvent(ctx, tx, generalDomain.EventProductUpdated, id, current, name, isActive)
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			mylogger.Warn(ctx, s.logger, "Product not found", zap.Int64("product_id", id))
		}
		return nil, err
	}

	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		deleted, err := s.productRepo.DeleteByID(ctx, tx, id)
		if err != nil {
			return err
		}

		return s.productEvent(ctx, tx, generalDomain.EventProductDeleted, id, deleted.Slug, deleted.Name, false)
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			mylogger.Warn(ctx, s.logger, "Product not found", zap.Int64("product_id", id))
			return err
		}

		mylogger.Error(ctx, s.logger, "Error deleting product", zap.Error(err))
		return err
	}

	return nil
}

func (s *productService) productEvent(ctx context.Context, tx pgx.Tx, eventType string, id int64, slug, name string, isActive bool) error {
	return saveEvent(ctx, s.outboxRepo, tx,
		generalDomain.TopicCatalogEvents, "Product", id, eventType,
		generalDomain.ProductChangedEvent{
			ProductID: id,
			Slug:      slug,
			Name:      name,
			IsActive:  isActive,
			ChangedAt: s.now().UTC(),
		},
	)
}
