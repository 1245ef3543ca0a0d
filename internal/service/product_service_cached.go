package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedProductService caches product detail in Redis. The cached copy always
// includes inactive products; visibility is applied on the way out.
type CachedProductService struct {
	next        ProductService
	redisClient *redis.Client
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewCachedProductService(next ProductService, redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProductService {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &CachedProductService{
		next:        next,
		redisClient: redisClient,
		cacheTTL:    ttl,
		logger:      logger,
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *CachedProductService) List(ctx context.Context, filter catalog.Filter) ([]domain.Product, error) {
	return s.next.List(ctx, filter)
}

func (s *CachedProductService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.next.Featured(ctx)
}

func (s *CachedProductService) NewArrivals(ctx context.Context) ([]domain.Product, error) {
	return s.next.NewArrivals(ctx)
}

func (s *CachedProductService) GetByID(ctx context.Context, id int64, isAdmin bool) (*domain.Product, error) {
	key := productKey(id)

	val, err := s.redisClient.Get(ctx, key).Bytes()
	if err == nil {
		var product domain.Product
		if err := json.Unmarshal(val, &product); err == nil {
			return visible(&product, isAdmin)
		}
	}

	product, err := s.next.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.redisClient.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
			mylogger.Warn(ctx, s.logger, "Failed to cache product", zap.Int64("product_id", id), zap.Error(err))
		}
	}

	return visible(product, isAdmin)
}

func (s *CachedProductService) Create(ctx context.Context, input *domain.CreateProductInput) (*domain.Product, error) {
	return s.next.Create(ctx, input)
}

func (s *CachedProductService) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) (*domain.Product, error) {
	product, err := s.next.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.Invalidate(ctx, id)
	return product, nil
}

func (s *CachedProductService) Delete(ctx context.Context, id int64) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}

	s.Invalidate(ctx, id)
	return nil
}

func (s *CachedProductService) Invalidate(ctx context.Context, productIDs ...int64) {
	if len(productIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}

	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		mylogger.Warn(ctx, s.logger, "Failed to invalidate product cache", zap.Int64s("product_ids", productIDs), zap.Error(err))
	}
}
