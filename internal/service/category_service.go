package service

import (
	"context"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/storage"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

var ErrNameRequired = domain.Errorf(domain.ErrInvalidInput, "Name is required")

type CategoryService interface {
	List(ctx context.Context, gender string) ([]domain.Category, error)
	Create(ctx context.Context, input *domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, input *domain.CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, file Upload) (*domain.Category, error)
}

type categoryService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
	store       storage.Storage
	cache       CacheInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

func NewCategoryService(
	repo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	store storage.Storage,
	cache CacheInvalidator,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		repo:        repo,
		productRepo: productRepo,
		store:       store,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *categoryService) List(ctx context.Context, gender string) ([]domain.Category, error) {
	return s.repo.List(ctx, gender)
}

// Create derives the slug from gender and name, so "Kurtas" under Men becomes
// "men-kurtas" like the seeded categories.
func (s *categoryService) Create(ctx context.Context, input *domain.CategoryInput) (*domain.Category, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, ErrNameRequired
	}

	base := *input.Name
	if input.Gender != nil {
		base = *input.Gender + " " + base
	}

	slug := catalog.Slug(base)
	if slug == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Name must contain letters or digits")
	}

	category, err := s.repo.Create(ctx, slug, input)
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Category created", zap.Int64("category_id", category.ID), zap.String("slug", slug))
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, input *domain.CategoryInput) (*domain.Category, error) {
	category, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.dropCachedProducts(ctx, id)
	return category, nil
}

// Delete detaches the category's products, so their ids are read before the
// row goes.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	var productIDs []int64
	if s.cache != nil {
		ids, err := s.productRepo.IDsByCategory(ctx, id)
		if err != nil {
			return err
		}
		productIDs = ids
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	invalidateProducts(ctx, s.cache, productIDs...)
	return nil
}

// dropCachedProducts drops cached products that embed this category's name.
func (s *categoryService) dropCachedProducts(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}

	productIDs, err := s.productRepo.IDsByCategory(ctx, id)
	if err != nil {
		mylogger.Warn(ctx, s.logger, "Failed to list category products for cache invalidation", zap.Int64("category_id", id), zap.Error(err))
		return
	}
	invalidateProducts(ctx, s.cache, productIDs...)
}

// UploadImage stores the file and records its public URL, replacing any
// previous image reference.
func (s *categoryService) UploadImage(ctx context.Context, id int64, file Upload) (*domain.Category, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key, err := putObject(ctx, s.store, "categories", id, file, s.now())
	if err != nil {
		mylogger.Error(ctx, s.logger, "Category image upload failed", zap.Int64("category_id", id), zap.Error(err))
		return nil, err
	}

	category, err := s.repo.SetImage(ctx, id, s.store.PublicURL(key))
	if err != nil {
		discardObject(ctx, s.store, s.logger, key)
		return nil, err
	}

	return category, nil
}
