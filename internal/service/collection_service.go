package service

import (
	"context"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/storage"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const featuredCollectionsLimit = 4

type CollectionService interface {
	List(ctx context.Context, includeInactive bool) ([]domain.Collection, error)
	Featured(ctx context.Context) ([]domain.Collection, error)
	GetByID(ctx context.Context, id int64, isAdmin bool) (*domain.Collection, error)
	Create(ctx context.Context, input *domain.CollectionInput) (*domain.Collection, error)
	Update(ctx context.Context, id int64, input *domain.CollectionInput) (*domain.Collection, error)
	ToggleFeatured(ctx context.Context, id int64) (*domain.Collection, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, file Upload) (*domain.Collection, error)
}

type collectionService struct {
	repo        repository.CollectionRepository
	productRepo repository.ProductRepository
	store       storage.Storage
	pool        *pgxpool.Pool
	logger      *zap.Logger
	now         func() time.Time
}

func NewCollectionService(
	repo repository.CollectionRepository,
	productRepo repository.ProductRepository,
	store storage.Storage,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) CollectionService {
	return &collectionService{
		repo:        repo,
		productRepo: productRepo,
		store:       store,
		pool:        pool,
		logger:      logger,
		now:         time.Now,
	}
}

// resolve turns the stored object key into a public URL.
func (s *collectionService) resolve(c *domain.Collection) {
	if c.ImagePath != nil && *c.ImagePath != "" {
		url := s.store.PublicURL(*c.ImagePath)
		c.ImageURL = &url
	}
}

func (s *collectionService) resolveAll(collections []domain.Collection) []domain.Collection {
	for i := range collections {
		s.resolve(&collections[i])
	}
	return collections
}

func (s *collectionService) List(ctx context.Context, includeInactive bool) ([]domain.Collection, error) {
	collections, err := s.repo.List(ctx, includeInactive, false, 0)
	if err != nil {
		return nil, err
	}

	return s.resolveAll(collections), nil
}

func (s *collectionService) Featured(ctx context.Context) ([]domain.Collection, error) {
	collections, err := s.repo.List(ctx, false, true, featuredCollectionsLimit)
	if err != nil {
		return nil, err
	}

	return s.resolveAll(collections), nil
}

// GetByID returns the collection with its products in curated order. Inactive
// collections and products are only shown to admins.
func (s *collectionService) GetByID(ctx context.Context, id int64, isAdmin bool) (*domain.Collection, error) {
	collection, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !collection.IsActive && !isAdmin {
		return nil, repository.ErrCollectionNotFound
	}

	products, err := s.productRepo.List(ctx, catalog.Filter{CollectionID: id, IncludeInactive: isAdmin})
	if err != nil {
		return nil, err
	}

	collection.Products = products
	s.resolve(collection)

	return collection, nil
}

func (s *collectionService) Create(ctx context.Context, input *domain.CollectionInput) (*domain.Collection, error) {
	if input.Name == nil || *input.Name == "" {
		return nil, ErrNameRequired
	}

	slug := catalog.Slug(*input.Name)
	if slug == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Name must contain letters or digits")
	}

	var collection *domain.Collection
	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		var err error
		collection, err = s.repo.Create(ctx, tx, slug, input)
		if err != nil {
			return err
		}

		if input.ProductIDs != nil {
			return s.repo.SetProducts(ctx, tx, collection.ID, input.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Collection created", zap.Int64("collection_id", collection.ID))
	s.resolve(collection)

	return collection, nil
}

// Update applies a partial update; a non-nil product_ids list replaces the
// membership.
func (s *collectionService) Update(ctx context.Context, id int64, input *domain.CollectionInput) (*domain.Collection, error) {
	var collection *domain.Collection
	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		var err error
		collection, err = s.repo.Update(ctx, tx, id, input)
		if err != nil {
			return err
		}

		if input.ProductIDs != nil {
			return s.repo.SetProducts(ctx, tx, id, input.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.resolve(collection)
	return collection, nil
}

func (s *collectionService) ToggleFeatured(ctx context.Context, id int64) (*domain.Collection, error) {
	collection, err := s.repo.ToggleFeatured(ctx, id)
	if err != nil {
		return nil, err
	}

	s.resolve(collection)
	return collection, nil
}

func (s *collectionService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// UploadImage stores the object key rather than the URL; reads resolve it.
func (s *collectionService) UploadImage(ctx context.Context, id int64, file Upload) (*domain.Collection, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key, err := putObject(ctx, s.store, "collections", id, file, s.now())
	if err != nil {
		mylogger.Error(ctx, s.logger, "Collection image upload failed", zap.Int64("collection_id", id), zap.Error(err))
		return nil, err
	}

	collection, err := s.repo.SetImagePath(ctx, id, key)
	if err != nil {
		discardObject(ctx, s.store, s.logger, key)
		return nil, err
	}

	s.resolve(collection)
	return collection, nil
}
