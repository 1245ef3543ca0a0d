package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/storage"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Upload is one file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadError reports the file whose storage write failed. Files before it in
// the batch stay recorded.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("Failed to upload %s: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

var ErrNoFiles = domain.Errorf(domain.ErrInvalidInput, "Please upload at least one image")

type ImageService interface {
	UploadProductImages(ctx context.Context, productID int64, files []Upload) ([]domain.ProductImage, error)
	SetPrimary(ctx context.Context, productID, imageID int64) error
	DeleteImage(ctx context.Context, productID, imageID int64) error
}

type imageService struct {
	productRepo repository.ProductRepository
	imageRepo   repository.ImageRepository
	store       storage.Storage
	cache       CacheInvalidator
	pool        *pgxpool.Pool
	logger      *zap.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

func NewImageService(
	productRepo repository.ProductRepository,
	imageRepo repository.ImageRepository,
	store storage.Storage,
	cache CacheInvalidator,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) ImageService {
	return &imageService{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		store:       store,
		cache:       cache,
		pool:        pool,
		logger:      logger,
		tracer:      otel.Tracer("service/image_service"),
		now:         time.Now,
	}
}

// putObject writes one file under {entity}/{id}/... and returns its key.
func putObject(ctx context.Context, store storage.Storage, entity string, id int64, file Upload, now time.Time) (string, error) {
	key := storage.ObjectKey(entity, id, file.Filename, now)

	body, err := file.Open()
	if err != nil {
		return "", &UploadError{Filename: file.Filename, Err: err}
	}
	defer body.Close()

	if err := store.Upload(ctx, key, body, file.Size, file.ContentType); err != nil {
		return "", &UploadError{Filename: file.Filename, Err: err}
	}

	return key, nil
}

// discardObject removes a blob whose database row could not be written.
func discardObject(ctx context.Context, store storage.Storage, logger *zap.Logger, key string) {
	if err := store.Delete(context.WithoutCancel(ctx), key); err != nil {
		mylogger.Warn(ctx, logger, "Failed to remove orphaned object", zap.String("key", key), zap.Error(err))
	}
}

// UploadProductImages stores the files in order. The first storage failure
// stops the batch; the images recorded so far are returned with the error.
func (s *imageService) UploadProductImages(ctx context.Context, productID int64, files []Upload) ([]domain.ProductImage, error) {
	ctx, span := s.tracer.Start(ctx, "ImageService.UploadProductImages")
	defer span.End()

	span.SetAttributes(attribute.Int64("product_id", productID), attribute.Int("files", len(files)))

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	uploaded := make([]domain.ProductImage, 0, len(files))
	defer func() {
		if len(uploaded) > 0 {
			s.invalidate(ctx, productID)
		}
	}()

	for _, file := range files {
		key, err := putObject(ctx, s.store, "products", productID, file, s.now())
		if err != nil {
			span.RecordError(err)
			mylogger.Error(ctx, s.logger, "Upload failed",
				zap.Int64("product_id", productID),
				zap.String("filename", file.Filename),
				zap.Error(err),
			)

			return uploaded, err
		}

		altText := file.Filename
		var image *domain.ProductImage
		err = inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
			if err := s.productRepo.LockForUpdate(ctx, tx, productID); err != nil {
				return err
			}

			var insertErr error
			image, insertErr = s.imageRepo.Insert(ctx, tx, productID, s.store.PublicURL(key), &altText)
			return insertErr
		})
		if err != nil {
			span.RecordError(err)
			discardObject(ctx, s.store, s.logger, key)

			return uploaded, err
		}

		uploaded = append(uploaded, *image)
	}

	mylogger.Info(ctx, s.logger, "Product images uploaded",
		zap.Int64("product_id", productID),
		zap.Int("count", len(uploaded)),
	)

	return uploaded, nil
}

func (s *imageService) SetPrimary(ctx context.Context, productID, imageID int64) error {
	ctx, span := s.tracer.Start(ctx, "ImageService.SetPrimary")
	defer span.End()

	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		if err := s.productRepo.LockForUpdate(ctx, tx, productID); err != nil {
			return err
		}

		return s.imageRepo.SetPrimary(ctx, tx, productID, imageID)
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			mylogger.Warn(ctx, s.logger, "Set primary rejected",
				zap.Int64("product_id", productID),
				zap.Int64("image_id", imageID),
				zap.Error(err),
			)
		}
		return err
	}

	s.invalidate(ctx, productID)
	return nil
}

// DeleteImage removes the image row only; the stored object is kept.
func (s *imageService) DeleteImage(ctx context.Context, productID, imageID int64) error {
	ctx, span := s.tracer.Start(ctx, "ImageService.DeleteImage")
	defer span.End()

	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		if err := s.productRepo.LockForUpdate(ctx, tx, productID); err != nil {
			return err
		}

		_, err := s.imageRepo.Delete(ctx, tx, productID, imageID)
		return err
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, productID)
	return nil
}

func (s *imageService) invalidate(ctx context.Context, productID int64) {
	invalidateProducts(ctx, s.cache, productID)
}
