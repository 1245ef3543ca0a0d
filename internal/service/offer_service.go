package service

import (
	"context"
	"time"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/storage"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

var ErrInvalidOfferWindow = domain.Errorf(domain.ErrInvalidInput, "End date must not be before start date")

type OfferService interface {
	List(ctx context.Context) ([]domain.Offer, error)
	Active(ctx context.Context) ([]domain.Offer, error)
	Create(ctx context.Context, input *domain.OfferInput) (*domain.Offer, error)
	Update(ctx context.Context, id int64, input *domain.OfferInput) (*domain.Offer, error)
	Delete(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, file Upload) (*domain.Offer, error)
}

type offerService struct {
	repo   repository.OfferRepository
	store  storage.Storage
	logger *zap.Logger
	now    func() time.Time
}

func NewOfferService(repo repository.OfferRepository, store storage.Storage, logger *zap.Logger) OfferService {
	return &offerService{repo: repo, store: store, logger: logger, now: time.Now}
}

func (s *offerService) List(ctx context.Context) ([]domain.Offer, error) {
	return s.repo.List(ctx)
}

func (s *offerService) Active(ctx context.Context) ([]domain.Offer, error) {
	return s.repo.ListLive(ctx, s.now())
}

func (s *offerService) Create(ctx context.Context, input *domain.OfferInput) (*domain.Offer, error) {
	if input.Title == nil || *input.Title == "" {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Title is required")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, ErrInvalidOfferWindow
	}

	offer, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Offer created", zap.Int64("offer_id", offer.ID))
	return offer, nil
}

func (s *offerService) Update(ctx context.Context, id int64, input *domain.OfferInput) (*domain.Offer, error) {
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, ErrInvalidOfferWindow
	}

	return s.repo.Update(ctx, id, input)
}

func (s *offerService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *offerService) UploadImage(ctx context.Context, id int64, file Upload) (*domain.Offer, error) {
	key, err := putObject(ctx, s.store, "offers", id, file, s.now())
	if err != nil {
		mylogger.Error(ctx, s.logger, "Offer image upload failed", zap.Int64("offer_id", id), zap.Error(err))
		return nil, err
	}

	offer, err := s.repo.SetImage(ctx, id, s.store.PublicURL(key))
	if err != nil {
		discardObject(ctx, s.store, s.logger, key)
		return nil, err
	}

	return offer, nil
}
