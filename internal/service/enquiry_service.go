package service

import (
	"context"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	generalDomain "github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EnquiryService interface {
	Submit(ctx context.Context, input *domain.EnquiryInput) (*domain.Enquiry, error)
	List(ctx context.Context, status string) ([]domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Enquiry, error)
}

type enquiryService struct {
	repo       repository.EnquiryRepository
	outboxRepo worker.OutboxRepository
	pool       *pgxpool.Pool
	logger     *zap.Logger
}

func NewEnquiryService(
	repo repository.EnquiryRepository,
	outboxRepo worker.OutboxRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) EnquiryService {
	return &enquiryService{repo: repo, outboxRepo: outboxRepo, pool: pool, logger: logger}
}

func (s *enquiryService) Submit(ctx context.Context, input *domain.EnquiryInput) (*domain.Enquiry, error) {
	var enquiry *domain.Enquiry
	err := inTx(ctx, s.pool, s.logger, func(tx pgx.Tx) error {
		var err error
		enquiry, err = s.repo.Create(ctx, tx, input)
		if err != nil {
			return err
		}

		subject := ""
		if enquiry.Subject != nil {
			subject = *enquiry.Subject
		}

		return saveEvent(ctx, s.outboxRepo, tx,
			generalDomain.TopicEnquiryEvents, "Enquiry", enquiry.ID, generalDomain.EventEnquiryReceived,
			generalDomain.EnquiryReceivedEvent{
				EnquiryID:  enquiry.ID,
				Name:       enquiry.Name,
				Email:      enquiry.Email,
				Subject:    subject,
				Message:    enquiry.Message,
				ReceivedAt: enquiry.CreatedAt.UTC(),
			},
		)
	})
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Enquiry received", zap.Int64("enquiry_id", enquiry.ID))
	return enquiry, nil
}

func (s *enquiryService) List(ctx context.Context, status string) ([]domain.Enquiry, error) {
	return s.repo.List(ctx, status)
}

func (s *enquiryService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Enquiry, error) {
	switch status {
	case domain.EnquiryUnread, domain.EnquiryRead, domain.EnquiryReplied:
	default:
		return nil, domain.Errorf(domain.ErrInvalidInput, "Status must be one of: unread, read, replied")
	}

	return s.repo.UpdateStatus(ctx, id, status)
}
