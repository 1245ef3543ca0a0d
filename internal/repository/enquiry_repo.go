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

type EnquiryRepository interface {
	Create(ctx context.Context, tx pgx.Tx, input *domain.EnquiryInput) (*domain.Enquiry, error)
	List(ctx context.Context, status string) ([]domain.Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Enquiry, error)
}

type enquiryRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewEnquiryRepository(pool *pgxpool.Pool, logger *zap.Logger) EnquiryRepository {
	return &enquiryRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/enquiry_repo"),
	}
}

const enquiryColumns = `id, name, email, phone, subject, message, status, created_at`

func (r *enquiryRepo) Create(ctx context.Context, tx pgx.Tx, input *domain.EnquiryInput) (*domain.Enquiry, error) {
	ctx, span := r.tracer.Start(ctx, "EnquiryRepository.Create")
	defer span.End()

	query := `
		INSERT INTO contact_messages (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + enquiryColumns

	rows, err := tx.Query(ctx, query, input.Name, input.Email, input.Phone, input.Subject, input.Message)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error creating enquiry: %w", err)
	}

	enquiry, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Enquiry])
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error creating enquiry", zap.Error(err))

		return nil, fmt.Errorf("error creating enquiry: %w", err)
	}

	return &enquiry, nil
}

func (r *enquiryRepo) List(ctx context.Context, status string) ([]domain.Enquiry, error) {
	ctx, span := r.tracer.Start(ctx, "EnquiryRepository.List")
	defer span.End()

	span.SetAttributes(attribute.String("status", status))

	q := psql.Select(enquiryColumns).From("contact_messages").OrderBy("created_at DESC", "id DESC")
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
		mylogger.Error(ctx, r.logger, "Error selecting enquiries", zap.Error(err))

		return nil, fmt.Errorf("error selecting enquiries: %w", err)
	}

	enquiries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.Enquiry])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error scanning enquiries: %w", err)
	}

	return enquiries, nil
}

func (r *enquiryRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Enquiry, error) {
	ctx, span := r.tracer.Start(ctx, "EnquiryRepository.UpdateStatus")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id), attribute.String("status", status))

	rows, err := r.pool.Query(ctx, `UPDATE contact_messages SET status = $2 WHERE id = $1 RETURNING `+enquiryColumns, id, status)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error updating enquiry: %w", err)
	}

	enquiry, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.Enquiry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEnquiryNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error updating enquiry: %w", err)
	}

	return &enquiry, nil
}
