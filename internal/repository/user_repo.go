package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserRepository interface {
	LinkByEmail(ctx context.Context, principal domain.Principal) (*domain.User, error)
	UpsertByExternalID(ctx context.Context, principal domain.Principal) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error)
}

type userRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("repository/user_repo"),
	}
}

const userColumns = `id, external_id, name, email, role, phone, created_at, updated_at`

func (r *userRepo) one(ctx context.Context, span trace.Span, query string, args ...any) (*domain.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error querying user: %w", err)
	}

	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[domain.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)
		return nil, fmt.Errorf("error scanning user: %w", err)
	}

	return &user, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LinkByEmail attaches the external id to a row created before identities were
// linked. It returns ErrUserNotFound when no unlinked row has the email.
func (r *userRepo) LinkByEmail(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.LinkByEmail")
	defer span.End()

	query := `
		UPDATE users
		SET external_id = $1, phone = COALESCE(phone, $3), updated_at = NOW()
		WHERE email = $2 AND external_id IS NULL
		RETURNING ` + userColumns

	return r.one(ctx, span, query, principal.ExternalID, principal.Email, nullable(principal.Phone))
}

// UpsertByExternalID is idempotent: repeated calls for the same identity return
// the same row, refreshing the email.
func (r *userRepo) UpsertByExternalID(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.UpsertByExternalID")
	defer span.End()

	span.SetAttributes(attribute.String("external_id", principal.ExternalID))

	query := `
		INSERT INTO users (external_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING ` + userColumns

	user, err := r.one(ctx, span, query, principal.ExternalID, principal.Name, principal.Email, nullable(principal.Phone))
	if err != nil {
		// an email conflict is resolved by the caller linking the existing row
		if IsUniqueViolation(err, "") {
			mylogger.Debug(ctx, r.logger, "User sync hit a unique constraint",
				zap.String("external_id", principal.ExternalID),
				zap.Error(err),
			)
			return nil, err
		}

		mylogger.Error(ctx, r.logger, "Error syncing user",
			zap.String("external_id", principal.ExternalID),
			zap.Error(err),
		)
		return nil, err
	}

	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	return r.one(ctx, span, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, r.logger, "Error selecting users", zap.Error(err))

		return nil, fmt.Errorf("error selecting users: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowToStructByPos[domain.User])
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error scanning users: %w", err)
	}

	return users, nil
}

func (r *userRepo) UpdateRole(ctx context.Context, id int64, role string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.UpdateRole")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id), attribute.String("role", role))

	query := `
		UPDATE users SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	return r.one(ctx, span, query, id, role)
}
