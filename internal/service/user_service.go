package service

import (
	"context"
	"errors"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

const usersEmailConstraint = "users_email_key"

var ErrEmailTaken = domain.Errorf(domain.ErrConflict, "Email is already linked to another account")

type UserService interface {
	SyncPrincipal(ctx context.Context, principal domain.Principal) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, actor *domain.User, id int64, role string) (*domain.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// SyncPrincipal returns the local user for an identity, creating it on first
// sight. A row that predates identity linking and shares the email is linked
// instead of duplicated.
func (s *userService) SyncPrincipal(ctx context.Context, principal domain.Principal) (*domain.User, error) {
	user, err := s.repo.UpsertByExternalID(ctx, principal)
	if err == nil {
		return user, nil
	}

	if !repository.IsUniqueViolation(err, usersEmailConstraint) {
		return nil, err
	}

	user, err = s.repo.LinkByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			mylogger.Warn(ctx, s.logger, "Email owned by another identity",
				zap.String("external_id", principal.ExternalID),
			)
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Linked existing user to identity",
		zap.Int64("user_id", user.ID),
		zap.String("external_id", principal.ExternalID),
	)

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// UpdateRole changes a user's role. Admins cannot demote themselves, so the
// store always keeps the admin performing the change.
func (s *userService) UpdateRole(ctx context.Context, actor *domain.User, id int64, role string) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Role must be one of: user, admin")
	}
	if actor != nil && actor.ID == id && role != domain.RoleAdmin {
		return nil, domain.Errorf(domain.ErrInvalidInput, "You cannot remove your own admin role")
	}

	user, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "User role updated", zap.Int64("user_id", id), zap.String("role", role))
	return user, nil
}
