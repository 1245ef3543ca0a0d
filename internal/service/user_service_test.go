package service

import (
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func (s *ServiceSuite) TestSyncPrincipal_CreatesOnce() {
	first := s.createUser("ext-1", "asha@example.com")
	s.Equal(domain.RoleUser, first.Role)
	s.Equal("asha@example.com", first.Email)

	again, err := s.users.SyncPrincipal(s.Ctx, domain.Principal{ExternalID: "ext-1", Email: "asha@example.com", Name: "Asha V"})
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)

	s.Equal(1, s.countRows(`SELECT count(*) FROM users`))
}

func (s *ServiceSuite) TestSyncPrincipal_LinksExistingEmail() {
	var legacyID int64
	err := s.DbPool.QueryRow(s.Ctx,
		`INSERT INTO users (name, email, role) VALUES ('Legacy Admin', 'owner@example.com', 'admin') RETURNING id`,
	).Scan(&legacyID)
	s.Require().NoError(err)

	user, err := s.users.SyncPrincipal(s.Ctx, domain.Principal{ExternalID: "ext-owner", Email: "owner@example.com", Name: "Owner"})
	s.Require().NoError(err)
	s.Equal(legacyID, user.ID)
	s.Equal(domain.RoleAdmin, user.Role)

	_, err = s.users.SyncPrincipal(s.Ctx, domain.Principal{ExternalID: "ext-other", Email: "owner@example.com", Name: "Impostor"})
	s.ErrorIs(err, ErrEmailTaken)
}

func (s *ServiceSuite) TestSyncPrincipal_EmailLinkIsNotLoggedAsError() {
	_, err := s.DbPool.Exec(s.Ctx, `INSERT INTO users (name, email) VALUES ('Walk-in', 'walkin@example.com')`)
	s.Require().NoError(err)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	users := NewUserService(repository.NewUserRepository(s.DbPool, logger), logger)

	user, err := users.SyncPrincipal(s.Ctx, domain.Principal{ExternalID: "ext-walkin", Email: "walkin@example.com", Name: "Walk-in"})
	s.Require().NoError(err)
	s.Equal("walkin@example.com", user.Email)

	s.Zero(logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	s.Equal(1, logs.FilterMessage("User sync hit a unique constraint").Len())
	s.Equal(1, logs.FilterMessage("Linked existing user to identity").Len())
}

func (s *ServiceSuite) TestUpdateRole() {
	admin := s.createUser("ext-admin", "admin@example.com")
	admin, err := s.users.UpdateRole(s.Ctx, nil, admin.ID, domain.RoleAdmin)
	s.Require().NoError(err)

	customer := s.createUser("ext-customer", "customer@example.com")

	promoted, err := s.users.UpdateRole(s.Ctx, admin, customer.ID, domain.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(domain.RoleAdmin, promoted.Role)

	_, err = s.users.UpdateRole(s.Ctx, admin, admin.ID, domain.RoleUser)
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.users.UpdateRole(s.Ctx, admin, customer.ID, "owner")
	s.ErrorIs(err, domain.ErrInvalidInput)

	_, err = s.users.UpdateRole(s.Ctx, admin, 999, domain.RoleUser)
	s.ErrorIs(err, repository.ErrUserNotFound)

	users, err := s.users.List(s.Ctx)
	s.Require().NoError(err)
	s.Len(users, 2)
}
