package service

import (
	"context"

	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/repository"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"go.uber.org/zap"
)

type SettingsService interface {
	Announcement(ctx context.Context) (*domain.Announcement, error)
	SaveAnnouncement(ctx context.Context, input *domain.AnnouncementInput) (*domain.Announcement, error)
}

type settingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

func (s *settingsService) Announcement(ctx context.Context) (*domain.Announcement, error) {
	announcement, err := s.repo.GetAnnouncement(ctx)
	if err != nil {
		return nil, err
	}
	if announcement == nil {
		return domain.DefaultAnnouncement(), nil
	}

	return announcement, nil
}

func (s *settingsService) SaveAnnouncement(ctx context.Context, input *domain.AnnouncementInput) (*domain.Announcement, error) {
	if input.Type == "" {
		input.Type = "info"
	}

	announcement, err := s.repo.SaveAnnouncement(ctx, input)
	if err != nil {
		return nil, err
	}

	mylogger.Info(ctx, s.logger, "Announcement saved", zap.Bool("enabled", announcement.Enabled))
	return announcement, nil
}
