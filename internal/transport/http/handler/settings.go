package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settings service.SettingsService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSettingsHandler(settings service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

func (h *SettingsHandler) Announcement(c *fiber.Ctx) error {
	announcement, err := h.settings.Announcement(c.UserContext())
	if err != nil {
		return err
	}
	return success(c, fiber.StatusOK, announcement)
}

func (h *SettingsHandler) SaveAnnouncement(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(domain.AnnouncementInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	announcement, err := h.settings.SaveAnnouncement(ctx, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "announcement saved",
		zap.Bool("enabled", announcement.Enabled),
		zap.String("type", announcement.Type),
	)

	return success(c, fiber.StatusOK, announcement)
}
