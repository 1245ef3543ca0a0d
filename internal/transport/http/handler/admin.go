package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"go.uber.org/zap"
)

type AdminHandler struct {
	admin    service.AdminService
	users    service.UserService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAdminHandler(admin service.AdminService, users service.UserService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		users:    users,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

type UpdateRoleInput struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.Stats(c.UserContext())
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, fiber.Map{
		"stats":          stats,
		"recentProducts": stats.RecentProducts,
	})
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return successList(c, users)
}

func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := middleware.CurrentUser(c)

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(UpdateRoleInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	user, err := h.users.UpdateRole(ctx, actor, id, input.Role)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "user role changed",
		zap.Int64("actor_id", actor.ID),
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role),
	)

	return success(c, fiber.StatusOK, user)
}
