package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders   service.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

type UpdateOrderStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()
	customer := middleware.CurrentUser(c)

	input := new(domain.PlaceOrderInput)
	if err := bind(c, h.validate, input); err != nil {
		mylogger.Warn(ctx, h.logger, "order input rejected", zap.Int64("user_id", customer.ID), zap.Error(err))
		return err
	}

	order, err := h.orders.Place(ctx, customer, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", customer.ID),
		zap.String("total", order.Total.StringFixed(2)),
	)

	return success(c, fiber.StatusCreated, order)
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	orders, err := h.orders.ListMine(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return successList(c, orders)
}

func (h *OrderHandler) FindByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orders.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, order)
}

func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	orders, err := h.orders.ListAll(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return successList(c, orders)
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(UpdateOrderStatusInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	order, err := h.orders.UpdateStatus(ctx, id, input.Status)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "order status changed",
		zap.Int64("order_id", id),
		zap.String("status", order.Status),
	)

	return success(c, fiber.StatusOK, order)
}
