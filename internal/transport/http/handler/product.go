package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/catalog"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/transport/http/middleware"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products service.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	filter := catalog.FilterFromQuery(c.Queries(), middleware.CurrentUser(c).IsAdmin())

	products, err := h.products.List(ctx, filter)
	if err != nil {
		return err
	}

	mylogger.Debug(ctx, h.logger, "list products succeeded",
		zap.String("category", filter.Category),
		zap.String("search", filter.Search),
		zap.Int("results", len(products)),
	)

	return successList(c, products)
}

func (h *ProductHandler) Featured(c *fiber.Ctx) error {
	products, err := h.products.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return successList(c, products)
}

func (h *ProductHandler) NewArrivals(c *fiber.Ctx) error {
	products, err := h.products.NewArrivals(c.UserContext())
	if err != nil {
		return err
	}
	return successList(c, products)
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.products.GetByID(c.UserContext(), id, middleware.CurrentUser(c).IsAdmin())
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, product)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(domain.CreateProductInput)
	if err := bind(c, h.validate, input); err != nil {
		mylogger.Warn(ctx, h.logger, "create product input rejected", zap.Error(err))
		return err
	}

	product, err := h.products.Create(ctx, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "create product succeeded",
		zap.Int64("product_id", product.ID),
		zap.String("slug", product.Slug),
	)

	return success(c, fiber.StatusCreated, product)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(domain.UpdateProductInput)
	if err := bind(c, h.validate, input); err != nil {
		mylogger.Warn(ctx, h.logger, "update product input rejected", zap.Int64("product_id", id), zap.Error(err))
		return err
	}

	product, err := h.products.Update(ctx, id, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "update product succeeded", zap.Int64("product_id", id))

	return success(c, fiber.StatusOK, product)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.products.Delete(ctx, id); err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "delete product succeeded", zap.Int64("product_id", id))

	return c.SendStatus(fiber.StatusNoContent)
}
