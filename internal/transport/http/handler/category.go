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

type CategoryHandler struct {
	categories service.CategoryService
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewCategoryHandler(categories service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		validate:   utils.NewValidator(),
		logger:     logger,
	}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categories.List(c.UserContext(), c.Query("gender"))
	if err != nil {
		return err
	}
	return successList(c, categories)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(domain.CategoryInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	category, err := h.categories.Create(ctx, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "category created",
		zap.Int64("category_id", category.ID),
		zap.String("slug", category.Slug),
	)

	return success(c, fiber.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(domain.CategoryInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	category, err := h.categories.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, category)
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.categories.Delete(ctx, id); err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "category deleted", zap.Int64("category_id", id))

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CategoryHandler) UploadImage(c *fiber.Ctx) error {
	return uploadSingle(c, h.logger, "category", func(id int64, file service.Upload) (*domain.Category, error) {
		return h.categories.UploadImage(c.UserContext(), id, file)
	})
}
