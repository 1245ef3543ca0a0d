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

type CollectionHandler struct {
	collections service.CollectionService
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewCollectionHandler(collections service.CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collections: collections,
		validate:    utils.NewValidator(),
		logger:      logger,
	}
}

func (h *CollectionHandler) List(c *fiber.Ctx) error {
	includeInactive := middleware.CurrentUser(c).IsAdmin() && c.Query("showInactive") == "true"

	collections, err := h.collections.List(c.UserContext(), includeInactive)
	if err != nil {
		return err
	}
	return successList(c, collections)
}

func (h *CollectionHandler) Featured(c *fiber.Ctx) error {
	collections, err := h.collections.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return successList(c, collections)
}

func (h *CollectionHandler) FindByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	collection, err := h.collections.GetByID(c.UserContext(), id, middleware.CurrentUser(c).IsAdmin())
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, collection)
}

func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(domain.CollectionInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	collection, err := h.collections.Create(ctx, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "collection created",
		zap.Int64("collection_id", collection.ID),
		zap.Int("products", len(input.ProductIDs)),
	)

	return success(c, fiber.StatusCreated, collection)
}

func (h *CollectionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(domain.CollectionInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	collection, err := h.collections.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, collection)
}

func (h *CollectionHandler) ToggleFeatured(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	collection, err := h.collections.ToggleFeatured(c.UserContext(), id)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, collection)
}

func (h *CollectionHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.collections.Delete(ctx, id); err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "collection deleted", zap.Int64("collection_id", id))

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CollectionHandler) UploadImage(c *fiber.Ctx) error {
	return uploadSingle(c, h.logger, "collection", func(id int64, file service.Upload) (*domain.Collection, error) {
		return h.collections.UploadImage(c.UserContext(), id, file)
	})
}
