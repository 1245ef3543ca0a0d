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

type OfferHandler struct {
	offers   service.OfferService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOfferHandler(offers service.OfferService, logger *zap.Logger) *OfferHandler {
	return &OfferHandler{
		offers:   offers,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

func (h *OfferHandler) List(c *fiber.Ctx) error {
	offers, err := h.offers.List(c.UserContext())
	if err != nil {
		return err
	}
	return successList(c, offers)
}

func (h *OfferHandler) Active(c *fiber.Ctx) error {
	offers, err := h.offers.Active(c.UserContext())
	if err != nil {
		return err
	}
	return successList(c, offers)
}

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(domain.OfferInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	offer, err := h.offers.Create(ctx, input)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "offer created", zap.Int64("offer_id", offer.ID))

	return success(c, fiber.StatusCreated, offer)
}

func (h *OfferHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(domain.OfferInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	offer, err := h.offers.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, offer)
}

func (h *OfferHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if err := h.offers.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OfferHandler) UploadImage(c *fiber.Ctx) error {
	return uploadSingle(c, h.logger, "offer", func(id int64, file service.Upload) (*domain.Offer, error) {
		return h.offers.UploadImage(c.UserContext(), id, file)
	})
}
