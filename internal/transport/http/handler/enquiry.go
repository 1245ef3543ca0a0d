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

type EnquiryHandler struct {
	enquiries service.EnquiryService
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewEnquiryHandler(enquiries service.EnquiryService, logger *zap.Logger) *EnquiryHandler {
	return &EnquiryHandler{
		enquiries: enquiries,
		validate:  utils.NewValidator(),
		logger:    logger,
	}
}

type UpdateEnquiryInput struct {
	Status string `json:"status" validate:"required"`
}

func (h *EnquiryHandler) Submit(c *fiber.Ctx) error {
	ctx := c.UserContext()

	input := new(domain.EnquiryInput)
	if err := bind(c, h.validate, input); err != nil {
		mylogger.Warn(ctx, h.logger, "enquiry rejected", zap.String("ip", c.IP()), zap.Error(err))
		return err
	}

	enquiry, err := h.enquiries.Submit(ctx, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Thank you for reaching out. We will get back to you soon.",
		"data":    enquiry,
	})
}

func (h *EnquiryHandler) List(c *fiber.Ctx) error {
	enquiries, err := h.enquiries.List(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return successList(c, enquiries)
}

func (h *EnquiryHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(UpdateEnquiryInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	enquiry, err := h.enquiries.UpdateStatus(c.UserContext(), id, input.Status)
	if err != nil {
		return err
	}

	return success(c, fiber.StatusOK, enquiry)
}
