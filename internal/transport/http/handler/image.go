package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"go.uber.org/zap"
)

type ImageHandler struct {
	images   service.ImageService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewImageHandler(images service.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		images:   images,
		validate: utils.NewValidator(),
		logger:   logger,
	}
}

type SetPrimaryInput struct {
	ImageID int64 `json:"imageId" validate:"required,gte=1"`
}

func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()

	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	files, err := formUploads(c, "images", MaxUploadFiles)
	if err != nil {
		mylogger.Warn(ctx, h.logger, "image upload rejected", zap.Int64("product_id", productID), zap.Error(err))
		return err
	}

	images, err := h.images.UploadProductImages(ctx, productID, files)
	if err != nil {
		var uploadErr *service.UploadError
		if errors.As(err, &uploadErr) && len(images) > 0 {
			mylogger.Error(ctx, h.logger, "image batch partially uploaded",
				zap.Int64("product_id", productID),
				zap.Int("stored", len(images)),
				zap.String("failed_file", uploadErr.Filename),
				zap.Error(err),
			)

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": uploadErr.Error(),
				"data":    images,
			})
		}
		return err
	}

	mylogger.Info(ctx, h.logger, "images uploaded",
		zap.Int64("product_id", productID),
		zap.Int("count", len(images)),
	)

	return success(c, fiber.StatusCreated, images)
}

func (h *ImageHandler) SetPrimary(c *fiber.Ctx) error {
	ctx := c.UserContext()

	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	input := new(SetPrimaryInput)
	if err := bind(c, h.validate, input); err != nil {
		return err
	}

	if err := h.images.SetPrimary(ctx, productID, input.ImageID); err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "primary image set",
		zap.Int64("product_id", productID),
		zap.Int64("image_id", input.ImageID),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Primary image updated",
	})
}

func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()

	productID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	imageID, err := paramID(c, "imageId")
	if err != nil {
		return err
	}

	if err := h.images.DeleteImage(ctx, productID, imageID); err != nil {
		return err
	}

	mylogger.Info(ctx, h.logger, "image deleted",
		zap.Int64("product_id", productID),
		zap.Int64("image_id", imageID),
	)

	return c.SendStatus(fiber.StatusNoContent)
}

// uploadSingle is shared by the category, collection and offer image routes.
func uploadSingle[T any](c *fiber.Ctx, logger *zap.Logger, entity string, upload func(id int64, file service.Upload) (*T, error)) error {
	ctx := c.UserContext()

	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	file, err := formUpload(c, "image")
	if err != nil {
		return err
	}

	result, err := upload(id, file)
	if err != nil {
		return err
	}

	mylogger.Info(ctx, logger, "image uploaded",
		zap.String("entity", entity),
		zap.Int64("id", id),
		zap.String("filename", file.Filename),
	)

	return success(c, fiber.StatusOK, result)
}
