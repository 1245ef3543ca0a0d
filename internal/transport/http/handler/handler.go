package handler

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
)

const (
	MaxUploadFiles = 10
	MaxUploadBytes = 5 << 20
)

var (
	errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	errNotImage    = domain.Errorf(domain.ErrInvalidInput, "Only image uploads are allowed")
	errTooLarge    = domain.Errorf(domain.ErrInvalidInput, "Each image must be 5MB or smaller")
)

func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func successList[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"results": len(items),
		"data":    items,
	})
}

// paramID reads a positive integer path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Errorf(domain.ErrInvalidInput, "Invalid %s: %q", name, raw)
	}
	return id, nil
}

// bind parses the JSON body into dst and validates it.
func bind(c *fiber.Ctx, validate *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errInvalidBody
	}
	return validate.Struct(dst)
}

func toUpload(fh *multipart.FileHeader) (service.Upload, error) {
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return service.Upload{}, errNotImage
	}
	if fh.Size > MaxUploadBytes {
		return service.Upload{}, errTooLarge
	}

	return service.Upload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}

// formUploads collects the files sent under field. Every file is checked
// before any of them is handed to a service.
func formUploads(c *fiber.Ctx, field string, limit int) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, service.ErrNoFiles
	}

	headers := form.File[field]
	if len(headers) == 0 {
		return nil, service.ErrNoFiles
	}
	if len(headers) > limit {
		return nil, domain.Errorf(domain.ErrInvalidInput, "You can upload at most %d image(s) at once", limit)
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		upload, err := toUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}

	return uploads, nil
}

func formUpload(c *fiber.Ctx, field string) (service.Upload, error) {
	uploads, err := formUploads(c, field, 1)
	if err != nil {
		return service.Upload{}, err
	}
	return uploads[0], nil
}
