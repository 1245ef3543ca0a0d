package http

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/domain"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/internal/service"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/mylogger"
	"github.com/hasnain-jasiqlab/ShreyaVastralok/pkg/utils"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var keyDetail = regexp.MustCompile(`Key \(([^)]+)\)`)

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
	Detail  string            `json:"detail,omitempty"`
}

// classify maps err to a status code and a client safe body.
func classify(err error) (int, errorResponse) {
	var (
		validationErrs validator.ValidationErrors
		fiberErr       *fiber.Error
		domainErr      *domain.Error
		uploadErr      *service.UploadError
		pgErr          *pgconn.PgError
	)

	switch {
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, errorResponse{
			Message: "Validation Error",
			Errors:  utils.FormatValidationError(err),
		}

	case errors.As(err, &fiberErr):
		return fiberErr.Code, errorResponse{Message: fiberErr.Message}

	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fiber.StatusServiceUnavailable, errorResponse{Message: "Image storage is temporarily unavailable"}

	case errors.As(err, &uploadErr):
		return fiber.StatusInternalServerError, errorResponse{Message: uploadErr.Error()}

	case errors.As(err, &domainErr):
		return domainStatus(domainErr), errorResponse{Message: domainErr.Message}

	case errors.As(err, &pgErr):
		return pgStatus(pgErr)
	}

	return fiber.StatusInternalServerError, errorResponse{Message: "Something went wrong"}
}

func domainStatus(err *domain.Error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func pgStatus(err *pgconn.PgError) (int, errorResponse) {
	switch err.Code {
	case "23505":
		field := "unknown"
		if m := keyDetail.FindStringSubmatch(err.Detail); m != nil {
			field = m[1]
		}
		return fiber.StatusConflict, errorResponse{
			Message: "Duplicate field value entered",
			Errors:  map[string]string{field: "This value already exists"},
		}
	case "23503":
		return fiber.StatusBadRequest, errorResponse{Message: "Referenced record does not exist"}
	case "23514":
		return fiber.StatusBadRequest, errorResponse{Message: "Value violates a constraint"}
	}

	return fiber.StatusInternalServerError, errorResponse{Message: "Something went wrong"}
}

// ErrorHandler renders every error returned by a handler or middleware as
// {status, message, errors?}. Outside production 5xx bodies carry the raw error.
func ErrorHandler(logger *zap.Logger, isProduction bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, body := classify(err)

		body.Status = "fail"
		if code >= fiber.StatusInternalServerError {
			body.Status = "error"
			if !isProduction {
				body.Detail = err.Error()
			}
		}

		ctx := c.UserContext()
		fields := []zap.Field{
			zap.Int("status", code),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.String("ip", c.IP()),
			zap.Error(err),
		}
		if code >= fiber.StatusInternalServerError {
			mylogger.Error(ctx, logger, "Request failed", fields...)
		} else {
			mylogger.Warn(ctx, logger, "Request rejected", fields...)
		}

		return c.Status(code).JSON(body)
	}
}
