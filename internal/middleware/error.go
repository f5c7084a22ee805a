package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/m-mizutani/goerr/v2"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewErrorHandler renders every failure as {success:false, message}. The raw
// cause of unclassified errors is only echoed outside production.
func NewErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(ErrorResponse{
				Success: false,
				Message: fe.Message,
			})
		}

		var ge *goerr.Error
		if errors.As(err, &ge) {
			slog.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error(),
				"values", ge.Values(),
			)
		} else {
			slog.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err.Error(),
			)
		}

		resp := ErrorResponse{
			Success: false,
			Message: "Server error",
		}
		if !production {
			resp.Error = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}
