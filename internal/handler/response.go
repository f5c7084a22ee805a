package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/service/storage"
)

// Response is the success envelope. Failures are rendered by the error handler.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// parseID treats a malformed id the same as a missing record.
func parseID(c *fiber.Ctx, param, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, middleware.NotFound(notFound)
	}
	return id, nil
}

// inputError converts client-facing validation and upload errors into 400s and
// passes everything else through.
func inputError(err error) error {
	var fieldErr *validate.FieldError
	if errors.As(err, &fieldErr) {
		return middleware.BadRequest(fieldErr.Message)
	}
	var uploadErr *storage.UploadError
	if errors.As(err, &uploadErr) {
		return middleware.BadRequest(uploadErr.Message)
	}
	return err
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("pageSize", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, middleware.BadRequest("Invalid " + key)
	}
	return &id, nil
}

// capitalize turns a lowercase sentinel message into a client-facing sentence.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
