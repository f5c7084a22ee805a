package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/export"
)

type ExportHandler struct {
	exportService export.Service
}

func NewExportHandler(exportService export.Service) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) Export(c *fiber.Ctx) error {
	exportType := domain.ExportType(c.Query("type"))
	format := domain.ExportFormat(c.Query("format"))

	file, err := h.exportService.Export(c.Context(), exportType, format)
	if err != nil {
		if errors.Is(err, export.ErrInvalidType) || errors.Is(err, export.ErrInvalidFormat) {
			return middleware.BadRequest(capitalize(err.Error()))
		}
		return err
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", file.Filename))
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Status(fiber.StatusOK).Send(file.Body)
}
