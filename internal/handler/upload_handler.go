package handler

import (
	"log/slog"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/middleware"
	"edulegal/internal/service/storage"
)

// UploadHandler serves stored attachments and documents under /uploads. It goes
// through the storage service so disk and MinIO drivers behave the same.
type UploadHandler struct {
	storageService storage.Service
}

func NewUploadHandler(storageService storage.Service) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	key := path.Clean("/" + c.Params("*"))
	if key == "/" || strings.Contains(key, "..") {
		return middleware.NotFound("File not found")
	}

	body, err := h.storageService.Open(c.Context(), path.Join(storage.PathPrefix, key))
	if err != nil {
		slog.Debug("upload not found", "key", key, "error", err)
		return middleware.NotFound("File not found")
	}

	c.Type(strings.TrimPrefix(path.Ext(key), "."))
	return c.SendStream(body)
}
