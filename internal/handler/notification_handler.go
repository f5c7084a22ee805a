package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/notification"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)
	unreadOnly := c.QueryBool("unreadOnly", false)

	result, err := h.notificationService.List(c.Context(), middleware.GetCurrentUserID(c), unreadOnly, params)
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.GetUnreadCount(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"count": count})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Notification not found")
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkAsRead(c.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return middleware.NotFound("Notification not found")
		}
		return err
	}

	return respond(c, fiber.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllAsRead(c.Context(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "All notifications marked as read", nil)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Notification not found")
	if err != nil {
		return err
	}

	if err := h.notificationService.Delete(c.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return middleware.NotFound("Notification not found")
		}
		return err
	}

	return respond(c, fiber.StatusOK, "Notification deleted", nil)
}
