package handler

import (
	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/complaint"
	"edulegal/internal/service/user"
)

type SettingsHandler struct {
	userService      user.Service
	complaintService complaint.Service
}

func NewSettingsHandler(userService user.Service, complaintService complaint.Service) *SettingsHandler {
	return &SettingsHandler{
		userService:      userService,
		complaintService: complaintService,
	}
}

func (h *SettingsHandler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.userService.GetPreferences(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return mapUserError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"preferences": prefs})
}

func (h *SettingsHandler) UpdatePreferences(c *fiber.Ctx) error {
	var input domain.UpdatePreferencesInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	prefs, err := h.userService.UpdatePreferences(c.Context(), middleware.GetCurrentUserID(c), input)
	if err != nil {
		return mapUserError(err)
	}

	return respond(c, fiber.StatusOK, "Preferences updated", fiber.Map{"preferences": prefs})
}

// DeleteComplaint lets a reporter withdraw their own complaint. Ownership comes
// from the JSON body, falling back to the query string.
func (h *SettingsHandler) DeleteComplaint(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Complaint not found")
	if err != nil {
		return err
	}

	var owner domain.ComplaintOwnership
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&owner); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}
	if owner.ReporterName == "" && owner.ReporterEmail == "" {
		if err := c.QueryParser(&owner); err != nil {
			return middleware.BadRequest("Invalid query parameters")
		}
	}

	if err := h.complaintService.Delete(c.Context(), middleware.GetCurrentUser(c), id, owner); err != nil {
		return mapComplaintError(err)
	}

	return respond(c, fiber.StatusOK, "Complaint deleted", nil)
}
