package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/complaint"
)

const attachmentsField = "attachments"

type ComplaintHandler struct {
	complaintService complaint.Service
}

func NewComplaintHandler(complaintService complaint.Service) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

func (h *ComplaintHandler) Submit(c *fiber.Ctx) error {
	var input domain.CreateComplaintInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		for field, headers := range form.File {
			if field != attachmentsField {
				return middleware.BadRequest("Unexpected field: " + field + ". Use '" + attachmentsField + "' for file uploads")
			}
			files = headers
		}
	}

	created, err := h.complaintService.Submit(c.Context(), input, files)
	if err != nil {
		return mapComplaintError(err)
	}

	return respond(c, fiber.StatusCreated, "Complaint submitted successfully", fiber.Map{"complaint": created})
}

func (h *ComplaintHandler) List(c *fiber.Ctx) error {
	var filter domain.ComplaintFilter
	if v := c.Query("category"); v != "" {
		category := domain.Category(v)
		filter.Category = &category
	}
	if v := c.Query("status"); v != "" {
		status := domain.CaseStatus(v)
		filter.Status = &status
	}
	assignedTo, err := queryUUID(c, "assignedTo")
	if err != nil {
		return err
	}
	filter.AssignedTo = assignedTo

	complaints, err := h.complaintService.List(c.Context(), middleware.GetCurrentUser(c), filter)
	if err != nil {
		return mapComplaintError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{
		"complaints": complaints,
		"count":      len(complaints),
	})
}

func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Complaint not found")
	if err != nil {
		return err
	}

	found, err := h.complaintService.GetByID(c.Context(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return mapComplaintError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"complaint": found})
}

func (h *ComplaintHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Complaint not found")
	if err != nil {
		return err
	}

	var input domain.UpdateComplaintInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.complaintService.Update(c.Context(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return mapComplaintError(err)
	}

	return respond(c, fiber.StatusOK, "Complaint updated", fiber.Map{"complaint": updated})
}

func mapComplaintError(err error) error {
	switch {
	case errors.Is(err, domain.ErrComplaintNotFound):
		return middleware.NotFound("Complaint not found")
	case errors.Is(err, complaint.ErrForbidden),
		errors.Is(err, complaint.ErrAssignForbidden),
		errors.Is(err, complaint.ErrNotComplaintOwner),
		errors.Is(err, complaint.ErrAnonymousNotDeletable):
		return middleware.Forbidden(capitalize(err.Error()))
	case errors.Is(err, complaint.ErrAssigneeNotFound):
		return middleware.NotFound("Assigned user not found")
	case errors.Is(err, complaint.ErrInvalidReporterType),
		errors.Is(err, complaint.ErrReporterNameRequired),
		errors.Is(err, complaint.ErrInvalidCategory),
		errors.Is(err, complaint.ErrInvalidStatus),
		errors.Is(err, complaint.ErrInvalidPriority),
		errors.Is(err, complaint.ErrAssigneeNotOfficer),
		errors.Is(err, complaint.ErrComplaintNotOpen):
		return middleware.BadRequest(capitalize(err.Error()))
	}
	return inputError(err)
}
