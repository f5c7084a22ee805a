package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/cases"
	"edulegal/internal/service/dashboard"
)

const documentField = "document"

type CaseHandler struct {
	caseService      cases.Service
	dashboardService dashboard.Service
}

func NewCaseHandler(caseService cases.Service, dashboardService dashboard.Service) *CaseHandler {
	return &CaseHandler{
		caseService:      caseService,
		dashboardService: dashboardService,
	}
}

func (h *CaseHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateCaseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	created, err := h.caseService.Create(c.Context(), middleware.GetCurrentUser(c), input)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusCreated, "Case created successfully", fiber.Map{"case": created})
}

// List applies the role scope in the service. An explicit assignedTo query
// replaces the legal-officer scope rather than narrowing it.
func (h *CaseHandler) List(c *fiber.Ctx) error {
	var filter domain.CaseFilter
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

	found, err := h.caseService.List(c.Context(), middleware.GetCurrentUser(c), filter)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{
		"cases": found,
		"count": len(found),
	})
}

func (h *CaseHandler) ListAssigned(c *fiber.Ctx) error {
	views, err := h.caseService.ListAssigned(c.Context(), middleware.GetCurrentUser(c))
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{
		"cases": views,
		"count": len(views),
	})
}

func (h *CaseHandler) Categories(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, "", fiber.Map{"categories": h.caseService.Categories()})
}

func (h *CaseHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"stats": stats})
}

func (h *CaseHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	found, err := h.caseService.GetByID(c.Context(), middleware.GetCurrentUser(c), id)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"case": found})
}

func (h *CaseHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	var input domain.UpdateCaseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.caseService.Update(c.Context(), middleware.GetCurrentUser(c), id, input)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "Case updated successfully", fiber.Map{"case": updated})
}

func (h *CaseHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	if err := h.caseService.Delete(c.Context(), middleware.GetCurrentUser(c), id); err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "Case deleted successfully", nil)
}

func (h *CaseHandler) ListNotes(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	notes, err := h.caseService.ListNotes(c.Context(), middleware.GetCurrentUser(c), caseID)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"notes": notes})
}

func (h *CaseHandler) AddNote(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	var input domain.CreateNoteInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	note, err := h.caseService.AddNote(c.Context(), middleware.GetCurrentUser(c), caseID, input)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusCreated, "Note added", fiber.Map{"note": note})
}

func (h *CaseHandler) UpdateNote(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}
	noteID, err := parseID(c, "noteId", "Note not found")
	if err != nil {
		return err
	}

	var input domain.UpdateNoteInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	note, err := h.caseService.UpdateNote(c.Context(), middleware.GetCurrentUser(c), caseID, noteID, input)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "Note updated", fiber.Map{"note": note})
}

func (h *CaseHandler) DeleteNote(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}
	noteID, err := parseID(c, "noteId", "Note not found")
	if err != nil {
		return err
	}

	if err := h.caseService.DeleteNote(c.Context(), middleware.GetCurrentUser(c), caseID, noteID); err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "Note deleted", nil)
}

func (h *CaseHandler) ListDocuments(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	docs, err := h.caseService.ListDocuments(c.Context(), middleware.GetCurrentUser(c), caseID)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"documents": docs})
}

func (h *CaseHandler) UploadDocument(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	fh, err := c.FormFile(documentField)
	if err != nil {
		return middleware.BadRequest("No file uploaded. Use the '" + documentField + "' field")
	}

	doc, err := h.caseService.UploadDocument(c.Context(), middleware.GetCurrentUser(c), caseID, fh)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusCreated, "Document uploaded", fiber.Map{"document": doc})
}

func (h *CaseHandler) DeleteDocument(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}
	documentID, err := parseID(c, "documentId", "Document not found")
	if err != nil {
		return err
	}

	if err := h.caseService.DeleteDocument(c.Context(), middleware.GetCurrentUser(c), caseID, documentID); err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "Document deleted", nil)
}

func (h *CaseHandler) Timeline(c *fiber.Ctx) error {
	caseID, err := parseID(c, "id", "Case not found")
	if err != nil {
		return err
	}

	activities, err := h.caseService.Timeline(c.Context(), middleware.GetCurrentUser(c), caseID)
	if err != nil {
		return mapCaseError(err)
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{"timeline": activities})
}

func mapCaseError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCaseNotFound):
		return middleware.NotFound("Case not found")
	case errors.Is(err, domain.ErrNoteNotFound):
		return middleware.NotFound("Note not found")
	case errors.Is(err, domain.ErrDocumentNotFound):
		return middleware.NotFound("Document not found")
	case errors.Is(err, cases.ErrAssigneeNotFound):
		return middleware.NotFound("Assigned user not found")
	case errors.Is(err, cases.ErrForbidden),
		errors.Is(err, cases.ErrAssignForbidden),
		errors.Is(err, cases.ErrNotCaseOwner):
		return middleware.Forbidden(capitalize(err.Error()))
	case errors.Is(err, cases.ErrAssigneeNotOfficer),
		errors.Is(err, cases.ErrCaseNotOpen),
		errors.Is(err, cases.ErrInvalidCategory),
		errors.Is(err, cases.ErrInvalidStatus),
		errors.Is(err, cases.ErrInvalidPriority):
		return middleware.BadRequest(capitalize(err.Error()))
	}
	return inputError(err)
}
