package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.Context())
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{
		"users": users,
		"count": len(users),
	})
}

// ListOfficers feeds the assignment picker.
func (h *UserHandler) ListOfficers(c *fiber.Ctx) error {
	officers, err := h.userService.ListOfficers(c.Context())
	if err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{
		"users": officers,
		"count": len(officers),
	})
}

func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	targetID, err := parseID(c, "id", "User not found")
	if err != nil {
		return err
	}

	var input domain.AssignRoleInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.userService.AssignRole(c.Context(), middleware.GetCurrentUser(c), targetID, input)
	if err != nil {
		return mapUserError(err)
	}

	return respond(c, fiber.StatusOK, "Role updated", fiber.Map{"user": updated})
}

func mapUserError(err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return middleware.NotFound("User not found")
	case errors.Is(err, user.ErrInvalidRole):
		return middleware.BadRequest("Invalid role")
	case errors.Is(err, user.ErrCannotModifySelf):
		return middleware.BadRequest("You cannot change your own role")
	}
	return inputError(err)
}
