package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"edulegal/internal/domain"
	"edulegal/internal/middleware"
	"edulegal/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type authPayload struct {
	Token      string       `json:"token"`
	Role       domain.Role  `json:"role"`
	ClientRole string       `json:"clientRole"`
	User       *domain.User `json:"user"`
}

func newAuthPayload(user *domain.User, token string) authPayload {
	return authPayload{
		Token:      token,
		Role:       user.Role,
		ClientRole: user.Role.ClientName(),
		User:       user,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, token, err := h.authService.Register(c.Context(), input, middleware.GetCurrentUser(c))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			return middleware.BadRequest("User with this email already exists")
		case errors.Is(err, auth.ErrInvalidRole):
			return middleware.BadRequest("Invalid role")
		}
		return inputError(err)
	}

	return respond(c, fiber.StatusCreated, "User registered successfully", newAuthPayload(user, token))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	user, token, err := h.authService.Login(c.Context(), input)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return middleware.Unauthorized("Invalid email or password")
		}
		return inputError(err)
	}

	return respond(c, fiber.StatusOK, "Login successful", newAuthPayload(user, token))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return middleware.Unauthorized("Not authorized")
	}

	return respond(c, fiber.StatusOK, "", fiber.Map{
		"user":       user,
		"clientRole": user.Role.ClientName(),
	})
}
