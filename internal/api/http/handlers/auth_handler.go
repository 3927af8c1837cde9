package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// AuthHandler exposes registration, login, and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "username, email and password are required")
	}

	user, token, exp, err := h.auth.Register(c.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "user registered successfully",
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		"user":    dto.FromUser(user),
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password are required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		"user":    dto.FromUser(user),
	})
}

// Profile handles GET /api/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.auth.Profile(c.Context(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": dto.FromUser(user)})
}
