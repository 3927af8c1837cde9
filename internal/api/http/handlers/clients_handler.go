package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// ClientsHandler exposes client CRUD and aggregate endpoints.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clientService *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clientService}
}

// List handles GET /api/clients. Works for anonymous callers too.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	clients, err := h.clients.ListClients(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromClients(clients))
}

// Create handles POST /api/clients.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateClientRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.clients.CreateClient(c.Context(), req.Name, req.Email, req.Company, identity.SubjectID, identity.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromClient(client))
}

// Delete handles DELETE /api/clients/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)
	actor := ""
	if identity != nil {
		actor = identity.Email
	}

	client, err := h.clients.DeleteClient(c.Context(), c.Params("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "client deleted",
		"client":  dto.FromClient(client),
	})
}

// Stats handles GET /api/clients/stats.
func (h *ClientsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.clients.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// NoteCounts handles GET /api/clients/notes-count.
func (h *ClientsHandler) NoteCounts(c *fiber.Ctx) error {
	counts, err := h.clients.NoteCounts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}
