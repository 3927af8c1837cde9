package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/service"
)

// NotesHandler exposes note endpoints nested under clients.
type NotesHandler struct {
	clients *service.ClientService
}

// NewNotesHandler constructs handler.
func NewNotesHandler(clientService *service.ClientService) *NotesHandler {
	return &NotesHandler{clients: clientService}
}

// List handles GET /api/clients/:id/notes.
func (h *NotesHandler) List(c *fiber.Ctx) error {
	notes, err := h.clients.ListNotes(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromNotes(notes))
}

// Create handles POST /api/clients/:id/notes.
func (h *NotesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	note, err := h.clients.AddNote(c.Context(), c.Params("id"), req.Content, actorEmail(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromNote(note))
}

// Delete handles DELETE /api/notes/:id.
func (h *NotesHandler) Delete(c *fiber.Ctx) error {
	note, err := h.clients.DeleteNote(c.Context(), c.Params("id"), actorEmail(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "note deleted",
		"note":    dto.FromNote(note),
	})
}

func actorEmail(c *fiber.Ctx) string {
	if identity, ok := auth.IdentityFromContext(c); ok {
		return identity.Email
	}
	return ""
}
