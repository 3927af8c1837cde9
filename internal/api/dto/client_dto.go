package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CreateClientRequest payload for new clients.
type CreateClientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

// CreateNoteRequest payload for new notes.
type CreateNoteRequest struct {
	Content string `json:"content"`
}

// ClientResponse wire form of a client record.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NoteResponse wire form of a note record.
type NoteResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// FromClient maps a domain client to its wire form.
func FromClient(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Company:   client.Company,
		OwnerID:   client.OwnerID,
		CreatedAt: client.CreatedAt,
	}
}

// FromClients maps a client slice to wire form.
func FromClients(clients []domain.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, FromClient(&clients[i]))
	}
	return out
}

// FromNote maps a domain note to its wire form.
func FromNote(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		ClientID:  note.ClientID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}
}

// FromNotes maps a note slice to wire form.
func FromNotes(notes []domain.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, FromNote(&notes[i]))
	}
	return out
}
