package domain

import "time"

// Client is a CRM client record.
type Client struct {
	ID        string
	Name      string
	Email     string
	Company   string
	OwnerID   string
	CreatedAt time.Time
}

// Note is a free-form note attached to a client.
type Note struct {
	ID        string
	ClientID  string
	Content   string
	CreatedAt time.Time
}

// ClientStats aggregates counts across the client book.
type ClientStats struct {
	Clients    int    `json:"clients"`
	TotalNotes int    `json:"totalNotes"`
	LastNote   string `json:"lastNote"`
}

// ClientNoteCount pairs a client with its note count.
type ClientNoteCount struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
	NotesCount int    `json:"notes_count"`
}
