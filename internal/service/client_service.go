package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

const (
	statsCacheKey = "crm:clients:stats"
	statsCacheTTL = 30 * time.Second
)

// ClientService coordinates client and note operations.
type ClientService struct {
	clients    repository.ClientRepository
	notes      repository.NoteRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewClientService builds the service.
func NewClientService(clients repository.ClientRepository, notes repository.NoteRepository, cache *persistence.Redis, dispatcher events.Dispatcher, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, notes: notes, cache: cache, dispatcher: dispatcher, logger: logger}
}

// ListClients returns all clients, newest first.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.List(ctx)
}

// CreateClient stores a new client owned by the acting user.
func (s *ClientService) CreateClient(ctx context.Context, name, email, company, ownerID, actorEmail string) (*domain.Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("client name is required", nil)
	}
	if company == "" {
		company = name
	}

	client := &domain.Client{Name: name, Email: email, Company: company, OwnerID: ownerID}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.publish(ctx, events.EventClientCreated, actorEmail, map[string]any{"client_id": client.ID, "name": client.Name})
	return client, nil
}

// DeleteClient removes a client and returns the deleted record.
func (s *ClientService) DeleteClient(ctx context.Context, id, actorEmail string) (*domain.Client, error) {
	client, err := s.clients.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("client", nil)
		}
		return nil, err
	}

	s.invalidateStats(ctx)
	s.publish(ctx, events.EventClientDeleted, actorEmail, map[string]any{"client_id": client.ID, "name": client.Name})
	return client, nil
}

// ListNotes returns a client's notes, newest first.
func (s *ClientService) ListNotes(ctx context.Context, clientID string) ([]domain.Note, error) {
	return s.notes.ListByClient(ctx, clientID)
}

// AddNote attaches a note to an existing client.
func (s *ClientService) AddNote(ctx context.Context, clientID, content, actorEmail string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("note content is required", nil)
	}

	exists, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFound("client", nil)
	}

	note := &domain.Note{ClientID: clientID, Content: content}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	s.publish(ctx, events.EventNoteAdded, actorEmail, map[string]any{"note_id": note.ID, "client_id": clientID})
	return note, nil
}

// DeleteNote removes a note and returns the deleted record.
func (s *ClientService) DeleteNote(ctx context.Context, id, actorEmail string) (*domain.Note, error) {
	note, err := s.notes.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("note", nil)
		}
		return nil, err
	}

	s.invalidateStats(ctx)
	s.publish(ctx, events.EventNoteDeleted, actorEmail, map[string]any{"note_id": note.ID, "client_id": note.ClientID})
	return note, nil
}

// Stats returns aggregate counts, served from Redis when fresh.
func (s *ClientService) Stats(ctx context.Context) (*domain.ClientStats, error) {
	if cached := s.cachedStats(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.clients.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.Client != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Client.Set(ctx, statsCacheKey, payload, statsCacheTTL).Err(); err != nil {
				s.logger.Debug("stats cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// NoteCounts maps client ids to their note counts.
func (s *ClientService) NoteCounts(ctx context.Context) (map[string]domain.ClientNoteCount, error) {
	counts, err := s.clients.NoteCounts(ctx)
	if err != nil {
		return nil, err
	}
	byClient := make(map[string]domain.ClientNoteCount, len(counts))
	for _, c := range counts {
		byClient[c.ClientID] = c
	}
	return byClient, nil
}

func (s *ClientService) cachedStats(ctx context.Context) *domain.ClientStats {
	if s.cache == nil || s.cache.Client == nil {
		return nil
	}
	payload, err := s.cache.Client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats domain.ClientStats
	if err := json.Unmarshal(payload, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *ClientService) invalidateStats(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.Debug("stats cache invalidation failed", zap.Error(err))
	}
}

func (s *ClientService) publish(ctx context.Context, eventType events.EventType, actor string, payload map[string]any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{Type: eventType, ActorEmail: actor, Payload: payload})
}
