package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/persistence"
)

const (
	activityKey = "crm:activity:recent"
	activityMax = 100
)

// ActivityService records domain events into a capped recent-activity
// trail. Handlers never fail the publishing operation.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *persistence.Redis
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger, redis *persistence.Redis) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger, redis: redis}
}

// RegisterHandlers subscribes to all CRM events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventUserLoggedIn,
		events.EventClientCreated,
		events.EventClientDeleted,
		events.EventNoteAdded,
		events.EventNoteDeleted,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *ActivityService) record(ctx context.Context, event events.Event) error {
	a.logger.Info("activity",
		zap.String("event", string(event.Type)),
		zap.String("actor", event.ActorEmail),
		zap.Any("payload", event.Payload))

	if a.redis == nil || a.redis.Client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil
	}
	pipe := a.redis.Client.Pipeline()
	pipe.LPush(ctx, activityKey, payload)
	pipe.LTrim(ctx, activityKey, 0, activityMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		a.logger.Debug("activity trail write failed", zap.Error(err))
	}
	return nil
}

// Recent returns up to limit most recent activity entries.
func (a *ActivityService) Recent(ctx context.Context, limit int) ([]events.Event, error) {
	if a.redis == nil || a.redis.Client == nil {
		return []events.Event{}, nil
	}
	if limit <= 0 || limit > activityMax {
		limit = activityMax
	}

	entries, err := a.redis.Client.LRange(ctx, activityKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	recent := make([]events.Event, 0, len(entries))
	for _, entry := range entries {
		var event events.Event
		if err := json.Unmarshal([]byte(entry), &event); err != nil {
			continue
		}
		recent = append(recent, event)
	}
	return recent, nil
}
