package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var received []Event
	d.Subscribe(EventClientCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventClientCreated, ActorEmail: "a@b.com"})
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
	assert.Equal(t, "a@b.com", received[0].ActorEmail)
}

func TestPublishContinuesPastHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventNoteAdded, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	d.Subscribe(EventNoteAdded, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventNoteAdded})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventUserLoggedIn}))
}
