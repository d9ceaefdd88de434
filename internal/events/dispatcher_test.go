package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/media-library-service/internal/events"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var got []events.Event
	dispatcher.Subscribe(events.EventUserCreated, func(_ context.Context, event events.Event) error {
		got = append(got, event)
		return nil
	})

	event := events.Event{
		ID:        "evt-1",
		Type:      events.EventUserCreated,
		SubjectID: "user-1",
		Timestamp: time.Now(),
		Payload:   events.UserCreatedPayload{Email: "a@x.com", Name: "A"},
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, got, 1)
	assert.Equal(t, "evt-1", got[0].ID)
	assert.Equal(t, "user-1", got[0].SubjectID)
}

func TestDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var secondCalled bool
	dispatcher.Subscribe(events.EventUserCreated, func(context.Context, events.Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(events.EventUserCreated, func(context.Context, events.Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserCreated}))
	assert.True(t, secondCalled)
}

func TestDispatcherIgnoresUnrelatedTypes(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(events.EventUserCreated, func(context.Context, events.Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUserLoggedIn}))
	assert.False(t, called)
}
