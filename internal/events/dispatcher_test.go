package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []Event
	d.Subscribe(EventSessionExpired, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	event := Event{
		ID:        "evt-1",
		Type:      EventSessionExpired,
		SessionID: "sess-1",
		Timestamp: time.Now(),
		Payload:   SessionEndedPayload{Reason: "token expired"},
	}
	require.NoError(t, d.Publish(context.Background(), event))

	require.Len(t, seen, 1)
	assert.Equal(t, "sess-1", seen[0].SessionID)
}

func TestPublishIgnoresHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	calls := 0
	d.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls++
		return errors.New("audit sink down")
	})
	d.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventLoggedOut}))
	assert.Equal(t, 2, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventLoginSucceeded}))
}
