package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/historisense/portal/internal/config"
	"github.com/historisense/portal/internal/events"
)

func TestAuditForwardsSessionEventsToWebhook(t *testing.T) {
	var delivered atomic.Int64
	var lastType atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		lastType.Store(string(event.Type))
		delivered.Add(1)
	}))
	defer server.Close()

	dispatcher := events.NewInMemoryDispatcher()
	audit := NewAuditService(dispatcher, zap.NewNop(), config.AuditConfig{WebhookURL: server.URL})
	audit.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:        "evt-1",
		Type:      events.EventSessionExpired,
		SessionID: "session-1",
		Timestamp: time.Now(),
		Payload:   events.SessionEndedPayload{Reason: "token expired"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), delivered.Load())
	assert.Equal(t, string(events.EventSessionExpired), lastType.Load())
}

func TestAuditSkipsWebhookWhenUnconfigured(t *testing.T) {
	var delivered atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delivered.Add(1)
	}))
	defer server.Close()

	dispatcher := events.NewInMemoryDispatcher()
	audit := NewAuditService(dispatcher, zap.NewNop(), config.AuditConfig{})
	audit.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:   "evt-1",
		Type: events.EventLoggedOut,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), delivered.Load())
}
