package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/historisense/portal/internal/config"
	"github.com/historisense/portal/internal/events"
)

// AuditService records session lifecycle events and optionally forwards them
// to an external webhook.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.AuditConfig
	http       *http.Client
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		http:       &http.Client{Timeout: 5 * time.Second},
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventSessionExpired, a.handleSessionEnded)
	a.dispatcher.Subscribe(events.EventCredentialRejected, a.handleSessionEnded)
	a.dispatcher.Subscribe(events.EventLoggedOut, a.handleSessionEnded)
	a.dispatcher.Subscribe(events.EventTestimonyAnalyzed, a.handleTestimonyAnalyzed)
}

func (a *AuditService) handleLoginSucceeded(ctx context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	a.sendWebhookNotification(ctx, event)
	return nil
}

func (a *AuditService) handleSessionEnded(ctx context.Context, event events.Event) error {
	a.logger.Info("SessionEnded",
		zap.String("session_id", event.SessionID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	a.sendWebhookNotification(ctx, event)
	return nil
}

func (a *AuditService) handleTestimonyAnalyzed(ctx context.Context, event events.Event) error {
	a.logger.Info("TestimonyAnalyzed", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) sendWebhookNotification(ctx context.Context, event events.Event) {
	if strings.TrimSpace(a.cfg.WebhookURL) == "" {
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("audit webhook marshal failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		a.logger.Warn("audit webhook request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		a.logger.Warn("audit webhook delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	a.logger.Debug("audit webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.Int("status", resp.StatusCode))
}
