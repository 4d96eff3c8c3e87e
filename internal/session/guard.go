// Package session owns the session lifecycle: it is the only component that
// decides whether a session may keep running and the only one that clears a
// credential and forces the anonymous state.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/credstore"
	"github.com/historisense/portal/internal/domain"
	"github.com/historisense/portal/internal/events"
	"github.com/historisense/portal/internal/observability"
)

// Guard composes the credential store and token validator into session
// checks, periodic re-validation, and forced sign-out.
type Guard struct {
	store      credstore.Store
	validator  *auth.Validator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	interval   time.Duration

	mu       sync.Mutex
	watchers map[string]context.CancelFunc
}

// GuardDependencies bundles what the guard needs.
type GuardDependencies struct {
	Store      credstore.Store
	Validator  *auth.Validator
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewGuard builds the guard. interval is the shared re-validation period used
// by every watcher.
func NewGuard(deps GuardDependencies, interval time.Duration) *Guard {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Guard{
		store:      deps.Store,
		validator:  deps.Validator,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		interval:   interval,
		watchers:   make(map[string]context.CancelFunc),
	}
}

// Check recomputes the session state from the store and validator. An expired
// credential is cleared before the result is returned, so once Check reports
// Expired no later caller can observe the stale credential as valid. The
// session state is never cached between checks.
func (g *Guard) Check(ctx context.Context, sessionID string) (domain.Session, error) {
	cred, err := g.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, credstore.ErrNoCredential) {
			g.metrics.RecordSessionCheck("anonymous")
			return domain.Session{State: domain.SessionAnonymous}, nil
		}
		g.metrics.RecordSessionCheck("storage_error")
		return domain.Session{State: domain.SessionAnonymous}, err
	}

	if g.validator.IsExpired(cred.Token) {
		g.metrics.RecordSessionCheck("expired")
		g.Invalidate(ctx, sessionID, events.EventSessionExpired, "token expired")
		return domain.Session{State: domain.SessionExpired}, nil
	}

	g.metrics.RecordSessionCheck("authenticated")
	return domain.Session{State: domain.SessionAuthenticated, Profile: cred.Profile}, nil
}

// Invalidate clears the stored credential and publishes the session-ended
// event. It is idempotent: invalidating an already-cleared session is a safe
// no-op and emits nothing, so racing watchers cannot double-report.
func (g *Guard) Invalidate(ctx context.Context, sessionID string, eventType events.EventType, reason string) {
	_, loadErr := g.store.Load(ctx, sessionID)
	hadCredential := loadErr == nil

	if err := g.store.Clear(ctx, sessionID); err != nil {
		g.logger.Warn("failed to clear credential", zap.String("session_id", sessionID), zap.Error(err))
	}

	if !hadCredential {
		return
	}

	g.logger.Info("session invalidated",
		zap.String("session_id", sessionID),
		zap.String("reason", reason))

	if g.dispatcher != nil {
		_ = g.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      eventType,
			SessionID: sessionID,
			Timestamp: time.Now(),
			Payload:   events.SessionEndedPayload{Reason: reason},
		})
	}
}

// StartWatcher begins periodic re-validation for the session. A second call
// for the same session replaces the previous watcher.
func (g *Guard) StartWatcher(sessionID string) {
	ctx, cancel := context.WithCancel(context.Background())

	g.mu.Lock()
	if prev, ok := g.watchers[sessionID]; ok {
		prev()
	}
	g.watchers[sessionID] = cancel
	g.mu.Unlock()

	go g.watch(ctx, sessionID)
}

// StopWatcher cancels the session's watcher unconditionally. Safe to call
// when no watcher is running.
func (g *Guard) StopWatcher(sessionID string) {
	g.mu.Lock()
	cancel, ok := g.watchers[sessionID]
	if ok {
		delete(g.watchers, sessionID)
	}
	g.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown cancels every running watcher.
func (g *Guard) Shutdown() {
	g.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(g.watchers))
	for id, cancel := range g.watchers {
		cancels = append(cancels, cancel)
		delete(g.watchers, id)
	}
	g.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

// Interval returns the shared re-validation interval.
func (g *Guard) Interval() time.Duration {
	return g.interval
}

func (g *Guard) watch(ctx context.Context, sessionID string) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Teardown double-check: another component may have cleared the
			// session mid-lifetime, or the token may have expired between
			// ticks. Check clears an expired credential as a side effect.
			checkCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if _, err := g.Check(checkCtx, sessionID); err != nil {
				g.logger.Warn("teardown session check failed", zap.String("session_id", sessionID), zap.Error(err))
			}
			cancel()
			return
		case <-ticker.C:
			sess, err := g.Check(ctx, sessionID)
			if err != nil {
				// Storage hiccup; keep the watcher alive and retry next tick.
				g.logger.Warn("periodic session check failed", zap.String("session_id", sessionID), zap.Error(err))
				continue
			}
			if !sess.Authenticated() {
				g.removeWatcher(sessionID)
				return
			}
		}
	}
}

func (g *Guard) removeWatcher(sessionID string) {
	g.mu.Lock()
	cancel, ok := g.watchers[sessionID]
	if ok {
		delete(g.watchers, sessionID)
	}
	g.mu.Unlock()
	if ok {
		cancel()
	}
}
