package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/historisense/portal/internal/auth"
	"github.com/historisense/portal/internal/credstore"
	"github.com/historisense/portal/internal/domain"
	"github.com/historisense/portal/internal/events"
	"github.com/historisense/portal/internal/observability"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) byType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func tokenWithExp(t *testing.T, exp int64) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(map[string]any{"exp": exp})
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

func newTestGuard(t *testing.T, now time.Time, interval time.Duration) (*Guard, *credstore.MemoryStore, *eventRecorder) {
	t.Helper()
	store := credstore.NewMemoryStore()
	recorder := &eventRecorder{}
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventSessionExpired, recorder.record)
	dispatcher.Subscribe(events.EventCredentialRejected, recorder.record)
	dispatcher.Subscribe(events.EventLoggedOut, recorder.record)

	guard := NewGuard(GuardDependencies{
		Store:      store,
		Validator:  auth.NewValidatorAt(func() time.Time { return now }),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Metrics:    observability.NewMetrics(),
	}, interval)
	return guard, store, recorder
}

func saveCredential(t *testing.T, store credstore.Store, sessionID, token string) {
	t.Helper()
	cred := domain.Credential{
		Token:   token,
		Profile: domain.Profile{Name: "Jane", Role: domain.RoleMuseum},
	}
	require.NoError(t, store.Save(context.Background(), sessionID, cred, time.Hour))
}

func TestCheckAnonymousWithoutCredential(t *testing.T) {
	guard, _, _ := newTestGuard(t, time.Unix(1_700_000_000, 0), time.Minute)

	sess, err := guard.Check(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAnonymous, sess.State)
}

func TestCheckAuthenticatedWithLiveToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	guard, store, _ := newTestGuard(t, now, time.Minute)
	saveCredential(t, store, "sess-1", tokenWithExp(t, now.Unix()+3600))

	sess, err := guard.Check(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAuthenticated, sess.State)
	assert.Equal(t, domain.RoleMuseum, sess.Role())
	assert.Equal(t, "Jane", sess.Profile.Name)
}

func TestCheckExpiredClearsAndReports(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	guard, store, recorder := newTestGuard(t, now, time.Minute)
	// Expired one second before the first check; the screen that mounts first
	// does not matter, the result is the same clear + expired verdict.
	saveCredential(t, store, "sess-1", tokenWithExp(t, now.Unix()-1))

	sess, err := guard.Check(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionExpired, sess.State)

	_, loadErr := store.Load(context.Background(), "sess-1")
	assert.ErrorIs(t, loadErr, credstore.ErrNoCredential)
	assert.Len(t, recorder.byType(events.EventSessionExpired), 1)

	// Any later check sees the cleared store, never the stale credential.
	sess, err = guard.Check(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAnonymous, sess.State)
}

func TestInvalidateIsIdempotent(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	guard, store, recorder := newTestGuard(t, now, time.Minute)
	saveCredential(t, store, "sess-1", tokenWithExp(t, now.Unix()+3600))

	ctx := context.Background()
	guard.Invalidate(ctx, "sess-1", events.EventCredentialRejected, "backend rejected token")
	guard.Invalidate(ctx, "sess-1", events.EventCredentialRejected, "backend rejected token")

	// The second call found nothing to clear and emitted nothing.
	assert.Len(t, recorder.byType(events.EventCredentialRejected), 1)
}

func TestConcurrentWatchersOverClearedCredential(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	guard, store, recorder := newTestGuard(t, now, 10*time.Millisecond)
	saveCredential(t, store, "sess-1", tokenWithExp(t, now.Unix()-1))

	// Two screens mounted against the same session: both watchers fire, one
	// clears, the other must be a safe no-op.
	guard.StartWatcher("sess-1")
	otherGuard := guard // same store, same session
	otherGuard.StartWatcher("sess-1")

	assert.Eventually(t, func() bool {
		_, err := store.Load(context.Background(), "sess-1")
		return err != nil
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Len(t, recorder.byType(events.EventSessionExpired), 1)
	guard.Shutdown()
}

func TestWatcherStopsAfterExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	guard, store, _ := newTestGuard(t, now, 10*time.Millisecond)
	saveCredential(t, store, "sess-1", tokenWithExp(t, now.Unix()-1))

	guard.StartWatcher("sess-1")

	assert.Eventually(t, func() bool {
		guard.mu.Lock()
		defer guard.mu.Unlock()
		_, running := guard.watchers["sess-1"]
		return !running
	}, time.Second, 5*time.Millisecond)
}

func TestStopWatcherTeardownDoubleCheck(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	guard, store, _ := newTestGuard(t, now, time.Hour)
	// The token expires while the watcher sleeps between (long) ticks; the
	// teardown path still notices and clears it.
	saveCredential(t, store, "sess-1", tokenWithExp(t, now.Unix()-1))

	guard.StartWatcher("sess-1")
	guard.StopWatcher("sess-1")

	assert.Eventually(t, func() bool {
		_, err := store.Load(context.Background(), "sess-1")
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func TestStopWatcherWithoutStart(t *testing.T) {
	guard, _, _ := newTestGuard(t, time.Unix(1_700_000_000, 0), time.Minute)
	assert.NotPanics(t, func() { guard.StopWatcher("never-started") })
}
