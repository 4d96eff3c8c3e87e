package credstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/historisense/portal/internal/domain"
)

func museumCredential() domain.Credential {
	return domain.Credential{
		Token:   "a.b.c",
		Profile: domain.Profile{Name: "Jane", Role: domain.RoleMuseum},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	cred := museumCredential()

	require.NoError(t, store.Save(ctx, "sess-1", cred, time.Hour))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, cred, loaded)
}

func TestLoadAbsentSession(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestClearIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "sess-1", museumCredential(), time.Hour))

	require.NoError(t, store.Clear(ctx, "sess-1"))
	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNoCredential)

	// Double clear must stay a safe no-op.
	require.NoError(t, store.Clear(ctx, "sess-1"))
	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestLoadAfterTTL(t *testing.T) {
	store := NewMemoryStore()
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", museumCredential(), time.Minute))

	now = now.Add(2 * time.Minute)
	_, err := store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "sess-1", museumCredential(), time.Hour))

	other := domain.Credential{Token: "x.y.z", Profile: domain.Profile{Name: "Avi", Role: domain.RoleIndividual}}
	require.NoError(t, store.Save(ctx, "sess-2", other, time.Hour))

	require.NoError(t, store.Clear(ctx, "sess-1"))
	loaded, err := store.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, other, loaded)
}
