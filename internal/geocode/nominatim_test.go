package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/historisense/portal/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, UserAgent: "historisense-portal/test"}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestResolveUsesFirstCandidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "Warsaw", r.URL.Query().Get("q"))
		assert.Equal(t, "historisense-portal/test", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"lat": "52.2297", "lon": "21.0122"},
			{"lat": "0", "lon": "0"},
		})
	})

	lat, lon, err := client.Resolve(context.Background(), "Warsaw")
	require.NoError(t, err)
	assert.InDelta(t, 52.2297, lat, 1e-9)
	assert.InDelta(t, 21.0122, lon, 1e-9)
}

func TestResolveNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	_, _, err := client.Resolve(context.Background(), "Atlantis")
	assert.Error(t, err)
}

func TestResolveAllSkipsFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "Warsaw":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"lat": "52.2297", "lon": "21.0122"}})
		case "Lodz":
			_ = json.NewEncoder(w).Encode([]map[string]string{{"lat": "51.7592", "lon": "19.4560"}})
		default:
			_, _ = w.Write([]byte("[]"))
		}
	})

	locations := map[string]domain.LocationDetail{
		"Warsaw":   {Count: 3, Description: "childhood home"},
		"Lodz":     {Count: 2},
		"Atlantis": {Count: 1},
	}

	geocoded := client.ResolveAll(context.Background(), locations)
	require.Len(t, geocoded, 2)

	// Sorted by name for deterministic output.
	assert.Equal(t, "Lodz", geocoded[0].Name)
	assert.Equal(t, "Mentioned 2 times", geocoded[0].Description)
	assert.Equal(t, "Warsaw", geocoded[1].Name)
	assert.Equal(t, "childhood home", geocoded[1].Description)
	assert.Equal(t, 3, geocoded[1].Count)
}

func TestResolveAllEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no lookup expected for an empty location map")
	})
	assert.Empty(t, client.ResolveAll(context.Background(), nil))
}
