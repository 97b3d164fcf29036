package inline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeReturnsSlots(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"slots":[{"time":"18:00","available":true},{"time":"18:30","available":true}]}`))
	}))
	defer srv.Close()

	c := New()
	c.BaseURL = srv.URL

	slots, err := c.Probe(context.Background(), "C1", "B1", "2025-01-01", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"18:00", "18:30"}, slots)

	assert.Equal(t, "/api/companies/C1/branches/B1/capacities", gotPath)
	assert.Contains(t, gotQuery, "date=2025-01-01")
	assert.Contains(t, gotQuery, "partySize=2")
	assert.Contains(t, gotUA, "Mozilla/5.0")
}

func TestProbeNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New()
	c.BaseURL = srv.URL

	slots, err := c.Probe(context.Background(), "C1", "B1", "2025-01-01", 2)
	assert.Error(t, err)
	assert.Empty(t, slots)
}

func TestProbeUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New()
	c.BaseURL = srv.URL

	slots, err := c.Probe(context.Background(), "C1", "B1", "2025-01-01", 2)
	assert.Error(t, err)
	assert.Empty(t, slots)
}

func TestProbeGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<!doctype html><html>not json</html>"))
	}))
	defer srv.Close()

	c := New()
	c.BaseURL = srv.URL

	// A 200 with an unparseable body is "no slot", not a hard failure.
	slots, err := c.Probe(context.Background(), "C1", "B1", "2025-01-01", 2)
	assert.NoError(t, err)
	assert.Empty(t, slots)
}
