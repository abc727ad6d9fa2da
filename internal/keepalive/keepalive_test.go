package keepalive

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probe struct {
	sessions int
	ready    bool
}

func (p probe) ActiveSessions() int { return p.sessions }
func (p probe) BackendReady() bool  { return p.ready }

func TestRoot(t *testing.T) {
	s := New(":0", probe{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bot is running", rec.Body.String())
}

func TestStatus(t *testing.T) {
	s := New(":0", probe{sessions: 3, ready: true})
	s.started = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return s.started.Add(2 * time.Hour) }

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status         string `json:"status"`
		ActiveSessions int    `json:"active_sessions"`
		LavalinkReady  bool   `json:"lavalink_ready"`
		Uptime         string `json:"uptime"`
		UptimeSeconds  int64  `json:"uptime_seconds"`
		StartedAt      string `json:"started_at"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 3, body.ActiveSessions)
	assert.True(t, body.LavalinkReady)
	assert.Equal(t, "2 hours", body.Uptime)
	assert.EqualValues(t, 7200, body.UptimeSeconds)
	assert.Equal(t, "2026-01-01T12:00:00Z", body.StartedAt)
}

func TestUnknownRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	New(":0", probe{}).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
