package lyrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Blue (Da Ba Dee)", "Blue (Da Ba Dee)"},
		{"Blue (Official Video)", "Blue"},
		{"Around the World [Official Audio]", "Around the World"},
		{"Song (Lyrics) (HD)", "Song"},
		{"Track (2011 Remastered Version)", "Track"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanTitle(tt.in), tt.in)
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", Clip("abc", 5))
	assert.Equal(t, "abcd…", Clip("abcdefgh", 5))
	assert.Len(t, []rune(Clip(strings.Repeat("é", 5000), MaxLength)), MaxLength)
}

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestLookupGet(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "Blue", r.URL.Query().Get("track_name"))
		assert.Equal(t, "Eiffel 65", r.URL.Query().Get("artist_name"))
		_ = json.NewEncoder(w).Encode(entry{TrackName: "Blue", ArtistName: "Eiffel 65", PlainLyrics: "yo listen up"})
	})

	res, ok := c.Lookup(context.Background(), "Blue (Official Video)", "Eiffel 65")
	require.True(t, ok)
	assert.Equal(t, "Blue", res.Title)
	assert.Equal(t, "yo listen up", res.Text)
}

func TestLookupFallsBackToSearch(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get":
			http.NotFound(w, r)
		case "/search":
			assert.Equal(t, "Blue Eiffel 65", r.URL.Query().Get("q"))
			_ = json.NewEncoder(w).Encode([]entry{
				{TrackName: "empty"},
				{TrackName: "Blue", SyncedLyrics: "[00:01.00] yo\n[00:02.50] listen"},
			})
		}
	})

	res, ok := c.Lookup(context.Background(), "Blue", "Eiffel 65")
	require.True(t, ok)
	assert.Equal(t, "yo\nlisten", res.Text)
}

func TestLookupFailureIsNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, ok := c.Lookup(context.Background(), "Blue", "Eiffel 65")
	assert.False(t, ok)

	_, ok = New("http://127.0.0.1:1").Lookup(context.Background(), "Blue", "")
	assert.False(t, ok)

	_, ok = c.Lookup(context.Background(), "", "x")
	assert.False(t, ok)
}
