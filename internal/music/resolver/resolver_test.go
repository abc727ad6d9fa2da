package resolver

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/keshon/jukebox/internal/lavalink"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	mu      sync.Mutex
	results map[string]lavalink.LoadResult
	asked   []string
}

func (l *fakeLoader) LoadTracks(_ context.Context, id string) (lavalink.LoadResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.asked = append(l.asked, id)
	if id == "ytsearch:explode" {
		return lavalink.LoadResult{}, errors.New("connection refused")
	}
	if res, ok := l.results[id]; ok {
		return res, nil
	}
	return lavalink.LoadResult{LoadType: lavalink.LoadEmpty}, nil
}

func lt(title string) lavalink.Track {
	return lavalink.Track{Encoded: "enc-" + title, Info: lavalink.TrackInfo{Title: title, Length: 1000}}
}

func found(ts ...lavalink.Track) lavalink.LoadResult {
	return lavalink.LoadResult{LoadType: lavalink.LoadSearch, Tracks: ts}
}

type fakeFallback []Hit

func (f fakeFallback) Search(context.Context, string) ([]Hit, error) { return f, nil }

type fakePlaylists []string

func (p fakePlaylists) PlaylistQueries(_ context.Context, id string, limit int) ([]string, error) {
	if id != "37i9dQZF1DX" {
		return nil, errors.New("unknown playlist")
	}
	return p, nil
}

var bob = track.Requester{ID: 5, Name: "bob"}

func titles(ts []track.Track) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Title)
	}
	return out
}

func TestResolveSearchTakesFirstHit(t *testing.T) {
	l := &fakeLoader{results: map[string]lavalink.LoadResult{
		"ytsearch:blue eiffel": found(lt("Blue"), lt("Blue (Live)")),
	}}
	ts, err := New(l).Resolve(context.Background(), "  blue eiffel ", bob)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "Blue", ts[0].Title)
	assert.Equal(t, "bob", ts[0].Requester.Name)
	assert.False(t, ts[0].Autocorrected)
}

func TestResolveURLPlaylistIsCapped(t *testing.T) {
	var tracks []lavalink.Track
	for i := range 60 {
		tracks = append(tracks, lt(fmt.Sprint(i)))
	}
	url := "https://www.youtube.com/playlist?list=PL1"
	l := &fakeLoader{results: map[string]lavalink.LoadResult{
		url: {LoadType: lavalink.LoadPlaylist, PlaylistName: "big", Tracks: tracks},
	}}

	ts, err := New(l).Resolve(context.Background(), url, bob)
	require.NoError(t, err)
	assert.Len(t, ts, DefaultPlaylistCap)

	ts, err = New(l, WithPlaylistCap(5)).Resolve(context.Background(), url, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, titles(ts))
}

func TestResolveFallbackAutocorrects(t *testing.T) {
	l := &fakeLoader{results: map[string]lavalink.LoadResult{
		"https://www.youtube.com/watch?v=good": {LoadType: lavalink.LoadTrack, Tracks: []lavalink.Track{lt("Blue")}},
	}}
	fb := fakeFallback{
		{URL: "https://www.youtube.com/watch?v=gone"},
		{URL: "https://www.youtube.com/watch?v=good", Title: "Blue"},
	}

	ts, err := New(l, WithFallback(fb)).Resolve(context.Background(), "bleu eifel", bob)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "Blue", ts[0].Title)
	assert.True(t, ts[0].Autocorrected)
	assert.Equal(t, []string{
		"ytsearch:bleu eifel",
		"https://www.youtube.com/watch?v=gone",
		"https://www.youtube.com/watch?v=good",
	}, l.asked)
}

func TestResolveNothing(t *testing.T) {
	ts, err := New(&fakeLoader{}).Resolve(context.Background(), "zzzz", bob)
	require.NoError(t, err)
	assert.Empty(t, ts)

	ts, err = New(&fakeLoader{}).Resolve(context.Background(), "   ", bob)
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestResolveErrors(t *testing.T) {
	_, err := New(&fakeLoader{}).Resolve(context.Background(), "explode", bob)
	require.Error(t, err)
	assert.True(t, errors.Is(err, musicerr.ExternalLookup))

	l := &fakeLoader{results: map[string]lavalink.LoadResult{
		"https://x.test/a": {LoadType: lavalink.LoadError, Exception: &lavalink.Exception{Message: "blocked"}},
	}}
	_, err = New(l).Resolve(context.Background(), "https://x.test/a", bob)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestResolveSpotifyPlaylist(t *testing.T) {
	l := &fakeLoader{results: map[string]lavalink.LoadResult{
		"ytsearch:Blue Eiffel 65":          found(lt("Blue")),
		"ytsearch:Sandstorm Darude":        found(lt("Sandstorm")),
		"ytsearch:Around the World Daft P": found(lt("Around the World")),
	}}
	pl := fakePlaylists{"Blue Eiffel 65", "Missing Nobody", "Sandstorm Darude", "Around the World Daft P"}
	r := New(l, WithSpotify(pl))

	ts, err := r.Resolve(context.Background(), "https://open.spotify.com/playlist/37i9dQZF1DX?si=abc", bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue", "Sandstorm", "Around the World"}, titles(ts))
	for _, tr := range ts {
		assert.Equal(t, bob, tr.Requester)
	}

	_, err = r.Resolve(context.Background(), "https://open.spotify.com/intl-de/playlist/nope", bob)
	assert.True(t, errors.Is(err, musicerr.ExternalLookup))
}
