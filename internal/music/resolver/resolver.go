// Package resolver turns what a user typed into playable tracks.
package resolver

import (
	"context"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/keshon/jukebox/internal/lavalink"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/keshon/jukebox/pkg/util"
	"github.com/rs/zerolog/log"
)

// DefaultPlaylistCap bounds how many tracks one request may add.
const DefaultPlaylistCap = 50

// Loader is the node's track loading endpoint.
type Loader interface {
	LoadTracks(ctx context.Context, identifier string) (lavalink.LoadResult, error)
}

// Hit is a fallback search result.
type Hit struct {
	URL   string
	Title string
}

// Fallback searches when the node finds nothing for free text.
type Fallback interface {
	Search(ctx context.Context, query string) ([]Hit, error)
}

// PlaylistSource lists search queries ("title artist") for a playlist.
type PlaylistSource interface {
	PlaylistQueries(ctx context.Context, playlistID string, limit int) ([]string, error)
}

type Resolver struct {
	loader    Loader
	fallback  Fallback
	playlists PlaylistSource
	cap       int
	workers   int
}

type Option func(*Resolver)

func WithFallback(f Fallback) Option { return func(r *Resolver) { r.fallback = f } }

// WithSpotify enables open.spotify.com playlist links.
func WithSpotify(p PlaylistSource) Option { return func(r *Resolver) { r.playlists = p } }

func WithPlaylistCap(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.cap = n
		}
	}
}

func New(loader Loader, opts ...Option) *Resolver {
	r := &Resolver{loader: loader, cap: DefaultPlaylistCap, workers: 4}
	for _, o := range opts {
		o(r)
	}
	return r
}

var spotifyPlaylistRe = regexp.MustCompile(`open\.spotify\.com/(?:intl-[a-z]+/)?playlist/([A-Za-z0-9]+)`)

// Resolve returns the tracks for query, each carrying requester. An empty
// result with a nil error means nothing matched.
func (r *Resolver) Resolve(ctx context.Context, query string, requester track.Requester) ([]track.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var (
		out []track.Track
		err error
	)
	if m := spotifyPlaylistRe.FindStringSubmatch(query); m != nil && r.playlists != nil {
		out, err = r.spotifyPlaylist(ctx, m[1])
	} else if isURL(query) {
		out, err = r.load(ctx, query)
	} else {
		out, err = r.search(ctx, query)
	}
	if err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Requester = requester
	}
	return out, nil
}

func (r *Resolver) load(ctx context.Context, identifier string) ([]track.Track, error) {
	res, err := r.loader.LoadTracks(ctx, identifier)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "load tracks"), musicerr.ExternalLookup)
	}
	if res.LoadType == lavalink.LoadError && res.Exception != nil {
		return nil, errors.Mark(errors.Newf("load %q: %s", identifier, res.Exception.Message), musicerr.ExternalLookup)
	}

	tracks := res.Tracks
	if len(tracks) > r.cap {
		tracks = tracks[:r.cap]
	}
	out := make([]track.Track, 0, len(tracks))
	for _, t := range tracks {
		out = append(out, t.ToTrack())
	}
	return out, nil
}

// first returns the best match for free text on the node.
func (r *Resolver) first(ctx context.Context, query string) (track.Track, bool, error) {
	ts, err := r.load(ctx, "ytsearch:"+query)
	if err != nil || len(ts) == 0 {
		return track.Track{}, false, err
	}
	return ts[0], true, nil
}

func (r *Resolver) search(ctx context.Context, query string) ([]track.Track, error) {
	t, ok, err := r.first(ctx, query)
	if ok {
		return []track.Track{t}, nil
	}
	if r.fallback == nil {
		return nil, err
	}
	if err != nil {
		log.Debug().Str("component", "resolver").Err(err).Str("query", query).Msg("node search failed, trying fallback")
	}

	hits, ferr := r.fallback.Search(ctx, query)
	if ferr != nil {
		return nil, errors.Mark(errors.Wrap(ferr, "fallback search"), musicerr.ExternalLookup)
	}
	for _, h := range hits {
		ts, lerr := r.load(ctx, h.URL)
		if lerr != nil || len(ts) == 0 {
			continue
		}
		t := ts[0]
		t.Autocorrected = true
		return []track.Track{t}, nil
	}
	return nil, nil
}

func (r *Resolver) spotifyPlaylist(ctx context.Context, id string) ([]track.Track, error) {
	queries, err := r.playlists.PlaylistQueries(ctx, id, r.cap)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "spotify playlist"), musicerr.ExternalLookup)
	}
	if len(queries) > r.cap {
		queries = queries[:r.cap]
	}

	found := make([]*track.Track, len(queries))
	err = util.Parallel(ctx, queries, r.workers, func(ctx context.Context, i int, q string) error {
		t, ok, err := r.first(ctx, q)
		if err != nil {
			log.Debug().Str("component", "resolver").Err(err).Str("query", q).Msg("playlist item skipped")
		}
		if ok {
			found[i] = t.Ptr()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]track.Track, 0, len(found))
	for _, t := range found {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
