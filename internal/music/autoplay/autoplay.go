// Package autoplay picks a track similar to a seed when the queue runs dry.
package autoplay

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/keshon/jukebox/internal/music/track"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTopK    = 5
	DefaultTimeout = 8 * time.Second
)

// Searcher runs one external search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]track.Track, error)
}

// Resolver turns a seed into a candidate.
type Resolver struct {
	searcher Searcher
	topK     int
	timeout  time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Resolver)

// WithTopK sets how many leading results the pick is drawn from.
func WithTopK(k int) Option {
	return func(r *Resolver) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithTimeout bounds each search attempt.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRand makes picks deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(r *Resolver) { r.rng = rng }
}

func New(s Searcher, opts ...Option) *Resolver {
	r := &Resolver{
		searcher: s,
		topK:     DefaultTopK,
		timeout:  DefaultTimeout,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Next returns a candidate for seed. It searches "title author" first and
// falls back to the author alone. Failures count as empty results.
func (r *Resolver) Next(ctx context.Context, seed *track.Track) (track.Track, bool) {
	if seed == nil {
		return track.Track{}, false
	}

	queries := []string{strings.TrimSpace(seed.Title + " " + seed.Author)}
	if a := strings.TrimSpace(seed.Author); a != "" {
		queries = append(queries, a)
	}

	for _, q := range queries {
		if q == "" {
			continue
		}
		results := r.search(ctx, q)
		if len(results) == 0 {
			continue
		}
		pick := r.pick(filterSeed(results, seed.Title))
		pick.Autoplay = true
		pick.Autocorrected = false
		return pick, true
	}
	return track.Track{}, false
}

func (r *Resolver) search(ctx context.Context, q string) []track.Track {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results, err := r.searcher.Search(ctx, q)
	if err != nil {
		log.Warn().Str("component", "autoplay").Err(err).Str("query", q).Msg("search failed")
		return nil
	}
	return results
}

func (r *Resolver) pick(results []track.Track) track.Track {
	if len(results) > r.topK {
		results = results[:r.topK]
	}
	r.mu.Lock()
	i := r.rng.IntN(len(results))
	r.mu.Unlock()
	return results[i]
}

// filterSeed drops results titled like the seed. When that would leave
// nothing, the unfiltered list is returned.
func filterSeed(results []track.Track, title string) []track.Track {
	out := make([]track.Track, 0, len(results))
	for _, t := range results {
		if !strings.EqualFold(strings.TrimSpace(t.Title), strings.TrimSpace(title)) {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return results
	}
	return out
}
