package autoplay

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results map[string][]track.Track
	errs    map[string]error
	block   bool
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, q string) ([]track.Track, error) {
	f.queries = append(f.queries, q)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := f.errs[q]; err != nil {
		return nil, err
	}
	return f.results[q], nil
}

func titles(ts ...string) []track.Track {
	out := make([]track.Track, len(ts))
	for i, t := range ts {
		out[i] = track.Track{Title: t, Identifier: t}
	}
	return out
}

func seed() *track.Track {
	return &track.Track{Title: "Blue", Author: "Eiffel 65"}
}

func TestNilSeed(t *testing.T) {
	f := &fakeSearcher{}
	_, ok := New(f).Next(context.Background(), nil)
	assert.False(t, ok)
	assert.Empty(t, f.queries)
}

func TestNeverRepeatsSeedTitle(t *testing.T) {
	f := &fakeSearcher{results: map[string][]track.Track{
		"Blue Eiffel 65": titles("blue", "BLUE ", "Move Your Body", "Blue"),
	}}
	r := New(f, WithRand(rand.New(rand.NewPCG(1, 1))))

	for i := 0; i < 50; i++ {
		got, ok := r.Next(context.Background(), seed())
		require.True(t, ok)
		assert.Equal(t, "Move Your Body", got.Title)
		assert.True(t, got.Autoplay)
	}
}

func TestOnlySeedTitleFallsBackToUnfiltered(t *testing.T) {
	f := &fakeSearcher{results: map[string][]track.Track{
		"Blue Eiffel 65": titles("Blue"),
	}}
	got, ok := New(f).Next(context.Background(), seed())
	require.True(t, ok)
	assert.Equal(t, "Blue", got.Title)
}

func TestPicksWithinTopK(t *testing.T) {
	f := &fakeSearcher{results: map[string][]track.Track{
		"Blue Eiffel 65": titles("a", "b", "c", "d", "e", "f", "g"),
	}}
	r := New(f, WithTopK(3), WithRand(rand.New(rand.NewPCG(7, 7))))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, ok := r.Next(context.Background(), seed())
		require.True(t, ok)
		seen[got.Title] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, seen)
}

func TestArtistFallback(t *testing.T) {
	f := &fakeSearcher{
		results: map[string][]track.Track{"Eiffel 65": titles("Too Much of Heaven")},
		errs:    map[string]error{"Blue Eiffel 65": errors.New("quota")},
	}
	got, ok := New(f).Next(context.Background(), seed())
	require.True(t, ok)
	assert.Equal(t, "Too Much of Heaven", got.Title)
	assert.Equal(t, []string{"Blue Eiffel 65", "Eiffel 65"}, f.queries)
}

func TestBothAttemptsEmpty(t *testing.T) {
	f := &fakeSearcher{}
	_, ok := New(f).Next(context.Background(), seed())
	assert.False(t, ok)
	assert.Len(t, f.queries, 2)
}

func TestNoAuthorMeansSingleAttempt(t *testing.T) {
	f := &fakeSearcher{}
	_, ok := New(f).Next(context.Background(), &track.Track{Title: "Blue"})
	assert.False(t, ok)
	assert.Equal(t, []string{"Blue"}, f.queries)
}

func TestAttemptsAreBounded(t *testing.T) {
	f := &fakeSearcher{block: true}
	r := New(f, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, ok := r.Next(context.Background(), seed())
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}
