package autoplay

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/raitonoberu/ytmusic"
)

// YTMusic searches YouTube Music tracks. The client library is not context
// aware, so the call runs in a goroutine and is abandoned on ctx expiry.
type YTMusic struct{}

func (YTMusic) Search(ctx context.Context, query string) ([]track.Track, error) {
	type result struct {
		tracks []track.Track
		err    error
	}
	ch := make(chan result, 1)

	go func() {
		res, err := ytmusic.TrackSearch(query).Next()
		if err != nil {
			ch <- result{err: errors.Wrapf(err, "ytmusic search %q", query)}
			return
		}
		out := make([]track.Track, 0, len(res.Tracks))
		for _, v := range res.Tracks {
			if v.VideoID == "" {
				continue
			}
			t := track.Track{
				Identifier: v.VideoID,
				Title:      v.Title,
				URI:        "https://music.youtube.com/watch?v=" + v.VideoID,
				Length:     time.Duration(v.Duration) * time.Second,
				Source:     "youtube",
				Seekable:   v.Duration > 0,
			}
			if len(v.Artists) > 0 {
				t.Author = v.Artists[0].Name
			}
			if n := len(v.Thumbnails); n > 0 {
				t.Artwork = v.Thumbnails[n-1].URL
			}
			out = append(out, t)
		}
		ch <- result{tracks: out}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.tracks, r.err
	}
}
