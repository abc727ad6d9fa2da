package resolver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ppalone/ytsearch"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// YouTube is a scraping search used when the node returns nothing.
type YouTube struct {
	client *ytsearch.Client
}

func NewYouTube() *YouTube {
	return &YouTube{client: ytsearch.NewClient(nil)}
}

func (y *YouTube) Search(ctx context.Context, query string) ([]Hit, error) {
	res, err := y.client.Search(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "youtube search")
	}
	hits := make([]Hit, 0, len(res.Results))
	for _, v := range res.Results {
		if v.VideoID == "" {
			continue
		}
		hits = append(hits, Hit{URL: "https://www.youtube.com/watch?v=" + v.VideoID, Title: v.Title})
	}
	return hits, nil
}

// Spotify reads public playlists with app credentials.
type Spotify struct {
	client *spotify.Client
}

// NewSpotify authenticates with the client-credentials flow. The token is
// fetched lazily and refreshed by the oauth2 transport.
func NewSpotify(clientID, clientSecret string) *Spotify {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return &Spotify{client: spotify.New(cfg.Client(context.Background()))}
}

func (s *Spotify) PlaylistQueries(ctx context.Context, playlistID string, limit int) ([]string, error) {
	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(playlistID), spotify.Limit(limit))
	if err != nil {
		return nil, errors.Wrap(err, "get playlist items")
	}

	out := make([]string, 0, len(page.Items))
	for _, it := range page.Items {
		ft := it.Track.Track
		if ft == nil {
			continue
		}
		q := ft.Name
		if len(ft.Artists) > 0 {
			q += " " + ft.Artists[0].Name
		}
		out = append(out, q)
	}
	return out, nil
}
