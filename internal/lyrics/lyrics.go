// Package lyrics looks up song text on lrclib.net.
package lyrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// ErrNotFound marks a missing lrclib entry.
var ErrNotFound = errors.New("lyrics not found")

const (
	DefaultBaseURL = "https://lrclib.net/api"
	userAgent      = "jukebox-discord-bot/1.0 (https://github.com/keshon/jukebox)"

	// MaxLength is the longest text an embed description can carry.
	MaxLength = 4096
)

// Result is a found song text.
type Result struct {
	Title  string
	Artist string
	Text   string
}

type entry struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Client is an lrclib.net API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup finds lyrics for title by author. Any failure reads as not found.
func (c *Client) Lookup(ctx context.Context, title, author string) (Result, bool) {
	title = CleanTitle(title)
	if title == "" {
		return Result{}, false
	}

	e, err := c.get(ctx, title, author)
	if errors.Is(err, ErrNotFound) {
		e, err = c.search(ctx, strings.TrimSpace(title+" "+author))
	}
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Str("component", "lyrics").Err(err).Str("title", title).Msg("lookup failed")
		}
		return Result{}, false
	}

	text := e.PlainLyrics
	if text == "" {
		text = stripTimestamps(e.SyncedLyrics)
	}
	if text == "" {
		if !e.Instrumental {
			return Result{}, false
		}
		text = "🎼 Instrumental"
	}

	return Result{Title: e.TrackName, Artist: e.ArtistName, Text: Clip(text, MaxLength)}, true
}

func (c *Client) get(ctx context.Context, title, author string) (*entry, error) {
	params := url.Values{}
	params.Set("track_name", title)
	if author != "" {
		params.Set("artist_name", author)
	}

	var e entry
	if err := c.do(ctx, "/get?"+params.Encode(), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) search(ctx context.Context, query string) (*entry, error) {
	params := url.Values{}
	params.Set("q", query)

	var results []entry
	if err := c.do(ctx, "/search?"+params.Encode(), &results); err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].PlainLyrics != "" || results[i].SyncedLyrics != "" {
			return &results[i], nil
		}
	}
	return nil, ErrNotFound
}

func (c *Client) do(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "http request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("unexpected status: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

var (
	noiseRe     = regexp.MustCompile(`(?i)\s*[\(\[][^\)\]]*(official|video|audio|lyrics?|visualizer|hd|4k|remaster(ed)?)[^\)\]]*[\)\]]`)
	timestampRe = regexp.MustCompile(`(?m)^\[\d+:\d+(\.\d+)?\]\s?`)
)

// CleanTitle strips video decorations such as "(Official Video)".
func CleanTitle(title string) string {
	return strings.TrimSpace(noiseRe.ReplaceAllString(title, ""))
}

func stripTimestamps(synced string) string {
	return strings.TrimSpace(timestampRe.ReplaceAllString(synced, ""))
}

// Clip cuts s to at most n runes, marking the cut with an ellipsis.
func Clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
