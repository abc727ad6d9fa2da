// Package track holds the resolved, playable media reference shared by the
// playback core and its adapters.
package track

import (
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Requester is the member who asked for a track.
type Requester struct {
	ID        snowflake.ID
	Name      string
	Tag       string
	AvatarURL string
}

// Display renders the requester as "name #tag", or just the name when the
// account has no discriminator.
func (r Requester) Display() string {
	if r.Name == "" {
		return "Unknown"
	}
	if r.Tag == "" || r.Tag == "0" {
		return r.Name
	}
	return r.Name + " #" + r.Tag
}

// Track is immutable once resolved. Slots in the playback state hold copies.
type Track struct {
	// Encoded is the Lavalink track blob. Empty for tracks that still need to
	// be loaded from URI (autoplay and fallback search results).
	Encoded    string
	Identifier string
	Title      string
	Author     string
	URI        string
	Artwork    string
	Source     string
	Length     time.Duration
	Seekable   bool

	Requester     Requester
	Autocorrected bool
	Autoplay      bool
}

// IsLive reports whether the track has no known length.
func (t Track) IsLive() bool {
	return t.Length <= 0
}

// FormatLength renders the track length as m:ss, or "🔴 Live" when the
// length is unknown.
func (t Track) FormatLength() string {
	if t.IsLive() {
		return "🔴 Live"
	}
	return FormatDuration(t.Length)
}

// FormatDuration renders d as total minutes and seconds, so 75 minutes
// reads "75:03".
func FormatDuration(d time.Duration) string {
	total := max(int(d/time.Second), 0)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Link renders the track as a markdown link when it has a URI.
func (t Track) Link() string {
	if t.URI == "" {
		return t.Title
	}
	return fmt.Sprintf("[%s](%s)", t.Title, t.URI)
}

// ArtistOrDefault returns the author, or "Unknown Artist".
func (t Track) ArtistOrDefault() string {
	if t.Author == "" {
		return "Unknown Artist"
	}
	return t.Author
}

// Ptr returns a pointer to a copy of t.
func (t Track) Ptr() *Track {
	return &t
}
