package lavalink

import (
	"time"

	"github.com/keshon/jukebox/internal/music/track"
)

// Load result types returned by /v4/loadtracks.
const (
	LoadTrack    = "track"
	LoadPlaylist = "playlist"
	LoadSearch   = "search"
	LoadEmpty    = "empty"
	LoadError    = "error"
)

// Track end reasons.
const (
	EndFinished   = "finished"
	EndLoadFailed = "loadFailed"
	EndStopped    = "stopped"
	EndReplaced   = "replaced"
	EndCleanup    = "cleanup"
)

// TrackInfo is the metadata part of a Lavalink track.
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	ISRC       string `json:"isrc"`
	SourceName string `json:"sourceName"`
}

// Track is a playable item as the node encodes it.
type Track struct {
	Encoded string    `json:"encoded"`
	Info    TrackInfo `json:"info"`
}

// Exception is the node's error report.
type Exception struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

// LoadResult is the decoded /v4/loadtracks response. Only the slice that
// matches LoadType is filled.
type LoadResult struct {
	LoadType     string
	Tracks       []Track
	PlaylistName string
	Exception    *Exception
}

// PlayerState is carried by playerUpdate messages.
type PlayerState struct {
	Time      int64 `json:"time"`
	Position  int64 `json:"position"`
	Connected bool  `json:"connected"`
	Ping      int64 `json:"ping"`
}

// Event is a websocket "event" op.
type Event struct {
	Type      string     `json:"type"`
	GuildID   string     `json:"guildId"`
	Track     *Track     `json:"track,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Exception *Exception `json:"exception,omitempty"`
	Threshold int64      `json:"thresholdMs,omitempty"`
	Code      int        `json:"code,omitempty"`
	ByRemote  bool       `json:"byRemote,omitempty"`
}

// message is any frame received over the websocket.
type message struct {
	Op        string       `json:"op"`
	SessionID string       `json:"sessionId"`
	Resumed   bool         `json:"resumed"`
	State     *PlayerState `json:"state"`
	Event
}

// VoiceState is what the node needs to join the Discord voice server.
type VoiceState struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
	ChannelID string `json:"channelId,omitempty"`
}

// PlayerUpdate is the PATCH body for a player. Nil fields are left as is.
type PlayerUpdate struct {
	Track    *TrackUpdate `json:"track,omitempty"`
	Position *int64       `json:"position,omitempty"`
	Paused   *bool        `json:"paused,omitempty"`
	Volume   *int         `json:"volume,omitempty"`
	Voice    *VoiceState  `json:"voice,omitempty"`
}

// TrackUpdate selects the track to play. A nil Encoded stops playback.
type TrackUpdate struct {
	Encoded *string `json:"encoded"`
}

// ToTrack converts a node track into the playback model.
func (t Track) ToTrack() track.Track {
	out := track.Track{
		Encoded:    t.Encoded,
		Identifier: t.Info.Identifier,
		Title:      t.Info.Title,
		Author:     t.Info.Author,
		URI:        t.Info.URI,
		Artwork:    t.Info.ArtworkURL,
		Source:     t.Info.SourceName,
		Seekable:   t.Info.IsSeekable,
	}
	if !t.Info.IsStream {
		out.Length = time.Duration(t.Info.Length) * time.Millisecond
	}
	return out
}

func ptr[T any](v T) *T { return &v }
