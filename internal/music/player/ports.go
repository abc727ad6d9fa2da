package player

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/lyrics"
	"github.com/keshon/jukebox/internal/music/panel"
	"github.com/keshon/jukebox/internal/music/state"
	"github.com/keshon/jukebox/internal/music/track"
)

// Status is the audio backend's view of one guild.
type Status struct {
	Connected bool
	ChannelID snowflake.ID
	// Active is set while a track is loaded, paused or not.
	Active bool
	Paused bool
	Volume int
}

// Backend is the audio node that plays tracks into a voice channel.
type Backend interface {
	Ready() bool
	Connect(ctx context.Context, guildID, channelID snowflake.ID) error
	Disconnect(ctx context.Context, guildID snowflake.ID, force bool) error
	// Play replaces whatever is loaded with t and returns the encoded blob
	// now playing, which later end events carry.
	Play(ctx context.Context, guildID snowflake.ID, t track.Track) (string, error)
	Pause(ctx context.Context, guildID snowflake.ID, paused bool) error
	Stop(ctx context.Context, guildID snowflake.ID) error
	Seek(ctx context.Context, guildID snowflake.ID, pos time.Duration) error
	SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error
	Status(guildID snowflake.ID) Status
}

// Resolver turns a query or URL into playable tracks.
type Resolver interface {
	Resolve(ctx context.Context, query string, requester track.Requester) ([]track.Track, error)
}

// Autoplayer proposes the next track for a seed.
type Autoplayer interface {
	Next(ctx context.Context, seed *track.Track) (track.Track, bool)
}

// Lyrics looks up song text.
type Lyrics interface {
	Lookup(ctx context.Context, title, author string) (lyrics.Result, bool)
}

// Surface hosts the control panel message. Edit returns musicerr.ErrPanelGone
// when the message no longer exists.
type Surface interface {
	Send(ctx context.Context, channelID snowflake.ID, p panel.Payload) (state.PanelRef, error)
	Edit(ctx context.Context, ref state.PanelRef, p panel.Payload) error
}

// Actor is the member issuing an action.
type Actor struct {
	track.Requester
	// VoiceChannelID is where the actor is connected, zero when not in voice.
	VoiceChannelID snowflake.ID
}
