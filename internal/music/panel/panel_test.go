package panel

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/music/state"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func song() track.Track {
	return track.Track{
		Title:   "Around the World",
		Author:  "Daft Punk",
		URI:     "https://youtu.be/x",
		Artwork: "https://img/x.jpg",
		Length:  7*time.Minute + 9*time.Second,
		Requester: track.Requester{
			Name: "ayla", Tag: "0420", AvatarURL: "https://cdn/a.png",
		},
	}
}

func TestRenderIdle(t *testing.T) {
	p := Render(View{})
	assert.Equal(t, Title, p.Title)
	assert.Equal(t, IdleText, p.Description)
	assert.Equal(t, SystemAuthor, p.Author)
	assert.Empty(t, p.Fields)
	assert.Equal(t, "Autoplay: OFF • Loop: OFF • Queue: 0", p.Footer)
	for _, a := range Actions {
		assert.False(t, p.Enabled[a], a)
	}
}

func TestRenderPlaying(t *testing.T) {
	var s state.State
	s.Advance(song())
	s.Loop = true
	s.Enqueue(track.Track{Title: "next"})

	p := Render(View{State: s, HasPlayer: true})

	assert.Equal(t, "Requested by ayla", p.Author)
	assert.Equal(t, "https://cdn/a.png", p.AuthorIcon)
	assert.Equal(t, "https://img/x.jpg", p.Thumbnail)
	require.Len(t, p.Fields, 4)
	assert.Equal(t, "[Around the World](https://youtu.be/x)", p.Fields[0].Value)
	assert.Equal(t, "ayla #0420", p.Fields[1].Value)
	assert.Equal(t, "7:09", p.Fields[2].Value)
	assert.Equal(t, "Daft Punk", p.Fields[3].Value)
	assert.Equal(t, "Autoplay: OFF • Loop: ON • Queue: 1", p.Footer)
}

func TestRenderLiveAndDefaults(t *testing.T) {
	var s state.State
	s.Advance(track.Track{Title: "Radio"})
	p := Render(View{State: s, HasPlayer: true})

	assert.Equal(t, SystemAuthor, p.Author)
	assert.Equal(t, "Radio", p.Fields[0].Value)
	assert.Equal(t, "Unknown", p.Fields[1].Value)
	assert.Equal(t, "🔴 Live", p.Fields[2].Value)
	assert.Equal(t, "Unknown Artist", p.Fields[3].Value)
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		name string
		view View
		want map[Action]bool
	}{
		{
			name: "no player",
			view: View{},
			want: map[Action]bool{},
		},
		{
			name: "player, no history, empty queue",
			view: View{HasPlayer: true, State: state.State{Current: song().Ptr()}},
			want: map[Action]bool{
				ActionVolumeDown: true, ActionVolumeUp: true, ActionPause: true, ActionSkip: true,
				ActionLoop: true, ActionAutoplay: true, ActionStop: true,
			},
		},
		{
			name: "player with previous and queue",
			view: View{HasPlayer: true, State: state.State{
				Current:  song().Ptr(),
				Previous: song().Ptr(),
				Queue:    []track.Track{song()},
			}},
			want: map[Action]bool{
				ActionVolumeDown: true, ActionVolumeUp: true, ActionPause: true, ActionSkip: true,
				ActionLoop: true, ActionAutoplay: true, ActionStop: true,
				ActionBack: true, ActionShuffle: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Availability(tt.view)
			for _, a := range Actions {
				assert.Equal(t, tt.want[a], got[a], a)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefghi…", Truncate("abcdefghijklmnop", 10))
}

func TestCustomIDRoundTrip(t *testing.T) {
	for _, a := range Actions {
		got, ok := ParseCustomID(CustomID(a))
		require.True(t, ok)
		assert.Equal(t, a, got)
	}
	_, ok := ParseCustomID("music:dance")
	assert.False(t, ok)
	_, ok = ParseCustomID("other:skip")
	assert.False(t, ok)
}

func TestComponents(t *testing.T) {
	var s state.State
	s.Advance(song())
	p := Render(View{State: s, HasPlayer: true, Paused: true})

	rows := Components(p)
	require.Len(t, rows, 2)
	first := rows[0].(discordgo.ActionsRow)
	require.Len(t, first.Components, 5)

	pause := first.Components[3].(discordgo.Button)
	assert.Equal(t, "Resume", pause.Label)
	assert.False(t, pause.Disabled)

	back := first.Components[2].(discordgo.Button)
	assert.True(t, back.Disabled)

	assert.Empty(t, Components(Finished()))
}

func TestEmbed(t *testing.T) {
	var s state.State
	s.Advance(song())
	e := Embed(Render(View{State: s, HasPlayer: true}))

	assert.Equal(t, Title, e.Title)
	require.NotNil(t, e.Author)
	assert.Equal(t, "Requested by ayla", e.Author.Name)
	require.Len(t, e.Fields, 4)
	assert.False(t, e.Fields[0].Inline)
	assert.True(t, e.Fields[1].Inline)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Autoplay: OFF • Loop: OFF • Queue: 0", e.Footer.Text)
}
