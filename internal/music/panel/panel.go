// Package panel renders a guild's playback state into the control panel
// message: an embed plus a row set of buttons.
package panel

import (
	"fmt"

	"github.com/keshon/jukebox/internal/music/state"
	"github.com/mattn/go-runewidth"
)

// Action is a panel button.
type Action string

const (
	ActionVolumeDown Action = "voldown"
	ActionVolumeUp   Action = "volup"
	ActionBack       Action = "back"
	ActionPause      Action = "pause"
	ActionSkip       Action = "skip"
	ActionShuffle    Action = "shuffle"
	ActionLoop       Action = "loop"
	ActionAutoplay   Action = "autoplay"
	ActionStop       Action = "stop"
)

// Actions lists every button in display order.
var Actions = []Action{
	ActionVolumeDown, ActionVolumeUp, ActionBack, ActionPause, ActionSkip,
	ActionShuffle, ActionLoop, ActionAutoplay, ActionStop,
}

const (
	Title        = "🎵 Music Control Panel"
	IdleText     = "Nothing is playing right now."
	SystemAuthor = "Music System"

	maxTitleWidth = 80
)

// View is what the panel is rendered from.
type View struct {
	State     state.State
	HasPlayer bool
	Paused    bool
	Volume    int
}

// Field is one embed field.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Payload is the rendered panel.
type Payload struct {
	Title       string
	Description string
	Author      string
	AuthorIcon  string
	Thumbnail   string
	Fields      []Field
	Footer      string
	Color       int
	Paused      bool
	Loop        bool
	Autoplay    bool
	Enabled     map[Action]bool
	// Final payloads carry no buttons.
	Final bool
}

const (
	ColorActive   = 0xb01e66
	ColorIdle     = 0x2f3136
	ColorFinished = 0xed4245
)

// Render is a pure function of v.
func Render(v View) Payload {
	s := v.State
	p := Payload{
		Title:    Title,
		Author:   SystemAuthor,
		Color:    ColorIdle,
		Paused:   v.Paused,
		Loop:     s.Loop,
		Autoplay: s.Autoplay,
		Footer:   Footer(s),
		Enabled:  Availability(v),
	}

	cur := s.Current
	if cur == nil {
		p.Description = IdleText
		return p
	}

	p.Color = ColorActive
	if cur.Requester.Name != "" {
		p.Author = "Requested by " + cur.Requester.Name
		p.AuthorIcon = cur.Requester.AvatarURL
	}
	p.Thumbnail = cur.Artwork

	title := Truncate(cur.Title, maxTitleWidth)
	nowPlaying := title
	if cur.URI != "" {
		nowPlaying = fmt.Sprintf("[%s](%s)", title, cur.URI)
	}
	if cur.Autoplay {
		nowPlaying += " · 🔄"
	}

	p.Fields = []Field{
		{Name: "🎶 Music Now Playing", Value: nowPlaying},
		{Name: "🎧 Requested By", Value: cur.Requester.Display(), Inline: true},
		{Name: "⏱ Duration", Value: cur.FormatLength(), Inline: true},
		{Name: "✍ Artist", Value: cur.ArtistOrDefault(), Inline: true},
	}
	return p
}

// Availability decides which buttons are usable.
func Availability(v View) map[Action]bool {
	s := v.State
	enabled := make(map[Action]bool, len(Actions))
	for _, a := range []Action{ActionVolumeDown, ActionVolumeUp, ActionPause, ActionSkip, ActionLoop, ActionAutoplay, ActionStop} {
		enabled[a] = v.HasPlayer
	}
	enabled[ActionBack] = s.Previous != nil
	enabled[ActionShuffle] = len(s.Queue) > 0
	return enabled
}

// Footer renders the mode line.
func Footer(s state.State) string {
	return fmt.Sprintf("Autoplay: %s • Loop: %s • Queue: %d", onOff(s.Autoplay), onOff(s.Loop), len(s.Queue))
}

// Finished is shown once the session ends.
func Finished() Payload {
	return Payload{
		Title:       "Playback Finished",
		Description: "Queue ended. Bot disconnected.",
		Color:       ColorFinished,
		Final:       true,
	}
}

// Truncate shortens s to at most width display cells.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
