package music

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/music/panel"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
)

const listTitleWidth = 60

func playEmbed(res player.PlayResult) *discordgo.MessageEmbed {
	t := res.Track
	e := discord.NewEmbed("", "")

	switch {
	case res.Started && res.Queued == 0:
		e = e.SetTitle("🎶 Now Playing").SetDescription(t.Link())
	case res.Started:
		e = e.SetTitle("🎶 Now Playing").SetDescription(fmt.Sprintf("%s\n\n%s more %s added to the queue.",
			t.Link(), humanize.Comma(int64(res.Queued)), plural(res.Queued, "track", "tracks")))
	case res.Queued == 1:
		e = e.SetTitle("Track Queued").SetDescription(fmt.Sprintf("%s\n\nPosition in queue: **#%d**", t.Link(), res.Position))
	default:
		e = e.SetTitle("Tracks Queued").SetDescription(fmt.Sprintf("**%s** tracks added, starting at position **#%d**.",
			humanize.Comma(int64(res.Queued)), res.Position))
	}

	if t.Artwork != "" {
		e = e.SetThumbnail(t.Artwork)
	}
	if t.Autocorrected {
		e = e.SetFooter("🔎 No exact match, showing the closest result")
	}
	return e.MessageEmbed
}

func nowPlayingEmbed(v panel.View, pos string) *discordgo.MessageEmbed {
	cur := v.State.Current
	if cur == nil {
		return discord.NewEmbed("🎶 Now Playing", panel.IdleText).MessageEmbed
	}

	status := "▶ Playing"
	if v.Paused {
		status = "⏸ Paused"
	}
	e := discord.NewEmbed("🎶 Now Playing", cur.Link()).
		AddField("✍ Artist", cur.ArtistOrDefault()).
		AddField("⏱ Position", pos).
		AddField("🎧 Requested By", cur.Requester.Display()).
		AddField("🔊 Volume", fmt.Sprintf("%d%%", v.Volume)).
		AddField("Status", status).
		SetFooter(panel.Footer(v.State)).
		InlineAllFields()
	if cur.Artwork != "" {
		e = e.SetThumbnail(cur.Artwork)
	}
	return e.MessageEmbed
}

// position renders how far playback is into t.
func position(t *track.Track, at string) string {
	if t.IsLive() {
		return t.FormatLength()
	}
	return at + " / " + t.FormatLength()
}

func queueEmbed(v panel.View, pageSize int) *discordgo.MessageEmbed {
	q := v.State.Queue
	if len(q) == 0 {
		return discord.NewEmbed("📜 Queue", "The queue is empty.").MessageEmbed
	}

	var sb strings.Builder
	if cur := v.State.Current; cur != nil {
		fmt.Fprintf(&sb, "**Now:** %s\n\n", linkLine(*cur))
	}
	var total int64
	live := false
	for i, t := range q {
		if t.IsLive() {
			live = true
		}
		total += int64(t.Length)
		if i < pageSize {
			fmt.Fprintf(&sb, "`%d.` %s\n", i+1, linkLine(t))
		}
	}
	if rest := len(q) - pageSize; rest > 0 {
		fmt.Fprintf(&sb, "\nAnd %s more…", humanize.Comma(int64(rest)))
	}

	length := track.FormatDuration(time.Duration(total))
	if live {
		length += "+"
	}
	footer := fmt.Sprintf("%s %s • %s total", humanize.Comma(int64(len(q))), plural(len(q), "track", "tracks"), length)
	return discord.NewEmbed("📜 Queue", sb.String()).SetFooter(footer).MessageEmbed
}

func historyEmbed(v panel.View) *discordgo.MessageEmbed {
	h := v.State.History
	if len(h) == 0 {
		return discord.NewEmbed("🕘 History", "Nothing has been played yet.").MessageEmbed
	}
	var sb strings.Builder
	// newest first
	for i := len(h) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "`%d.` %s\n", len(h)-i, linkLine(h[i]))
	}
	return discord.NewEmbed("🕘 History", sb.String()).MessageEmbed
}

func linkLine(t track.Track) string {
	title := panel.Truncate(t.Title, listTitleWidth)
	if t.URI != "" {
		title = fmt.Sprintf("[%s](%s)", title, t.URI)
	}
	line := fmt.Sprintf("%s `%s`", title, t.FormatLength())
	if t.Autoplay {
		line += " · 🔄"
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
