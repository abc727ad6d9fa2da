package music

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/internal/music/panel"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
)

// Positioner reports how far the backend is into the current track.
// *lavalink.Backend satisfies it.
type Positioner interface {
	Position(guildID snowflake.ID) time.Duration
}

type NowPlayingCommand struct {
	m   *player.Manager
	pos Positioner
}

func (c *NowPlayingCommand) Name() string        { return "nowplaying" }
func (c *NowPlayingCommand) Description() string { return "Show the current track" }
func (c *NowPlayingCommand) Category() string    { return Category }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return definition(c)
}

func (c *NowPlayingCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	v, ok := c.m.Snapshot(req.guildID)
	if !ok || v.State.Current == nil {
		return musicerr.ErrNothingPlaying
	}

	at := "0:00"
	if c.pos != nil {
		at = track.FormatDuration(c.pos.Position(req.guildID))
	}
	return req.reply(nowPlayingEmbed(v, position(v.State.Current, at)))
}

type QueueCommand struct {
	m        *player.Manager
	pageSize int
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the upcoming tracks" }
func (c *QueueCommand) Category() string    { return Category }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return definition(c)
}

func (c *QueueCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	v, ok := c.m.Snapshot(req.guildID)
	if !ok {
		return musicerr.ErrNoSession
	}
	return req.replyEphemeral(queueEmbed(v, c.pageSize))
}

type HistoryCommand struct {
	m *player.Manager
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show the recently played tracks" }
func (c *HistoryCommand) Category() string    { return Category }

func (c *HistoryCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return definition(c)
}

func (c *HistoryCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	v, ok := c.m.Snapshot(req.guildID)
	if !ok {
		return musicerr.ErrNoSession
	}
	return req.replyEphemeral(historyEmbed(v))
}

type LyricsCommand struct {
	m *player.Manager
}

func (c *LyricsCommand) Name() string        { return "lyrics" }
func (c *LyricsCommand) Description() string { return "Show the lyrics of the current track" }
func (c *LyricsCommand) Category() string    { return Category }

func (c *LyricsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return definition(c)
}

func (c *LyricsCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	if err := discord.Defer(req.SlashInteractionContext, true); err != nil {
		return err
	}

	res, err := c.m.Lyrics(req.ctx, req.guildID)
	if err != nil {
		return err
	}
	title := fmt.Sprintf("📝 %s", res.Title)
	if res.Artist != "" {
		title += " · " + res.Artist
	}
	e := discord.NewEmbed(panel.Truncate(title, 250), "").MessageEmbed
	// set directly: the builder clips descriptions below what Discord accepts
	e.Description = res.Text
	return req.replyEphemeral(e)
}
