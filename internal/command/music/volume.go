package music

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
)

type VolumeCommand struct {
	m *player.Manager
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Set the playback volume" }
func (c *VolumeCommand) Category() string    { return Category }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	opts := c.m.Options()
	lo := float64(opts.MinVolume)
	return definition(c, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "level",
		Description: fmt.Sprintf("Volume from %d to %d", opts.MinVolume, opts.MaxVolume),
		Required:    true,
		MinValue:    &lo,
		MaxValue:    float64(opts.MaxVolume),
	})
}

func (c *VolumeCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	level := c.m.Options().DefaultVolume
	if o, ok := options(req.Event)["level"]; ok {
		level = int(o.IntValue())
	}

	v, err := c.m.SetVolume(req.ctx, req.guildID, req.actor, level)
	if err != nil {
		return err
	}
	return req.reply(confirm("🔊 Volume", fmt.Sprintf("Volume set to **%d%%**.", v)))
}

type SeekCommand struct {
	m *player.Manager
}

func (c *SeekCommand) Name() string        { return "seek" }
func (c *SeekCommand) Description() string { return "Jump to a position in the current track" }
func (c *SeekCommand) Category() string    { return Category }

func (c *SeekCommand) SlashDefinition() *discordgo.ApplicationCommand {
	zero := 0.0
	return definition(c, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "seconds",
		Description: "Position in seconds from the start",
		Required:    true,
		MinValue:    &zero,
	})
}

func (c *SeekCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	var seconds int64
	if o, ok := options(req.Event)["seconds"]; ok {
		seconds = o.IntValue()
	}

	pos, err := c.m.Seek(req.ctx, req.guildID, req.actor, time.Duration(seconds)*time.Second)
	if err != nil {
		return err
	}
	return req.reply(confirm("⏩ Seeked", fmt.Sprintf("Jumped to **%s**.", track.FormatDuration(pos))))
}
