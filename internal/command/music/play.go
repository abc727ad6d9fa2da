package music

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/music/player"
)

type PlayCommand struct {
	m *player.Manager
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Play a song or playlist, or add it to the queue" }
func (c *PlayCommand) Category() string    { return Category }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return definition(c, &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "query",
		Description: "Song name, YouTube/SoundCloud link or Spotify playlist",
		Required:    true,
	})
}

func (c *PlayCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	query := ""
	if o, ok := options(req.Event)["query"]; ok {
		query = o.StringValue()
	}

	// resolving can outlast the interaction window
	if err := discord.Defer(req.SlashInteractionContext, false); err != nil {
		return err
	}

	res, err := c.m.Play(req.ctx, req.guildID, req.channel, req.actor, query)
	if err != nil {
		return err
	}
	return req.reply(playEmbed(res))
}
