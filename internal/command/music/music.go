// Package music holds the slash commands and the panel button handler that
// drive a guild's playback through player.Manager.
package music

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/middleware"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/pkg/cmd"
)

const Category = "🎵 Music"

// Options tunes the listings.
type Options struct {
	// QueuePageSize is how many entries /queue shows before "And N more".
	QueuePageSize int
	// Position feeds the progress shown by /nowplaying. Optional.
	Position Positioner
}

// Register adds every music command to the default registry.
func Register(m *player.Manager, opts Options, mws ...cmd.Middleware) {
	if opts.QueuePageSize <= 0 {
		opts.QueuePageSize = 10
	}
	ready := middleware.WithBackendReady(m.BackendReady)

	command.RegisterCommand(&PlayCommand{m: m}, append([]cmd.Middleware{ready}, mws...)...)
	command.RegisterCommand(joinCommand(m), append([]cmd.Middleware{ready}, mws...)...)
	for _, c := range actionCommands(m) {
		command.RegisterCommand(c, mws...)
	}
	command.RegisterCommand(&VolumeCommand{m: m}, mws...)
	command.RegisterCommand(&SeekCommand{m: m}, mws...)
	command.RegisterCommand(&NowPlayingCommand{m: m, pos: opts.Position}, mws...)
	command.RegisterCommand(&QueueCommand{m: m, pageSize: opts.QueuePageSize}, mws...)
	command.RegisterCommand(&HistoryCommand{m: m}, mws...)
	command.RegisterCommand(&LyricsCommand{m: m}, mws...)
	command.RegisterCommand(&PanelCommand{m: m}, mws...)
}

// base supplies the identity every music command shares.
type base struct {
	name        string
	description string
}

func (b base) Name() string        { return b.name }
func (b base) Description() string { return b.description }
func (b base) Category() string    { return Category }

// request unpacks what a music slash command works with.
type request struct {
	*command.SlashInteractionContext
	ctx     context.Context
	guildID snowflake.ID
	channel snowflake.ID
	actor   player.Actor
}

func newRequest(raw any) (*request, error) {
	sctx, ok := raw.(*command.SlashInteractionContext)
	if !ok {
		return nil, errors.Newf("unexpected context %T", raw)
	}
	guildID, err := snowflake.Parse(sctx.Event.GuildID)
	if err != nil {
		return nil, errors.Wrap(err, "guild id")
	}
	channel, _ := snowflake.Parse(sctx.Event.ChannelID)

	ctx := sctx.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return &request{
		SlashInteractionContext: sctx,
		ctx:                     ctx,
		guildID:                 guildID,
		channel:                 channel,
		actor:                   discord.ActorFor(sctx.Session, sctx.Event),
	}, nil
}

func (r *request) reply(e *discordgo.MessageEmbed) error {
	return discord.Reply(r.SlashInteractionContext, e, false)
}

func (r *request) replyEphemeral(e *discordgo.MessageEmbed) error {
	return discord.Reply(r.SlashInteractionContext, e, true)
}

// options indexes the top-level options of a slash command by name.
func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	data := i.ApplicationCommandData()
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, o := range data.Options {
		out[o.Name] = o
	}
	return out
}

func definition(c command.DiscordCommand, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options:     opts,
	}
}
