package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/rs/zerolog/log"
)

const (
	ColorWarning = 0xfaa61a
	ColorError   = 0xed4245
)

// ErrorEmbed renders a failed action as the reply shown to the actor.
func ErrorEmbed(err error) *discordgo.MessageEmbed {
	var cd *musicerr.CooldownError
	switch {
	case errors.As(err, &cd):
		return NewEmbed("⏳ Slow down", musicerr.Hint(err)).SetColor(ColorWarning).MessageEmbed
	case errors.Is(err, musicerr.ErrNotInVoice), errors.Is(err, musicerr.ErrWrongChannel):
		return NewEmbed("Access Restricted", musicerr.Hint(err)).SetColor(ColorError).MessageEmbed
	case errors.Is(err, musicerr.BackendUnavailable):
		return NewEmbed("Music Service Offline", musicerr.Hint(err)).SetColor(ColorError).MessageEmbed
	case musicerr.IsUserFacing(err):
		return NewEmbed("", musicerr.Hint(err)).SetColor(ColorWarning).MessageEmbed
	default:
		return NewEmbed("Error", "Something went wrong. Please try again.").SetColor(ColorError).MessageEmbed
	}
}

// ReplyError answers a failed slash command. Errors that are not a plain
// rejection are logged.
func ReplyError(ctx *command.SlashInteractionContext, name string, err error) {
	logFailure(name, ctx.Event, err)
	if rerr := Reply(ctx, ErrorEmbed(err), true); rerr != nil {
		log.Warn().Str("component", "discord").Str("command", name).Err(rerr).Msg("error reply failed")
	}
}

// ReplyComponentError answers a failed button press.
func ReplyComponentError(ctx *command.ComponentInteractionContext, name string, err error) {
	logFailure(name, ctx.Event, err)
	if rerr := RespondEmbedEphemeral(ctx.Session, ctx.Event, ErrorEmbed(err)); rerr != nil {
		log.Warn().Str("component", "discord").Str("command", name).Err(rerr).Msg("error reply failed")
	}
}

func logFailure(name string, i *discordgo.InteractionCreate, err error) {
	if musicerr.IsUserFacing(err) {
		return
	}
	log.Error().
		Str("component", "discord").
		Str("command", name).
		Str("guild", i.GuildID).
		Err(err).
		Msg("command failed")
}
