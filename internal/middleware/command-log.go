package middleware

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/rs/zerolog/log"
)

// WithCommandLogger logs every invocation with its outcome and duration.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			started := time.Now()
			err := c.Run(ctx, inv)

			var (
				event *discordgo.InteractionCreate
				kind  string
			)
			switch v := inv.Data.(type) {
			case *command.SlashInteractionContext:
				event, kind = v.Event, "slash"
			case *command.ComponentInteractionContext:
				event, kind = v.Event, "component"
			default:
				return err
			}

			user := resolveUser(event)
			l := log.Debug()
			if err != nil {
				l = log.Info().Err(err)
			}
			l.Str("component", "command").
				Str("command", c.Name()).
				Str("kind", kind).
				Strs("args", inv.Args).
				Str("guild", event.GuildID).
				Str("channel", event.ChannelID).
				Str("user", user.ID).
				Str("username", user.Username).
				Dur("took", time.Since(started)).
				Msg("command handled")
			return err
		})
	}
}

// resolveUser returns the member or user behind an interaction.
func resolveUser(e *discordgo.InteractionCreate) *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	if e.User != nil {
		return e.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}
