// Package middleware holds the cmd.Middleware wrappers shared by the
// Discord commands.
package middleware

import (
	"context"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/pkg/cmd"
)

// WithGuildOnly drops interactions that do not come from a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if guildID(inv) == "" {
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}

func guildID(inv *cmd.Invocation) string {
	switch v := inv.Data.(type) {
	case *command.SlashInteractionContext:
		return v.Event.GuildID
	case *command.ComponentInteractionContext:
		return v.Event.GuildID
	}
	return ""
}
