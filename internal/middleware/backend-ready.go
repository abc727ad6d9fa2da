package middleware

import (
	"context"

	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/pkg/cmd"
)

// WithBackendReady rejects the command while the audio backend is down.
func WithBackendReady(ready func() bool) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if !ready() {
				return musicerr.ErrBackendOffline
			}
			return c.Run(ctx, inv)
		})
	}
}
