package middleware

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/stretchr/testify/assert"
)

type counter struct{ runs int }

func (c *counter) Name() string        { return "queue" }
func (c *counter) Description() string { return "Show the queue" }
func (c *counter) Run(ctx context.Context, inv *cmd.Invocation) error {
	c.runs++
	return nil
}

func slash(guildID string) *cmd.Invocation {
	return &cmd.Invocation{Data: &command.SlashInteractionContext{
		Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			GuildID: guildID,
			Member:  &discordgo.Member{User: &discordgo.User{ID: "7", Username: "alice"}},
		}},
	}}
}

func TestWithGuildOnly(t *testing.T) {
	inner := &counter{}
	c := cmd.Apply(inner, WithGuildOnly())

	assert.NoError(t, c.Run(context.Background(), slash("")))
	assert.Zero(t, inner.runs)

	assert.NoError(t, c.Run(context.Background(), slash("1")))
	assert.Equal(t, 1, inner.runs)
}

func TestWithBackendReady(t *testing.T) {
	inner := &counter{}
	ready := false
	c := cmd.Apply(inner, WithBackendReady(func() bool { return ready }))

	assert.ErrorIs(t, c.Run(context.Background(), slash("1")), musicerr.ErrBackendOffline)
	assert.Zero(t, inner.runs)

	ready = true
	assert.NoError(t, c.Run(context.Background(), slash("1")))
	assert.Equal(t, 1, inner.runs)
}

func TestWithCommandLoggerPassesThrough(t *testing.T) {
	inner := &counter{}
	c := cmd.Apply(inner, WithCommandLogger())

	assert.NoError(t, c.Run(context.Background(), slash("1")))
	assert.NoError(t, c.Run(context.Background(), &cmd.Invocation{}))
	assert.Equal(t, 2, inner.runs)
	assert.Equal(t, inner, cmd.Root(c))
}

func TestResolveUser(t *testing.T) {
	e := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "9"}}}
	assert.Equal(t, "9", resolveUser(e).ID)

	e = &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}
	assert.Equal(t, "unknown", resolveUser(e).ID)
}
