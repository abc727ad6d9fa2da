package core

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/stretchr/testify/assert"
)

type fake struct {
	name, category string
}

func (f fake) Name() string        { return f.name }
func (f fake) Description() string { return "does " + f.name }
func (f fake) Category() string    { return f.category }
func (f fake) Run(any) error       { return nil }

type slashFake struct{ fake }

func (f slashFake) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: f.name, Description: f.Description()}
}

func adapt(c command.DiscordCommand) cmd.Command {
	return cmd.Wrap(&command.DiscordAdapter{Cmd: c}, func(ctx context.Context, inv *cmd.Invocation) error { return nil })
}

func TestBuildHelp(t *testing.T) {
	out := buildHelp([]cmd.Command{
		adapt(slashFake{fake{name: "skip", category: "🎵 Music"}}),
		adapt(slashFake{fake{name: "help", category: Category}}),
		adapt(slashFake{fake{name: "play", category: "🎵 Music"}}),
		adapt(fake{name: "music", category: "🎵 Music"}),
	})

	assert.Contains(t, out, "**🎵 Music**\n`/play` - does play\n`/skip` - does skip")
	assert.Contains(t, out, "`/help` - does help")
	assert.NotContains(t, out, "/music")
}
