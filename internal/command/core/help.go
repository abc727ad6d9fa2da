// Package core holds the commands that are not about music.
package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/version"
	"github.com/keshon/jukebox/pkg/cmd"
)

const Category = "🕯️ Information"

type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Category() string    { return Category }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *HelpCommand) Run(ctx any) error {
	sctx, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	e := discord.NewEmbed(version.AppName+" Help", buildHelp(command.AllCommands())).
		SetFooter(version.AppFullName()).
		MessageEmbed
	return discord.Reply(sctx, e, true)
}

// buildHelp lists slash commands by category, categories and commands sorted
// by name.
func buildHelp(all []cmd.Command) string {
	byCategory := make(map[string][]cmd.Command)
	for _, c := range all {
		if command.Definition(c) == nil {
			continue
		}
		cat := command.CategoryOf(c)
		byCategory[cat] = append(byCategory[cat], c)
	}

	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var sb strings.Builder
	for _, cat := range cats {
		if cat != "" {
			fmt.Fprintf(&sb, "**%s**\n", cat)
		}
		cmds := byCategory[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		for _, c := range cmds {
			fmt.Fprintf(&sb, "`/%s` - %s\n", c.Name(), c.Description())
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
