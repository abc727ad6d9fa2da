// Package command adapts Discord commands to the transport-neutral core in
// pkg/cmd and defines what the Discord runtime hands to them.
package command

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/pkg/cmd"
)

// SlashInteractionContext is passed to Run for a slash command.
type SlashInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate

	// Deferred is set once the interaction was acknowledged without content,
	// so replies have to go out as followups.
	Deferred bool
}

// ComponentInteractionContext is passed to Component for a button press.
type ComponentInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
}

// SlashProvider is implemented by commands that show up as slash commands.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ComponentInteractionHandler is implemented by commands that own message
// components. The runtime routes a component to the command whose name,
// followed by ":", prefixes the custom id.
type ComponentInteractionHandler interface {
	Component(*ComponentInteractionContext) error
}

// DiscordMeta lets middleware and /help read a command's category without
// knowing its concrete type.
type DiscordMeta interface {
	Category() string
}

// DiscordCommand is what individual Discord commands implement. Run receives
// a *SlashInteractionContext or a *ComponentInteractionContext.
type DiscordCommand interface {
	Name() string
	Description() string
	Category() string
	Run(ctx any) error
}

// DiscordAdapter turns a DiscordCommand into a cmd.Command and forwards the
// optional provider interfaces.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }
func (a *DiscordAdapter) Category() string    { return a.Cmd.Category() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	switch v := inv.Data.(type) {
	case *ComponentInteractionContext:
		if ch, ok := a.Cmd.(ComponentInteractionHandler); ok {
			return ch.Component(v)
		}
		return nil
	default:
		return a.Cmd.Run(inv.Data)
	}
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// RegisterCommand wraps discordCmd with mws and stores it in the default
// registry.
func RegisterCommand(discordCmd DiscordCommand, mws ...cmd.Middleware) {
	c := cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...)
	cmd.DefaultRegistry.Register(c)
}

// AllCommands returns the registered commands sorted by name.
func AllCommands() []cmd.Command {
	return cmd.DefaultRegistry.GetAll()
}

// GetCommand looks a command up by name.
func GetCommand(name string) (cmd.Command, bool) {
	c := cmd.DefaultRegistry.Get(name)
	return c, c != nil
}

// ForComponent finds the command owning customID.
func ForComponent(customID string) (cmd.Command, bool) {
	name, _, ok := strings.Cut(customID, ":")
	if !ok {
		return nil, false
	}
	return GetCommand(name)
}

// Definition returns the slash definition of c, or nil for commands that are
// not slash commands.
func Definition(c cmd.Command) *discordgo.ApplicationCommand {
	sp, ok := cmd.Root(c).(SlashProvider)
	if !ok {
		return nil
	}
	def := sp.SlashDefinition()
	if def == nil {
		return nil
	}
	if def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// CategoryOf reads the category of c, or "" when it has none.
func CategoryOf(c cmd.Command) string {
	if m, ok := cmd.Root(c).(DiscordMeta); ok {
		return m.Category()
	}
	return ""
}
