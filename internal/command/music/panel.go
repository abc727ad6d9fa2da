package music

import (
	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/music/panel"
	"github.com/keshon/jukebox/internal/music/player"
)

// PanelCommand handles the control panel buttons. It owns the "music:"
// custom id prefix and has no slash definition.
type PanelCommand struct {
	m *player.Manager
}

func (c *PanelCommand) Name() string        { return "music" }
func (c *PanelCommand) Description() string { return "Music control panel" }
func (c *PanelCommand) Category() string    { return Category }

func (c *PanelCommand) Run(ctx any) error { return nil }

func (c *PanelCommand) Component(ctx *command.ComponentInteractionContext) error {
	action, ok := panel.ParseCustomID(ctx.Event.MessageComponentData().CustomID)
	if !ok {
		return errors.Newf("unknown panel action %q", ctx.Event.MessageComponentData().CustomID)
	}
	guildID, err := snowflake.Parse(ctx.Event.GuildID)
	if err != nil {
		return errors.Wrap(err, "guild id")
	}
	actor := discord.ActorFor(ctx.Session, ctx.Event)

	if err := c.press(ctx, guildID, actor, action); err != nil {
		return err
	}
	// the manager already refreshed the panel
	return discord.RespondUpdateDeferred(ctx.Session, ctx.Event)
}

func (c *PanelCommand) press(ctx *command.ComponentInteractionContext, guildID snowflake.ID, actor player.Actor, action panel.Action) error {
	rctx := ctx.Ctx
	var err error
	switch action {
	case panel.ActionVolumeDown:
		_, err = c.m.StepVolume(rctx, guildID, actor, -1)
	case panel.ActionVolumeUp:
		_, err = c.m.StepVolume(rctx, guildID, actor, 1)
	case panel.ActionBack:
		_, err = c.m.Back(rctx, guildID, actor)
	case panel.ActionPause:
		_, err = c.m.TogglePause(rctx, guildID, actor)
	case panel.ActionSkip:
		_, err = c.m.Skip(rctx, guildID, actor)
	case panel.ActionShuffle:
		_, err = c.m.Shuffle(rctx, guildID, actor)
	case panel.ActionLoop:
		_, err = c.m.ToggleLoop(rctx, guildID, actor)
	case panel.ActionAutoplay:
		_, err = c.m.ToggleAutoplay(rctx, guildID, actor)
	case panel.ActionStop:
		err = c.m.Stop(rctx, guildID, actor)
	default:
		err = errors.Newf("unhandled panel action %q", action)
	}
	return err
}
