package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/music/player"
)

// ActionCommand is an option-less command that performs one player action
// and confirms it publicly.
type ActionCommand struct {
	base
	do func(r *request) (*discordgo.MessageEmbed, error)
}

func (c *ActionCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return definition(c)
}

func (c *ActionCommand) Run(ctx any) error {
	req, err := newRequest(ctx)
	if err != nil {
		return err
	}
	e, err := c.do(req)
	if err != nil {
		return err
	}
	return req.reply(e)
}

func confirm(title, description string) *discordgo.MessageEmbed {
	return discord.NewEmbed(title, description).MessageEmbed
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

func actionCommands(m *player.Manager) []*ActionCommand {
	return []*ActionCommand{
		{base{"pause", "Pause playback"}, func(r *request) (*discordgo.MessageEmbed, error) {
			if err := m.Pause(r.ctx, r.guildID, r.actor); err != nil {
				return nil, err
			}
			return confirm("⏸ Paused", "Playback paused. Use `/resume` to continue."), nil
		}},
		{base{"resume", "Resume paused playback"}, func(r *request) (*discordgo.MessageEmbed, error) {
			if err := m.Resume(r.ctx, r.guildID, r.actor); err != nil {
				return nil, err
			}
			return confirm("▶ Resumed", "Playback resumed."), nil
		}},
		{base{"skip", "Skip the current track"}, func(r *request) (*discordgo.MessageEmbed, error) {
			t, err := m.Skip(r.ctx, r.guildID, r.actor)
			if err != nil {
				return nil, err
			}
			return confirm("⏭ Skipped", t.Link()), nil
		}},
		{base{"stop", "Stop playback, clear the queue and leave voice"}, func(r *request) (*discordgo.MessageEmbed, error) {
			if err := m.Stop(r.ctx, r.guildID, r.actor); err != nil {
				return nil, err
			}
			return confirm("⏹ Stopped", "Playback stopped and the queue was cleared."), nil
		}},
		{base{"loop", "Toggle looping of the current track"}, func(r *request) (*discordgo.MessageEmbed, error) {
			on, err := m.ToggleLoop(r.ctx, r.guildID, r.actor)
			if err != nil {
				return nil, err
			}
			return confirm("🔁 Loop", "Loop "+onOff(on)+"."), nil
		}},
		{base{"autoplay", "Toggle autoplay of related tracks when the queue runs out"}, func(r *request) (*discordgo.MessageEmbed, error) {
			on, err := m.ToggleAutoplay(r.ctx, r.guildID, r.actor)
			if err != nil {
				return nil, err
			}
			return confirm("🔄 Autoplay", "Autoplay "+onOff(on)+"."), nil
		}},
		{base{"shuffle", "Shuffle the queue"}, func(r *request) (*discordgo.MessageEmbed, error) {
			n, err := m.Shuffle(r.ctx, r.guildID, r.actor)
			if err != nil {
				return nil, err
			}
			return confirm("🔀 Shuffled", fmt.Sprintf("Shuffled **%d** %s.", n, plural(n, "track", "tracks"))), nil
		}},
		{base{"clear", "Remove every track from the queue"}, func(r *request) (*discordgo.MessageEmbed, error) {
			n, err := m.ClearQueue(r.ctx, r.guildID, r.actor)
			if err != nil {
				return nil, err
			}
			return confirm("🧹 Queue Cleared", fmt.Sprintf("Removed **%d** %s.", n, plural(n, "track", "tracks"))), nil
		}},
		{base{"leave", "Disconnect from voice"}, func(r *request) (*discordgo.MessageEmbed, error) {
			if err := m.Leave(r.ctx, r.guildID, r.actor); err != nil {
				return nil, err
			}
			return confirm("👋 Left", "Disconnected from voice."), nil
		}},
	}
}

func joinCommand(m *player.Manager) *ActionCommand {
	return &ActionCommand{base{"join", "Join your voice channel"}, func(r *request) (*discordgo.MessageEmbed, error) {
		if err := m.Join(r.ctx, r.guildID, r.actor); err != nil {
			return nil, err
		}
		return confirm("🎧 Joined", fmt.Sprintf("Connected to <#%s>.", r.actor.VoiceChannelID)), nil
	}}
}
