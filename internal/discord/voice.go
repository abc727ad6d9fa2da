package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
)

// VoiceForwarder receives the bot's own voice credentials.
// *lavalink.Backend satisfies it.
type VoiceForwarder interface {
	VoiceStateUpdate(guildID, channelID snowflake.ID, sessionID string)
	VoiceServerUpdate(guildID snowflake.ID, token, endpoint string)
}

// ActorFor describes the member behind an interaction, including the voice
// channel they are connected to.
func ActorFor(s *discordgo.Session, i *discordgo.InteractionCreate) player.Actor {
	u := interactionUser(i)
	actor := player.Actor{Requester: requester(u, i.Member)}
	if u == nil || i.GuildID == "" {
		return actor
	}
	actor.VoiceChannelID = FindUserVoiceChannel(s, i.GuildID, u.ID)
	return actor
}

// FindUserVoiceChannel looks the member up in the cached guild voice states.
// It returns zero when they are not in voice.
func FindUserVoiceChannel(s *discordgo.Session, guildID, userID string) snowflake.ID {
	vs, err := s.State.VoiceState(guildID, userID)
	if err != nil || vs.ChannelID == "" {
		return 0
	}
	id, err := snowflake.Parse(vs.ChannelID)
	if err != nil {
		return 0
	}
	return id
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func requester(u *discordgo.User, m *discordgo.Member) track.Requester {
	if u == nil {
		return track.Requester{}
	}
	id, _ := snowflake.Parse(u.ID)
	r := track.Requester{
		ID:        id,
		Name:      u.DisplayName(),
		Tag:       u.Discriminator,
		AvatarURL: u.AvatarURL(""),
	}
	if m != nil && m.Nick != "" {
		r.Name = m.Nick
	}
	return r
}
