package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/internal/music/panel"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/state"
)

// Surface posts and edits control panels as channel messages.
type Surface struct {
	dg *discordgo.Session
}

var _ player.Surface = (*Surface)(nil)

func NewSurface(dg *discordgo.Session) *Surface {
	return &Surface{dg: dg}
}

func (s *Surface) Send(ctx context.Context, channelID snowflake.ID, p panel.Payload) (state.PanelRef, error) {
	msg, err := s.dg.ChannelMessageSendComplex(channelID.String(), &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{panel.Embed(p)},
		Components: panel.Components(p),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return state.PanelRef{}, errors.Wrap(err, "send panel")
	}

	id, err := snowflake.Parse(msg.ID)
	if err != nil {
		return state.PanelRef{}, errors.Wrapf(err, "message id %q", msg.ID)
	}
	return state.PanelRef{ChannelID: channelID, MessageID: id}, nil
}

func (s *Surface) Edit(ctx context.Context, ref state.PanelRef, p panel.Payload) error {
	components := panel.Components(p)
	edit := discordgo.NewMessageEdit(ref.ChannelID.String(), ref.MessageID.String()).
		SetEmbed(panel.Embed(p))
	edit.Components = &components

	_, err := s.dg.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	if err == nil {
		return nil
	}
	err = errors.Wrap(err, "edit panel")
	if isGone(err) {
		return errors.Mark(err, musicerr.ErrPanelGone)
	}
	return err
}

// isGone reports whether Discord no longer knows the message or its channel.
func isGone(err error) bool {
	var rest *discordgo.RESTError
	if !errors.As(err, &rest) || rest.Message == nil {
		return false
	}
	switch rest.Message.Code {
	case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
		return true
	}
	return false
}
