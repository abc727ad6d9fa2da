package discord

import (
	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
	"github.com/keshon/jukebox/internal/command"
)

const EmbedColor = 0xb01e66

// NewEmbed starts an embed in the bot's color.
func NewEmbed(title, description string) *embed.Embed {
	e := embed.NewEmbed().SetColor(EmbedColor)
	if title != "" {
		e = e.SetTitle(title)
	}
	if description != "" {
		e = e.SetDescription(description)
	}
	return e
}

// --- Interaction responses ---

// RespondEmbed sends a public embed response to an interaction.
func RespondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, e *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{e}},
	})
}

// RespondEmbedEphemeral sends an embed only the invoking member can see.
func RespondEmbedEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, e *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{e},
		},
	})
}

// RespondDeferred acknowledges an interaction; the answer follows later.
func RespondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// RespondUpdateDeferred acknowledges a component press without touching the
// message it belongs to.
func RespondUpdateDeferred(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// --- Followup messages ---

// FollowupEmbed sends a public embed followup message.
func FollowupEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, e *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{e},
	})
	return err
}

// FollowupEmbedEphemeral sends an embed followup only the invoking member
// can see.
func FollowupEmbedEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, e *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{e},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	return err
}

// Reply answers a slash command, as a followup once it was deferred.
func Reply(ctx *command.SlashInteractionContext, e *discordgo.MessageEmbed, ephemeral bool) error {
	switch {
	case ctx.Deferred && ephemeral:
		return FollowupEmbedEphemeral(ctx.Session, ctx.Event, e)
	case ctx.Deferred:
		return FollowupEmbed(ctx.Session, ctx.Event, e)
	case ephemeral:
		return RespondEmbedEphemeral(ctx.Session, ctx.Event, e)
	default:
		return RespondEmbed(ctx.Session, ctx.Event, e)
	}
}

// Defer acknowledges a slash command that may take longer than Discord's
// three second window.
func Defer(ctx *command.SlashInteractionContext, ephemeral bool) error {
	if err := RespondDeferred(ctx.Session, ctx.Event, ephemeral); err != nil {
		return err
	}
	ctx.Deferred = true
	return nil
}
