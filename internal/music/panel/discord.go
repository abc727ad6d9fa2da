package panel

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	embed "github.com/clinet/discordgo-embed"
)

// CustomIDPrefix routes panel button interactions.
const CustomIDPrefix = "music:"

// CustomID returns the component id of a.
func CustomID(a Action) string {
	return CustomIDPrefix + string(a)
}

// ParseCustomID extracts the action from a component id.
func ParseCustomID(id string) (Action, bool) {
	if !strings.HasPrefix(id, CustomIDPrefix) {
		return "", false
	}
	a := Action(strings.TrimPrefix(id, CustomIDPrefix))
	for _, known := range Actions {
		if a == known {
			return a, true
		}
	}
	return "", false
}

// Embed converts p to a Discord embed.
func Embed(p Payload) *discordgo.MessageEmbed {
	e := embed.NewEmbed().
		SetTitle(p.Title).
		SetColor(p.Color)
	if p.Description != "" {
		e = e.SetDescription(p.Description)
	}
	if p.Author != "" {
		if p.AuthorIcon != "" {
			e = e.SetAuthor(p.Author, p.AuthorIcon)
		} else {
			e = e.SetAuthor(p.Author)
		}
	}
	if p.Thumbnail != "" {
		e = e.SetThumbnail(p.Thumbnail)
	}
	for _, f := range p.Fields {
		e = e.AddField(f.Name, f.Value)
		e.Fields[len(e.Fields)-1].Inline = f.Inline
	}
	if p.Footer != "" {
		e = e.SetFooter(p.Footer)
	}
	return e.MessageEmbed
}

type buttonSpec struct {
	label string
	emoji string
	style discordgo.ButtonStyle
}

func spec(a Action, p Payload) buttonSpec {
	switch a {
	case ActionVolumeDown:
		return buttonSpec{"Down", "🔉", discordgo.SecondaryButton}
	case ActionVolumeUp:
		return buttonSpec{"Up", "🔊", discordgo.SecondaryButton}
	case ActionBack:
		return buttonSpec{"Back", "⏮", discordgo.PrimaryButton}
	case ActionPause:
		if p.Paused {
			return buttonSpec{"Resume", "▶", discordgo.SuccessButton}
		}
		return buttonSpec{"Pause", "⏸", discordgo.PrimaryButton}
	case ActionSkip:
		return buttonSpec{"Skip", "⏭", discordgo.PrimaryButton}
	case ActionShuffle:
		return buttonSpec{"Shuffle", "🔀", discordgo.SecondaryButton}
	case ActionLoop:
		return buttonSpec{"Loop", "🔁", toggled(p.Loop)}
	case ActionAutoplay:
		return buttonSpec{"Autoplay", "🔄", toggled(p.Autoplay)}
	case ActionStop:
		return buttonSpec{"Stop", "⏹", discordgo.DangerButton}
	}
	return buttonSpec{string(a), "", discordgo.SecondaryButton}
}

func toggled(on bool) discordgo.ButtonStyle {
	if on {
		return discordgo.SuccessButton
	}
	return discordgo.SecondaryButton
}

// Components converts the action set of p to button rows. Discord allows
// five buttons per row.
func Components(p Payload) []discordgo.MessageComponent {
	if p.Final {
		return []discordgo.MessageComponent{}
	}

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, a := range Actions {
		s := spec(a, p)
		row = append(row, discordgo.Button{
			Label:    s.label,
			Style:    s.style,
			CustomID: CustomID(a),
			Disabled: !p.Enabled[a],
			Emoji:    &discordgo.ComponentEmoji{Name: s.emoji},
		})
		if len(row) == 5 {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}
