package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCommandIgnoresOptionOrder(t *testing.T) {
	opt := func(name string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionString, Name: name, Description: name}
	}
	a := &discordgo.ApplicationCommand{Name: "play", Description: "Play", Options: []*discordgo.ApplicationCommandOption{opt("query"), opt("source")}}
	b := &discordgo.ApplicationCommand{Name: "play", Description: "Play", Options: []*discordgo.ApplicationCommandOption{opt("source"), opt("query")}}
	c := &discordgo.ApplicationCommand{Name: "play", Description: "Play a song", Options: a.Options}

	assert.Equal(t, hashCommand(a), hashCommand(b))
	assert.NotEqual(t, hashCommand(a), hashCommand(c))
	assert.Len(t, hashCommand(a), 40)
}

func TestCommandCache(t *testing.T) {
	cache := commandCache{dir: t.TempDir()}
	assert.Empty(t, cache.load("1"))

	require.NoError(t, cache.save("1", map[string]string{"play": "abc"}))
	assert.Equal(t, map[string]string{"play": "abc"}, cache.load("1"))
	assert.Empty(t, cache.load("2"))

	off := commandCache{}
	require.NoError(t, off.save("1", map[string]string{"play": "abc"}))
	assert.Empty(t, off.load("1"))
}

func TestErrorEmbed(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		title string
	}{
		{"cooldown", &musicerr.CooldownError{Action: "skip", Remaining: 1500_000_000}, "⏳ Slow down"},
		{"not in voice", musicerr.ErrNotInVoice, "Access Restricted"},
		{"wrong channel", errors.Wrap(musicerr.ErrWrongChannel, "skip"), "Access Restricted"},
		{"offline", musicerr.ErrBackendOffline, "Music Service Offline"},
		{"backend failure", musicerr.Unavailable(errors.New("boom"), "play"), "Music Service Offline"},
		{"user input", musicerr.ErrQueueEmpty, ""},
		{"internal", errors.New("boom"), "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ErrorEmbed(tt.err)
			assert.Equal(t, tt.title, e.Title)
			assert.NotEmpty(t, e.Description)
		})
	}

	assert.Contains(t, ErrorEmbed(&musicerr.CooldownError{Action: "skip", Remaining: 1500_000_000}).Description, "1.5s")
}

func TestIsGone(t *testing.T) {
	gone := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage}}
	other := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions}}

	assert.True(t, isGone(errors.Wrap(gone, "edit panel")))
	assert.False(t, isGone(other))
	assert.False(t, isGone(&discordgo.RESTError{}))
	assert.False(t, isGone(errors.New("timeout")))
}

func TestRequester(t *testing.T) {
	u := &discordgo.User{ID: "42", Username: "alice", GlobalName: "Alice", Discriminator: "0"}

	r := requester(u, nil)
	assert.EqualValues(t, 42, r.ID)
	assert.Equal(t, "Alice", r.Name)
	assert.Equal(t, "Alice", r.Display())

	r = requester(u, &discordgo.Member{Nick: "DJ"})
	assert.Equal(t, "DJ", r.Name)

	assert.Zero(t, requester(nil, nil))
}
