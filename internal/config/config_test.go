package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DISCORD_GUILD_BLACKLIST", "1,2")
	t.Setenv("LAVALINK_PORT", "2444")
	t.Setenv("LAVALINK_SECURE", "true")
	t.Setenv("JUKEBOX_TUNING", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.DiscordToken)
	assert.Equal(t, []string{"1", "2"}, cfg.GuildBlacklist)
	assert.Equal(t, Lavalink{Host: "127.0.0.1", Port: 2444, Password: "youshallnotpass", Secure: true}, cfg.Lavalink)
	assert.Equal(t, ":10000", cfg.KeepAliveAddr)
	assert.Equal(t, DefaultTuning(), cfg.Tuning)
}

func TestNewRequiresToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "")

	_, err := New()
	assert.Error(t, err)
}

func TestLoadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[cooldown]
skip = "5s"
stop = "0s"

[autoplay]
top_k = 3

[volume]
max = 150
step = 0

[queue]
page_size = 20
`), 0o644))

	tun, err := LoadTuning(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, tun.Cooldown["skip"])
	assert.Equal(t, time.Duration(0), tun.Cooldown["stop"])
	assert.Equal(t, 3*time.Second, tun.Cooldown["play"], "defaults stay for unlisted actions")
	assert.Equal(t, AutoplayTuning{TopK: 3, Timeout: 8 * time.Second}, tun.Autoplay)
	assert.Equal(t, VolumeTuning{Min: 1, Max: 150, Step: 10, Default: 100}, tun.Volume)
	assert.Equal(t, QueueTuning{PageSize: 20, PlaylistCap: 50}, tun.Queue)
}

func TestLoadTuningMissingFile(t *testing.T) {
	tun, err := LoadTuning(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tun)
}

func TestLoadTuningBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.toml")
	require.NoError(t, os.WriteFile(path, []byte("[volume\nmax = "), 0o644))

	_, err := LoadTuning(path)
	assert.Error(t, err)
}

func TestNormalizedClampsDefaultVolume(t *testing.T) {
	tun := DefaultTuning()
	tun.Volume = VolumeTuning{Min: 10, Max: 50, Step: 5, Default: 100}
	assert.Equal(t, 50, tun.normalized().Volume.Default)
}
