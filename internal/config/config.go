// Package config reads the bot settings from the environment (and .env) and
// the optional TOML tuning file.
package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DiscordToken    string   `env:"DISCORD_TOKEN,required,notEmpty"`
	GuildBlacklist  []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	CommandCacheDir string   `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`

	Lavalink Lavalink `envPrefix:"LAVALINK_"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`
	LyricsURL           string `env:"LYRICS_URL" envDefault:"https://lrclib.net/api"`

	// KeepAliveAddr is where the status server listens. Empty disables it.
	KeepAliveAddr string `env:"KEEPALIVE_ADDR" envDefault:":10000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	TuningFile string `env:"JUKEBOX_TUNING" envDefault:"tuning.toml"`
	Tuning     Tuning
}

type Lavalink struct {
	Host     string `env:"HOST" envDefault:"127.0.0.1"`
	Port     int    `env:"PORT" envDefault:"2333"`
	Password string `env:"PASSWORD" envDefault:"youshallnotpass"`
	Secure   bool   `env:"SECURE"`
}

// Tuning holds the knobs that rarely change between deployments.
type Tuning struct {
	// Cooldown maps an action name (play, skip, volume, ...) to its per-user
	// cooldown. Zero disables the cooldown of that action.
	Cooldown map[string]time.Duration `koanf:"cooldown"`
	Autoplay AutoplayTuning           `koanf:"autoplay"`
	Volume   VolumeTuning             `koanf:"volume"`
	Queue    QueueTuning              `koanf:"queue"`
}

type AutoplayTuning struct {
	TopK    int           `koanf:"top_k"`
	Timeout time.Duration `koanf:"timeout"`
}

type VolumeTuning struct {
	Min     int `koanf:"min"`
	Max     int `koanf:"max"`
	Step    int `koanf:"step"`
	Default int `koanf:"default"`
}

type QueueTuning struct {
	PageSize    int `koanf:"page_size"`
	PlaylistCap int `koanf:"playlist_cap"`
}

// DefaultTuning is used for everything the tuning file leaves out.
func DefaultTuning() Tuning {
	return Tuning{
		Cooldown: map[string]time.Duration{
			"play":   3 * time.Second,
			"skip":   2 * time.Second,
			"back":   2 * time.Second,
			"volume": 500 * time.Millisecond,
			"seek":   2 * time.Second,
		},
		Autoplay: AutoplayTuning{TopK: 5, Timeout: 8 * time.Second},
		Volume:   VolumeTuning{Min: 1, Max: 200, Step: 10, Default: 100},
		Queue:    QueueTuning{PageSize: 10, PlaylistCap: 50},
	}
}

// New loads .env when present, then parses the environment and the tuning
// file.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}

	tuning, err := LoadTuning(cfg.TuningFile)
	if err != nil {
		return nil, err
	}
	cfg.Tuning = tuning
	return cfg, nil
}

// LoadTuning reads path over DefaultTuning. A missing file is not an error.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return t, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return t, errors.Wrapf(err, "load tuning file %s", path)
	}

	// the cooldown table merges into the defaults instead of replacing them
	defaults := t.Cooldown
	t.Cooldown = nil
	if err := k.Unmarshal("", &t); err != nil {
		return t, errors.Wrapf(err, "decode tuning file %s", path)
	}
	for action, d := range defaults {
		if _, ok := t.Cooldown[action]; !ok {
			if t.Cooldown == nil {
				t.Cooldown = make(map[string]time.Duration)
			}
			t.Cooldown[action] = d
		}
	}
	return t.normalized(), nil
}

// normalized puts values that make no sense back to their defaults.
func (t Tuning) normalized() Tuning {
	def := DefaultTuning()
	if t.Autoplay.TopK <= 0 {
		t.Autoplay.TopK = def.Autoplay.TopK
	}
	if t.Autoplay.Timeout <= 0 {
		t.Autoplay.Timeout = def.Autoplay.Timeout
	}
	if t.Volume.Min <= 0 {
		t.Volume.Min = def.Volume.Min
	}
	if t.Volume.Max < t.Volume.Min {
		t.Volume.Max = max(def.Volume.Max, t.Volume.Min)
	}
	if t.Volume.Step <= 0 {
		t.Volume.Step = def.Volume.Step
	}
	if t.Volume.Default < t.Volume.Min || t.Volume.Default > t.Volume.Max {
		t.Volume.Default = min(max(def.Volume.Default, t.Volume.Min), t.Volume.Max)
	}
	if t.Queue.PageSize <= 0 {
		t.Queue.PageSize = def.Queue.PageSize
	}
	if t.Queue.PlaylistCap <= 0 {
		t.Queue.PlaylistCap = def.Queue.PlaylistCap
	}
	return t
}
