package discord

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// commandCache remembers, per guild, the hash of every command last uploaded.
type commandCache struct {
	dir string
}

func (c commandCache) path(guildID string) string {
	return filepath.Join(c.dir, guildID+".json")
}

// load returns an empty map when nothing was cached yet or caching is off.
func (c commandCache) load(guildID string) map[string]string {
	hashes := make(map[string]string)
	if c.dir == "" {
		return hashes
	}
	data, err := os.ReadFile(c.path(guildID))
	if err == nil {
		_ = json.Unmarshal(data, &hashes)
	}
	return hashes
}

func (c commandCache) save(guildID string, hashes map[string]string) error {
	if c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.Wrap(err, "create command cache dir")
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode command cache")
	}
	return errors.Wrap(os.WriteFile(c.path(guildID), data, 0o644), "write command cache")
}
