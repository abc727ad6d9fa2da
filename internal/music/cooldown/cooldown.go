// Package cooldown rate-limits control actions per user and action.
package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultCooldown applies to actions without an explicit entry.
const DefaultCooldown = 1500 * time.Millisecond

type key struct {
	user   snowflake.ID
	action string
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Gate holds one token-bucket limiter (burst 1) per (user, action).
type Gate struct {
	mu        sync.Mutex
	cooldowns map[string]time.Duration
	entries   map[key]*entry
	now       func() time.Time
}

// New returns a gate with the given per-action cooldowns.
func New(cooldowns map[string]time.Duration) *Gate {
	c := make(map[string]time.Duration, len(cooldowns))
	for k, v := range cooldowns {
		c[k] = v
	}
	return &Gate{
		cooldowns: c,
		entries:   make(map[key]*entry),
		now:       time.Now,
	}
}

// Cooldown returns the configured cooldown for action.
func (g *Gate) Cooldown(action string) time.Duration {
	if d, ok := g.cooldowns[action]; ok {
		return d
	}
	return DefaultCooldown
}

// Check consumes the user's token for action. It returns zero when the action
// is allowed, otherwise the time left until it is.
func (g *Gate) Check(user snowflake.ID, action string) time.Duration {
	cd := g.Cooldown(action)
	if cd <= 0 {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	k := key{user: user, action: action}
	e, ok := g.entries[k]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Every(cd), 1)}
		g.entries[k] = e
	}
	e.lastSeen = now

	r := e.lim.ReserveN(now, 1)
	if !r.OK() {
		return cd
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return d
	}
	return 0
}

// Sweep drops limiters idle for longer than their cooldown and returns how
// many were removed.
func (g *Gate) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	removed := 0
	for k, e := range g.entries {
		if now.Sub(e.lastSeen) > g.Cooldown(k.action) {
			delete(g.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked limiters.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// RunCleaner sweeps idle limiters every interval until ctx is done.
func RunCleaner(ctx context.Context, g *Gate, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.Sweep(); n > 0 {
				log.Debug().Str("component", "cooldown").Int("removed", n).Msg("swept idle cooldowns")
			}
		}
	}
}
