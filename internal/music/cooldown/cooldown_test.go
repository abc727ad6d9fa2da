package cooldown

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newGate(cd map[string]time.Duration) (*Gate, *clock) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	g := New(cd)
	g.now = c.now
	return g, c
}

func TestCheckBlocksWithinCooldown(t *testing.T) {
	g, c := newGate(map[string]time.Duration{"skip": 2 * time.Second})
	user := snowflake.ID(1)

	assert.Zero(t, g.Check(user, "skip"))

	c.advance(500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, g.Check(user, "skip"))

	// a rejected attempt does not push the window further out
	c.advance(500 * time.Millisecond)
	assert.Equal(t, time.Second, g.Check(user, "skip"))

	c.advance(time.Second)
	assert.Zero(t, g.Check(user, "skip"))
}

func TestCheckIsKeyedByUserAndAction(t *testing.T) {
	g, _ := newGate(map[string]time.Duration{"skip": time.Second, "loop": time.Second})

	assert.Zero(t, g.Check(1, "skip"))
	assert.Zero(t, g.Check(2, "skip"))
	assert.Zero(t, g.Check(1, "loop"))
	assert.NotZero(t, g.Check(1, "skip"))
}

func TestZeroCooldownAlwaysAllows(t *testing.T) {
	g, _ := newGate(map[string]time.Duration{"queue": 0})
	for i := 0; i < 5; i++ {
		assert.Zero(t, g.Check(1, "queue"))
	}
	assert.Equal(t, 0, g.Len())
}

func TestUnknownActionUsesDefault(t *testing.T) {
	g, _ := newGate(nil)
	assert.Equal(t, DefaultCooldown, g.Cooldown("anything"))
	assert.Zero(t, g.Check(1, "anything"))
	assert.Equal(t, DefaultCooldown, g.Check(1, "anything"))
}

func TestSweep(t *testing.T) {
	g, c := newGate(map[string]time.Duration{"skip": time.Second, "stop": 10 * time.Second})
	g.Check(1, "skip")
	g.Check(1, "stop")
	assert.Equal(t, 2, g.Len())

	c.advance(2 * time.Second)
	assert.Equal(t, 1, g.Sweep())
	assert.Equal(t, 1, g.Len())
}
