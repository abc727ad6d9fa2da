package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	name  string
	calls *[]string
}

func (e echo) Name() string        { return e.name }
func (e echo) Description() string { return "echo " + e.name }
func (e echo) Run(ctx context.Context, inv *Invocation) error {
	*e.calls = append(*e.calls, e.name)
	return nil
}

func tag(label string, calls *[]string) Middleware {
	return func(c Command) Command {
		return Wrap(c, func(ctx context.Context, inv *Invocation) error {
			*calls = append(*calls, label)
			return c.Run(ctx, inv)
		})
	}
}

func TestApplyOrderAndRoot(t *testing.T) {
	var calls []string
	base := echo{name: "play", calls: &calls}
	c := Apply(base, tag("inner", &calls), tag("outer", &calls))

	require.NoError(t, c.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"outer", "inner", "play"}, calls)
	assert.Equal(t, "play", c.Name())
	assert.Equal(t, "echo play", c.Description())
	assert.Equal(t, base, Root(c))
}

func TestRegistry(t *testing.T) {
	var calls []string
	r := NewRegistry()
	r.Register(echo{name: "skip", calls: &calls})
	r.Register(echo{name: "pause", calls: &calls})

	assert.Nil(t, r.Get("stop"))
	require.NotNil(t, r.Get("skip"))

	var names []string
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"pause", "skip"}, names)
}
