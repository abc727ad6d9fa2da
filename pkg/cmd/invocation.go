// Package cmd is the transport-neutral command core. A command has a name, a
// description and a Run; adapters decide how it is registered and how its
// invocation payload looks.
package cmd

import "context"

// Invocation is what an adapter hands to Run. Data holds the adapter's own
// context, such as a Discord interaction.
type Invocation struct {
	Args []string
	Data any
}

// Command is implemented by everything the registry can hold.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
