package cmd

import (
	"sort"
	"sync"
)

// DefaultRegistry is shared by the adapters of a process.
var DefaultRegistry = NewRegistry()

// Registry stores commands by name. Dispatch is up to the adapter.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Command)}
}

// Register adds c, replacing a command of the same name.
func (r *Registry) Register(c Command) {
	r.mu.Lock()
	r.commands[c.Name()] = c
	r.mu.Unlock()
}

// Get returns the command called name, or nil.
func (r *Registry) Get(name string) Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[name]
}

// GetAll returns every command sorted by name.
func (r *Registry) GetAll() []Command {
	r.mu.RLock()
	list := make([]Command, 0, len(r.commands))
	for _, c := range r.commands {
		list = append(list, c)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name() < list[j].Name()
	})
	return list
}
