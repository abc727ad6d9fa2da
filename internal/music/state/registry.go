package state

import (
	"slices"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Session owns the State of one guild. All reads and writes of State happen
// between Lock and Unlock.
type Session struct {
	mu      sync.Mutex
	guildID snowflake.ID
	id      uuid.UUID
	closed  bool

	State State
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// GuildID returns the guild the session belongs to.
func (s *Session) GuildID() snowflake.ID { return s.guildID }

// ID identifies this session instance; a guild gets a new one after cleanup.
func (s *Session) ID() uuid.UUID { return s.id }

// Closed reports whether the session was removed from its registry. Callers
// that waited on the lock must check it before touching State.
func (s *Session) Closed() bool { return s.closed }

// Registry maps guilds to their live session. The zero value is not usable;
// construct with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[snowflake.ID]*Session)}
}

// Get returns the live session of guildID.
func (r *Registry) Get(guildID snowflake.ID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[guildID]
	return s, ok
}

// GetOrCreate returns the live session of guildID, inserting an empty one
// when none exists. created reports whether it was inserted.
func (r *Registry) GetOrCreate(guildID snowflake.ID) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[guildID]; ok {
		return s, false
	}
	s = &Session{guildID: guildID, id: uuid.New()}
	r.sessions[guildID] = s
	return s, true
}

// Remove closes s and drops it from the registry if it is still the live
// session of its guild. The caller must hold s's lock.
func (r *Registry) Remove(s *Session) bool {
	s.closed = true

	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[s.guildID]; ok && cur == s {
		delete(r.sessions, s.guildID)
		return true
	}
	return false
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Guilds returns the ids of guilds with a live session, sorted.
func (r *Registry) Guilds() []snowflake.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]snowflake.ID, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
