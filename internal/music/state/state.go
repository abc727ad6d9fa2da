// Package state holds the per-guild playback record and the registry that
// owns one record per active guild.
package state

import (
	"math/rand/v2"
	"slices"

	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/music/track"
)

// HistorySize bounds State.History.
const HistorySize = 10

// ManualAction is a one-shot tag set by a user transport action so that the
// track-end it causes is not handled as a natural end of playback.
type ManualAction int

const (
	ManualNone ManualAction = iota
	ManualBack
	ManualStop
	ManualOther
)

func (m ManualAction) String() string {
	switch m {
	case ManualBack:
		return "back"
	case ManualStop:
		return "stop"
	case ManualOther:
		return "manual"
	default:
		return "none"
	}
}

// PanelRef points at the control panel message.
type PanelRef struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// State is the playback record of one guild. Methods with a pointer receiver
// mutate in place; callers hold the owning Session's lock.
type State struct {
	Queue    []track.Track
	Current  *track.Track
	Previous *track.Track
	Loop     bool
	Autoplay bool
	Seed     *track.Track
	Manual   ManualAction
	Panel    *PanelRef

	// Epoch changes whenever Current is replaced. Asynchronous results carry
	// the epoch they were requested at and are dropped when it moved.
	Epoch uint64
	// Pending is set while an autoplay lookup is in flight.
	Pending bool
	History []track.Track
}

// Advance makes t the current track: the old current moves to Previous and
// History, and t becomes the autoplay seed.
func (s *State) Advance(t track.Track) {
	if s.Current != nil {
		s.Previous = s.Current
		s.pushHistory(*s.Current)
	}
	s.Current = t.Ptr()
	s.Seed = t.Ptr()
	s.Epoch++
	s.Pending = false
}

// Back swaps Previous into Current and consumes Previous. It arms ManualBack
// when armManual is set, which the caller does when the backend will report
// the replaced track as ended.
func (s *State) Back(armManual bool) (track.Track, bool) {
	if s.Previous == nil {
		return track.Track{}, false
	}
	t := *s.Previous
	if s.Current != nil {
		s.pushHistory(*s.Current)
	}
	s.Current = t.Ptr()
	s.Previous = nil
	s.Seed = t.Ptr()
	s.Epoch++
	s.Pending = false
	if armManual {
		s.Manual = ManualBack
	}
	return t, true
}

// PopQueue removes and returns the front of the queue.
func (s *State) PopQueue() (track.Track, bool) {
	if len(s.Queue) == 0 {
		return track.Track{}, false
	}
	t := s.Queue[0]
	s.Queue = slices.Clone(s.Queue[1:])
	return t, true
}

// Enqueue appends tracks to the back of the queue.
func (s *State) Enqueue(ts ...track.Track) {
	s.Queue = append(s.Queue, ts...)
}

// Shuffle permutes the queue in place.
func (s *State) Shuffle(r *rand.Rand) {
	shuffle := rand.Shuffle
	if r != nil {
		shuffle = r.Shuffle
	}
	shuffle(len(s.Queue), func(i, j int) {
		s.Queue[i], s.Queue[j] = s.Queue[j], s.Queue[i]
	})
}

// ClearQueue empties the queue and returns how many tracks were dropped.
func (s *State) ClearQueue() int {
	n := len(s.Queue)
	s.Queue = nil
	return n
}

// ToggleLoop flips Loop and returns the new value.
func (s *State) ToggleLoop() bool {
	s.Loop = !s.Loop
	return s.Loop
}

// ToggleAutoplay flips Autoplay and returns the new value. Enabling it seeds
// from the current track when no seed exists yet.
func (s *State) ToggleAutoplay() bool {
	s.Autoplay = !s.Autoplay
	if s.Autoplay && s.Seed == nil && s.Current != nil {
		s.Seed = s.Current.Ptr()
	}
	return s.Autoplay
}

// ConsumeManual returns the pending manual action and clears it.
func (s *State) ConsumeManual() ManualAction {
	m := s.Manual
	s.Manual = ManualNone
	return m
}

// Reset clears the playback record. The panel reference and epoch survive so
// that a late result can still be recognised as stale.
func (s *State) Reset() {
	*s = State{Panel: s.Panel, Epoch: s.Epoch}
}

// Idle reports whether nothing is bound to the session.
func (s State) Idle() bool {
	return s.Current == nil
}

// Snapshot returns a deep copy safe to read without the session lock.
func (s State) Snapshot() State {
	out := s
	out.Queue = slices.Clone(s.Queue)
	out.History = slices.Clone(s.History)
	if s.Current != nil {
		out.Current = s.Current.Ptr()
	}
	if s.Previous != nil {
		out.Previous = s.Previous.Ptr()
	}
	if s.Seed != nil {
		out.Seed = s.Seed.Ptr()
	}
	if s.Panel != nil {
		p := *s.Panel
		out.Panel = &p
	}
	return out
}

func (s *State) pushHistory(t track.Track) {
	s.History = append(s.History, t)
	if over := len(s.History) - HistorySize; over > 0 {
		s.History = slices.Clone(s.History[over:])
	}
}
