// Package policy decides what plays next. Reduce is pure: it takes the guild's
// state and an event and returns the new state plus the side effects to run.
package policy

import (
	"github.com/keshon/jukebox/internal/music/state"
	"github.com/keshon/jukebox/internal/music/track"
)

// Event is delivered into a guild's state machine.
type Event interface{ isEvent() }

// ReasonReplaced is the end reason of a track that was swapped out by a new
// play request.
const ReasonReplaced = "replaced"

// TrackEnded is reported by the audio backend when the bound track stops,
// for any reason (finished, stopped, replaced, load failure). Track is the
// encoded blob of the track that ended; empty skips the identity check.
type TrackEnded struct {
	Reason string
	Track  string
}

// PlayFailed reports that the backend refused the track of a Play command.
// Nothing is loaded afterwards, so no end event will follow.
type PlayFailed struct{}

// AutoplayResolved carries the result of a ResolveAutoplay command.
type AutoplayResolved struct {
	Epoch     uint64
	Candidate *track.Track
	Manual    state.ManualAction
}

func (TrackEnded) isEvent()       {}
func (PlayFailed) isEvent()       {}
func (AutoplayResolved) isEvent() {}

// Command is a side effect requested by Reduce.
type Command interface{ isCommand() }

// Play hands Track to the audio backend.
type Play struct {
	Track track.Track
}

// ResolveAutoplay asks for a candidate similar to Seed. The result must come
// back as AutoplayResolved with the same Epoch and Manual.
type ResolveAutoplay struct {
	Seed   track.Track
	Epoch  uint64
	Manual state.ManualAction
}

// Cleanup disconnects, retires the panel and removes the guild session.
type Cleanup struct{}

// SyncPanel re-renders the control panel.
type SyncPanel struct{}

func (Play) isCommand()            {}
func (ResolveAutoplay) isCommand() {}
func (Cleanup) isCommand()         {}
func (SyncPanel) isCommand()       {}

// Phase is the coarse state of a guild's playback.
type Phase int

const (
	Idle Phase = iota
	Playing
	Draining
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return "idle"
	}
}

// PhaseOf derives the phase of s.
func PhaseOf(s state.State) Phase {
	switch {
	case s.Pending:
		return Draining
	case s.Current != nil:
		return Playing
	default:
		return Idle
	}
}

// Reduce applies ev to s.
func Reduce(s state.State, ev Event) (state.State, []Command) {
	s = s.Snapshot()
	switch ev := ev.(type) {
	case TrackEnded:
		return trackEnded(s, ev)
	case PlayFailed:
		return playFailed(s)
	case AutoplayResolved:
		return autoplayResolved(s, ev)
	default:
		return s, nil
	}
}

func trackEnded(s state.State, ev TrackEnded) (state.State, []Command) {
	// the replacement was requested and is already bound; only the tag it
	// armed is left to settle
	if ev.Reason == ReasonReplaced {
		s.ConsumeManual()
		return s, nil
	}

	// a lookup is already deciding this boundary
	if s.Pending {
		return s, nil
	}

	// the end of a track that is no longer bound
	if ev.Track != "" && (s.Current == nil || s.Current.Encoded != ev.Track) {
		return s, nil
	}

	manual := s.ConsumeManual()

	if s.Loop && s.Current != nil {
		return s, []Command{Play{Track: *s.Current}}
	}

	if next, ok := s.PopQueue(); ok {
		s.Advance(next)
		return s, []Command{Play{Track: next}, SyncPanel{}}
	}

	// back ended the old track under another reason
	if manual == state.ManualBack {
		return s, nil
	}

	if s.Autoplay {
		seed := s.Seed
		if seed == nil {
			seed = s.Current
		}
		if seed != nil {
			s.Pending = true
			return s, []Command{ResolveAutoplay{Seed: *seed, Epoch: s.Epoch, Manual: manual}}
		}
	}

	return noCandidate(s, manual)
}

func playFailed(s state.State) (state.State, []Command) {
	failed := s.Current
	if failed == nil {
		return s, nil
	}
	// unbind the refused track; Previous still holds the last one that played
	s.Current = nil
	s.Seed = s.Previous
	s.Epoch++

	if next, ok := s.PopQueue(); ok {
		s.Advance(next)
		return s, []Command{Play{Track: next}, SyncPanel{}}
	}

	// a refused autoplay pick would only lead to another lookup
	if s.Autoplay && !failed.Autoplay && s.Seed != nil {
		s.Pending = true
		return s, []Command{ResolveAutoplay{Seed: *s.Seed, Epoch: s.Epoch}}
	}
	return s, []Command{Cleanup{}}
}

func autoplayResolved(s state.State, ev AutoplayResolved) (state.State, []Command) {
	if !s.Pending || ev.Epoch != s.Epoch {
		return s, nil
	}
	s.Pending = false

	if ev.Candidate != nil {
		next := *ev.Candidate
		next.Autoplay = true
		s.Advance(next)
		return s, []Command{Play{Track: next}, SyncPanel{}}
	}
	return noCandidate(s, ev.Manual)
}

func noCandidate(s state.State, manual state.ManualAction) (state.State, []Command) {
	if manual != state.ManualNone {
		return s, nil
	}
	return s, []Command{Cleanup{}}
}
