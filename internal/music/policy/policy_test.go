package policy

import (
	"testing"

	"github.com/keshon/jukebox/internal/music/state"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tr(title string) track.Track {
	return track.Track{Title: title, Identifier: title}
}

func playing(title string) state.State {
	var s state.State
	s.Advance(tr(title))
	return s
}

func TestLoopReplaysCurrent(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*state.State)
	}{
		{"plain", func(*state.State) {}},
		{"with queue", func(s *state.State) { s.Enqueue(tr("B")) }},
		{"with autoplay", func(s *state.State) { s.Autoplay = true }},
		{"with previous", func(s *state.State) { s.Previous = tr("P").Ptr() }},
		{"with manual back", func(s *state.State) { s.Manual = state.ManualBack }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := playing("A")
			s.Loop = true
			tt.setup(&s)
			before := s.Snapshot()

			next, cmds := Reduce(s, TrackEnded{Reason: "finished"})

			assert.Equal(t, []Command{Play{Track: *before.Current}}, cmds)
			assert.Equal(t, before.Current, next.Current)
			assert.Equal(t, before.Previous, next.Previous)
			assert.Equal(t, before.Seed, next.Seed)
			assert.Equal(t, before.Queue, next.Queue)
			assert.Equal(t, state.ManualNone, next.Manual)
		})
	}
}

func TestQueueAdvances(t *testing.T) {
	s := playing("A")
	s.Enqueue(tr("B"), tr("C"))

	next, cmds := Reduce(s, TrackEnded{})

	require.Len(t, cmds, 2)
	assert.Equal(t, Play{Track: tr("B")}, cmds[0])
	assert.Equal(t, SyncPanel{}, cmds[1])
	assert.Equal(t, "B", next.Current.Title)
	assert.Equal(t, "A", next.Previous.Title)
	assert.Equal(t, "B", next.Seed.Title)
	assert.Equal(t, []track.Track{tr("C")}, next.Queue)
}

func TestQueueBeatsManualAndAutoplay(t *testing.T) {
	s := playing("A")
	s.Enqueue(tr("B"))
	s.Autoplay = true
	s.Manual = state.ManualBack

	next, cmds := Reduce(s, TrackEnded{Reason: "finished"})

	assert.Equal(t, Play{Track: tr("B")}, cmds[0])
	assert.Equal(t, state.ManualNone, next.Manual)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := playing("A")
	s.Enqueue(tr("B"), tr("C"))
	before := s.Snapshot()

	Reduce(s, TrackEnded{})

	assert.Equal(t, before, s)
}

func TestBackSuppressesOnce(t *testing.T) {
	for _, autoplay := range []bool{false, true} {
		s := playing("A")
		s.Advance(tr("B"))
		s.Autoplay = autoplay
		_, ok := s.Back(true)
		require.True(t, ok)

		// the end of B caused by back
		s, cmds := Reduce(s, TrackEnded{Reason: "replaced"})
		assert.Empty(t, cmds, "autoplay=%v", autoplay)
		assert.Equal(t, state.ManualNone, s.Manual)
		assert.Equal(t, "A", s.Current.Title)

		// natural end of A
		_, cmds = Reduce(s, TrackEnded{Reason: "finished"})
		require.Len(t, cmds, 1)
		if autoplay {
			assert.IsType(t, ResolveAutoplay{}, cmds[0])
		} else {
			assert.Equal(t, Cleanup{}, cmds[0])
		}
	}
}

func TestReplacedEndOnlySettlesManual(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*state.State)
	}{
		{"empty queue", func(*state.State) {}},
		{"with queue", func(s *state.State) { s.Enqueue(tr("C")) }},
		{"with loop", func(s *state.State) { s.Loop = true }},
		{"with autoplay", func(s *state.State) { s.Autoplay = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := playing("A")
			s.Advance(tr("B"))
			tt.setup(&s)
			_, ok := s.Back(true)
			require.True(t, ok)
			before := s.Snapshot()

			next, cmds := Reduce(s, TrackEnded{Reason: ReasonReplaced, Track: "B"})

			assert.Empty(t, cmds)
			assert.Equal(t, state.ManualNone, next.Manual)
			assert.Equal(t, "A", next.Current.Title)
			assert.Equal(t, before.Queue, next.Queue)
			assert.Equal(t, before.Epoch, next.Epoch)
		})
	}
}

func TestEndOfUnboundTrackIgnored(t *testing.T) {
	bound := func(title string) track.Track {
		b := tr(title)
		b.Encoded = "enc-" + title
		return b
	}

	s := state.State{}
	s.Advance(bound("B"))
	s.Manual = state.ManualOther

	// A ended before B was bound, but the event arrives afterwards
	next, cmds := Reduce(s, TrackEnded{Reason: "finished", Track: "enc-A"})
	assert.Empty(t, cmds)
	assert.Equal(t, "B", next.Current.Title)
	assert.Equal(t, state.ManualOther, next.Manual, "a stale end consumes nothing")

	_, cmds = Reduce(state.State{}, TrackEnded{Reason: "finished", Track: "enc-A"})
	assert.Empty(t, cmds)

	_, cmds = Reduce(s, TrackEnded{Reason: "finished", Track: "enc-B"})
	assert.Empty(t, cmds, "the manual tag still suppresses")
	_, cmds = Reduce(playing("B"), TrackEnded{Reason: "finished"})
	assert.Equal(t, []Command{Cleanup{}}, cmds)
}

func TestPlayFailed(t *testing.T) {
	t.Run("next queued track", func(t *testing.T) {
		s := playing("A")
		s.Advance(tr("B"))
		s.Enqueue(tr("C"))
		s.Loop = true

		next, cmds := Reduce(s, PlayFailed{})

		assert.Equal(t, []Command{Play{Track: tr("C")}, SyncPanel{}}, cmds)
		assert.Equal(t, "C", next.Current.Title)
		assert.Equal(t, "A", next.Previous.Title, "the refused track never becomes previous")
		assert.Empty(t, next.Queue)
	})

	t.Run("autoplay from the last played track", func(t *testing.T) {
		s := playing("A")
		s.Advance(tr("B"))
		s.Autoplay = true

		next, cmds := Reduce(s, PlayFailed{})

		require.Len(t, cmds, 1)
		req := cmds[0].(ResolveAutoplay)
		assert.Equal(t, "A", req.Seed.Title)
		assert.Equal(t, next.Epoch, req.Epoch)
		assert.Nil(t, next.Current)
		assert.True(t, next.Pending)
	})

	t.Run("refused autoplay pick cleans up", func(t *testing.T) {
		s := playing("A")
		pick := tr("D")
		pick.Autoplay = true
		s.Advance(pick)
		s.Autoplay = true

		_, cmds := Reduce(s, PlayFailed{})
		assert.Equal(t, []Command{Cleanup{}}, cmds)
	})

	t.Run("nothing else cleans up", func(t *testing.T) {
		_, cmds := Reduce(playing("A"), PlayFailed{})
		assert.Equal(t, []Command{Cleanup{}}, cmds)
	})

	t.Run("idle is a no-op", func(t *testing.T) {
		_, cmds := Reduce(state.State{}, PlayFailed{})
		assert.Empty(t, cmds)
	})
}

func TestIdleEndCleansUp(t *testing.T) {
	s := playing("A")
	_, cmds := Reduce(s, TrackEnded{})
	assert.Equal(t, []Command{Cleanup{}}, cmds)
}

func TestGenericManualSuppressesCleanup(t *testing.T) {
	for _, m := range []state.ManualAction{state.ManualStop, state.ManualOther} {
		s := playing("A")
		s.Manual = m
		next, cmds := Reduce(s, TrackEnded{})
		assert.Empty(t, cmds, m.String())
		assert.Equal(t, state.ManualNone, next.Manual)
	}
}

func TestAutoplayRequestsCandidate(t *testing.T) {
	s := playing("A")
	s.Autoplay = true
	s.Seed = tr("S").Ptr()

	next, cmds := Reduce(s, TrackEnded{})

	require.Len(t, cmds, 1)
	req, ok := cmds[0].(ResolveAutoplay)
	require.True(t, ok)
	assert.Equal(t, "S", req.Seed.Title)
	assert.Equal(t, next.Epoch, req.Epoch)
	assert.True(t, next.Pending)
	assert.Equal(t, Draining, PhaseOf(next))
}

func TestAutoplayFallsBackToCurrentAsSeed(t *testing.T) {
	s := playing("A")
	s.Autoplay = true
	s.Seed = nil

	_, cmds := Reduce(s, TrackEnded{})

	require.Len(t, cmds, 1)
	assert.Equal(t, "A", cmds[0].(ResolveAutoplay).Seed.Title)
}

func TestAutoplayCandidateApplied(t *testing.T) {
	s := playing("A")
	s.Autoplay = true
	s, cmds := Reduce(s, TrackEnded{})
	req := cmds[0].(ResolveAutoplay)

	d := tr("D")
	next, cmds := Reduce(s, AutoplayResolved{Epoch: req.Epoch, Candidate: &d, Manual: req.Manual})

	require.Len(t, cmds, 2)
	play := cmds[0].(Play)
	assert.Equal(t, "D", play.Track.Title)
	assert.True(t, play.Track.Autoplay)
	assert.Equal(t, "D", next.Current.Title)
	assert.Equal(t, "A", next.Previous.Title)
	assert.Equal(t, "D", next.Seed.Title)
	assert.False(t, next.Pending)
	assert.Equal(t, Playing, PhaseOf(next))
}

func TestAutoplayWithoutCandidateCleansUp(t *testing.T) {
	s := playing("A")
	s.Autoplay = true
	s, cmds := Reduce(s, TrackEnded{})
	req := cmds[0].(ResolveAutoplay)

	_, cmds = Reduce(s, AutoplayResolved{Epoch: req.Epoch})
	assert.Equal(t, []Command{Cleanup{}}, cmds)
}

func TestStaleAutoplayResultIgnored(t *testing.T) {
	s := playing("A")
	s.Autoplay = true
	s, cmds := Reduce(s, TrackEnded{})
	req := cmds[0].(ResolveAutoplay)

	// a user play lands while the lookup is in flight
	s.Advance(tr("U"))

	d := tr("D")
	next, cmds := Reduce(s, AutoplayResolved{Epoch: req.Epoch, Candidate: &d})
	assert.Empty(t, cmds)
	assert.Equal(t, "U", next.Current.Title)

	_, cmds = Reduce(s, AutoplayResolved{Epoch: req.Epoch})
	assert.Empty(t, cmds, "a stale miss must not clean up either")
}

func TestTrackEndWhileDrainingIgnored(t *testing.T) {
	s := playing("A")
	s.Autoplay = true
	s, _ = Reduce(s, TrackEnded{})

	next, cmds := Reduce(s, TrackEnded{})
	assert.Empty(t, cmds)
	assert.True(t, next.Pending)
}

func TestPhaseOf(t *testing.T) {
	assert.Equal(t, Idle, PhaseOf(state.State{}))
	assert.Equal(t, Playing, PhaseOf(playing("A")))
	assert.Equal(t, "draining", Draining.String())
}
