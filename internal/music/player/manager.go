// Package player dispatches user actions and backend events onto the guild
// playback state and executes the effects the policy asks for.
package player

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/lyrics"
	"github.com/keshon/jukebox/internal/music/cooldown"
	"github.com/keshon/jukebox/internal/music/musicerr"
	"github.com/keshon/jukebox/internal/music/panel"
	"github.com/keshon/jukebox/internal/music/policy"
	"github.com/keshon/jukebox/internal/music/state"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/keshon/jukebox/pkg/jobmgr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Cooldown keys. Panel volume buttons share ActionVolume.
const (
	ActionPlay     = "play"
	ActionPause    = "pause"
	ActionSkip     = "skip"
	ActionBack     = "back"
	ActionStop     = "stop"
	ActionLoop     = "loop"
	ActionAutoplay = "autoplay"
	ActionShuffle  = "shuffle"
	ActionVolume   = "volume"
	ActionSeek     = "seek"
	ActionClear    = "clear"
	ActionJoin     = "join"
	ActionLeave    = "leave"
)

// Options tunes a Manager.
type Options struct {
	MinVolume  int
	MaxVolume  int
	VolumeStep int
	// DefaultVolume is assumed when the backend reports none.
	DefaultVolume int
	// EffectTimeout bounds backend and panel calls made outside a user request.
	EffectTimeout time.Duration
	Rand          *rand.Rand
}

func DefaultOptions() Options {
	return Options{
		MinVolume:     1,
		MaxVolume:     200,
		VolumeStep:    10,
		DefaultVolume: 100,
		EffectTimeout: 10 * time.Second,
	}
}

// Deps are the collaborators of a Manager. Cooldown and Lyrics may be nil.
type Deps struct {
	Sessions *state.Registry
	Backend  Backend
	Resolver Resolver
	Autoplay Autoplayer
	Lyrics   Lyrics
	Surface  Surface
	Cooldown *cooldown.Gate
	Jobs     *jobmgr.Manager
}

// Manager is the single entry point for mutating guild playback.
type Manager struct {
	sessions *state.Registry
	backend  Backend
	resolver Resolver
	autoplay Autoplayer
	lyrics   Lyrics
	surface  Surface
	cooldown *cooldown.Gate
	jobs     *jobmgr.Manager
	opts     Options

	rngMu sync.Mutex
}

func New(deps Deps, opts Options) *Manager {
	def := DefaultOptions()
	if opts.MinVolume <= 0 {
		opts.MinVolume = def.MinVolume
	}
	if opts.MaxVolume < opts.MinVolume {
		opts.MaxVolume = max(def.MaxVolume, opts.MinVolume)
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = def.VolumeStep
	}
	if opts.DefaultVolume <= 0 {
		opts.DefaultVolume = def.DefaultVolume
	}
	if opts.EffectTimeout <= 0 {
		opts.EffectTimeout = def.EffectTimeout
	}
	if deps.Sessions == nil {
		deps.Sessions = state.NewRegistry()
	}
	if deps.Jobs == nil {
		deps.Jobs = jobmgr.NewManager(nil)
	}

	return &Manager{
		sessions: deps.Sessions,
		backend:  deps.Backend,
		resolver: deps.Resolver,
		autoplay: deps.Autoplay,
		lyrics:   deps.Lyrics,
		surface:  deps.Surface,
		cooldown: deps.Cooldown,
		jobs:     deps.Jobs,
		opts:     opts,
	}
}

// Sessions exposes the registry for read-only reporting.
func (m *Manager) Sessions() *state.Registry { return m.sessions }

// Options returns the effective options.
func (m *Manager) Options() Options { return m.opts }

// ActiveSessions counts guilds with a live session.
func (m *Manager) ActiveSessions() int { return m.sessions.Len() }

// BackendReady reports whether the audio backend accepts commands.
func (m *Manager) BackendReady() bool { return m.backend.Ready() }

// PlayResult describes what Play did with the resolved tracks.
type PlayResult struct {
	// Track is the first resolved track.
	Track track.Track
	// Started is set when Track began playing at once.
	Started bool
	// Queued counts tracks appended to the queue; Position is the 1-based
	// queue slot of the first of them.
	Queued   int
	Position int
}

// Play resolves query and either starts playback or queues the result.
// textChannelID is where a new control panel is posted.
func (m *Manager) Play(ctx context.Context, guildID, textChannelID snowflake.ID, actor Actor, query string) (PlayResult, error) {
	if !m.backend.Ready() {
		return PlayResult{}, musicerr.ErrBackendOffline
	}
	if err := m.checkVoice(guildID, actor); err != nil {
		return PlayResult{}, err
	}
	if err := m.checkCooldown(actor, ActionPlay); err != nil {
		return PlayResult{}, err
	}

	l := guildLog(guildID)

	tracks, err := m.resolver.Resolve(ctx, query, actor.Requester)
	if err != nil {
		l.Warn().Err(err).Str("query", query).Msg("resolve failed")
		return PlayResult{}, errors.WithSecondaryError(musicerr.ErrNoResults, err)
	}
	if len(tracks) == 0 {
		return PlayResult{}, musicerr.ErrNoResults
	}

	if !m.backend.Status(guildID).Connected {
		if err := m.backend.Connect(ctx, guildID, actor.VoiceChannelID); err != nil {
			return PlayResult{}, musicerr.Unavailable(err, "connect voice")
		}
	}

	sess, created := m.lockSession(guildID)
	defer sess.Unlock()

	sess.State.Manual = state.ManualNone
	res := PlayResult{Track: tracks[0]}
	rest := tracks

	if !m.backend.Status(guildID).Active {
		m.cancelAutoplay(guildID)
		prev := sess.State.Snapshot()
		sess.State.Advance(tracks[0])

		if err := m.load(ctx, sess, tracks[0]); err != nil {
			sess.State = prev
			sess.State.Pending = false
			if created {
				m.terminate(ctx, sess, false)
			}
			return PlayResult{}, musicerr.Unavailable(err, "play")
		}
		res.Started = true
		rest = tracks[1:]
	}

	if len(rest) > 0 {
		res.Position = len(sess.State.Queue) + 1
		res.Queued = len(rest)
		sess.State.Enqueue(rest...)
	}

	l.Info().
		Str("title", res.Track.Title).
		Bool("started", res.Started).
		Int("queued", res.Queued).
		Str("by", actor.Display()).
		Msg("play")

	m.publishPanel(ctx, sess, textChannelID)
	return res, nil
}

// TogglePause flips the pause state and returns the new one.
func (m *Manager) TogglePause(ctx context.Context, guildID snowflake.ID, actor Actor) (bool, error) {
	var paused bool
	err := m.act(guildID, actor, ActionPause, func(sess *state.Session) error {
		st := m.backend.Status(guildID)
		if !st.Active {
			return musicerr.ErrNothingPlaying
		}
		paused = !st.Paused
		return m.setPaused(ctx, sess, paused)
	})
	return paused, err
}

func (m *Manager) Pause(ctx context.Context, guildID snowflake.ID, actor Actor) error {
	return m.act(guildID, actor, ActionPause, func(sess *state.Session) error {
		st := m.backend.Status(guildID)
		if !st.Active {
			return musicerr.ErrNothingPlaying
		}
		if st.Paused {
			return musicerr.ErrAlreadyPaused
		}
		return m.setPaused(ctx, sess, true)
	})
}

func (m *Manager) Resume(ctx context.Context, guildID snowflake.ID, actor Actor) error {
	return m.act(guildID, actor, ActionPause, func(sess *state.Session) error {
		st := m.backend.Status(guildID)
		if !st.Active {
			return musicerr.ErrNothingPlaying
		}
		if !st.Paused {
			return musicerr.ErrNotPaused
		}
		return m.setPaused(ctx, sess, false)
	})
}

func (m *Manager) setPaused(ctx context.Context, sess *state.Session, paused bool) error {
	if err := m.backend.Pause(ctx, sess.GuildID(), paused); err != nil {
		return musicerr.Unavailable(err, "pause")
	}
	m.syncPanel(ctx, sess)
	return nil
}

// Skip stops the current track. The resulting track end picks what comes
// next, exactly as if the track had finished.
func (m *Manager) Skip(ctx context.Context, guildID snowflake.ID, actor Actor) (track.Track, error) {
	var skipped track.Track
	err := m.act(guildID, actor, ActionSkip, func(sess *state.Session) error {
		if !m.backend.Status(guildID).Active || sess.State.Current == nil {
			return musicerr.ErrNothingPlaying
		}
		skipped = *sess.State.Current
		if err := m.backend.Stop(ctx, guildID); err != nil {
			return musicerr.Unavailable(err, "stop")
		}
		return nil
	})
	return skipped, err
}

// Back replays the previous track. The end event of the replaced track is
// suppressed.
func (m *Manager) Back(ctx context.Context, guildID snowflake.ID, actor Actor) (track.Track, error) {
	var t track.Track
	err := m.act(guildID, actor, ActionBack, func(sess *state.Session) error {
		if sess.State.Previous == nil {
			return musicerr.ErrNoPrevious
		}

		// only a loaded track produces an end event to suppress
		armed := m.backend.Status(guildID).Active
		m.cancelAutoplay(guildID)
		t, _ = sess.State.Back(armed)

		if err := m.load(ctx, sess, t); err != nil {
			sess.State.Manual = state.ManualNone
			return musicerr.Unavailable(err, "play")
		}
		m.syncPanel(ctx, sess)
		return nil
	})
	return t, err
}

// Stop ends playback, leaves voice and drops the guild session.
func (m *Manager) Stop(ctx context.Context, guildID snowflake.ID, actor Actor) error {
	return m.act(guildID, actor, ActionStop, func(sess *state.Session) error {
		sess.State.Manual = state.ManualStop
		if err := m.backend.Stop(ctx, guildID); err != nil {
			guildLog(guildID).Warn().Err(err).Msg("stop failed")
		}
		m.terminate(ctx, sess, false)
		return nil
	})
}

func (m *Manager) ToggleLoop(ctx context.Context, guildID snowflake.ID, actor Actor) (bool, error) {
	var on bool
	err := m.act(guildID, actor, ActionLoop, func(sess *state.Session) error {
		on = sess.State.ToggleLoop()
		m.syncPanel(ctx, sess)
		return nil
	})
	return on, err
}

func (m *Manager) ToggleAutoplay(ctx context.Context, guildID snowflake.ID, actor Actor) (bool, error) {
	var on bool
	err := m.act(guildID, actor, ActionAutoplay, func(sess *state.Session) error {
		on = sess.State.ToggleAutoplay()
		m.syncPanel(ctx, sess)
		return nil
	})
	return on, err
}

func (m *Manager) Shuffle(ctx context.Context, guildID snowflake.ID, actor Actor) (int, error) {
	var n int
	err := m.act(guildID, actor, ActionShuffle, func(sess *state.Session) error {
		n = len(sess.State.Queue)
		if n == 0 {
			return musicerr.ErrQueueEmpty
		}
		m.rngMu.Lock()
		sess.State.Shuffle(m.opts.Rand)
		m.rngMu.Unlock()
		m.syncPanel(ctx, sess)
		return nil
	})
	return n, err
}

// SetVolume sets an absolute volume, clamped to the configured bounds.
func (m *Manager) SetVolume(ctx context.Context, guildID snowflake.ID, actor Actor, volume int) (int, error) {
	volume = ClampVolume(volume, m.opts.MinVolume, m.opts.MaxVolume)
	err := m.act(guildID, actor, ActionVolume, func(sess *state.Session) error {
		return m.applyVolume(ctx, sess, volume)
	})
	return volume, err
}

// StepVolume moves the volume by steps increments of the configured step.
func (m *Manager) StepVolume(ctx context.Context, guildID snowflake.ID, actor Actor, steps int) (int, error) {
	var volume int
	err := m.act(guildID, actor, ActionVolume, func(sess *state.Session) error {
		cur := m.backend.Status(guildID).Volume
		if cur <= 0 {
			cur = m.opts.DefaultVolume
		}
		volume = ClampVolume(cur+steps*m.opts.VolumeStep, m.opts.MinVolume, m.opts.MaxVolume)
		return m.applyVolume(ctx, sess, volume)
	})
	return volume, err
}

func (m *Manager) applyVolume(ctx context.Context, sess *state.Session, volume int) error {
	if !m.backend.Status(sess.GuildID()).Connected {
		return musicerr.ErrNothingPlaying
	}
	if err := m.backend.SetVolume(ctx, sess.GuildID(), volume); err != nil {
		return musicerr.Unavailable(err, "set volume")
	}
	m.syncPanel(ctx, sess)
	return nil
}

// ClampVolume bounds v to [lo, hi].
func ClampVolume(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Seek jumps within the current track. The position is clamped to the
// track length.
func (m *Manager) Seek(ctx context.Context, guildID snowflake.ID, actor Actor, pos time.Duration) (time.Duration, error) {
	err := m.act(guildID, actor, ActionSeek, func(sess *state.Session) error {
		cur := sess.State.Current
		if cur == nil || !m.backend.Status(guildID).Active {
			return musicerr.ErrNothingPlaying
		}
		if !cur.Seekable || cur.IsLive() {
			return musicerr.ErrNotSeekable
		}
		pos = min(max(pos, 0), cur.Length)
		if err := m.backend.Seek(ctx, guildID, pos); err != nil {
			return musicerr.Unavailable(err, "seek")
		}
		return nil
	})
	return pos, err
}

// ClearQueue drops every queued track and returns how many there were.
func (m *Manager) ClearQueue(ctx context.Context, guildID snowflake.ID, actor Actor) (int, error) {
	var n int
	err := m.act(guildID, actor, ActionClear, func(sess *state.Session) error {
		if n = sess.State.ClearQueue(); n == 0 {
			return musicerr.ErrQueueEmpty
		}
		m.syncPanel(ctx, sess)
		return nil
	})
	return n, err
}

// Join connects to the actor's voice channel without starting playback.
func (m *Manager) Join(ctx context.Context, guildID snowflake.ID, actor Actor) error {
	if !m.backend.Ready() {
		return musicerr.ErrBackendOffline
	}
	if err := m.checkVoice(guildID, actor); err != nil {
		return err
	}
	if err := m.checkCooldown(actor, ActionJoin); err != nil {
		return err
	}
	if st := m.backend.Status(guildID); st.Connected && st.ChannelID == actor.VoiceChannelID {
		return nil
	}
	if err := m.backend.Connect(ctx, guildID, actor.VoiceChannelID); err != nil {
		return musicerr.Unavailable(err, "connect voice")
	}
	return nil
}

// Leave force-disconnects and drops the guild session, if any.
func (m *Manager) Leave(ctx context.Context, guildID snowflake.ID, actor Actor) error {
	if err := m.checkVoice(guildID, actor); err != nil {
		return err
	}
	if err := m.checkCooldown(actor, ActionLeave); err != nil {
		return err
	}

	if sess, ok := m.sessions.Get(guildID); ok {
		sess.Lock()
		defer sess.Unlock()
		if !sess.Closed() {
			sess.State.Manual = state.ManualOther
			m.terminate(ctx, sess, true)
			return nil
		}
	}

	if !m.backend.Status(guildID).Connected {
		return musicerr.ErrNoSession
	}
	return musicerr.Unavailable(m.backend.Disconnect(ctx, guildID, true), "disconnect")
}

// Snapshot returns a copy of the guild state with the backend's view.
func (m *Manager) Snapshot(guildID snowflake.ID) (panel.View, bool) {
	sess, ok := m.sessions.Get(guildID)
	if !ok {
		return panel.View{}, false
	}
	sess.Lock()
	if sess.Closed() {
		sess.Unlock()
		return panel.View{}, false
	}
	v := m.view(sess)
	sess.Unlock()
	return v, true
}

// Lyrics looks up the text of the current track.
func (m *Manager) Lyrics(ctx context.Context, guildID snowflake.ID) (lyrics.Result, error) {
	v, ok := m.Snapshot(guildID)
	if !ok || v.State.Current == nil {
		return lyrics.Result{}, musicerr.ErrNothingPlaying
	}
	if m.lyrics == nil {
		return lyrics.Result{}, musicerr.ErrLyricsNotFound
	}
	cur := v.State.Current
	res, found := m.lyrics.Lookup(ctx, cur.Title, cur.Author)
	if !found {
		return lyrics.Result{}, musicerr.ErrLyricsNotFound
	}
	return res, nil
}

// HandleTrackEnd is called by the backend whenever a track of a guild stops,
// whatever the reason. encoded identifies the track that ended; events for a
// track that is no longer current are dropped.
func (m *Manager) HandleTrackEnd(guildID snowflake.ID, encoded, reason string) {
	sess, ok := m.sessions.Get(guildID)
	if !ok {
		return
	}
	guildLog(guildID).Debug().Str("reason", reason).Msg("track end")

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.EffectTimeout)
	defer cancel()
	m.dispatch(ctx, sess, policy.TrackEnded{Reason: reason, Track: encoded})
}

// HandleVoiceLost tears down the session of a guild whose voice connection
// was dropped from outside, e.g. the bot was kicked from the channel.
func (m *Manager) HandleVoiceLost(guildID snowflake.ID) {
	sess, ok := m.sessions.Get(guildID)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.opts.EffectTimeout)
	defer cancel()

	sess.Lock()
	defer sess.Unlock()
	if sess.Closed() {
		return
	}
	guildLog(guildID).Info().Msg("voice connection lost")
	sess.State.Manual = state.ManualStop
	m.terminate(ctx, sess, true)
}

// Close cancels lookups and tears down every session.
func (m *Manager) Close(ctx context.Context) {
	m.jobs.StopAll()
	for _, guildID := range m.sessions.Guilds() {
		sess, ok := m.sessions.Get(guildID)
		if !ok {
			continue
		}
		sess.Lock()
		if !sess.Closed() {
			m.terminate(ctx, sess, true)
		}
		sess.Unlock()
	}
	m.jobs.Wait()
}

func (m *Manager) dispatch(ctx context.Context, sess *state.Session, ev policy.Event) {
	sess.Lock()
	defer sess.Unlock()
	if sess.Closed() {
		return
	}

	next, cmds := policy.Reduce(sess.State, ev)
	sess.State = next
	m.execute(ctx, sess, cmds)
}

// execute runs policy commands; the session lock is held.
func (m *Manager) execute(ctx context.Context, sess *state.Session, cmds []policy.Command) {
	l := guildLog(sess.GuildID())
	for _, c := range cmds {
		switch c := c.(type) {
		case policy.Play:
			if err := m.load(ctx, sess, c.Track); err != nil {
				l.Error().Err(err).Str("title", c.Track.Title).Msg("play next failed")
				// the rest of this plan assumed the track plays
				next, more := policy.Reduce(sess.State, policy.PlayFailed{})
				sess.State = next
				m.execute(ctx, sess, more)
				return
			}
		case policy.ResolveAutoplay:
			m.startAutoplay(sess, c)
		case policy.SyncPanel:
			m.syncPanel(ctx, sess)
		case policy.Cleanup:
			l.Info().Msg("playback finished")
			m.terminate(ctx, sess, false)
			return
		}
	}
}

// load hands t to the backend and binds the blob it plays to Current, so end
// events can be matched against it. The session lock is held.
func (m *Manager) load(ctx context.Context, sess *state.Session, t track.Track) error {
	encoded, err := m.backend.Play(ctx, sess.GuildID(), t)
	if err != nil {
		return err
	}
	if cur := sess.State.Current; cur != nil && encoded != "" && cur.Encoded != encoded {
		bound := *cur
		bound.Encoded = encoded
		sess.State.Current = &bound
	}
	return nil
}

func (m *Manager) startAutoplay(sess *state.Session, c policy.ResolveAutoplay) {
	name := autoplayJob(sess.GuildID())
	_ = m.jobs.Stop(name)

	err := m.jobs.StartAsync(name, func(ctx context.Context) error {
		var candidate *track.Track
		if m.autoplay != nil {
			if t, ok := m.autoplay.Next(ctx, c.Seed.Ptr()); ok {
				candidate = t.Ptr()
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		applyCtx, cancel := context.WithTimeout(context.Background(), m.opts.EffectTimeout)
		defer cancel()
		m.dispatch(applyCtx, sess, policy.AutoplayResolved{
			Epoch:     c.Epoch,
			Candidate: candidate,
			Manual:    c.Manual,
		})
		return nil
	})
	if err != nil {
		guildLog(sess.GuildID()).Warn().Err(err).Msg("autoplay lookup not started")
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.EffectTimeout)
		defer cancel()
		next, cmds := policy.Reduce(sess.State, policy.AutoplayResolved{Epoch: c.Epoch, Manual: c.Manual})
		sess.State = next
		m.execute(ctx, sess, cmds)
	}
}

func (m *Manager) cancelAutoplay(guildID snowflake.ID) {
	_ = m.jobs.Stop(autoplayJob(guildID))
}

// terminate disconnects, retires the panel and removes the session. The
// session lock is held.
func (m *Manager) terminate(ctx context.Context, sess *state.Session, force bool) {
	guildID := sess.GuildID()
	m.cancelAutoplay(guildID)

	if err := m.backend.Disconnect(ctx, guildID, force); err != nil {
		guildLog(guildID).Warn().Err(err).Msg("disconnect failed")
	}
	if ref := sess.State.Panel; ref != nil && m.surface != nil {
		if err := m.surface.Edit(ctx, *ref, panel.Finished()); err != nil {
			guildLog(guildID).Debug().Err(err).Msg("finish panel")
		}
	}

	sess.State.Reset()
	m.sessions.Remove(sess)
}

func (m *Manager) view(sess *state.Session) panel.View {
	st := m.backend.Status(sess.GuildID())
	return panel.View{
		State:     sess.State.Snapshot(),
		HasPlayer: st.Connected,
		Paused:    st.Paused,
		Volume:    st.Volume,
	}
}

func (m *Manager) syncPanel(ctx context.Context, sess *state.Session) {
	m.publishPanel(ctx, sess, 0)
}

// publishPanel edits the panel in place, or posts a new one to channelID
// when there is none. Failures are logged only.
func (m *Manager) publishPanel(ctx context.Context, sess *state.Session, channelID snowflake.ID) {
	if m.surface == nil {
		return
	}
	l := guildLog(sess.GuildID())
	p := panel.Render(m.view(sess))

	if ref := sess.State.Panel; ref != nil {
		err := m.surface.Edit(ctx, *ref, p)
		if err == nil {
			return
		}
		if !errors.Is(err, musicerr.ErrPanelGone) {
			l.Warn().Err(err).Msg("panel update failed")
			return
		}
		sess.State.Panel = nil
		if channelID == 0 {
			channelID = ref.ChannelID
		}
	}
	if channelID == 0 {
		return
	}

	ref, err := m.surface.Send(ctx, channelID, p)
	if err != nil {
		l.Warn().Err(err).Msg("panel send failed")
		return
	}
	sess.State.Panel = &ref
}

// act runs fn under the session lock after the voice and cooldown checks.
func (m *Manager) act(guildID snowflake.ID, actor Actor, action string, fn func(sess *state.Session) error) error {
	if err := m.checkVoice(guildID, actor); err != nil {
		return err
	}
	sess, ok := m.sessions.Get(guildID)
	if !ok {
		return musicerr.ErrNoSession
	}
	if err := m.checkCooldown(actor, action); err != nil {
		return err
	}

	sess.Lock()
	defer sess.Unlock()
	if sess.Closed() {
		return musicerr.ErrNoSession
	}
	return fn(sess)
}

func (m *Manager) checkVoice(guildID snowflake.ID, actor Actor) error {
	if actor.VoiceChannelID == 0 {
		return musicerr.ErrNotInVoice
	}
	st := m.backend.Status(guildID)
	if st.Connected && st.ChannelID != 0 && st.ChannelID != actor.VoiceChannelID {
		return musicerr.ErrWrongChannel
	}
	return nil
}

func (m *Manager) checkCooldown(actor Actor, action string) error {
	if m.cooldown == nil {
		return nil
	}
	if d := m.cooldown.Check(actor.ID, action); d > 0 {
		return &musicerr.CooldownError{Action: action, Remaining: d}
	}
	return nil
}

// lockSession returns the live session of guildID, locked, creating it when
// needed.
func (m *Manager) lockSession(guildID snowflake.ID) (*state.Session, bool) {
	for {
		sess, created := m.sessions.GetOrCreate(guildID)
		sess.Lock()
		if !sess.Closed() {
			return sess, created
		}
		sess.Unlock()
	}
}

func autoplayJob(guildID snowflake.ID) string {
	return "autoplay:" + guildID.String()
}

func guildLog(guildID snowflake.ID) *zerolog.Logger {
	l := log.With().Str("component", "player").Str("guild", guildID.String()).Logger()
	return &l
}
