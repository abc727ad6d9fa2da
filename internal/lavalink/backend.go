package lavalink

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/track"
	"github.com/rs/zerolog/log"
)

// VoiceGateway sends voice state updates (gateway op 4). An empty channel id
// leaves voice. *discordgo.Session satisfies it.
type VoiceGateway interface {
	ChannelVoiceJoinManual(guildID, channelID string, mute, deaf bool) error
}

type guildPlayer struct {
	channelID snowflake.ID

	// discord voice credentials, forwarded to the node once complete
	voiceSession string
	token        string
	endpoint     string
	voiceSent    bool
	voiceReady   chan struct{}

	active   bool
	paused   bool
	volume   int
	position time.Duration
}

// Backend drives Lavalink players on behalf of the playback core.
type Backend struct {
	node    *Node
	gateway VoiceGateway

	mu         sync.Mutex
	players    map[snowflake.ID]*guildPlayer
	onTrackEnd func(guildID snowflake.ID, encoded, reason string)

	connectTimeout time.Duration
}

var _ player.Backend = (*Backend)(nil)

func NewBackend(node *Node, gateway VoiceGateway) *Backend {
	b := &Backend{
		node:           node,
		gateway:        gateway,
		players:        make(map[snowflake.ID]*guildPlayer),
		connectTimeout: 10 * time.Second,
	}
	node.OnReady(b.handleReady)
	node.OnEvent(b.handleEvent)
	node.OnPlayerUpdate(b.handlePlayerUpdate)
	return b
}

// OnTrackEnd registers the track-end handler. It runs on its own goroutine
// for every TrackEndEvent, whatever the reason, with the encoded blob of the
// track that ended.
func (b *Backend) OnTrackEnd(fn func(guildID snowflake.ID, encoded, reason string)) {
	b.mu.Lock()
	b.onTrackEnd = fn
	b.mu.Unlock()
}

func (b *Backend) Ready() bool { return b.node.Ready() }

// Connect joins channelID and waits until the node received the voice
// credentials.
func (b *Backend) Connect(ctx context.Context, guildID, channelID snowflake.ID) error {
	b.mu.Lock()
	p := b.player(guildID)
	p.channelID = channelID
	already := p.voiceSent
	wait := p.voiceReady
	b.mu.Unlock()

	if err := b.gateway.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true); err != nil {
		return errors.Wrap(err, "join voice")
	}
	if already {
		return nil
	}

	timer := time.NewTimer(b.connectTimeout)
	defer timer.Stop()
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		_ = b.gateway.ChannelVoiceJoinManual(guildID.String(), "", false, true)
		b.forget(guildID)
		return errors.Newf("voice connection to %s timed out", channelID)
	}
}

// Disconnect destroys the node player and leaves voice. With force, errors
// are logged instead of returned.
func (b *Backend) Disconnect(ctx context.Context, guildID snowflake.ID, force bool) error {
	var errs error
	if b.node.Ready() {
		if err := b.node.DestroyPlayer(ctx, guildID.String()); err != nil {
			errs = errors.Wrap(err, "destroy player")
		}
	}
	if err := b.gateway.ChannelVoiceJoinManual(guildID.String(), "", false, true); err != nil {
		errs = errors.CombineErrors(errs, errors.Wrap(err, "leave voice"))
	}
	b.forget(guildID)

	if errs != nil && force {
		log.Warn().Str("component", "lavalink").Str("guild", guildID.String()).Err(errs).Msg("forced disconnect")
		return nil
	}
	return errs
}

// Play starts t, replacing whatever is loaded, and returns the encoded blob
// the node now plays. Tracks without one are loaded by URI first.
func (b *Backend) Play(ctx context.Context, guildID snowflake.ID, t track.Track) (string, error) {
	encoded := t.Encoded
	if encoded == "" {
		if t.URI == "" {
			return "", errors.Newf("track %q has neither data nor uri", t.Title)
		}
		res, err := b.node.LoadTracks(ctx, t.URI)
		if err != nil {
			return "", errors.Wrap(err, "load track")
		}
		if len(res.Tracks) == 0 {
			return "", errors.Newf("nothing playable at %s", t.URI)
		}
		encoded = res.Tracks[0].Encoded
	}

	err := b.node.UpdatePlayer(ctx, guildID.String(), PlayerUpdate{
		Track:  &TrackUpdate{Encoded: &encoded},
		Paused: ptr(false),
	})
	if err != nil {
		return "", errors.Wrap(err, "play")
	}

	b.update(guildID, func(p *guildPlayer) {
		p.active, p.paused, p.position = true, false, 0
	})
	return encoded, nil
}

func (b *Backend) Pause(ctx context.Context, guildID snowflake.ID, paused bool) error {
	if err := b.node.UpdatePlayer(ctx, guildID.String(), PlayerUpdate{Paused: &paused}); err != nil {
		return errors.Wrap(err, "pause")
	}
	b.update(guildID, func(p *guildPlayer) { p.paused = paused })
	return nil
}

// Stop unloads the current track; the node reports it as ended with
// reason "stopped".
func (b *Backend) Stop(ctx context.Context, guildID snowflake.ID) error {
	if err := b.node.UpdatePlayer(ctx, guildID.String(), PlayerUpdate{Track: &TrackUpdate{}}); err != nil {
		return errors.Wrap(err, "stop")
	}
	b.update(guildID, func(p *guildPlayer) { p.active, p.paused = false, false })
	return nil
}

func (b *Backend) Seek(ctx context.Context, guildID snowflake.ID, pos time.Duration) error {
	if err := b.node.UpdatePlayer(ctx, guildID.String(), PlayerUpdate{Position: ptr(pos.Milliseconds())}); err != nil {
		return errors.Wrap(err, "seek")
	}
	b.update(guildID, func(p *guildPlayer) { p.position = pos })
	return nil
}

func (b *Backend) SetVolume(ctx context.Context, guildID snowflake.ID, volume int) error {
	if err := b.node.UpdatePlayer(ctx, guildID.String(), PlayerUpdate{Volume: &volume}); err != nil {
		return errors.Wrap(err, "set volume")
	}
	b.update(guildID, func(p *guildPlayer) { p.volume = volume })
	return nil
}

func (b *Backend) Status(guildID snowflake.ID) player.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.players[guildID]
	if !ok {
		return player.Status{}
	}
	volume := p.volume
	if volume == 0 {
		volume = 100
	}
	return player.Status{
		Connected: p.channelID != 0,
		ChannelID: p.channelID,
		Active:    p.active,
		Paused:    p.paused,
		Volume:    volume,
	}
}

// Position returns the last reported playback position.
func (b *Backend) Position(guildID snowflake.ID) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.players[guildID]; ok {
		return p.position
	}
	return 0
}

// VoiceStateUpdate forwards the bot's own voice state. A zero channel means
// the bot left or was moved out of voice.
func (b *Backend) VoiceStateUpdate(guildID, channelID snowflake.ID, sessionID string) {
	if channelID == 0 {
		b.mu.Lock()
		if p, ok := b.players[guildID]; ok {
			p.channelID, p.active = 0, false
		}
		b.mu.Unlock()
		return
	}

	b.mu.Lock()
	p := b.player(guildID)
	p.channelID = channelID
	changed := p.voiceSession != sessionID
	p.voiceSession = sessionID
	b.mu.Unlock()

	if changed {
		b.sendVoice(guildID)
	}
}

// VoiceServerUpdate forwards the voice server credentials.
func (b *Backend) VoiceServerUpdate(guildID snowflake.ID, token, endpoint string) {
	b.mu.Lock()
	p := b.player(guildID)
	p.token, p.endpoint = token, endpoint
	b.mu.Unlock()

	b.sendVoice(guildID)
}

func (b *Backend) sendVoice(guildID snowflake.ID) {
	b.mu.Lock()
	p, ok := b.players[guildID]
	if !ok || p.voiceSession == "" || p.token == "" || p.endpoint == "" {
		b.mu.Unlock()
		return
	}
	voice := VoiceState{
		Token:     p.token,
		Endpoint:  p.endpoint,
		SessionID: p.voiceSession,
		ChannelID: p.channelID.String(),
	}
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.node.UpdatePlayer(ctx, guildID.String(), PlayerUpdate{Voice: &voice}); err != nil {
		log.Warn().Str("component", "lavalink").Str("guild", guildID.String()).Err(err).Msg("voice update failed")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.players[guildID]; ok && !p.voiceSent {
		p.voiceSent = true
		close(p.voiceReady)
	}
}

func (b *Backend) handleReady(_ string, resumed bool) {
	if resumed {
		return
	}

	// a fresh session knows no players; hand the voice state over again
	b.mu.Lock()
	guilds := make([]snowflake.ID, 0, len(b.players))
	for id, p := range b.players {
		p.active, p.paused = false, false
		guilds = append(guilds, id)
	}
	b.mu.Unlock()

	for _, id := range guilds {
		go b.sendVoice(id)
	}
}

func (b *Backend) handleEvent(ev Event) {
	guildID, err := snowflake.Parse(ev.GuildID)
	if err != nil {
		return
	}
	l := log.With().Str("component", "lavalink").Str("guild", ev.GuildID).Logger()

	switch ev.Type {
	case "TrackStartEvent":
		b.update(guildID, func(p *guildPlayer) { p.active = true })

	case "TrackEndEvent":
		if ev.Reason != EndReplaced {
			b.update(guildID, func(p *guildPlayer) { p.active, p.paused = false, false })
		}
		b.mu.Lock()
		fn := b.onTrackEnd
		b.mu.Unlock()
		var encoded string
		if ev.Track != nil {
			encoded = ev.Track.Encoded
		}
		if fn != nil {
			go fn(guildID, encoded, ev.Reason)
		}

	case "TrackExceptionEvent":
		if ev.Exception != nil {
			l.Warn().Str("severity", ev.Exception.Severity).Msg(ev.Exception.Message)
		}

	case "TrackStuckEvent":
		l.Warn().Int64("threshold_ms", ev.Threshold).Msg("track stuck, stopping")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := b.Stop(ctx, guildID); err != nil {
				l.Warn().Err(err).Msg("stop stuck track")
			}
		}()

	case "WebSocketClosedEvent":
		l.Warn().Int("code", ev.Code).Bool("by_remote", ev.ByRemote).Msg("voice websocket closed")
	}
}

func (b *Backend) handlePlayerUpdate(guildID string, st PlayerState) {
	id, err := snowflake.Parse(guildID)
	if err != nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.players[id]; ok {
		p.position = time.Duration(st.Position) * time.Millisecond
	}
}

// player returns the record of guildID, creating it. b.mu must be held.
func (b *Backend) player(guildID snowflake.ID) *guildPlayer {
	p, ok := b.players[guildID]
	if !ok {
		p = &guildPlayer{voiceReady: make(chan struct{})}
		b.players[guildID] = p
	}
	return p
}

func (b *Backend) update(guildID snowflake.ID, fn func(p *guildPlayer)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.players[guildID]; ok {
		fn(p)
	}
}

func (b *Backend) forget(guildID snowflake.ID) {
	b.mu.Lock()
	delete(b.players, guildID)
	b.mu.Unlock()
}
