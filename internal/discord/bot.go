// Package discord runs the gateway session: it routes interactions to the
// registered commands, keeps slash commands in sync per guild and hands the
// bot's voice credentials to the audio backend.
package discord

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/disgoorg/snowflake/v2"
	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures a Bot.
type Options struct {
	Token          string
	GuildBlacklist []string
	// CommandCacheDir keeps uploaded command hashes between runs. Empty
	// uploads every command on each start.
	CommandCacheDir string
}

// Bot is a Discord bot.
type Bot struct {
	dg    *discordgo.Session
	opts  Options
	cache commandCache

	mu          sync.RWMutex
	ctx         context.Context
	voice       VoiceForwarder
	onReady     func(userID string)
	onVoiceLost func(guildID snowflake.ID)
}

// NewBot prepares the gateway session without connecting.
func NewBot(opts Options) (*Bot, error) {
	dg, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, errors.Wrap(err, "create session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	b := &Bot{
		dg:    dg,
		opts:  opts,
		cache: commandCache{dir: opts.CommandCacheDir},
		ctx:   context.Background(),
	}
	dg.AddHandler(b.onReadyEvent)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onVoiceStateUpdate)
	dg.AddHandler(b.onVoiceServerUpdate)
	return b, nil
}

// Session exposes the gateway session for voice joins and panel messages.
func (b *Bot) Session() *discordgo.Session { return b.dg }

// SetVoiceForwarder routes the bot's voice events to v.
func (b *Bot) SetVoiceForwarder(v VoiceForwarder) {
	b.mu.Lock()
	b.voice = v
	b.mu.Unlock()
}

// OnReady registers fn to run with the bot user id once the gateway is up.
func (b *Bot) OnReady(fn func(userID string)) {
	b.mu.Lock()
	b.onReady = fn
	b.mu.Unlock()
}

// OnVoiceLost registers fn for when the bot is removed from voice in a guild.
func (b *Bot) OnVoiceLost(fn func(guildID snowflake.ID)) {
	b.mu.Lock()
	b.onVoiceLost = fn
	b.mu.Unlock()
}

// Run connects and serves until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.ctx = ctx
	b.mu.Unlock()

	if err := b.dg.Open(); err != nil {
		return errors.Wrap(err, "open discord session")
	}
	defer b.dg.Close()

	<-ctx.Done()
	logger().Info().Msg("shutdown signal received, closing gateway")
	return nil
}

func (b *Bot) context() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

func (b *Bot) onReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	b.mu.RLock()
	fn := b.onReady
	b.mu.RUnlock()
	if fn != nil {
		fn(r.User.ID)
	}
	logger().Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord bot is running")
}

// onGuildCreate fires for every guild at startup and whenever the bot joins
// a new one.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	l := logger().With().Str("guild", g.ID).Str("name", g.Name).Logger()

	if b.isGuildBlacklisted(g.ID) {
		l.Info().Msg("leaving blacklisted guild")
		if err := s.GuildLeave(g.ID); err != nil {
			l.Error().Err(err).Msg("leave guild failed")
		}
		return
	}

	go func() {
		if err := b.registerCommands(g.ID); err != nil {
			l.Error().Err(err).Msg("register commands failed")
		}
	}()
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := b.context()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		c, ok := command.GetCommand(name)
		if !ok {
			logger().Warn().Str("command", name).Msg("unknown command")
			return
		}
		sctx := &command.SlashInteractionContext{Ctx: ctx, Session: s, Event: i}
		if err := c.Run(ctx, &cmd.Invocation{Data: sctx}); err != nil {
			ReplyError(sctx, name, err)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		c, ok := command.ForComponent(customID)
		if !ok {
			logger().Warn().Str("custom_id", customID).Msg("no handler for component")
			return
		}
		cctx := &command.ComponentInteractionContext{Ctx: ctx, Session: s, Event: i}
		if err := c.Run(ctx, &cmd.Invocation{Args: []string{customID}, Data: cctx}); err != nil {
			ReplyComponentError(cctx, c.Name(), err)
		}

	default:
		logger().Debug().Int("type", int(i.Type)).Msg("unhandled interaction type")
	}
}

func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State.User == nil || v.UserID != s.State.User.ID {
		return
	}
	guildID, err := snowflake.Parse(v.GuildID)
	if err != nil {
		return
	}
	var channelID snowflake.ID
	if v.ChannelID != "" {
		if channelID, err = snowflake.Parse(v.ChannelID); err != nil {
			return
		}
	}

	b.mu.RLock()
	voice, lost := b.voice, b.onVoiceLost
	b.mu.RUnlock()

	if voice != nil {
		voice.VoiceStateUpdate(guildID, channelID, v.SessionID)
	}
	if channelID == 0 && v.BeforeUpdate != nil && v.BeforeUpdate.ChannelID != "" && lost != nil {
		go lost(guildID)
	}
}

func (b *Bot) onVoiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(v.GuildID)
	if err != nil {
		return
	}
	b.mu.RLock()
	voice := b.voice
	b.mu.RUnlock()
	if voice != nil {
		voice.VoiceServerUpdate(guildID, v.Token, v.Endpoint)
	}
}

// registerCommands uploads the slash commands of guildID that changed since
// the last run and deletes the ones no longer registered.
func (b *Bot) registerCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}
	l := logger().With().Str("guild", guildID).Logger()

	existing, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return errors.Wrap(err, "list commands")
	}
	local := b.cache.load(guildID)

	var wanted []*discordgo.ApplicationCommand
	wantedHashes := make(map[string]string)
	for _, c := range command.AllCommands() {
		if def := command.Definition(c); def != nil {
			wanted = append(wanted, def)
			wantedHashes[def.Name] = hashCommand(def)
		}
	}

	present := make(map[string]bool, len(existing))
	for _, old := range existing {
		present[old.Name] = true
		if _, ok := wantedHashes[old.Name]; ok {
			continue
		}
		l.Info().Str("command", old.Name).Msg("deleting obsolete command")
		if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
			l.Error().Str("command", old.Name).Err(err).Msg("delete command failed")
		}
		delete(local, old.Name)
	}

	var changed []*discordgo.ApplicationCommand
	for _, def := range wanted {
		if !present[def.Name] || local[def.Name] != wantedHashes[def.Name] {
			changed = append(changed, def)
		}
	}
	if len(changed) > 0 {
		l.Info().Int("changed", len(changed)).Msg("updating commands")
		for _, name := range b.createCommands(appID, guildID, changed) {
			local[name] = wantedHashes[name]
		}
	}

	if err := b.cache.save(guildID, local); err != nil {
		l.Warn().Err(err).Msg("command cache not saved")
	}
	return nil
}

// createCommands uploads cmds paced under the global rate limit and returns
// the names that went through.
func (b *Bot) createCommands(appID, guildID string, cmds []*discordgo.ApplicationCommand) []string {
	ticker := time.NewTicker(time.Second / 40)
	defer ticker.Stop()

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		done []string
	)
	for _, def := range cmds {
		wg.Add(1)
		go func(def *discordgo.ApplicationCommand) {
			defer wg.Done()
			<-ticker.C

			if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
				logger().Error().Str("guild", guildID).Str("command", def.Name).Err(err).Msg("create command failed")
				return
			}
			mu.Lock()
			done = append(done, def.Name)
			mu.Unlock()
		}(def)
	}
	wg.Wait()
	return done
}

func (b *Bot) appID() (string, error) {
	if b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", errors.Wrap(err, "fetch bot user")
	}
	return u.ID, nil
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.opts.GuildBlacklist, guildID)
}

func logger() *zerolog.Logger {
	l := log.With().Str("component", "discord").Logger()
	return &l
}
