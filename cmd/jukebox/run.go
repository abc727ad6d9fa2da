package main

import (
	"context"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/keshon/jukebox/internal/command"
	"github.com/keshon/jukebox/internal/command/core"
	"github.com/keshon/jukebox/internal/command/music"
	"github.com/keshon/jukebox/internal/config"
	"github.com/keshon/jukebox/internal/discord"
	"github.com/keshon/jukebox/internal/keepalive"
	"github.com/keshon/jukebox/internal/lavalink"
	"github.com/keshon/jukebox/internal/logging"
	"github.com/keshon/jukebox/internal/lyrics"
	"github.com/keshon/jukebox/internal/middleware"
	"github.com/keshon/jukebox/internal/music/autoplay"
	"github.com/keshon/jukebox/internal/music/cooldown"
	"github.com/keshon/jukebox/internal/music/player"
	"github.com/keshon/jukebox/internal/music/resolver"
	v "github.com/keshon/jukebox/internal/version"
	"github.com/keshon/jukebox/pkg/cmd"
	"github.com/keshon/jukebox/pkg/jobmgr"
	"github.com/keshon/jukebox/pkg/retrylimit"
)

func runBot(_ *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	logFile, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logFile.Close()

	log.Info().Str("version", v.AppVersion).Msgf("starting %s", v.AppName)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	node := lavalink.NewNode(lavalink.Config{
		Host:     cfg.Lavalink.Host,
		Port:     cfg.Lavalink.Port,
		Password: cfg.Lavalink.Password,
		Secure:   cfg.Lavalink.Secure,
	})

	bot, err := discord.NewBot(discord.Options{
		Token:           cfg.DiscordToken,
		GuildBlacklist:  cfg.GuildBlacklist,
		CommandCacheDir: cfg.CommandCacheDir,
	})
	if err != nil {
		return err
	}
	backend := lavalink.NewBackend(node, bot.Session())

	gate := cooldown.New(cfg.Tuning.Cooldown)
	manager := newManager(cfg, node, backend, bot, gate)

	backend.OnTrackEnd(manager.HandleTrackEnd)
	bot.SetVoiceForwarder(backend)
	bot.OnVoiceLost(manager.HandleVoiceLost)

	var nodeOnce sync.Once
	bot.OnReady(func(userID string) {
		node.SetUserID(userID)
		nodeOnce.Do(func() {
			go func() {
				if err := node.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					log.Error().Err(err).Msg("lavalink node stopped")
				}
			}()
		})
	})

	registerCommands(cfg, manager, backend)

	go cooldown.RunCleaner(ctx, gate, time.Minute)

	if cfg.KeepAliveAddr != "" {
		go func() {
			if err := keepalive.New(cfg.KeepAliveAddr, manager).Run(ctx); err != nil {
				log.Error().Err(err).Msg("keepalive server stopped")
			}
		}()
	}

	supervise(ctx, bot)

	log.Info().Msg("shutting down sessions")
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	manager.Close(closeCtx)

	log.Info().Msg("discord bot exited cleanly")
	return nil
}

func newManager(cfg *config.Config, node *lavalink.Node, backend *lavalink.Backend, bot *discord.Bot, gate *cooldown.Gate) *player.Manager {
	t := cfg.Tuning

	opts := []resolver.Option{
		resolver.WithFallback(resolver.NewYouTube()),
		resolver.WithPlaylistCap(t.Queue.PlaylistCap),
	}
	if cfg.SpotifyClientID != "" && cfg.SpotifyClientSecret != "" {
		opts = append(opts, resolver.WithSpotify(resolver.NewSpotify(cfg.SpotifyClientID, cfg.SpotifyClientSecret)))
	} else {
		log.Info().Msg("spotify credentials not set, playlist links disabled")
	}

	jobs := jobmgr.NewManager(func(msg string) {
		log.Debug().Str("component", "jobs").Msg(msg)
	})

	return player.New(player.Deps{
		Backend:  backend,
		Resolver: resolver.New(node, opts...),
		Autoplay: autoplay.New(autoplay.YTMusic{},
			autoplay.WithTopK(t.Autoplay.TopK),
			autoplay.WithTimeout(t.Autoplay.Timeout),
		),
		Lyrics:   lyrics.New(cfg.LyricsURL),
		Surface:  discord.NewSurface(bot.Session()),
		Cooldown: gate,
		Jobs:     jobs,
	}, player.Options{
		MinVolume:     t.Volume.Min,
		MaxVolume:     t.Volume.Max,
		VolumeStep:    t.Volume.Step,
		DefaultVolume: t.Volume.Default,
	})
}

func registerCommands(cfg *config.Config, manager *player.Manager, backend *lavalink.Backend) {
	mws := []cmd.Middleware{
		middleware.WithGuildOnly(),
		middleware.WithCommandLogger(),
	}
	music.Register(manager, music.Options{
		QueuePageSize: cfg.Tuning.Queue.PageSize,
		Position:      backend,
	}, mws...)
	command.RegisterCommand(&core.HelpCommand{}, mws...)
}

// supervise keeps the gateway session up until ctx ends. A crashed or failed
// run is restarted after a growing delay.
func supervise(ctx context.Context, bot *discord.Bot) {
	backoff := retrylimit.NewBackoff(5*time.Second, 2*time.Minute)
	for {
		started := time.Now()
		err := runOnce(ctx, bot)
		if ctx.Err() != nil {
			return
		}

		backoff.Observe(time.Since(started))
		wait := backoff.Next()
		log.Error().Err(err).Dur("retry_in", wait).Msg("discord bot stopped, restarting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func runOnce(ctx context.Context, bot *discord.Bot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("panic: %v", r)
			log.Error().Str("stack", fmt.Sprintf("%+v", err)).Msg("recovered from panic")
		}
	}()
	return bot.Run(ctx)
}
