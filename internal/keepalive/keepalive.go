// Package keepalive serves a tiny HTTP endpoint hosting platforms can poll to
// keep the process awake and to check on it.
package keepalive

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Probe reports the live numbers shown on /status.
type Probe interface {
	ActiveSessions() int
	BackendReady() bool
}

// Server is the keep-alive HTTP server.
type Server struct {
	addr    string
	probe   Probe
	started time.Time
	now     func() time.Time
}

func New(addr string, probe Probe) *Server {
	return &Server{addr: addr, probe: probe, started: time.Now(), now: time.Now}
}

// Handler builds the routes.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bot is running")
	})
	r.GET("/status", func(c *gin.Context) {
		up := s.now().Sub(s.started)
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"active_sessions": s.probe.ActiveSessions(),
			"lavalink_ready":  s.probe.BackendReady(),
			"uptime":          strings.TrimSpace(humanize.RelTime(s.started, s.now(), "", "")),
			"uptime_seconds":  int64(up.Seconds()),
			"started_at":      s.started.UTC().Format(time.RFC3339),
		})
	})
	return r
}

// Run serves until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "keepalive").Str("addr", s.addr).Msg("keep-alive server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "keep-alive server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
