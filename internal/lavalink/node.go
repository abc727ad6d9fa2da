// Package lavalink talks to a Lavalink v4 node: a websocket for events and
// the REST API for loading tracks and driving per-guild players.
package lavalink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
	"github.com/keshon/jukebox/pkg/retrylimit"
	"github.com/rs/zerolog/log"
)

// ErrNotReady is returned by REST calls before the node sent its session id.
var ErrNotReady = errors.New("lavalink node not ready")

const clientName = "jukebox/1.0"

// Config locates and authenticates a node.
type Config struct {
	Host     string
	Port     int
	Password string
	Secure   bool
}

func (c Config) address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// RESTError is a non-2xx response from the node.
type RESTError struct {
	Status  int
	Path    string
	Message string
}

func (e *RESTError) Error() string {
	return fmt.Sprintf("lavalink %s: %d %s", e.Path, e.Status, e.Message)
}

// StatusCode lets retrylimit classify the failure.
func (e *RESTError) StatusCode() int { return e.Status }

// Node is one Lavalink server.
type Node struct {
	cfg        Config
	httpClient *http.Client
	dialer     *websocket.Dialer
	limiter    *retrylimit.AdaptiveLimiter
	retry      retrylimit.RetryConfig

	mu        sync.RWMutex
	userID    string
	sessionID string

	onReady        func(sessionID string, resumed bool)
	onEvent        func(Event)
	onPlayerUpdate func(guildID string, st PlayerState)
}

func NewNode(cfg Config) *Node {
	retry := retrylimit.DefaultRetryConfig()
	retry.MaxAttempts = 3
	retry.InitialDelay = 250 * time.Millisecond
	retry.MaxDelay = 2 * time.Second

	return &Node{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		limiter:    retrylimit.NewAdaptiveLimiter(20, 5, 50, 1, 0.5),
		retry:      retry,
	}
}

// SetUserID sets the bot user id sent on the websocket handshake. It must be
// called before Run.
func (n *Node) SetUserID(id string) {
	n.mu.Lock()
	n.userID = id
	n.mu.Unlock()
}

// OnReady registers the callback for the "ready" op.
func (n *Node) OnReady(fn func(sessionID string, resumed bool)) { n.onReady = fn }

// OnEvent registers the callback for player events.
func (n *Node) OnEvent(fn func(Event)) { n.onEvent = fn }

// OnPlayerUpdate registers the callback for position updates.
func (n *Node) OnPlayerUpdate(fn func(guildID string, st PlayerState)) { n.onPlayerUpdate = fn }

// Ready reports whether the websocket is up and the session id known.
func (n *Node) Ready() bool {
	return n.SessionID() != ""
}

func (n *Node) SessionID() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sessionID
}

// Run keeps the websocket connected until ctx ends, reconnecting with
// backoff.
func (n *Node) Run(ctx context.Context) error {
	backoff := retrylimit.NewBackoff(time.Second, 30*time.Second)
	for {
		started := time.Now()
		err := n.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		backoff.Observe(time.Since(started))
		wait := backoff.Next()
		log.Warn().Str("component", "lavalink").Err(err).Dur("retry_in", wait).Msg("node connection lost")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (n *Node) session(ctx context.Context) error {
	n.mu.RLock()
	userID := n.userID
	n.mu.RUnlock()
	if userID == "" {
		return errors.New("bot user id unknown")
	}

	header := http.Header{}
	header.Set("Authorization", n.cfg.Password)
	header.Set("User-Id", userID)
	header.Set("Client-Name", clientName)

	conn, _, err := n.dialer.DialContext(ctx, n.wsURL(), header)
	if err != nil {
		return errors.Wrap(err, "dial websocket")
	}
	defer n.setSession("")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	log.Info().Str("component", "lavalink").Str("addr", n.cfg.address()).Msg("websocket connected")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return errors.Wrap(err, "read websocket")
		}
		n.handle(data)
	}
}

func (n *Node) handle(data []byte) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Debug().Str("component", "lavalink").Err(err).Msg("bad frame")
		return
	}

	switch msg.Op {
	case "ready":
		n.setSession(msg.SessionID)
		log.Info().Str("component", "lavalink").Str("session", msg.SessionID).Bool("resumed", msg.Resumed).Msg("node ready")
		if n.onReady != nil {
			n.onReady(msg.SessionID, msg.Resumed)
		}
	case "playerUpdate":
		if n.onPlayerUpdate != nil && msg.State != nil {
			n.onPlayerUpdate(msg.GuildID, *msg.State)
		}
	case "event":
		if n.onEvent != nil {
			n.onEvent(msg.Event)
		}
	case "stats":
	}
}

func (n *Node) setSession(id string) {
	n.mu.Lock()
	n.sessionID = id
	n.mu.Unlock()
}

func (n *Node) wsURL() string {
	scheme := "ws"
	if n.cfg.Secure {
		scheme = "wss"
	}
	return scheme + "://" + n.cfg.address() + "/v4/websocket"
}

func (n *Node) restURL(path string) string {
	scheme := "http"
	if n.cfg.Secure {
		scheme = "https"
	}
	return scheme + "://" + n.cfg.address() + path
}

// LoadTracks resolves an identifier: a URL, or a "ytsearch:" style query.
func (n *Node) LoadTracks(ctx context.Context, identifier string) (LoadResult, error) {
	var raw struct {
		LoadType string          `json:"loadType"`
		Data     json.RawMessage `json:"data"`
	}
	path := "/v4/loadtracks?identifier=" + url.QueryEscape(identifier)
	if err := n.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return LoadResult{}, err
	}

	res := LoadResult{LoadType: raw.LoadType}
	var err error
	switch raw.LoadType {
	case LoadTrack:
		var t Track
		err = json.Unmarshal(raw.Data, &t)
		res.Tracks = []Track{t}
	case LoadPlaylist:
		var pl struct {
			Info struct {
				Name string `json:"name"`
			} `json:"info"`
			Tracks []Track `json:"tracks"`
		}
		err = json.Unmarshal(raw.Data, &pl)
		res.PlaylistName, res.Tracks = pl.Info.Name, pl.Tracks
	case LoadSearch:
		err = json.Unmarshal(raw.Data, &res.Tracks)
	case LoadError:
		var ex Exception
		err = json.Unmarshal(raw.Data, &ex)
		res.Exception = &ex
	}
	if err != nil {
		return LoadResult{}, errors.Wrapf(err, "decode %s result", raw.LoadType)
	}
	return res, nil
}

// UpdatePlayer patches the player of guildID, creating it when needed.
func (n *Node) UpdatePlayer(ctx context.Context, guildID string, u PlayerUpdate) error {
	sid := n.SessionID()
	if sid == "" {
		return ErrNotReady
	}
	return n.do(ctx, http.MethodPatch, "/v4/sessions/"+sid+"/players/"+guildID, u, nil)
}

// DestroyPlayer removes the player of guildID from the node.
func (n *Node) DestroyPlayer(ctx context.Context, guildID string) error {
	sid := n.SessionID()
	if sid == "" {
		return ErrNotReady
	}
	return n.do(ctx, http.MethodDelete, "/v4/sessions/"+sid+"/players/"+guildID, nil, nil)
}

func (n *Node) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, "encode request")
		}
	}

	return retrylimit.WithRetryConfig(ctx, func() error {
		var rd io.Reader = http.NoBody
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, n.restURL(path), rd)
		if err != nil {
			return retrylimit.Fatal(errors.Wrap(err, "create request"))
		}
		req.Header.Set("Authorization", n.cfg.Password)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return errors.Wrapf(err, "%s %s", method, path)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return classify(restError(resp, path))
		}
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retrylimit.Fatal(errors.Wrap(err, "decode response"))
		}
		return nil
	}, n.limiter, n.retry)
}

func restError(resp *http.Response, path string) *RESTError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &RESTError{Status: resp.StatusCode, Path: path, Message: msg}
}

// classify lets 429 and 5xx be retried; other client errors are final.
func classify(err *RESTError) error {
	if err.Status == http.StatusTooManyRequests || err.Status >= 500 {
		return err
	}
	return retrylimit.Fatal(err)
}
