// Package client connects a session to a room server over a websocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerroom/internal/protocol"
	"github.com/lox/pokerroom/internal/seating"
	"github.com/lox/pokerroom/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64

	defaultConnectTimeout = 10 * time.Second
	defaultRedirectDelay  = 3 * time.Second
)

// FailureNotice is shown when the transport fails
const FailureNotice = "Websocket connection failed"

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// Options configures a connection to one room
type Options struct {
	ServerURL      string
	Room           string
	Role           session.Role
	MaxPlayers     int
	Layout         seating.Layout
	AutoStart      bool
	ConnectTimeout time.Duration
	RedirectDelay  time.Duration

	Clock  quartz.Clock
	Logger *log.Logger

	// OnFallback runs RedirectDelay after the transport fails
	OnFallback func()
	// Listener is subscribed to the session before any message is applied
	Listener func(session.Event)
}

// Conn is one websocket connection to a room and the session it feeds.
// It is the session's action.Sender.
type Conn struct {
	opts    Options
	id      string
	url     string
	clock   quartz.Clock
	logger  *log.Logger
	session *session.Session

	send chan protocol.Message

	mu      sync.Mutex
	closed  bool
	running bool
}

// New creates a connection. Nothing is dialed until Run.
func New(opts Options) (*Conn, error) {
	url, err := RoomURL(opts.ServerURL, opts.Room, opts.Role)
	if err != nil {
		return nil, err
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.RedirectDelay <= 0 {
		opts.RedirectDelay = defaultRedirectDelay
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	id := uuid.NewString()
	c := &Conn{
		opts:   opts,
		id:     id,
		url:    url,
		clock:  opts.Clock,
		logger: opts.Logger.WithPrefix("client").With("conn", id[:8]),
		send:   make(chan protocol.Message, sendBuffer),
	}

	c.session, err = session.New(session.Options{
		Room:       opts.Room,
		Role:       opts.Role,
		MaxPlayers: opts.MaxPlayers,
		Layout:     opts.Layout,
		Sender:     c,
		AutoStart:  opts.AutoStart,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	if opts.Listener != nil {
		c.session.Subscribe(opts.Listener)
	}

	return c, nil
}

// Session returns the session fed by this connection
func (c *Conn) Session() *session.Session {
	return c.session
}

// ID returns the connection id used in log lines
func (c *Conn) ID() string {
	return c.id
}

// URL returns the room endpoint
func (c *Conn) URL() string {
	return c.url
}

// Send queues a message for the write pump
func (c *Conn) Send(msg protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Run dials the room and pumps messages until ctx is cancelled or the
// transport fails. Cancellation returns nil; a transport failure shows a notice,
// schedules the fallback and returns the cause.
func (c *Conn) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running || c.closed {
		c.mu.Unlock()
		return errors.New("connection already used")
	}
	c.running = true
	c.mu.Unlock()
	defer c.close()

	c.logger.Info("Connecting to room", "url", c.url, "role", c.opts.Role)

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: c.opts.ConnectTimeout,
	}
	ws, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if ctx.Err() != nil {
			c.session.Disconnected("")
			return nil
		}
		c.fail(err)
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = ws.Close() }()

	ws.SetReadLimit(maxMessageSize)
	if err := c.write(ws, protocol.InitNewPlayer{}); err != nil {
		c.fail(err)
		return fmt.Errorf("send %s: %w", protocol.TypeInitNewPlayer, err)
	}
	c.logger.Info("Connected to room")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.readPump(gctx, ws) })
	g.Go(func() error { return c.writePump(gctx, ws) })
	err = g.Wait()

	if ctx.Err() != nil {
		c.logger.Info("Disconnected from room")
		c.session.Disconnected("")
		return nil
	}
	if err == nil {
		err = errors.New("connection ended")
	}
	c.fail(err)
	return err
}

func (c *Conn) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Conn) fail(err error) {
	c.logger.Error("Transport failed", "error", err)
	c.session.Disconnected(FailureNotice)

	if c.opts.OnFallback == nil {
		return
	}
	c.clock.AfterFunc(c.opts.RedirectDelay, c.opts.OnFallback, "client", "fallback")
}

func (c *Conn) readPump(ctx context.Context, ws *websocket.Conn) error {
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return fmt.Errorf("read: %w", err)
		}
		c.handleFrame(data)
	}
}

func (c *Conn) handleFrame(data []byte) {
	msg, err := protocol.Decode(data)
	switch {
	case errors.Is(err, protocol.ErrUnknownMessageType):
		c.logger.Warn("Skipping unknown message", "error", err)
		return
	case err != nil:
		c.logger.Error("Failed to decode message", "error", err, "bytes", len(data))
		return
	}

	c.logger.Debug("Received message", "type", msg.MessageType())
	// Apply logs its own failures and leaves the table untouched
	_ = c.session.Apply(msg)
}

func (c *Conn) writePump(ctx context.Context, ws *websocket.Conn) error {
	ticker := c.clock.NewTicker(pingPeriod, "client", "ping")
	defer func() {
		ticker.Stop()
		// Unblocks readPump when a write fails
		_ = ws.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = ws.WriteControl(websocket.CloseMessage, closing, time.Now().Add(writeWait))
			return nil

		case msg := <-c.send:
			if err := c.write(ws, msg); err != nil {
				c.logger.Error("Failed to write message", "type", msg.MessageType(), "error", err)
				return fmt.Errorf("write: %w", err)
			}

		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
		}
	}
}

func (c *Conn) write(ws *websocket.Conn, msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	c.logger.Debug("Sent message", "type", msg.MessageType())
	return nil
}
