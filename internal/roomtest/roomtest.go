// Package roomtest runs an in-process room server for client tests. Each
// websocket connection is handed to the test as a Peer that can push frames
// and read what the client sent.
package roomtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lox/pokerroom/internal/protocol"
)

const writeWait = 5 * time.Second

// Server is a scripted room server
type Server struct {
	srv      *httptest.Server
	upgrader websocket.Upgrader
	peers    chan *Peer

	mu     sync.Mutex
	all    []*Peer
	reject int
}

// New starts a server that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		peers:    make(chan *Peer, 8),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// URL returns the http base URL of the server
func (s *Server) URL() string {
	return s.srv.URL
}

// RejectNext makes the next n upgrade requests fail with 503
func (s *Server) RejectNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = n
}

// Close disconnects all peers and stops the server
func (s *Server) Close() {
	s.mu.Lock()
	peers := append([]*Peer(nil), s.all...)
	s.mu.Unlock()

	for _, p := range peers {
		p.Drop()
	}
	s.srv.Close()
}

// Accept waits for the next client connection
func (s *Server) Accept(ctx context.Context) (*Peer, error) {
	select {
	case p := <-s.peers:
		return p, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for connection: %w", ctx.Err())
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.reject > 0 {
		s.reject--
		s.mu.Unlock()
		http.Error(w, "room unavailable", http.StatusServiceUnavailable)
		return
	}
	s.mu.Unlock()

	if !strings.HasPrefix(r.URL.Path, "/ws/room/") {
		http.NotFound(w, r)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	p := &Peer{
		Room:   strings.Trim(strings.TrimPrefix(r.URL.Path, "/ws/room/"), "/"),
		Role:   r.URL.Query().Get("role"),
		ws:     ws,
		frames: make(chan []byte, 64),
		done:   make(chan struct{}),
	}
	go p.readLoop()

	s.mu.Lock()
	s.all = append(s.all, p)
	s.mu.Unlock()
	s.peers <- p
}

// Peer is the server side of one client connection
type Peer struct {
	Room string
	Role string

	ws      *websocket.Conn
	writeMu sync.Mutex
	frames  chan []byte
	done    chan struct{}
	once    sync.Once
}

func (p *Peer) readLoop() {
	defer close(p.frames)
	for {
		_, data, err := p.ws.ReadMessage()
		if err != nil {
			p.once.Do(func() { close(p.done) })
			return
		}
		p.frames <- data
	}
}

// Send encodes and pushes a message to the client
func (p *Peer) Send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	return p.SendRaw(data)
}

// SendRaw pushes a frame to the client as is
func (p *Peer) SendRaw(data []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_ = p.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return p.ws.WriteMessage(websocket.TextMessage, data)
}

// NextFrame returns the next raw frame sent by the client
func (p *Peer) NextFrame(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-p.frames:
		if !ok {
			return nil, errors.New("peer disconnected")
		}
		return data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for frame: %w", ctx.Err())
	}
}

// Next returns the next message sent by the client
func (p *Peer) Next(ctx context.Context) (protocol.Message, error) {
	data, err := p.NextFrame(ctx)
	if err != nil {
		return nil, err
	}
	return protocol.Decode(data)
}

// Done is closed once the client has disconnected
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

// Close sends a normal close frame and closes the connection
func (p *Peer) Close() {
	p.writeMu.Lock()
	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = p.ws.WriteControl(websocket.CloseMessage, closing, time.Now().Add(writeWait))
	p.writeMu.Unlock()
	_ = p.ws.Close()
}

// Drop closes the connection without a close frame
func (p *Peer) Drop() {
	_ = p.ws.Close()
}
