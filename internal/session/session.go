// Package session holds the per-connection view of a poker room: who sits
// where, what is on the table, and the viewer's action window. It is rebuilt
// entirely from server messages.
package session

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/pokerroom/internal/action"
	"github.com/lox/pokerroom/internal/deck"
	"github.com/lox/pokerroom/internal/protocol"
	"github.com/lox/pokerroom/internal/seating"
)

// ErrNotSeated is returned for participant-only messages on an observer session
var ErrNotSeated = errors.New("viewer is not seated")

// maxNotices bounds the notices kept for display
const maxNotices = 50

// minSeated is the number of players needed before a legacy start_game is sent
const minSeated = 2

// EventKind classifies session changes for listeners
type EventKind int

const (
	EventUpdate EventKind = iota
	EventTurn
	EventNotice
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventUpdate:
		return "update"
	case EventTurn:
		return "turn"
	case EventNotice:
		return "notice"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after the session changes
type Event struct {
	Kind   EventKind
	Type   protocol.MessageType
	Notice string
}

// Options configures a session
type Options struct {
	Room       string
	Role       Role
	MaxPlayers int
	Layout     seating.Layout
	Sender     action.Sender
	AutoStart  bool
	Logger     *log.Logger
}

// Session is the state of one connection to a room. It owns the seat mapper
// and the action controller; nothing here outlives the connection.
type Session struct {
	mu     sync.Mutex
	opts   Options
	logger *log.Logger

	mapper     seating.Mapper
	viewer     int
	controller *action.Controller

	seats     map[int]*seatState
	board     []deck.Card
	pot       int
	acting    string
	handValue string
	handCards []deck.Card
	amountWon int
	notices   []string
	connected bool
	started   bool

	listenersMu sync.RWMutex
	listeners   []func(Event)
}

// New creates a session. A participant session cannot relabel seats until
// init_participant arrives.
func New(opts Options) (*Session, error) {
	if opts.MaxPlayers < seating.MinPlayers || opts.MaxPlayers > seating.MaxPlayers {
		return nil, fmt.Errorf("max players %d not in [%d,%d]", opts.MaxPlayers, seating.MinPlayers, seating.MaxPlayers)
	}
	if _, err := ParseRole(string(opts.Role)); err != nil {
		return nil, err
	}
	if _, err := seating.ParseLayout(string(opts.Layout)); err != nil {
		return nil, err
	}
	if opts.Sender == nil {
		return nil, errors.New("session needs a sender")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Session{
		opts:      opts,
		logger:    opts.Logger.WithPrefix("session"),
		viewer:    -1,
		seats:     make(map[int]*seatState),
		connected: true,
	}
	s.controller = action.NewController(opts.Sender, opts.Logger)

	if opts.Role == RoleObserver {
		mapper, err := seating.NewIdentity(opts.MaxPlayers)
		if err != nil {
			return nil, err
		}
		s.mapper = mapper
	} else {
		s.mapper = seating.NewUnset(opts.MaxPlayers)
	}

	return s, nil
}

// Controller returns the viewer's action controller
func (s *Session) Controller() *action.Controller {
	return s.controller
}

// Role returns the role the session joined with
func (s *Session) Role() Role {
	return s.opts.Role
}

// Subscribe registers a listener called after every change
func (s *Session) Subscribe(fn func(Event)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) emit(e Event) {
	s.listenersMu.RLock()
	listeners := slices.Clone(s.listeners)
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// Relative returns the screen seat for an absolute seat
func (s *Session) Relative(absolute int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapper.Relative(absolute)
}

// Notify records a notice for the user
func (s *Session) Notify(notice string) {
	s.mu.Lock()
	s.addNoticeLocked(notice)
	s.mu.Unlock()

	s.emit(Event{Kind: EventNotice, Notice: notice})
}

// Disconnected marks the transport as gone and closes any open action window
func (s *Session) Disconnected(notice string) {
	s.mu.Lock()
	s.connected = false
	if notice != "" {
		s.addNoticeLocked(notice)
	}
	s.mu.Unlock()

	s.controller.Reset()
	s.emit(Event{Kind: EventDisconnected, Notice: notice})
}

func (s *Session) addNoticeLocked(notice string) {
	s.notices = append(s.notices, notice)
	if len(s.notices) > maxNotices {
		s.notices = s.notices[len(s.notices)-maxNotices:]
	}
}

// Snapshot returns a copy of the current table
func (s *Session) Snapshot() Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Table{
		Room:       s.opts.Room,
		Role:       s.opts.Role,
		Viewer:     s.viewer,
		MaxPlayers: s.opts.MaxPlayers,
		Board:      cloneCards(s.board),
		Pot:        s.pot,
		Acting:     s.acting,
		HandValue:  s.handValue,
		HandCards:  cloneCards(s.handCards),
		AmountWon:  s.amountWon,
		Notices:    append([]string(nil), s.notices...),
		Connected:  s.connected,
	}

	if st, ok := s.seats[s.viewer]; ok {
		t.ViewerChips = st.chips
	}

	for rel := 0; rel < s.mapper.Size(); rel++ {
		abs, err := s.mapper.Absolute(rel)
		if err != nil {
			// Seats cannot be placed until the viewer's seat is known
			t.Seats = nil
			break
		}

		seat := Seat{Absolute: abs, Relative: rel, Viewer: abs == s.viewer}
		if st, ok := s.seats[abs]; ok {
			seat.Occupied = true
			seat.Username = st.username
			seat.Chips = st.chips
			seat.Bet = st.bet
			seat.Status = st.status
			seat.Folded = st.folded
			seat.Cards = cloneCards(st.cards)
			seat.HandValue = st.handValue
			seat.Winner = st.winner
			t.PlayerCount++
		}
		t.Seats = append(t.Seats, seat)
	}
	if t.Seats == nil {
		t.PlayerCount = len(s.seats)
	}

	return t
}
