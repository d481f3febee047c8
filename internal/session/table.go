package session

import (
	"fmt"

	"github.com/lox/pokerroom/internal/deck"
)

// Role is how the viewer joined the room
type Role string

const (
	RoleParticipant Role = "participant"
	RoleObserver    Role = "observer"
)

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleParticipant, RoleObserver:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// SeatStatus is the last betting action shown next to a seat
type SeatStatus string

const (
	StatusNone    SeatStatus = ""
	StatusBet     SeatStatus = "bet"
	StatusChecked SeatStatus = "check"
	StatusFolded  SeatStatus = "fold"
)

// Seat is one table position as drawn on screen
type Seat struct {
	Absolute  int
	Relative  int
	Occupied  bool
	Username  string
	Chips     int
	Bet       int
	Status    SeatStatus
	Folded    bool
	Cards     []deck.Card
	HandValue string
	Winner    bool
	Viewer    bool
}

// Table is a point-in-time copy of the session's view state
type Table struct {
	Room        string
	Role        Role
	Viewer      int // absolute seat, -1 when not seated or not yet known
	MaxPlayers  int
	Seats       []Seat // indexed by relative seat
	PlayerCount int
	ViewerChips int
	Board       []deck.Card
	Pot         int
	Acting      string
	HandValue   string
	HandCards   []deck.Card
	AmountWon   int
	Notices     []string
	Connected   bool
}

// Seat returns the seat at a relative index
func (t Table) Seat(relative int) (Seat, bool) {
	if relative < 0 || relative >= len(t.Seats) {
		return Seat{}, false
	}
	return t.Seats[relative], true
}

// Winners returns the seats marked as winners of the last round
func (t Table) Winners() []Seat {
	var winners []Seat
	for _, s := range t.Seats {
		if s.Winner {
			winners = append(winners, s)
		}
	}
	return winners
}

type seatState struct {
	username  string
	chips     int
	bet       int
	status    SeatStatus
	folded    bool
	cards     []deck.Card
	handValue string
	winner    bool
}

func (s *seatState) clearHand() {
	s.bet = 0
	s.status = StatusNone
	s.folded = false
	s.cards = nil
	s.handValue = ""
	s.winner = false
}

func cloneCards(cards []deck.Card) []deck.Card {
	if cards == nil {
		return nil
	}
	return append([]deck.Card(nil), cards...)
}
