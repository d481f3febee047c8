package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/pokerroom/internal/action"
	"github.com/lox/pokerroom/internal/deck"
	"github.com/lox/pokerroom/internal/protocol"
	"github.com/lox/pokerroom/internal/seating"
)

// Apply updates the table from one inbound message. A message that cannot be
// applied, for example a seat update before the viewer's seat is known, leaves
// the table untouched and returns an error.
func (s *Session) Apply(msg protocol.Message) error {
	s.mu.Lock()
	event, startGame, err := s.applyLocked(msg)
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Failed to apply message", "type", msg.MessageType(), "error", err)
		return fmt.Errorf("%s: %w", msg.MessageType(), err)
	}

	if startGame {
		if err := s.opts.Sender.Send(protocol.StartGame{}); err != nil {
			s.Notify("Could not start the game")
			return fmt.Errorf("send start_game: %w", err)
		}
		s.logger.Info("Requested game start")
	}

	s.emit(event)
	return nil
}

func (s *Session) applyLocked(msg protocol.Message) (Event, bool, error) {
	event := Event{Kind: EventUpdate, Type: msg.MessageType()}

	switch m := msg.(type) {
	case *protocol.InitParticipant:
		start, err := s.initParticipant(m)
		return event, start, err

	case *protocol.InitObserver:
		return event, false, s.initObserver(m)

	case *protocol.NewPlayer:
		if err := s.checkSeat(m.Position); err != nil {
			return event, false, err
		}
		s.seats[m.Position] = &seatState{username: m.Username, chips: m.ChipCount}

	case *protocol.PlayerLeft:
		if err := s.checkSeat(m.Position); err != nil {
			return event, false, err
		}
		delete(s.seats, m.Position)

	case *protocol.PlayerBet:
		seat, err := s.occupied(m.Position)
		if err != nil {
			return event, false, err
		}
		seat.bet = m.Amount
		seat.chips = m.ChipCount
		seat.status = StatusBet
		s.pot = m.Pot

	case *protocol.DealtCards:
		return event, false, s.dealtCards(m)

	case *protocol.PlayerTurn:
		s.acting = m.Username

	case *protocol.YourTurn:
		if s.opts.Role != RoleParticipant {
			return event, false, ErrNotSeated
		}
		seat, err := s.occupied(s.viewer)
		if err != nil {
			return event, false, err
		}
		seat.chips = m.ChipCount
		s.pot = m.Pot
		s.controller.Arm(action.TurnContext{
			CurrentBet: m.CurrentBet,
			PlayerBet:  m.PlayerBet,
			ChipCount:  m.ChipCount,
			Pot:        m.Pot,
		})
		event.Kind = EventTurn

	case *protocol.BoardCards:
		cards, err := deck.ParseCards(m.Cards)
		if err != nil {
			return event, false, err
		}
		s.board = cards

	case *protocol.ClearBetting:
		s.acting = ""
		for _, seat := range s.seats {
			seat.bet = 0
			seat.status = StatusNone
		}

	case *protocol.PlayerChecked:
		seat, err := s.occupied(m.Position)
		if err != nil {
			return event, false, err
		}
		seat.status = StatusChecked

	case *protocol.PlayerFolded:
		seat, err := s.occupied(m.Position)
		if err != nil {
			return event, false, err
		}
		seat.status = StatusFolded
		seat.folded = true

	case *protocol.Showdown:
		return event, false, s.showdown(m)

	case *protocol.RoundWinner:
		notice, err := s.roundWinner(m)
		if err != nil {
			return event, false, err
		}
		s.addNoticeLocked(notice)
		event = Event{Kind: EventNotice, Type: msg.MessageType(), Notice: notice}

	case *protocol.Reset:
		return event, false, s.reset(m)

	case *protocol.HandValue:
		cards, err := deck.ParseCards(m.HandCards)
		if err != nil {
			return event, false, err
		}
		s.handValue = deck.HandName(m.HandValue)
		s.handCards = cards

	case *protocol.ActionError:
		// The server resends your_turn if it wants another attempt
		s.addNoticeLocked(m.Message)
		s.logger.Warn("Server rejected action", "message", m.Message)
		event = Event{Kind: EventNotice, Type: msg.MessageType(), Notice: m.Message}

	default:
		return event, false, fmt.Errorf("%w: %s", protocol.ErrUnknownMessageType, msg.MessageType())
	}

	return event, false, nil
}

func (s *Session) initParticipant(m *protocol.InitParticipant) (bool, error) {
	if s.opts.Role != RoleParticipant {
		return false, ErrNotSeated
	}

	mapper, err := seating.New(s.opts.Layout, m.YourPosition, s.opts.MaxPlayers)
	if err != nil {
		return false, err
	}
	seats, err := s.seatsFrom(m.Players, mapper)
	if err != nil {
		return false, err
	}
	if _, ok := seats[m.YourPosition]; !ok {
		return false, fmt.Errorf("own seat %d missing from players", m.YourPosition)
	}

	if s.viewer != m.YourPosition {
		s.logger.Info("Seated", "position", m.YourPosition, "layout", s.opts.Layout)
	}
	s.mapper = mapper
	s.viewer = m.YourPosition
	s.seats = seats

	start := s.opts.AutoStart && !s.started && len(seats) >= minSeated
	if start {
		s.started = true
	}
	return start, nil
}

func (s *Session) initObserver(m *protocol.InitObserver) error {
	seats, err := s.seatsFrom(m.Players, s.mapper)
	if err != nil {
		return err
	}
	s.seats = seats
	return nil
}

func (s *Session) seatsFrom(players map[int]protocol.PlayerInfo, mapper seating.Mapper) (map[int]*seatState, error) {
	seats := make(map[int]*seatState, len(players))
	for pos, p := range players {
		if _, err := mapper.Relative(pos); err != nil {
			return nil, err
		}
		cards, err := deck.ParseCards(p.Cards)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w", pos, err)
		}
		seats[pos] = &seatState{username: p.Username, chips: p.ChipCount, cards: cards}
	}
	return seats, nil
}

func (s *Session) dealtCards(m *protocol.DealtCards) error {
	cards, err := deck.ParseCards(m.Cards)
	if err != nil {
		return err
	}
	for _, pos := range m.ActivePositions {
		if _, err := s.occupied(pos); err != nil {
			return err
		}
	}

	for _, pos := range m.ActivePositions {
		seat := s.seats[pos]
		if pos == s.viewer {
			continue
		}
		seat.cards = []deck.Card{deck.HiddenCard(), deck.HiddenCard()}
	}
	if own, ok := s.seats[s.viewer]; ok {
		own.cards = cards
	}
	return nil
}

func (s *Session) showdown(m *protocol.Showdown) error {
	parsed := make(map[int][]deck.Card, len(m.Hands))
	for pos, hand := range m.Hands {
		if _, err := s.occupied(pos); err != nil {
			return err
		}
		cards, err := deck.ParseCards(hand.Cards)
		if err != nil {
			return fmt.Errorf("seat %d: %w", pos, err)
		}
		parsed[pos] = cards
	}

	for pos, cards := range parsed {
		seat := s.seats[pos]
		seat.cards = cards
		seat.handValue = deck.HandName(m.Hands[pos].HandValue)
	}
	return nil
}

func (s *Session) roundWinner(m *protocol.RoundWinner) (string, error) {
	for _, pos := range m.WinnerPositions {
		if _, err := s.occupied(pos); err != nil {
			return "", err
		}
	}

	positions := append([]int(nil), m.WinnerPositions...)
	sort.Ints(positions)

	names := make([]string, 0, len(positions))
	for _, pos := range positions {
		seat := s.seats[pos]
		seat.winner = true
		names = append(names, seat.username)
	}
	s.amountWon = m.AmountWon
	s.acting = ""

	return fmt.Sprintf("%s won %d", strings.Join(names, ", "), m.AmountWon), nil
}

func (s *Session) reset(m *protocol.Reset) error {
	for pos := range m.ChipCounts {
		if _, err := s.occupied(pos); err != nil {
			return err
		}
	}

	for pos, chips := range m.ChipCounts {
		s.seats[pos].chips = chips
	}
	for _, seat := range s.seats {
		seat.clearHand()
	}
	s.board = nil
	s.pot = 0
	s.acting = ""
	s.handValue = ""
	s.handCards = nil
	s.amountWon = 0
	s.controller.Reset()
	return nil
}

// checkSeat relabels a seat to prove it can be placed on screen
func (s *Session) checkSeat(pos int) error {
	if _, err := s.mapper.Relative(pos); err != nil {
		return fmt.Errorf("seat %d: %w", pos, err)
	}
	return nil
}

func (s *Session) occupied(pos int) (*seatState, error) {
	if err := s.checkSeat(pos); err != nil {
		return nil, err
	}
	seat, ok := s.seats[pos]
	if !ok {
		return nil, fmt.Errorf("seat %d is empty", pos)
	}
	return seat, nil
}
