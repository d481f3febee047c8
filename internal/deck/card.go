package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the symbol for a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the wire name of a suit (e.g. "Spades")
func (s Suit) Name() string {
	switch s {
	case Spades:
		return "Spades"
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the short form of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprintf("%d", int(r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Name returns the wire name of a rank (e.g. "10", "Queen")
func (r Rank) Name() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "Jack"
	case r == Queen:
		return "Queen"
	case r == King:
		return "King"
	case r == Ace:
		return "Ace"
	default:
		return "?"
	}
}

// Sentinels the server uses in place of a concealed card
const (
	HiddenToken  = "XX"
	ReverseToken = "reverse"
)

// Card is a playing card as shown at the table. A hidden card has no rank or suit.
type Card struct {
	Suit   Suit
	Rank   Rank
	Hidden bool
}

// NewCard creates a new face-up card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// HiddenCard returns a face-down card
func HiddenCard() Card {
	return Card{Hidden: true}
}

// String returns the short form of a card (e.g. "A♠"), or "??" when hidden
func (c Card) String() string {
	if c.Hidden {
		return "??"
	}
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Name returns the wire form of a card (e.g. "Ace of Spades")
func (c Card) Name() string {
	if c.Hidden {
		return HiddenToken
	}
	return fmt.Sprintf("%s of %s", c.Rank.Name(), c.Suit.Name())
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return !c.Hidden && c.Suit.IsRed()
}

var rankNames = map[string]Rank{
	"2": Two, "3": Three, "4": Four, "5": Five, "6": Six, "7": Seven, "8": Eight,
	"9": Nine, "10": Ten, "jack": Jack, "queen": Queen, "king": King, "ace": Ace,
}

var suitNames = map[string]Suit{
	"spades": Spades, "hearts": Hearts, "diamonds": Diamonds, "clubs": Clubs,
}

// ParseCard parses a card in "<Rank> of <Suit>" form. The concealed sentinels
// "XX" and "reverse" parse to a hidden card.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == HiddenToken || strings.EqualFold(s, ReverseToken) {
		return HiddenCard(), nil
	}

	rankPart, suitPart, ok := strings.Cut(s, " of ")
	if !ok {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	rank, ok := rankNames[strings.ToLower(strings.TrimSpace(rankPart))]
	if !ok {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}
	suit, ok := suitNames[strings.ToLower(strings.TrimSpace(suitPart))]
	if !ok {
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a list of wire card names
func ParseCards(names []string) ([]Card, error) {
	cards := make([]Card, 0, len(names))
	for _, name := range names {
		card, err := ParseCard(name)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error
func MustParseCards(names ...string) []Card {
	cards, err := ParseCards(names)
	if err != nil {
		panic(err)
	}
	return cards
}
