// Package seating maps the absolute seat numbers assigned by the room server to
// screen-relative seats, with the viewer always drawn at seat 0.
package seating

import (
	"errors"
	"fmt"
)

var (
	// ErrViewerUnset is returned when a seat is relabeled before the viewer's
	// own seat is known.
	ErrViewerUnset = errors.New("viewer seat not initialized")

	// ErrSeatOutOfRange is returned for seats outside [0, size).
	ErrSeatOutOfRange = errors.New("seat out of range")

	// ErrInvalidRing is returned when a ring table is not a permutation.
	ErrInvalidRing = errors.New("ring table is not a permutation")
)

// MinPlayers and MaxPlayers bound the table sizes a room can have.
const (
	MinPlayers = 2
	MaxPlayers = 8
)

// Mapper converts between absolute and relative seats for one seating arrangement.
type Mapper interface {
	Relative(absolute int) (int, error)
	Absolute(relative int) (int, error)
	Size() int
}

// Layout names a relabeling scheme.
type Layout string

const (
	LayoutLinear   Layout = "linear"
	LayoutBalanced Layout = "balanced"
)

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutLinear, LayoutBalanced:
		return Layout(s), nil
	case "":
		return LayoutLinear, nil
	default:
		return "", fmt.Errorf("unknown seat layout %q", s)
	}
}

// New builds a mapper for the given layout with the viewer at the given absolute seat.
func New(layout Layout, viewer, size int) (Mapper, error) {
	switch layout {
	case LayoutLinear, "":
		return NewLinear(viewer, size)
	case LayoutBalanced:
		return Balanced(size, viewer)
	default:
		return nil, fmt.Errorf("unknown seat layout %q", layout)
	}
}

// Relabel returns the relative seat for an absolute seat using the linear scheme.
func Relabel(absolute, viewer, size int) (int, error) {
	if err := checkSize(size); err != nil {
		return 0, err
	}
	if err := checkSeat(viewer, size); err != nil {
		return 0, fmt.Errorf("viewer: %w", err)
	}
	if err := checkSeat(absolute, size); err != nil {
		return 0, err
	}
	return mod(absolute-viewer, size), nil
}

func checkSize(size int) error {
	if size < 1 {
		return fmt.Errorf("table size %d: %w", size, ErrSeatOutOfRange)
	}
	return nil
}

func checkSeat(seat, size int) error {
	if seat < 0 || seat >= size {
		return fmt.Errorf("seat %d not in [0,%d): %w", seat, size, ErrSeatOutOfRange)
	}
	return nil
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
