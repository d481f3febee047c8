package seating

import (
	"fmt"
	"sort"
)

// Linear rotates seats so the viewer lands on 0: relative = (absolute - viewer) mod size.
type Linear struct {
	viewer int
	size   int
}

// NewLinear creates a linear mapper.
func NewLinear(viewer, size int) (*Linear, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if err := checkSeat(viewer, size); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}
	return &Linear{viewer: viewer, size: size}, nil
}

func (l *Linear) Relative(absolute int) (int, error) {
	if err := checkSeat(absolute, l.size); err != nil {
		return 0, err
	}
	return mod(absolute-l.viewer, l.size), nil
}

func (l *Linear) Absolute(relative int) (int, error) {
	if err := checkSeat(relative, l.size); err != nil {
		return 0, err
	}
	return mod(relative+l.viewer, l.size), nil
}

func (l *Linear) Size() int { return l.size }

// octagonRing places server seats around an eight-seat table so that seats
// filled in order alternate across the table.
var octagonRing = []int{0, 4, 2, 6, 1, 5, 3, 7}

// Permuted remaps each absolute seat to a ring position and rotates by the
// viewer's ring position: relative = (ring[absolute] - ring[viewer]) mod size.
type Permuted struct {
	ring    []int
	inverse []int
	offset  int
}

// NewPermuted creates a permuted mapper. ring must be a permutation of [0, len(ring)).
func NewPermuted(ring []int, viewer int) (*Permuted, error) {
	size := len(ring)
	if err := checkSize(size); err != nil {
		return nil, err
	}

	inverse := make([]int, size)
	for i := range inverse {
		inverse[i] = -1
	}
	for abs, pos := range ring {
		if pos < 0 || pos >= size || inverse[pos] != -1 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRing, ring)
		}
		inverse[pos] = abs
	}

	if err := checkSeat(viewer, size); err != nil {
		return nil, fmt.Errorf("viewer: %w", err)
	}

	return &Permuted{
		ring:    append([]int(nil), ring...),
		inverse: inverse,
		offset:  ring[viewer],
	}, nil
}

// Balanced builds a permuted mapper for size seats from the octagon table.
// Entries for seats that do not exist at a smaller table are dropped and the
// remaining ring positions are compressed by rank.
func Balanced(size, viewer int) (*Permuted, error) {
	if size < MinPlayers || size > MaxPlayers {
		return nil, fmt.Errorf("table size %d not in [%d,%d]: %w", size, MinPlayers, MaxPlayers, ErrSeatOutOfRange)
	}
	return NewPermuted(BalancedRing(size), viewer)
}

// BalancedRing returns the ring table used by Balanced for size seats.
func BalancedRing(size int) []int {
	seats := make([]int, 0, size)
	for abs := 0; abs < size && abs < len(octagonRing); abs++ {
		seats = append(seats, abs)
	}
	sort.Slice(seats, func(i, j int) bool {
		return octagonRing[seats[i]] < octagonRing[seats[j]]
	})

	ring := make([]int, len(seats))
	for pos, abs := range seats {
		ring[abs] = pos
	}
	return ring
}

func (p *Permuted) Relative(absolute int) (int, error) {
	if err := checkSeat(absolute, len(p.ring)); err != nil {
		return 0, err
	}
	return mod(p.ring[absolute]-p.offset, len(p.ring)), nil
}

func (p *Permuted) Absolute(relative int) (int, error) {
	if err := checkSeat(relative, len(p.ring)); err != nil {
		return 0, err
	}
	return p.inverse[mod(relative+p.offset, len(p.ring))], nil
}

func (p *Permuted) Size() int { return len(p.ring) }

// Identity shows absolute seats unchanged. Observers have no seat of their own.
type Identity struct {
	size int
}

// NewIdentity creates an identity mapper.
func NewIdentity(size int) (*Identity, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return &Identity{size: size}, nil
}

func (i *Identity) Relative(absolute int) (int, error) {
	if err := checkSeat(absolute, i.size); err != nil {
		return 0, err
	}
	return absolute, nil
}

func (i *Identity) Absolute(relative int) (int, error) {
	return i.Relative(relative)
}

func (i *Identity) Size() int { return i.size }

// Unset is the mapper of a participant whose seat is not yet known. Every
// lookup fails with ErrViewerUnset.
type Unset struct {
	size int
}

// NewUnset creates a mapper that refuses to relabel.
func NewUnset(size int) *Unset {
	return &Unset{size: size}
}

func (u *Unset) Relative(int) (int, error) { return 0, ErrViewerUnset }
func (u *Unset) Absolute(int) (int, error) { return 0, ErrViewerUnset }
func (u *Unset) Size() int                 { return u.size }
