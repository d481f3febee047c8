package seating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allLayouts() []Layout {
	return []Layout{LayoutLinear, LayoutBalanced}
}

func TestViewerAlwaysRelabeledToZero(t *testing.T) {
	for _, layout := range allLayouts() {
		for size := MinPlayers; size <= MaxPlayers; size++ {
			for viewer := 0; viewer < size; viewer++ {
				m, err := New(layout, viewer, size)
				require.NoError(t, err)

				rel, err := m.Relative(viewer)
				require.NoError(t, err)
				assert.Equal(t, 0, rel, "layout=%s size=%d viewer=%d", layout, size, viewer)
			}
		}
	}
}

func TestMappingIsBijection(t *testing.T) {
	for _, layout := range allLayouts() {
		for size := MinPlayers; size <= MaxPlayers; size++ {
			for viewer := 0; viewer < size; viewer++ {
				m, err := New(layout, viewer, size)
				require.NoError(t, err)

				seen := make(map[int]bool, size)
				for abs := 0; abs < size; abs++ {
					rel, err := m.Relative(abs)
					require.NoError(t, err)
					require.GreaterOrEqual(t, rel, 0)
					require.Less(t, rel, size)
					assert.False(t, seen[rel], "layout=%s size=%d viewer=%d: relative %d repeated", layout, size, viewer, rel)
					seen[rel] = true

					back, err := m.Absolute(rel)
					require.NoError(t, err)
					assert.Equal(t, abs, back)
				}
				assert.Len(t, seen, size)
			}
		}
	}
}

func TestRelabelLinear(t *testing.T) {
	tests := []struct {
		absolute, viewer, size, want int
	}{
		{absolute: 3, viewer: 3, size: 8, want: 0},
		{absolute: 4, viewer: 3, size: 8, want: 1},
		{absolute: 0, viewer: 3, size: 8, want: 5},
		{absolute: 2, viewer: 3, size: 8, want: 7},
		{absolute: 0, viewer: 1, size: 2, want: 1},
	}
	for _, tt := range tests {
		got, err := Relabel(tt.absolute, tt.viewer, tt.size)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%+v", tt)
	}
}

func TestRelabelIsStable(t *testing.T) {
	m, err := NewLinear(5, 8)
	require.NoError(t, err)

	first, err := m.Relative(2)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := m.Relative(2)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSeatOutOfRange(t *testing.T) {
	_, err := Relabel(8, 0, 8)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	_, err = Relabel(0, -1, 8)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	_, err = NewLinear(4, 4)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	m, err := Balanced(6, 2)
	require.NoError(t, err)
	_, err = m.Relative(6)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	_, err = Balanced(9, 0)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)
}

func TestBalancedRing(t *testing.T) {
	assert.Equal(t, []int{0, 4, 2, 6, 1, 5, 3, 7}, BalancedRing(8))
	assert.Equal(t, []int{0, 2, 1}, BalancedRing(3))
	assert.Equal(t, []int{0, 1}, BalancedRing(2))
}

func TestBalancedDiffersFromLinear(t *testing.T) {
	linear, err := NewLinear(0, 8)
	require.NoError(t, err)
	balanced, err := Balanced(8, 0)
	require.NoError(t, err)

	lin, err := linear.Relative(1)
	require.NoError(t, err)
	bal, err := balanced.Relative(1)
	require.NoError(t, err)

	assert.Equal(t, 1, lin)
	assert.Equal(t, 4, bal, "seat 1 sits across the table in the balanced layout")
}

func TestNewPermutedRejectsInvalidRing(t *testing.T) {
	_, err := NewPermuted([]int{0, 1, 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidRing)

	_, err = NewPermuted([]int{0, 3, 1}, 0)
	assert.ErrorIs(t, err, ErrInvalidRing)

	_, err = NewPermuted(nil, 0)
	assert.ErrorIs(t, err, ErrSeatOutOfRange)

	ring := []int{2, 0, 1}
	p, err := NewPermuted(ring, 1)
	require.NoError(t, err)
	ring[0] = 99 // mapper keeps its own copy
	rel, err := p.Relative(0)
	require.NoError(t, err)
	assert.Equal(t, 2, rel)
}

func TestIdentityAndUnset(t *testing.T) {
	id, err := NewIdentity(6)
	require.NoError(t, err)
	for abs := 0; abs < 6; abs++ {
		rel, err := id.Relative(abs)
		require.NoError(t, err)
		assert.Equal(t, abs, rel)
	}

	unset := NewUnset(6)
	_, err = unset.Relative(0)
	assert.ErrorIs(t, err, ErrViewerUnset)
	_, err = unset.Absolute(0)
	assert.ErrorIs(t, err, ErrViewerUnset)
	assert.Equal(t, 6, unset.Size())
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("balanced")
	require.NoError(t, err)
	assert.Equal(t, LayoutBalanced, l)

	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutLinear, l)

	_, err = ParseLayout("spiral")
	assert.Error(t, err)
}
