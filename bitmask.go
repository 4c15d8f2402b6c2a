package kumiai

import "math/bits"

// bitmask256 represents a set of up to 256 declared type bits. Component bits
// come first in declaration order, followed by tag bits. Each entity record
// and each handle snapshot is one of these.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given type index.
func (m *bitmask256) set(bit uint8) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given type index.
func (m *bitmask256) unset(bit uint8) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// contains checks if all the bits set in the `sub` bitmask are also set in the
// receiver bitmask `m`. This is the grouping and query membership test: an
// entity matches when its mask is a superset of the target.
//
// Parameters:
//   - sub: The bitmask representing the subset of types to check for.
//
// Returns:
//   - true if the receiver contains all types from the subset, false otherwise.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit uint8) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

func (m bitmask256) isZero() bool {
	return m[0] == 0 && m[1] == 0 && m[2] == 0 && m[3] == 0
}

// forEachSet calls fn for every set bit in ascending order, which is also
// declaration order.
func (m bitmask256) forEachSet(fn func(bit uint8)) {
	for i, word := range m {
		for word != 0 {
			o := bits.TrailingZeros64(word)
			fn(uint8(i<<6 | o))
			word &= word - 1
		}
	}
}

// count returns the number of set bits.
func (m bitmask256) count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}
