// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package patricia

// Nibble is a 4-bit unsigned integer in the range 0-F. It is a single letter
// used to navigate in the trie.
type Nibble byte

// Rune converts a Nibble in a hexa-decimal rune (0-9a-f).
func (n Nibble) Rune() rune {
	if n < 10 {
		return rune('0' + n)
	} else if n < 16 {
		return rune('a' + n - 10)
	} else {
		return '?'
	}
}

// String converts a Nibble in a hexa-decimal string (0-9a-f).
func (n Nibble) String() string {
	return string(n.Rune())
}

// toNibbles converts the given bytes into a path of Nibbles.
func toNibbles(path []byte) []Nibble {
	res := make([]Nibble, len(path)*2)
	parseNibbles(res, path)
	return res
}

func parseNibbles(dst []Nibble, src []byte) {
	for i := 0; i < len(src); i++ {
		dst[2*i] = Nibble(src[i] >> 4)
		dst[2*i+1] = Nibble(src[i] & 0xF)
	}
}

// getCommonPrefixLength computes the length of the common prefix of the given
// Nibble-slices.
func getCommonPrefixLength(a, b []Nibble) int {
	lengthA := len(a)
	if lengthA > len(b) {
		return getCommonPrefixLength(b, a)
	}
	for i := 0; i < lengthA; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return lengthA
}

// isPrefixOf tests whether one Nibble slice is the prefix of another.
func isPrefixOf(a, b []Nibble) bool {
	return len(a) <= len(b) && getCommonPrefixLength(a, b) == len(a)
}

func concat(a, b []Nibble) []Nibble {
	res := make([]Nibble, 0, len(a)+len(b))
	res = append(res, a...)
	return append(res, b...)
}

// encodePath packs a nibble path into the hex-prefix form also used by
// Ethereum: the high nibble of the first byte marks whether the path leads
// to a value and whether its length is odd.
func encodePath(path []Nibble, targetsValue bool) []byte {
	res := make([]byte, len(path)/2+1)
	if targetsValue {
		res[0] |= 1 << 5
	}
	res[0] |= byte(len(path)%2) << 4 // odd flag
	if len(path)%2 == 1 {
		res[0] |= byte(path[0])
		path = path[1:]
	}
	for i := 0; i < len(path); i += 2 {
		res[1+i/2] = byte(path[i])<<4 | byte(path[i+1])
	}
	return res
}
