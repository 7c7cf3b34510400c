// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package common

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Height is a block height of the chain.
type Height uint64

const (
	// InvalidHeight is the sentinel used for entries that are not associated
	// with any height. It is never stored in a height grouping.
	InvalidHeight Height = 0

	// HeightOfLatest requests a lookup at the latest committed height.
	HeightOfLatest Height = math.MaxUint64
)

func (h Height) String() string {
	if h == HeightOfLatest {
		return "latest"
	}
	return fmt.Sprintf("%d", uint64(h))
}

// Hash is a 256-bit hash, used for state roots and content addressing.
type Hash [32]byte

func (h Hash) String() string {
	return hexutil.Encode(h[:])
}

// IsZero is true for the all-zero hash, the root of an empty tree.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Key is a 256-bit public key identifying an account.
type Key [32]byte

func (k Key) String() string {
	return hexutil.Encode(k[:])
}

func (k Key) Compare(other Key) int {
	return bytes.Compare(k[:], other[:])
}

// MosaicID is the numeric identifier of a mosaic (token).
type MosaicID uint64

// Amount is a quantity of mosaic atomic units.
type Amount uint64

// CompareOrdered is a three-way comparison for naturally ordered keys.
func CompareOrdered[T ~uint64 | ~uint32 | ~uint16 | ~uint8](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
