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
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

// HashFunc is a hash strategy used for content addressing keys and values
// in the state trie.
type HashFunc func(data []byte) Hash

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}
var sha3HasherPool = sync.Pool{New: func() any { return sha3.New256() }}

// Keccak256 computes the legacy Keccak-256 hash of the given data.
func Keccak256(data []byte) Hash {
	return hashWithPool(&keccakHasherPool, data)
}

// Sha3_256 computes the standardized SHA3-256 hash of the given data.
func Sha3_256(data []byte) Hash {
	return hashWithPool(&sha3HasherPool, data)
}

func hashWithPool(pool *sync.Pool, data []byte) Hash {
	hasher := pool.Get().(hash.Hash)
	hasher.Reset()
	hasher.Write(data)
	var res Hash
	hasher.Sum(res[:0])
	pool.Put(hasher)
	return res
}
