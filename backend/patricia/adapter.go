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

// Update produces a tree in which the leaf of the given key commits to the
// serialized form of its entry. The leaf path is the hash of the key bytes,
// the leaf value the hash of the serialized entry.
func (t *Tree) Update(keyBytes []byte, serialized []byte) *Tree {
	return t.Set(t.hashFunc(keyBytes), t.hashFunc(serialized))
}

// Remove produces a tree without the leaf of the given key.
func (t *Tree) Remove(keyBytes []byte) *Tree {
	return t.Delete(t.hashFunc(keyBytes))
}

// Contains tests whether a leaf exists for the given key.
func (t *Tree) Contains(keyBytes []byte) bool {
	_, found := t.Get(t.hashFunc(keyBytes))
	return found
}
