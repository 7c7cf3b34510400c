// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cache

import (
	"github.com/proximax-storage/statecache/go/common"
)

// View is a read-only snapshot of a committed state. It is safe for
// concurrent use and unaffected by subsequent commits.
type View[K comparable, V any] struct {
	snapshot *snapshot[K, V]
}

// Height returns the height the viewed state was committed at.
func (v *View[K, V]) Height() common.Height {
	return v.snapshot.height
}

// Root returns the patricia root hash of the viewed state.
func (v *View[K, V]) Root() common.Hash {
	return v.snapshot.tree.Root()
}

// PrunedBoundary returns the highest height groups have been pruned at.
func (v *View[K, V]) PrunedBoundary() common.Height {
	return v.snapshot.prunedBoundary
}

// Get returns the entry with the given key. The result must not be modified.
func (v *View[K, V]) Get(key K) (*V, bool) {
	return v.snapshot.entries.Get(key)
}

func (v *View[K, V]) Contains(key K) bool {
	return v.snapshot.entries.Contains(key)
}

func (v *View[K, V]) Size() int {
	return v.snapshot.entries.Size()
}

// Floor returns the entry with the greatest key less than or equal to the
// given key.
func (v *View[K, V]) Floor(key K) (*V, bool) {
	return v.snapshot.entries.Floor(key)
}

// Iterator iterates over all entries in key order.
func (v *View[K, V]) Iterator() common.Iterator[common.MapEntry[K, *V]] {
	return v.snapshot.entries.Iterator()
}

func (v *View[K, V]) ForEach(callback func(K, *V) bool) {
	v.snapshot.entries.ForEach(callback)
}

// IdentifiersAt returns the keys grouped at exactly the given height.
func (v *View[K, V]) IdentifiersAt(height common.Height) []K {
	return v.snapshot.groups.IdentifiersAt(height)
}

// GroupHeights lists the heights of all non-empty groups in ascending order.
func (v *View[K, V]) GroupHeights() []common.Height {
	return v.snapshot.groups.Heights()
}
