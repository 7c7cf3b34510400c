// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package deltaset

import (
	"github.com/google/btree"
	"github.com/proximax-storage/statecache/go/common"
)

// iterator walks a tree in key order, locating each successor on demand.
type iterator[K comparable, V any] struct {
	tree    *btree.BTreeG[item[K, V]]
	next    item[K, V]
	hasNext bool
}

func newIterator[K comparable, V any](tree *btree.BTreeG[item[K, V]]) *iterator[K, V] {
	next, found := tree.Min()
	return &iterator[K, V]{tree: tree, next: next, hasNext: found}
}

func (it *iterator[K, V]) HasNext() bool {
	return it.hasNext
}

func (it *iterator[K, V]) Next() common.MapEntry[K, *V] {
	cur := it.next
	it.hasNext = false
	first := true
	it.tree.AscendGreaterOrEqual(cur, func(i item[K, V]) bool {
		if first {
			first = false
			return true // cur itself
		}
		it.next = i
		it.hasNext = true
		return false
	})
	return common.MapEntry[K, *V]{Key: cur.key, Val: cur.value}
}
