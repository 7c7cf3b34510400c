// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package grouping implements a secondary index grouping the keys of a cache
// by height, used to find all entries expiring at a height and to prune
// outdated groups.
package grouping

import (
	"github.com/google/btree"
	"github.com/proximax-storage/statecache/go/common"
	"golang.org/x/exp/slices"
)

const degree = 16

// group holds the keys registered at one height. The key slice is sorted
// and never modified once the group is part of a tree.
type group[K any] struct {
	height common.Height
	keys   []K
}

func newTree[K any]() *btree.BTreeG[group[K]] {
	return btree.NewG(degree, func(a, b group[K]) bool {
		return a.height < b.height
	})
}

// Index is an immutable snapshot of height groups.
type Index[K comparable] struct {
	compare func(a, b K) int
	tree    *btree.BTreeG[group[K]]
}

// New creates an empty index ordering keys within a group by the given
// comparison.
func New[K comparable](compare func(a, b K) int) *Index[K] {
	return &Index[K]{compare: compare, tree: newTree[K]()}
}

// IdentifiersAt returns the keys registered at exactly the given height in
// key order.
func (i *Index[K]) IdentifiersAt(height common.Height) []K {
	return identifiersAt(i.tree, height)
}

// Size returns the number of non-empty groups.
func (i *Index[K]) Size() int {
	return i.tree.Len()
}

// Heights lists the heights of all groups in ascending order.
func (i *Index[K]) Heights() []common.Height {
	res := make([]common.Height, 0, i.tree.Len())
	i.tree.Ascend(func(g group[K]) bool {
		res = append(res, g.height)
		return true
	})
	return res
}

// ForEach visits all groups in height order until the callback returns
// false. The key slices must not be modified.
func (i *Index[K]) ForEach(callback func(common.Height, []K) bool) {
	i.tree.Ascend(func(g group[K]) bool {
		return callback(g.height, g.keys)
	})
}

// Branch creates a new Delta based on this index. It must not run
// concurrently with another Branch of the same index.
func (i *Index[K]) Branch() *Delta[K] {
	return &Delta[K]{
		base:    i,
		compare: i.compare,
		tree:    i.tree.Clone(),
		touched: map[common.Height]struct{}{},
	}
}

func identifiersAt[K any](tree *btree.BTreeG[group[K]], height common.Height) []K {
	g, found := tree.Get(group[K]{height: height})
	if !found {
		return nil
	}
	return slices.Clone(g.keys)
}
