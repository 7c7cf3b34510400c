// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package grouping

import (
	"sort"

	"github.com/google/btree"
	"github.com/proximax-storage/statecache/go/common"
	"golang.org/x/exp/slices"
)

// Delta is a mutable copy-on-write branch of an Index. It is not safe for
// concurrent use.
type Delta[K comparable] struct {
	base    *Index[K]
	compare func(a, b K) int
	tree    *btree.BTreeG[group[K]]
	touched map[common.Height]struct{}
	pruned  int
}

// Change describes the difference of a single group between a delta and its
// base.
type Change[K any] struct {
	Height  common.Height
	Added   []K
	Removed []K
}

// AddExpiryHeight registers the key at the given height. Adding a key twice
// has no effect, as has adding it at the InvalidHeight.
func (d *Delta[K]) AddExpiryHeight(key K, height common.Height) {
	if height == common.InvalidHeight {
		return
	}
	g, _ := d.tree.Get(group[K]{height: height})
	pos, found := slices.BinarySearchFunc(g.keys, key, d.compare)
	if found {
		return
	}
	keys := make([]K, 0, len(g.keys)+1)
	keys = append(keys, g.keys[:pos]...)
	keys = append(keys, key)
	keys = append(keys, g.keys[pos:]...)
	d.tree.ReplaceOrInsert(group[K]{height: height, keys: keys})
	d.touched[height] = struct{}{}
}

// RemoveExpiryHeight unregisters the key from the given height. Removing the
// last key of a group drops the group.
func (d *Delta[K]) RemoveExpiryHeight(key K, height common.Height) {
	if height == common.InvalidHeight {
		return
	}
	g, exists := d.tree.Get(group[K]{height: height})
	if !exists {
		return
	}
	pos, found := slices.BinarySearchFunc(g.keys, key, d.compare)
	if !found {
		return
	}
	d.touched[height] = struct{}{}
	if len(g.keys) == 1 {
		d.tree.Delete(g)
		return
	}
	keys := make([]K, 0, len(g.keys)-1)
	keys = append(keys, g.keys[:pos]...)
	keys = append(keys, g.keys[pos+1:]...)
	d.tree.ReplaceOrInsert(group[K]{height: height, keys: keys})
}

// IdentifiersAt returns the keys registered at exactly the given height in
// key order.
func (d *Delta[K]) IdentifiersAt(height common.Height) []K {
	return identifiersAt(d.tree, height)
}

// Size returns the number of non-empty groups.
func (d *Delta[K]) Size() int {
	return d.tree.Len()
}

// Prune drops all groups at or below the given boundary and returns the
// number of dropped groups.
func (d *Delta[K]) Prune(boundary common.Height) int {
	var heights []common.Height
	d.tree.AscendLessThan(group[K]{height: boundary}, func(g group[K]) bool {
		heights = append(heights, g.height)
		return true
	})
	if _, found := d.tree.Get(group[K]{height: boundary}); found {
		heights = append(heights, boundary)
	}
	for _, height := range heights {
		d.tree.Delete(group[K]{height: height})
		d.touched[height] = struct{}{}
	}
	d.pruned += len(heights)
	return len(heights)
}

// Pruned returns the number of groups dropped by Prune since the last Seal.
func (d *Delta[K]) Pruned() int {
	return d.pruned
}

// Changes lists the modified groups in height order.
func (d *Delta[K]) Changes() []Change[K] {
	heights := make([]common.Height, 0, len(d.touched))
	for height := range d.touched {
		heights = append(heights, height)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })

	res := make([]Change[K], 0, len(heights))
	for _, height := range heights {
		before, _ := d.base.tree.Get(group[K]{height: height})
		after, _ := d.tree.Get(group[K]{height: height})
		added, removed := diff(before.keys, after.keys, d.compare)
		if len(added)+len(removed) > 0 {
			res = append(res, Change[K]{Height: height, Added: added, Removed: removed})
		}
	}
	return res
}

// Seal produces an immutable Index with the current content of this delta
// and rebases the delta on it.
func (d *Delta[K]) Seal() *Index[K] {
	res := &Index[K]{compare: d.compare, tree: d.tree}
	d.base = res
	d.tree = res.tree.Clone()
	d.touched = map[common.Height]struct{}{}
	d.pruned = 0
	return res
}

// diff computes the keys only present in after and only present in before
// by merging the two sorted slices.
func diff[K any](before, after []K, compare func(a, b K) int) (added, removed []K) {
	i, j := 0, 0
	for i < len(before) && j < len(after) {
		switch c := compare(before[i], after[j]); {
		case c < 0:
			removed = append(removed, before[i])
			i++
		case c > 0:
			added = append(added, after[j])
			j++
		default:
			i++
			j++
		}
	}
	removed = append(removed, before[i:]...)
	added = append(added, after[j:]...)
	return added, removed
}
