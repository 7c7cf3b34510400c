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
	"fmt"
	"sort"

	"github.com/google/btree"
	"github.com/proximax-storage/statecache/go/common"
)

// Delta is a mutable copy-on-write branch of a Set. It is not safe for
// concurrent use.
type Delta[K comparable, V any] struct {
	descriptor Descriptor[K, V]
	base       *Set[K, V]
	tree       *btree.BTreeG[item[K, V]]

	// keys added, modified and removed relative to base; the sets are
	// disjoint and values of added and modified keys are owned by the delta
	added    map[K]struct{}
	modified map[K]struct{}
	removed  map[K]struct{}
}

// Base returns the set this delta was branched from.
func (d *Delta[K, V]) Base() *Set[K, V] {
	return d.base
}

// Insert adds a new entry. It fails with common.ErrDuplicateKey if an entry
// with the same key is present.
func (d *Delta[K, V]) Insert(value *V) error {
	key := d.descriptor.KeyOf(value)
	if d.tree.Has(item[K, V]{key: key}) {
		return fmt.Errorf("%w: %v", common.ErrDuplicateKey, key)
	}
	d.tree.ReplaceOrInsert(item[K, V]{key: key, value: value})
	if _, wasRemoved := d.removed[key]; wasRemoved {
		delete(d.removed, key)
		d.modified[key] = struct{}{}
	} else {
		d.added[key] = struct{}{}
	}
	return nil
}

// Remove deletes the entry with the given key. It fails with
// common.ErrMissingKey if there is no such entry.
func (d *Delta[K, V]) Remove(key K) error {
	if _, found := d.tree.Delete(item[K, V]{key: key}); !found {
		return fmt.Errorf("%w: %v", common.ErrMissingKey, key)
	}
	if _, wasAdded := d.added[key]; wasAdded {
		delete(d.added, key)
		return nil
	}
	delete(d.modified, key)
	d.removed[key] = struct{}{}
	return nil
}

// Find returns a mutable reference to the entry with the given key. The
// first mutable access to a committed entry clones it, so modifications
// stay local to this delta. It fails with common.ErrMissingKey if there is
// no such entry.
func (d *Delta[K, V]) Find(key K) (*V, error) {
	cur, found := d.tree.Get(item[K, V]{key: key})
	if !found {
		return nil, fmt.Errorf("%w: %v", common.ErrMissingKey, key)
	}
	if d.isOwned(key) {
		return cur.value, nil
	}
	copied := d.descriptor.Clone(cur.value)
	if got := d.descriptor.KeyOf(copied); d.descriptor.CompareKeys(got, key) != 0 {
		panic(fmt.Sprintf("clone of entry %v reports different key %v", key, got))
	}
	d.tree.ReplaceOrInsert(item[K, V]{key: key, value: copied})
	d.modified[key] = struct{}{}
	return copied, nil
}

// Get returns a read-only reference to the entry with the given key.
func (d *Delta[K, V]) Get(key K) (*V, bool) {
	res, found := d.tree.Get(item[K, V]{key: key})
	return res.value, found
}

// Contains tests whether an entry with the given key is present.
func (d *Delta[K, V]) Contains(key K) bool {
	return d.tree.Has(item[K, V]{key: key})
}

// Size returns the number of entries in O(1).
func (d *Delta[K, V]) Size() int {
	return d.tree.Len()
}

// ForEach visits all entries of the delta in key order until the callback
// returns false.
func (d *Delta[K, V]) ForEach(callback func(K, *V) bool) {
	forEach(d.tree, callback)
}

// HasChanges is true if the delta differs from its base.
func (d *Delta[K, V]) HasChanges() bool {
	return len(d.added)+len(d.modified)+len(d.removed) > 0
}

// Added lists the keys inserted by this delta in key order.
func (d *Delta[K, V]) Added() []K {
	return d.sorted(d.added)
}

// Modified lists the keys of entries replaced or mutably accessed by this
// delta in key order.
func (d *Delta[K, V]) Modified() []K {
	return d.sorted(d.modified)
}

// Removed lists the keys removed by this delta in key order.
func (d *Delta[K, V]) Removed() []K {
	return d.sorted(d.removed)
}

// Seal produces an immutable Set containing the current content of this
// delta. The delta is rebased on the produced set and starts over with an
// empty change record.
func (d *Delta[K, V]) Seal() *Set[K, V] {
	res := &Set[K, V]{descriptor: d.descriptor, tree: d.tree}
	d.base = res
	d.tree = res.tree.Clone()
	d.added = map[K]struct{}{}
	d.modified = map[K]struct{}{}
	d.removed = map[K]struct{}{}
	return res
}

func (d *Delta[K, V]) isOwned(key K) bool {
	if _, found := d.added[key]; found {
		return true
	}
	_, found := d.modified[key]
	return found
}

func (d *Delta[K, V]) sorted(keys map[K]struct{}) []K {
	res := make([]K, 0, len(keys))
	for key := range keys {
		res = append(res, key)
	}
	sort.Slice(res, func(i, j int) bool {
		return d.descriptor.CompareKeys(res[i], res[j]) < 0
	})
	return res
}
