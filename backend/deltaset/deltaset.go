// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package deltaset implements the primary key->entry set of a cache together
// with its copy-on-write Delta branches.
//
// A Set is an immutable snapshot. A Delta is derived from a Set by Branch and
// records all inserted, modified and removed keys relative to its base. Sealing
// a Delta produces a new Set while the base Set stays untouched, such that
// readers of the base are never affected by a branch.
package deltaset

import (
	"github.com/google/btree"
	"github.com/proximax-storage/statecache/go/common"
)

// Descriptor describes the keys and values kept in a set.
type Descriptor[K comparable, V any] interface {
	// CompareKeys defines the native order of keys.
	CompareKeys(a, b K) int
	// KeyOf extracts the key of an entry.
	KeyOf(value *V) K
	// Clone creates a deep copy of an entry such that a delta may modify the
	// copy without affecting committed state.
	Clone(value *V) *V
}

const degree = 32

type item[K comparable, V any] struct {
	key   K
	value *V
}

func newTree[K comparable, V any](descriptor Descriptor[K, V]) *btree.BTreeG[item[K, V]] {
	return btree.NewG(degree, func(a, b item[K, V]) bool {
		return descriptor.CompareKeys(a.key, b.key) < 0
	})
}

// Set is an immutable snapshot of key->entry mappings.
type Set[K comparable, V any] struct {
	descriptor Descriptor[K, V]
	tree       *btree.BTreeG[item[K, V]]
}

// New creates an empty set.
func New[K comparable, V any](descriptor Descriptor[K, V]) *Set[K, V] {
	return &Set[K, V]{
		descriptor: descriptor,
		tree:       newTree(descriptor),
	}
}

// Size returns the number of entries in O(1).
func (s *Set[K, V]) Size() int {
	return s.tree.Len()
}

// Contains tests whether an entry with the given key is present.
func (s *Set[K, V]) Contains(key K) bool {
	return s.tree.Has(item[K, V]{key: key})
}

// Get returns the entry stored for the given key. The result is shared with
// all other readers of this set and must not be modified.
func (s *Set[K, V]) Get(key K) (*V, bool) {
	res, found := s.tree.Get(item[K, V]{key: key})
	return res.value, found
}

// Floor returns the entry with the greatest key less than or equal to the
// given key.
func (s *Set[K, V]) Floor(key K) (*V, bool) {
	var res *V
	s.tree.DescendLessOrEqual(item[K, V]{key: key}, func(i item[K, V]) bool {
		res = i.value
		return false
	})
	return res, res != nil
}

// ForEach visits all entries in key order until the callback returns false.
func (s *Set[K, V]) ForEach(callback func(K, *V) bool) {
	forEach(s.tree, callback)
}

// Iterator provides a lazy iterator over all entries in key order. Each call
// starts a fresh iteration.
func (s *Set[K, V]) Iterator() common.Iterator[common.MapEntry[K, *V]] {
	return newIterator(s.tree)
}

// Branch creates a new Delta based on this set. Branching shares the tree of
// this set copy-on-write; it must not run concurrently with another Branch
// of the same set.
func (s *Set[K, V]) Branch() *Delta[K, V] {
	return &Delta[K, V]{
		descriptor: s.descriptor,
		base:       s,
		tree:       s.tree.Clone(),
		added:      map[K]struct{}{},
		modified:   map[K]struct{}{},
		removed:    map[K]struct{}{},
	}
}

func forEach[K comparable, V any](tree *btree.BTreeG[item[K, V]], callback func(K, *V) bool) {
	tree.Ascend(func(i item[K, V]) bool {
		return callback(i.key, i.value)
	})
}
