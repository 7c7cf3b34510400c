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
	"fmt"
	"sort"

	"github.com/proximax-storage/statecache/go/backend/deltaset"
	"github.com/proximax-storage/statecache/go/backend/grouping"
	"github.com/proximax-storage/statecache/go/backend/patricia"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

// Delta is a mutable copy-on-write branch of a committed state. Changes are
// invisible to views and other deltas until committed. Once any other delta
// of the same cache has been committed, all mutations fail with
// common.ErrStaleDelta. A Delta is not safe for concurrent use.
type Delta[K comparable, V any] struct {
	cache      *Cache[K, V]
	detached   bool
	generation uint64
	base       *snapshot[K, V]
	height     common.Height
	entries    *deltaset.Delta[K, V]
	groups     *grouping.Delta[K]
}

type changeKind int

const (
	inserted changeKind = iota
	updated
	removed
)

// change is a single modified key, together with the serialized form of its
// new entry.
type change[K comparable] struct {
	kind       changeKind
	key        K
	serialized []byte
}

// Height returns the height this delta is committed at.
func (d *Delta[K, V]) Height() common.Height {
	return d.height
}

// IsDetached is true for deltas created by RebaseDetached.
func (d *Delta[K, V]) IsDetached() bool {
	return d.detached
}

// IsStale is true if the state this delta is based on has been superseded.
// Detached deltas never become stale.
func (d *Delta[K, V]) IsStale() bool {
	return !d.detached && d.cache.generation.Load() != d.generation
}

func (d *Delta[K, V]) checkStale() error {
	if d.IsStale() {
		return fmt.Errorf("%w: delta of %s for height %v", common.ErrStaleDelta, d.cache.params.Name, d.height)
	}
	return nil
}

// Insert adds a new entry, failing with common.ErrDuplicateKey if the key is
// present.
func (d *Delta[K, V]) Insert(value *V) error {
	if err := d.checkStale(); err != nil {
		return err
	}
	return d.entries.Insert(value)
}

// Remove deletes an entry, failing with common.ErrMissingKey if the key is
// absent.
func (d *Delta[K, V]) Remove(key K) error {
	if err := d.checkStale(); err != nil {
		return err
	}
	return d.entries.Remove(key)
}

// Find returns a mutable reference to the entry with the given key.
func (d *Delta[K, V]) Find(key K) (*V, error) {
	if err := d.checkStale(); err != nil {
		return nil, err
	}
	return d.entries.Find(key)
}

// Get returns a read-only reference to the entry with the given key.
func (d *Delta[K, V]) Get(key K) (*V, bool) {
	return d.entries.Get(key)
}

func (d *Delta[K, V]) Contains(key K) bool {
	return d.entries.Contains(key)
}

func (d *Delta[K, V]) Size() int {
	return d.entries.Size()
}

func (d *Delta[K, V]) ForEach(callback func(K, *V) bool) {
	d.entries.ForEach(callback)
}

// AddExpiryHeight registers the key in the group of the given height.
func (d *Delta[K, V]) AddExpiryHeight(key K, height common.Height) error {
	if err := d.checkStale(); err != nil {
		return err
	}
	d.groups.AddExpiryHeight(key, height)
	return nil
}

// RemoveExpiryHeight unregisters the key from the group of the given height.
func (d *Delta[K, V]) RemoveExpiryHeight(key K, height common.Height) error {
	if err := d.checkStale(); err != nil {
		return err
	}
	d.groups.RemoveExpiryHeight(key, height)
	return nil
}

// IdentifiersAt returns the keys grouped at exactly the given height.
func (d *Delta[K, V]) IdentifiersAt(height common.Height) []K {
	return d.groups.IdentifiersAt(height)
}

func (d *Delta[K, V]) Added() []K {
	return d.entries.Added()
}

func (d *Delta[K, V]) Modified() []K {
	return d.entries.Modified()
}

func (d *Delta[K, V]) Removed() []K {
	return d.entries.Removed()
}

// UncommittedRoot computes the root hash the state would have if this delta
// was committed. Only the root of a committed view is authoritative.
func (d *Delta[K, V]) UncommittedRoot() (common.Hash, error) {
	changes, err := d.collect()
	if err != nil {
		return common.Hash{}, err
	}
	return d.apply(d.base.tree, changes).Root(), nil
}

// collect lists all changes relative to the base in key order.
func (d *Delta[K, V]) collect() ([]change[K], error) {
	descriptor := d.cache.descriptor
	added, modified, deleted := d.entries.Added(), d.entries.Modified(), d.entries.Removed()
	res := make([]change[K], 0, len(added)+len(modified)+len(deleted))
	for _, keys := range []struct {
		kind changeKind
		keys []K
	}{{inserted, added}, {updated, modified}} {
		for _, key := range keys.keys {
			value, _ := d.entries.Get(key)
			serialized, err := codec.Serialize[V](descriptor, value)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize entry %v: %w", key, err)
			}
			res = append(res, change[K]{kind: keys.kind, key: key, serialized: serialized})
		}
	}
	for _, key := range deleted {
		res = append(res, change[K]{kind: removed, key: key})
	}
	sort.Slice(res, func(i, j int) bool {
		return descriptor.CompareKeys(res[i].key, res[j].key) < 0
	})
	return res, nil
}

func (d *Delta[K, V]) apply(tree *patricia.Tree, changes []change[K]) *patricia.Tree {
	keySerializer := d.cache.descriptor.KeySerializer()
	for _, change := range changes {
		if change.kind == removed {
			tree = tree.Remove(keySerializer.ToBytes(change.key))
		} else {
			tree = tree.Update(keySerializer.ToBytes(change.key), change.serialized)
		}
	}
	return tree
}
