// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cache implements the versioned key->entry cache aggregate holding
// one kind of ledger state.
//
// A cache owns exactly one canonical committed state consisting of the
// primary entry set, the height grouping index and the patricia tree
// committing to the entries. Business logic obtains a Delta through Rebase or
// CreateDelta, mutates it and hands it to Commit, which folds all changes into
// a new canonical state at once. Views are read-only snapshots of committed
// states and are never affected by later commits.
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/btree"
	"github.com/proximax-storage/statecache/go/backend/deltaset"
	"github.com/proximax-storage/statecache/go/backend/grouping"
	"github.com/proximax-storage/statecache/go/backend/patricia"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
	"go.uber.org/zap"
)

// snapshot is an immutable committed state.
type snapshot[K comparable, V any] struct {
	height         common.Height
	entries        *deltaset.Set[K, V]
	groups         *grouping.Index[K]
	tree           *patricia.Tree
	prunedBoundary common.Height
}

// Cache is the aggregate of all committed states of one kind of entries.
// All methods are safe for concurrent use; commits are serialized.
type Cache[K comparable, V any] struct {
	descriptor Descriptor[K, V]
	params     Parameters[K]
	store      *store[K] // nil for memory-only caches
	metrics    *metrics
	log        *zap.Logger

	commitMutex sync.Mutex
	mutex       sync.Mutex // guards current and history
	current     *snapshot[K, V]
	history     *btree.BTreeG[*snapshot[K, V]]
	generation  atomic.Uint64
}

// New creates a cache for the described entries. If a DB is configured, the
// state persisted in it is loaded and verified against its recorded root.
func New[K comparable, V any](descriptor Descriptor[K, V], params Parameters[K]) (*Cache[K, V], error) {
	params, err := params.withDefaults()
	if err != nil {
		return nil, err
	}
	res := &Cache[K, V]{
		descriptor: descriptor,
		params:     params,
		metrics:    newMetrics(params.Registerer, params.Name),
		log:        params.Logger,
		history: btree.NewG(4, func(a, b *snapshot[K, V]) bool {
			return a.height < b.height
		}),
	}
	res.current = &snapshot[K, V]{
		entries: deltaset.New[K, V](descriptor),
		groups:  grouping.New[K](descriptor.CompareKeys),
		tree:    patricia.New(params.HashFunc),
	}
	if params.DB != nil {
		res.store = newStore[K](params.DB, params.Table, descriptor.KeySerializer())
		if err := res.hydrate(); err != nil {
			return nil, err
		}
	}
	res.history.ReplaceOrInsert(res.current)
	res.metrics.entries.Set(float64(res.current.entries.Size()))
	return res, nil
}

// hydrate loads the persisted state into the current snapshot.
func (c *Cache[K, V]) hydrate() error {
	m, found, err := c.store.getMeta()
	if err != nil {
		return fmt.Errorf("failed to read commit metadata of %s: %w", c.params.Name, err)
	}

	entries := c.current.entries.Branch()
	err = c.store.forEachEntry(func(serialized []byte) error {
		_, err := codec.LoadInto[K, V](c.descriptor, c.descriptor.KeyOf, serialized, entries)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load entries of %s: %w", c.params.Name, err)
	}
	groups := c.current.groups.Branch()
	if err := c.store.groups.Load(groups); err != nil {
		return fmt.Errorf("failed to load height groups of %s: %w", c.params.Name, err)
	}

	tree := c.current.tree
	keySerializer := c.descriptor.KeySerializer()
	entries.ForEach(func(key K, value *V) bool {
		var serialized []byte
		serialized, err = codec.Serialize[V](c.descriptor, value)
		if err != nil {
			return false
		}
		tree = tree.Update(keySerializer.ToBytes(key), serialized)
		return true
	})
	if err != nil {
		return err
	}

	if !found && entries.Size() > 0 {
		return fmt.Errorf("%w: %d entries of %s without commit metadata", common.ErrCorruptedState, entries.Size(), c.params.Name)
	}
	if found && tree.Root() != m.root {
		return fmt.Errorf("%w: root of %s at height %d is %v, recorded %v", common.ErrCorruptedState, c.params.Name, m.height, tree.Root(), m.root)
	}

	c.current = &snapshot[K, V]{
		height:         m.height,
		entries:        entries.Seal(),
		groups:         groups.Seal(),
		tree:           tree,
		prunedBoundary: m.prunedBoundary,
	}
	c.log.Info("loaded persisted state",
		zap.Stringer("height", m.height),
		zap.Int("entries", entries.Size()),
		zap.Int("groups", c.current.groups.Size()),
		zap.Stringer("root", tree.Root()),
	)
	return nil
}

// Name returns the name the cache was configured with.
func (c *Cache[K, V]) Name() string {
	return c.params.Name
}

// View returns a view of the latest committed state.
func (c *Cache[K, V]) View() *View[K, V] {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return &View[K, V]{snapshot: c.current}
}

// CreateView returns a view of the retained committed state with the greatest
// height less than or equal to the given height. HeightOfLatest selects the
// latest committed state.
func (c *Cache[K, V]) CreateView(height common.Height) (*View[K, V], error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if height == common.HeightOfLatest {
		return &View[K, V]{snapshot: c.current}, nil
	}
	var res *snapshot[K, V]
	c.history.DescendLessOrEqual(&snapshot[K, V]{height: height}, func(s *snapshot[K, V]) bool {
		res = s
		return false
	})
	if res == nil {
		return nil, fmt.Errorf("%w: %v in %s", common.ErrHeightNotRetained, height, c.params.Name)
	}
	return &View[K, V]{snapshot: res}, nil
}

// Rebase creates a delta of the canonical state to be committed at the next
// height.
func (c *Cache[K, V]) Rebase() *Delta[K, V] {
	return c.branch(nil, false)
}

// CreateDelta creates a delta of the canonical state to be committed at the
// given height.
func (c *Cache[K, V]) CreateDelta(height common.Height) *Delta[K, V] {
	return c.branch(&height, false)
}

// RebaseDetached creates a delta of the canonical state that is never linked
// back to the cache. Committing it only folds its changes into itself.
func (c *Cache[K, V]) RebaseDetached() *Delta[K, V] {
	return c.branch(nil, true)
}

func (c *Cache[K, V]) branch(height *common.Height, detached bool) *Delta[K, V] {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	base := c.current
	res := &Delta[K, V]{
		cache:      c,
		detached:   detached,
		generation: c.generation.Load(),
		base:       base,
		height:     base.height + 1,
		entries:    base.entries.Branch(),
		groups:     base.groups.Branch(),
	}
	if height != nil {
		res.height = *height
	}
	return res
}

// publish makes the given snapshot the canonical state, invalidating all
// outstanding deltas.
func (c *Cache[K, V]) publish(next *snapshot[K, V]) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.current = next
	// a rollback discards retained versions at or above the new height
	for {
		last, found := c.history.Max()
		if !found || last.height < next.height {
			break
		}
		c.history.DeleteMax()
	}
	c.history.ReplaceOrInsert(next)
	for c.history.Len() > c.params.MaxRetainedViews {
		c.history.DeleteMin()
	}
	c.generation.Add(1)
}
