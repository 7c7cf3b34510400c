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
	"time"

	"github.com/proximax-storage/statecache/go/common"
	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/zap"
)

// CommitOption customizes a single commit.
type CommitOption func(*commitOptions)

type commitOptions struct {
	pruningBoundary common.Height
}

// WithPruningBoundary drops all height groups at or below the given height
// as part of the commit.
func WithPruningBoundary(height common.Height) CommitOption {
	return func(o *commitOptions) {
		o.pruningBoundary = height
	}
}

// Commit folds the changes of the given delta into a new state. For deltas
// created by Rebase or CreateDelta, the new state becomes the canonical state
// of the cache, it is persisted and reported to the indexer. Deltas created by
// RebaseDetached only fold the changes into themselves. On failure, the
// canonical state remains untouched.
func (c *Cache[K, V]) Commit(d *Delta[K, V], opts ...CommitOption) (*View[K, V], error) {
	if d.cache != c {
		return nil, fmt.Errorf("delta of cache %s committed to %s", d.cache.params.Name, c.params.Name)
	}
	options := commitOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if d.detached {
		return c.commitDetached(d, options)
	}

	c.commitMutex.Lock()
	defer c.commitMutex.Unlock()
	start := time.Now()

	if err := d.checkStale(); err != nil {
		return nil, err
	}
	base := d.base
	if base.prunedBoundary != common.InvalidHeight && d.height <= base.prunedBoundary {
		return nil, fmt.Errorf("%w: commit of %s at height %v, pruned up to %v", common.ErrPruningInconsistency, c.params.Name, d.height, base.prunedBoundary)
	}

	// stage the new state
	changes, err := d.collect()
	if err != nil {
		return nil, err
	}
	tree := d.apply(base.tree, changes)
	boundary, pruned := base.prunedBoundary, 0
	if options.pruningBoundary != common.InvalidHeight {
		pruned = d.groups.Prune(options.pruningBoundary)
		if options.pruningBoundary > boundary {
			boundary = options.pruningBoundary
		}
	}
	if c.store != nil {
		batch := new(leveldb.Batch)
		for _, change := range changes {
			if change.kind == removed {
				c.store.deleteEntry(batch, change.key)
			} else {
				c.store.putEntry(batch, change.key, change.serialized)
			}
		}
		c.store.groups.Write(batch, d.groups.Changes())
		c.store.putMeta(batch, meta{height: d.height, root: tree.Root(), prunedBoundary: boundary})
		if err := c.store.db.Write(batch, nil); err != nil {
			return nil, fmt.Errorf("failed to persist commit of %s at height %v: %w", c.params.Name, d.height, err)
		}
	}
	next := &snapshot[K, V]{
		height:         d.height,
		entries:        d.entries.Seal(),
		groups:         d.groups.Seal(),
		tree:           tree,
		prunedBoundary: boundary,
	}

	c.publish(next)
	c.notify(changes)

	c.metrics.commits.Inc()
	c.metrics.commitDuration.Observe(time.Since(start).Seconds())
	c.metrics.entries.Set(float64(next.entries.Size()))
	c.metrics.prunedGroups.Add(float64(pruned))
	c.log.Debug("committed",
		zap.Stringer("height", next.height),
		zap.Int("changes", len(changes)),
		zap.Int("entries", next.entries.Size()),
		zap.Stringer("root", tree.Root()),
	)
	if pruned > 0 {
		c.log.Info("pruned height groups",
			zap.Stringer("boundary", options.pruningBoundary),
			zap.Int("groups", pruned),
		)
	}
	return &View[K, V]{snapshot: next}, nil
}

func (c *Cache[K, V]) commitDetached(d *Delta[K, V], options commitOptions) (*View[K, V], error) {
	changes, err := d.collect()
	if err != nil {
		return nil, err
	}
	boundary := d.base.prunedBoundary
	if options.pruningBoundary != common.InvalidHeight {
		d.groups.Prune(options.pruningBoundary)
		if options.pruningBoundary > boundary {
			boundary = options.pruningBoundary
		}
	}
	next := &snapshot[K, V]{
		height:         d.height,
		entries:        d.entries.Seal(),
		groups:         d.groups.Seal(),
		tree:           d.apply(d.base.tree, changes),
		prunedBoundary: boundary,
	}
	d.base = next
	d.height = next.height + 1
	return &View[K, V]{snapshot: next}, nil
}

// notify reports committed changes to the indexer. Failures do not revert
// the already published commit.
func (c *Cache[K, V]) notify(changes []change[K]) {
	indexer := c.params.Indexer
	if indexer == nil {
		return
	}
	for _, change := range changes {
		var err error
		switch change.kind {
		case inserted:
			err = indexer.Insert(change.key, change.serialized)
		case updated:
			err = indexer.Update(change.key, change.serialized)
		case removed:
			err = indexer.Remove(change.key)
		}
		if err != nil {
			c.log.Error("failed to index change", zap.Any("key", change.key), zap.Error(err))
		}
	}
}
