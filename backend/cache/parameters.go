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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/deltaset"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
	"go.uber.org/zap"
)

// DefaultMaxRetainedViews is the number of committed versions kept for
// historic views if not configured otherwise.
const DefaultMaxRetainedViews = 16

// Descriptor describes the entries of a cache: their key order, key
// extraction and cloning, the byte form of keys and the entry format.
type Descriptor[K comparable, V any] interface {
	deltaset.Descriptor[K, V]
	codec.Serializer[V]

	// KeySerializer provides the byte form of keys, used as database keys
	// and trie paths.
	KeySerializer() common.Serializer[K]
}

// Parameters configure a cache instance. Only Name is mandatory.
type Parameters[K comparable] struct {
	// Name identifies the cache in logs, metrics and the indexer.
	Name string
	// Table is the table space of the cache in a shared DB.
	Table backend.TableSpace
	// DB is the optional persistent backing. Without it, the cache is
	// memory only.
	DB backend.LevelDB
	// HashFunc is the hash strategy of the patricia tree, Keccak256 by
	// default.
	HashFunc common.HashFunc
	// MaxRetainedViews bounds the number of committed versions available
	// to CreateView.
	MaxRetainedViews int
	Logger           *zap.Logger
	// Registerer receives the metrics of the cache; nil leaves them
	// unregistered.
	Registerer prometheus.Registerer
	// Indexer is notified about every committed change.
	Indexer Indexer[K]
}

// UnsupportedConfiguration is the error returned if unsupported configuration
// parameters have been specified.
const UnsupportedConfiguration = common.ConstError("unsupported configuration")

func (p Parameters[K]) withDefaults() (Parameters[K], error) {
	if p.Name == "" {
		return p, fmt.Errorf("%w: missing cache name", UnsupportedConfiguration)
	}
	if p.MaxRetainedViews < 0 {
		return p, fmt.Errorf("%w: negative number of retained views %d", UnsupportedConfiguration, p.MaxRetainedViews)
	}
	if p.HashFunc == nil {
		p.HashFunc = common.Keccak256
	}
	if p.MaxRetainedViews == 0 {
		p.MaxRetainedViews = DefaultMaxRetainedViews
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	p.Logger = p.Logger.Named(p.Name)
	return p, nil
}
