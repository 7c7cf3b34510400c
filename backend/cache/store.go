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
	"errors"
	"fmt"

	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/grouping"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/syndtr/goleveldb/leveldb"
)

const metaSize = 8 + 32 + 8

// meta is the commit metadata persisted with every canonical commit.
type meta struct {
	height         common.Height
	root           common.Hash
	prunedBoundary common.Height
}

// store keeps the rows of a cache in its table space of a LevelDB: one row
// per entry, one row per group membership and a single metadata row.
type store[K comparable] struct {
	db            backend.LevelDB
	table         backend.TableSpace
	keySerializer common.Serializer[K]
	groups        *grouping.Store[K]
}

func newStore[K comparable](db backend.LevelDB, table backend.TableSpace, keySerializer common.Serializer[K]) *store[K] {
	return &store[K]{
		db:            db,
		table:         table,
		keySerializer: keySerializer,
		groups:        grouping.NewStore[K](db, table, keySerializer),
	}
}

func (s *store[K]) entryKey(key K) []byte {
	return s.table.ToDBKey(backend.EntryDomain, s.keySerializer.ToBytes(key))
}

func (s *store[K]) putEntry(batch *leveldb.Batch, key K, serialized []byte) {
	batch.Put(s.entryKey(key), serialized)
}

func (s *store[K]) deleteEntry(batch *leveldb.Batch, key K) {
	batch.Delete(s.entryKey(key))
}

func (s *store[K]) putMeta(batch *leveldb.Batch, m meta) {
	var value [metaSize]byte
	common.HeightSerializer{}.CopyBytes(m.height, value[0:8])
	copy(value[8:40], m.root[:])
	common.HeightSerializer{}.CopyBytes(m.prunedBoundary, value[40:48])
	batch.Put(s.table.ToDBKey(backend.MetaDomain, nil), value[:])
}

// getMeta reads the metadata row; the result is false if nothing has been
// committed yet.
func (s *store[K]) getMeta() (meta, bool, error) {
	value, err := s.db.Get(s.table.ToDBKey(backend.MetaDomain, nil), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return meta{}, false, nil
	}
	if err != nil {
		return meta{}, false, err
	}
	if len(value) != metaSize {
		return meta{}, false, fmt.Errorf("%w: metadata of %d bytes, expected %d", common.ErrCorruptedState, len(value), metaSize)
	}
	var res meta
	res.height = common.HeightSerializer{}.FromBytes(value[0:8])
	copy(res.root[:], value[8:40])
	res.prunedBoundary = common.HeightSerializer{}.FromBytes(value[40:48])
	return res, true, nil
}

// forEachEntry visits the serialized form of all persisted entries in key
// byte order.
func (s *store[K]) forEachEntry(callback func(serialized []byte) error) error {
	iter := s.db.NewIterator(s.table.DomainRange(backend.EntryDomain), nil)
	defer iter.Release()

	for iter.Next() {
		if err := callback(iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
