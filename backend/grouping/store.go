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
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const heightSize = 8

// Store persists group memberships in LevelDB. Each membership is a single
// row keyed by table, domain, big-endian height and key bytes, such that the
// rows of a group form a contiguous range.
type Store[K comparable] struct {
	db               backend.LevelDBReader
	table            backend.TableSpace
	keySerializer    common.Serializer[K]
	heightSerializer common.HeightSerializer
}

func NewStore[K comparable](
	db backend.LevelDBReader,
	table backend.TableSpace,
	keySerializer common.Serializer[K],
) *Store[K] {
	return &Store[K]{
		db:            db,
		table:         table,
		keySerializer: keySerializer,
	}
}

func (s *Store[K]) rowKey(height common.Height, key K) []byte {
	suffix := make([]byte, heightSize+s.keySerializer.Size())
	s.heightSerializer.CopyBytes(height, suffix[0:heightSize])
	s.keySerializer.CopyBytes(key, suffix[heightSize:])
	return s.table.ToDBKey(backend.GroupDomain, suffix)
}

func (s *Store[K]) getRangeForHeight(height common.Height) *util.Range {
	return util.BytesPrefix(s.table.ToDBKey(backend.GroupDomain, s.heightSerializer.ToBytes(height)))
}

// Write records the given changes in the batch.
func (s *Store[K]) Write(batch *leveldb.Batch, changes []Change[K]) {
	for _, change := range changes {
		for _, key := range change.Added {
			batch.Put(s.rowKey(change.Height, key), nil)
		}
		for _, key := range change.Removed {
			batch.Delete(s.rowKey(change.Height, key))
		}
	}
}

// ForEach applies the given operation on each key registered at the given
// height.
func (s *Store[K]) ForEach(height common.Height, callback func(K)) error {
	iter := s.db.NewIterator(s.getRangeForHeight(height), nil)
	defer iter.Release()

	for iter.Next() {
		callback(s.keySerializer.FromBytes(iter.Key()[2+heightSize:]))
	}
	return iter.Error()
}

// Load registers all persisted memberships in the given delta.
func (s *Store[K]) Load(delta *Delta[K]) error {
	iter := s.db.NewIterator(s.table.DomainRange(backend.GroupDomain), nil)
	defer iter.Release()

	for iter.Next() {
		row := iter.Key()[2:]
		delta.AddExpiryHeight(s.keySerializer.FromBytes(row[heightSize:]), s.heightSerializer.FromBytes(row[:heightSize]))
	}
	return iter.Error()
}
