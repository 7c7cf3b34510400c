// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package backend

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// TableSpace divide key-value storage into spaces by adding a prefix to the key.
// Every cache instance sharing a database owns one table space.
type TableSpace byte

const (
	// NetworkConfigKey is a tablespace for network configuration entries
	NetworkConfigKey TableSpace = 'N'
	// BlockchainUpgradeKey is a tablespace for blockchain upgrade entries
	BlockchainUpgradeKey TableSpace = 'U'
	// SdaExchangeKey is a tablespace for SDA-exchange offer entries
	SdaExchangeKey TableSpace = 'X'
	// SdaOfferGroupKey is a tablespace for SDA offer group entries
	SdaOfferGroupKey TableSpace = 'O'
	// LiquidityProviderKey is a tablespace for liquidity provider entries
	LiquidityProviderKey TableSpace = 'L'
)

// Domain is the second prefix byte, separating the kinds of rows a single
// cache keeps within its table space.
type Domain byte

const (
	// EntryDomain holds serialized primary set entries.
	EntryDomain Domain = 'E'
	// GroupDomain holds height grouping memberships.
	GroupDomain Domain = 'G'
	// MetaDomain holds the commit metadata of the cache.
	MetaDomain Domain = 'M'
)

// ToDBKey converts the input key to its respective table space and domain key.
func (t TableSpace) ToDBKey(domain Domain, key []byte) []byte {
	dbKey := make([]byte, 0, 2+len(key))
	dbKey = append(dbKey, byte(t), byte(domain))
	return append(dbKey, key...)
}

// DomainRange provides the key range covering all rows of the given domain.
func (t TableSpace) DomainRange(domain Domain) *util.Range {
	return util.BytesPrefix([]byte{byte(t), byte(domain)})
}

// LevelDB is an interface missing in original LevelDB design.
// It contains methods common for the LevelDB instance and its Transactions.
// It allows for easy switching between transactional and non-transactional accesses.
type LevelDB interface {
	LevelDBReader

	// Put sets the value for the given key. It overwrites any previous value
	// for that key; a DB is not a multi-map.
	//
	// It is safe to modify the contents of the arguments after Put returns.
	Put(key, value []byte, wo *opt.WriteOptions) error

	// Delete deletes the value for the given key.
	//
	// It is safe to modify the contents of the arguments after Delete returns.
	Delete(key []byte, wo *opt.WriteOptions) error

	// Write apply the given batch to the DB. The batch records will be applied
	// sequentially and atomically.
	//
	// It is safe to modify the contents of the arguments after Write returns but
	// not before. Write will not modify content of the batch.
	Write(batch *leveldb.Batch, wo *opt.WriteOptions) error
}

// LevelDBReader is an interface missing in original LevelDB design.
// It contains methods common for the LevelDB instance and its Snapshots.
type LevelDBReader interface {
	// Get gets the value for the given key. It returns ErrNotFound if the
	// DB does not contain the key.
	//
	// The returned slice is its own copy, it is safe to modify the contents
	// of the returned slice.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// NewIterator returns an iterator for the latest snapshot of the
	// underlying DB. A nil Range.Start is treated as a key before all keys
	// in the DB. And a nil Range.Limit is treated as a key after all keys in
	// the DB.
	//
	// The iterator must be released after use, by calling Release method.
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// OpenLevelDb opens the LevelDB database located at the given path.
func OpenLevelDb(path string, options *opt.Options) (*leveldb.DB, error) {
	return leveldb.OpenFile(path, options)
}
