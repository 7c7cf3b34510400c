// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package sqlite mirrors committed cache entries into an SQLite database for
// external queries.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/proximax-storage/statecache/go/common"
)

var (
	// See https://www.sqlite.org/pragma.html
	kConfigureConnection = []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
)

const (
	kCreateEntryTable = "CREATE TABLE IF NOT EXISTS entries (cache TEXT, key BLOB, data BLOB, PRIMARY KEY (cache,key))"
	kInsertEntryStmt  = "INSERT INTO entries(cache,key,data) VALUES (?,?,?)"
	kUpdateEntryStmt  = "UPDATE entries SET data = ? WHERE cache = ? AND key = ?"
	kDeleteEntryStmt  = "DELETE FROM entries WHERE cache = ? AND key = ?"
	kGetEntryStmt     = "SELECT data FROM entries WHERE cache = ? AND key = ?"
	kCountEntriesStmt = "SELECT COUNT(*) FROM entries WHERE cache = ?"
)

// Indexer stores the serialized entries of one cache, keyed by the byte form
// of their keys. Several indexers may share one database file as long as
// their cache names differ.
type Indexer[K comparable] struct {
	db            *sql.DB
	cache         string
	keySerializer common.Serializer[K]
	insertStmt    *sql.Stmt
	updateStmt    *sql.Stmt
	deleteStmt    *sql.Stmt
	getStmt       *sql.Stmt
	countStmt     *sql.Stmt
}

func NewIndexer[K comparable](file string, cache string, keySerializer common.Serializer[K]) (*Indexer[K], error) {
	db, err := sql.Open("sqlite3", "file:"+file)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite; %s", err)
	}
	res, err := newIndexer(db, cache, keySerializer)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return res, nil
}

func newIndexer[K comparable](db *sql.DB, cache string, keySerializer common.Serializer[K]) (*Indexer[K], error) {
	for _, cmd := range kConfigureConnection {
		if _, err := db.Exec(cmd); err != nil {
			return nil, fmt.Errorf("failed to configure connection with %s; %s", cmd, err)
		}
	}
	if _, err := db.Exec(kCreateEntryTable); err != nil {
		return nil, fmt.Errorf("failed to create entry table; %s", err)
	}
	res := &Indexer[K]{db: db, cache: cache, keySerializer: keySerializer}
	for _, stmt := range []struct {
		query  string
		target **sql.Stmt
	}{
		{kInsertEntryStmt, &res.insertStmt},
		{kUpdateEntryStmt, &res.updateStmt},
		{kDeleteEntryStmt, &res.deleteStmt},
		{kGetEntryStmt, &res.getStmt},
		{kCountEntriesStmt, &res.countStmt},
	} {
		prepared, err := db.Prepare(stmt.query)
		if err != nil {
			return nil, err
		}
		*stmt.target = prepared
	}
	return res, nil
}

func (i *Indexer[K]) Insert(key K, serialized []byte) error {
	_, err := i.insertStmt.Exec(i.cache, i.keySerializer.ToBytes(key), serialized)
	return err
}

func (i *Indexer[K]) Update(key K, serialized []byte) error {
	return i.expectRow(i.updateStmt.Exec(serialized, i.cache, i.keySerializer.ToBytes(key)))
}

func (i *Indexer[K]) Remove(key K) error {
	return i.expectRow(i.deleteStmt.Exec(i.cache, i.keySerializer.ToBytes(key)))
}

func (i *Indexer[K]) expectRow(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if count != 1 {
		return fmt.Errorf("%w in index of %s", common.ErrMissingKey, i.cache)
	}
	return nil
}

// Get returns the serialized entry stored for the key.
func (i *Indexer[K]) Get(key K) ([]byte, bool, error) {
	var data []byte
	err := i.getStmt.QueryRow(i.cache, i.keySerializer.ToBytes(key)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Size returns the number of indexed entries of the cache.
func (i *Indexer[K]) Size() (int, error) {
	var res int
	err := i.countStmt.QueryRow(i.cache).Scan(&res)
	return res, err
}

func (i *Indexer[K]) Close() error {
	return i.db.Close()
}
