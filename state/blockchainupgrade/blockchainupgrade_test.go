// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package blockchainupgrade

import (
	"testing"

	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

func TestBlockChainVersion_Components(t *testing.T) {
	version := NewBlockChainVersion(1, 2, 3, 4)
	if version.Major() != 1 || version.Minor() != 2 || version.Revision() != 3 || version.Build() != 4 {
		t.Errorf("unexpected components of %v", version)
	}
	if got := version.String(); got != "1.2.3.4" {
		t.Errorf("unexpected print %s", got)
	}
	if NewBlockChainVersion(1, 0, 0, 0) <= NewBlockChainVersion(0, 9, 9, 9) {
		t.Errorf("versions should be ordered by major first")
	}
}

func TestSerializer_Layout(t *testing.T) {
	entry := &Entry{Height: 0x0102, BlockChainVersion: 0x0304}
	data, err := codec.Serialize[Entry](Serializer{}, entry)
	if err != nil {
		t.Fatalf("failed to serialize: %v", err)
	}
	want := []byte{1, 0, 0, 0, 2, 1, 0, 0, 0, 0, 0, 0, 4, 3, 0, 0, 0, 0, 0, 0}
	if string(want) != string(data) {
		t.Errorf("unexpected encoding, wanted %x, got %x", want, data)
	}
	restored, err := codec.Deserialize[Entry](Serializer{}, data)
	if err != nil {
		t.Fatalf("failed to deserialize: %v", err)
	}
	if *restored != *entry {
		t.Errorf("unexpected entry %v", restored)
	}
}

func TestCache_RequiredVersionFollowsUpgrades(t *testing.T) {
	db, err := backend.OpenLevelDb(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()

	c, err := NewCache(cache.Parameters[common.Height]{DB: db})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	delta := c.Rebase()
	for height, version := range map[common.Height]BlockChainVersion{
		10: NewBlockChainVersion(1, 0, 0, 0),
		20: NewBlockChainVersion(2, 0, 0, 0),
	} {
		if err := delta.Insert(&Entry{Height: height, BlockChainVersion: version}); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
	}
	if _, err := c.Commit(delta); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	reopened, err := NewCache(cache.Parameters[common.Height]{DB: db})
	if err != nil {
		t.Fatalf("failed to reopen cache: %v", err)
	}
	for _, cur := range []*Cache{c, reopened} {
		view := cur.View()
		if _, found := RequiredVersion(view, 5); found {
			t.Errorf("no version should be required before the first upgrade")
		}
		if got, _ := RequiredVersion(view, 15); got.Major() != 1 {
			t.Errorf("unexpected version at 15: %v", got)
		}
		if got, _ := RequiredVersion(view, 25); got.Major() != 2 {
			t.Errorf("unexpected version at 25: %v", got)
		}
	}
}
