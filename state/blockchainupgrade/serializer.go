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
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

const EntryVersion = 1

// Serializer converts entries from and to
// version:u32, height:u64, blockChainVersion:u64.
type Serializer struct{}

func (Serializer) Save(entry *Entry, w *codec.Writer) {
	w.WriteUint32(EntryVersion)
	w.WriteHeight(entry.Height)
	w.WriteUint64(uint64(entry.BlockChainVersion))
}

func (Serializer) Load(r *codec.Reader) (*Entry, error) {
	r.ReadVersion(EntryVersion)
	return &Entry{
		Height:            r.ReadHeight(),
		BlockChainVersion: BlockChainVersion(r.ReadUint64()),
	}, r.Err()
}

type Descriptor struct {
	Serializer
}

func (Descriptor) CompareKeys(a, b common.Height) int {
	return common.CompareOrdered(a, b)
}

func (Descriptor) KeyOf(entry *Entry) common.Height {
	return entry.Height
}

func (Descriptor) Clone(entry *Entry) *Entry {
	res := *entry
	return &res
}

func (Descriptor) KeySerializer() common.Serializer[common.Height] {
	return common.HeightSerializer{}
}
