// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package networkconfig

import (
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

// EntryVersion is the latest supported format version of entries.
const EntryVersion = 1

// Serializer converts entries from and to
// version:u32, height:u64, u16 length + networkConfig,
// u16 length + supportedEntityVersions.
type Serializer struct{}

func (Serializer) Save(entry *Entry, w *codec.Writer) {
	w.WriteUint32(EntryVersion)
	w.WriteHeight(entry.Height)
	w.WriteBytes16([]byte(entry.NetworkConfig))
	w.WriteBytes16([]byte(entry.SupportedEntityVersions))
}

func (Serializer) Load(r *codec.Reader) (*Entry, error) {
	r.ReadVersion(EntryVersion)
	res := &Entry{}
	res.Height = r.ReadHeight()
	res.NetworkConfig = string(r.ReadBytes16())
	res.SupportedEntityVersions = string(r.ReadBytes16())
	return res, r.Err()
}

// Descriptor describes network configuration entries keyed by height.
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
