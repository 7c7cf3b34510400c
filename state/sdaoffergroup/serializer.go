// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sdaoffergroup

import (
	"fmt"

	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

const EntryVersion = 1

const offerSize = 32 + 8 + 8

// Serializer converts entries from and to
// version:u32, groupHash[32], u16 count x (owner[32], mosaicGive:u64, deadline:u64).
type Serializer struct{}

func (Serializer) Save(entry *Entry, w *codec.Writer) {
	w.WriteUint32(EntryVersion)
	w.WriteHash(entry.GroupHash)
	w.WriteCount16(len(entry.Offers))
	for _, offer := range entry.Offers {
		w.WriteKey(offer.Owner)
		w.WriteUint64(uint64(offer.MosaicGive))
		w.WriteHeight(offer.Deadline)
	}
}

func (Serializer) Load(r *codec.Reader) (*Entry, error) {
	r.ReadVersion(EntryVersion)
	res := NewEntry(r.ReadHash())
	count := r.ReadCount16(offerSize)
	for i := 0; i < count; i++ {
		offer := OfferBasicInfo{
			Owner:      r.ReadKey(),
			MosaicGive: common.Amount(r.ReadUint64()),
			Deadline:   r.ReadHeight(),
		}
		if r.Err() != nil {
			break
		}
		if err := res.AddOffer(offer); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrMalformedEntry, err)
		}
	}
	return res, r.Err()
}

// Descriptor describes offer groups keyed by group hash.
type Descriptor struct {
	Serializer
}

func (Descriptor) CompareKeys(a, b common.Hash) int {
	return a.Compare(b)
}

func (Descriptor) KeyOf(entry *Entry) common.Hash {
	return entry.GroupHash
}

func (Descriptor) Clone(entry *Entry) *Entry {
	return entry.clone()
}

func (Descriptor) KeySerializer() common.Serializer[common.Hash] {
	return common.HashSerializer{}
}
