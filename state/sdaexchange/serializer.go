// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package sdaexchange

import (
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

const EntryVersion = 1

const (
	offerSize         = 7 * 8
	expiredBucketSize = 8 + 1
)

// Serializer converts entries from and to
// version:u32, owner[32], u8 count x offer,
// u16 count x (height:u64, u8 count x offer)
// where an offer is mosaicGive, mosaicGet, currentGive, currentGet,
// initialGive, initialGet and deadline, all u64. Offers are written in pair
// order, expired buckets in height order.
type Serializer struct{}

func (Serializer) Save(entry *Entry, w *codec.Writer) {
	w.WriteUint32(EntryVersion)
	w.WriteKey(entry.Owner)
	saveOffers(entry.Offers, w)
	heights := entry.expiredHeights()
	w.WriteCount16(len(heights))
	for _, height := range heights {
		w.WriteHeight(height)
		saveOffers(entry.Expired[height], w)
	}
}

func saveOffers(offers Offers, w *codec.Writer) {
	pairs := offers.pairs()
	w.WriteCount8(len(pairs))
	for _, pair := range pairs {
		offer := offers[pair]
		w.WriteUint64(uint64(pair.Give))
		w.WriteUint64(uint64(pair.Get))
		w.WriteUint64(uint64(offer.CurrentMosaicGive))
		w.WriteUint64(uint64(offer.CurrentMosaicGet))
		w.WriteUint64(uint64(offer.InitialMosaicGive))
		w.WriteUint64(uint64(offer.InitialMosaicGet))
		w.WriteHeight(offer.Deadline)
	}
}

func (Serializer) Load(r *codec.Reader) (*Entry, error) {
	r.ReadVersion(EntryVersion)
	res := NewEntry(r.ReadKey())
	res.Offers = loadOffers(r)
	count := r.ReadCount16(expiredBucketSize)
	for i := 0; i < count; i++ {
		height := r.ReadHeight()
		res.Expired[height] = loadOffers(r)
	}
	return res, r.Err()
}

func loadOffers(r *codec.Reader) Offers {
	count := r.ReadCount8(offerSize)
	res := make(Offers, count)
	for i := 0; i < count; i++ {
		pair := MosaicsPair{
			Give: common.MosaicID(r.ReadUint64()),
			Get:  common.MosaicID(r.ReadUint64()),
		}
		res[pair] = &OfferBalance{
			CurrentMosaicGive: common.Amount(r.ReadUint64()),
			CurrentMosaicGet:  common.Amount(r.ReadUint64()),
			InitialMosaicGive: common.Amount(r.ReadUint64()),
			InitialMosaicGet:  common.Amount(r.ReadUint64()),
			Deadline:          r.ReadHeight(),
		}
	}
	return res
}

// Descriptor describes exchange entries keyed by owner.
type Descriptor struct {
	Serializer
}

func (Descriptor) CompareKeys(a, b common.Key) int {
	return a.Compare(b)
}

func (Descriptor) KeyOf(entry *Entry) common.Key {
	return entry.Owner
}

func (Descriptor) Clone(entry *Entry) *Entry {
	return entry.clone()
}

func (Descriptor) KeySerializer() common.Serializer[common.Key] {
	return common.KeySerializer{}
}
