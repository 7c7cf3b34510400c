// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package liquidityprovider

import (
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

const EntryVersion = 1

const observationSize = 3 * 8

// Serializer converts entries from and to
// version:u32, mosaicId:u64, providerKey[32], owner[32],
// additionallyMinted:u64, slashingAccount[32], slashingPeriod:u32,
// windowSize:u16, creationHeight:u64, alpha:u32, beta:u32,
// u16 count x observation, recentTurnover:observation
// where an observation is currencyAmount, mosaicAmount and turnover, all u64.
type Serializer struct{}

func (Serializer) Save(entry *Entry, w *codec.Writer) {
	w.WriteUint32(EntryVersion)
	w.WriteUint64(uint64(entry.MosaicID))
	w.WriteKey(entry.ProviderKey)
	w.WriteKey(entry.Owner)
	w.WriteUint64(uint64(entry.AdditionallyMinted))
	w.WriteKey(entry.SlashingAccount)
	w.WriteUint32(entry.SlashingPeriod)
	w.WriteUint16(entry.WindowSize)
	w.WriteHeight(entry.CreationHeight)
	w.WriteUint32(entry.Alpha)
	w.WriteUint32(entry.Beta)
	w.WriteCount16(len(entry.TurnoverHistory))
	for _, observation := range entry.TurnoverHistory {
		saveObservation(observation, w)
	}
	saveObservation(entry.RecentTurnover, w)
}

func saveObservation(observation HistoryObservation, w *codec.Writer) {
	w.WriteUint64(uint64(observation.Rate.CurrencyAmount))
	w.WriteUint64(uint64(observation.Rate.MosaicAmount))
	w.WriteUint64(uint64(observation.Turnover))
}

func (Serializer) Load(r *codec.Reader) (*Entry, error) {
	r.ReadVersion(EntryVersion)
	res := NewEntry(common.MosaicID(r.ReadUint64()))
	res.ProviderKey = r.ReadKey()
	res.Owner = r.ReadKey()
	res.AdditionallyMinted = common.Amount(r.ReadUint64())
	res.SlashingAccount = r.ReadKey()
	res.SlashingPeriod = r.ReadUint32()
	res.WindowSize = r.ReadUint16()
	res.CreationHeight = r.ReadHeight()
	res.Alpha = r.ReadUint32()
	res.Beta = r.ReadUint32()
	if count := r.ReadCount16(observationSize); count > 0 {
		res.TurnoverHistory = make([]HistoryObservation, count)
		for i := range res.TurnoverHistory {
			res.TurnoverHistory[i] = loadObservation(r)
		}
	}
	res.RecentTurnover = loadObservation(r)
	return res, r.Err()
}

func loadObservation(r *codec.Reader) HistoryObservation {
	return HistoryObservation{
		Rate: ExchangeRate{
			CurrencyAmount: common.Amount(r.ReadUint64()),
			MosaicAmount:   common.Amount(r.ReadUint64()),
		},
		Turnover: common.Amount(r.ReadUint64()),
	}
}

// Descriptor describes provider entries keyed by mosaic id.
type Descriptor struct {
	Serializer
}

func (Descriptor) CompareKeys(a, b common.MosaicID) int {
	return common.CompareOrdered(a, b)
}

func (Descriptor) KeyOf(entry *Entry) common.MosaicID {
	return entry.MosaicID
}

func (Descriptor) Clone(entry *Entry) *Entry {
	return entry.clone()
}

func (Descriptor) KeySerializer() common.Serializer[common.MosaicID] {
	return common.MosaicIDSerializer{}
}
