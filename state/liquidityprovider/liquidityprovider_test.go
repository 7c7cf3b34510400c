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
	"math"
	"testing"

	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/stretchr/testify/require"
)

func newTestEntry(id common.MosaicID) *Entry {
	return &Entry{
		MosaicID:           id,
		ProviderKey:        common.Key{1},
		Owner:              common.Key{2},
		AdditionallyMinted: 1000,
		SlashingAccount:    common.Key{3},
		SlashingPeriod:     10,
		WindowSize:         2,
		CreationHeight:     5,
		Alpha:              7,
		Beta:               8,
		TurnoverHistory: []HistoryObservation{
			{Rate: ExchangeRate{CurrencyAmount: 10, MosaicAmount: 20}, Turnover: 30},
		},
		RecentTurnover: HistoryObservation{Rate: ExchangeRate{CurrencyAmount: 40, MosaicAmount: 50}, Turnover: 60},
	}
}

func TestExchangeRate_LessComparesPrices(t *testing.T) {
	cheap := ExchangeRate{CurrencyAmount: 1, MosaicAmount: 4}
	expensive := ExchangeRate{CurrencyAmount: 1, MosaicAmount: 2}
	require.True(t, cheap.Less(expensive))
	require.False(t, expensive.Less(cheap))
	require.False(t, cheap.Less(ExchangeRate{CurrencyAmount: 2, MosaicAmount: 8}))

	huge := ExchangeRate{CurrencyAmount: math.MaxUint64, MosaicAmount: math.MaxUint64 - 1}
	one := ExchangeRate{CurrencyAmount: math.MaxUint64 - 1, MosaicAmount: math.MaxUint64 - 1}
	require.True(t, one.Less(huge))
}

func TestEntry_CompletePeriodKeepsWindow(t *testing.T) {
	entry := newTestEntry(1)
	entry.AddTurnover(5)
	entry.CompletePeriod(ExchangeRate{CurrencyAmount: 1, MosaicAmount: 1})
	require.Len(t, entry.TurnoverHistory, 2)
	require.Equal(t, common.Amount(65), entry.TurnoverHistory[1].Turnover)
	require.Equal(t, HistoryObservation{Rate: ExchangeRate{CurrencyAmount: 1, MosaicAmount: 1}}, entry.RecentTurnover)

	entry.CompletePeriod(ExchangeRate{CurrencyAmount: 2, MosaicAmount: 2})
	require.Len(t, entry.TurnoverHistory, 2)
	require.Equal(t, common.Amount(65), entry.TurnoverHistory[0].Turnover)
	require.Equal(t, common.Amount(0), entry.TurnoverHistory[1].Turnover)

	best, found := entry.MaxTurnoverObservation()
	require.True(t, found)
	require.Equal(t, common.Amount(65), best.Turnover)
}

func TestEntry_IsSlashingHeight(t *testing.T) {
	entry := newTestEntry(1)
	for height, want := range map[common.Height]bool{5: false, 10: false, 15: true, 25: true, 26: false} {
		require.Equal(t, want, entry.IsSlashingHeight(height), "height %d", height)
	}
	entry.SlashingPeriod = 0
	require.False(t, entry.IsSlashingHeight(15))
}

func TestSerializer_RestoresEntry(t *testing.T) {
	entry := newTestEntry(0x0102)
	data, err := codec.Serialize[Entry](Serializer{}, entry)
	require.NoError(t, err)
	require.Len(t, data, 4+8+32+32+8+32+4+2+8+4+4+2+observationSize+observationSize)
	require.Equal(t, []byte{1, 0, 0, 0, 2, 1}, data[:6])

	restored, err := codec.Deserialize[Entry](Serializer{}, data)
	require.NoError(t, err)
	require.Equal(t, entry, restored)

	_, err = codec.Deserialize[Entry](Serializer{}, data[:len(data)-1])
	require.ErrorIs(t, err, common.ErrMalformedEntry)
}

func TestCache_CompletePeriodsOfDueProviders(t *testing.T) {
	db, err := backend.OpenLevelDb(t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()

	c, err := NewCache(cache.Parameters[common.MosaicID]{DB: db})
	require.NoError(t, err)
	delta := c.Rebase()
	first := newTestEntry(1)
	second := newTestEntry(2)
	second.SlashingPeriod = 7
	require.NoError(t, delta.Insert(first))
	require.NoError(t, delta.Insert(second))
	_, err = c.Commit(delta)
	require.NoError(t, err)

	delta = c.Rebase()
	due, err := CompletePeriods(delta, 15, func(entry *Entry) ExchangeRate {
		return ExchangeRate{CurrencyAmount: common.Amount(entry.MosaicID), MosaicAmount: 1}
	})
	require.NoError(t, err)
	require.Equal(t, []common.MosaicID{1}, due)
	view, err := c.Commit(delta)
	require.NoError(t, err)

	reopened, err := NewCache(cache.Parameters[common.MosaicID]{DB: db})
	require.NoError(t, err)
	require.Equal(t, view.Root(), reopened.View().Root())
	got, found := reopened.View().Get(1)
	require.True(t, found)
	require.Equal(t, ExchangeRate{CurrencyAmount: 1, MosaicAmount: 1}, got.RecentTurnover.Rate)
	require.Len(t, got.TurnoverHistory, 2)
	untouched, _ := reopened.View().Get(2)
	require.Equal(t, second, untouched)
}
