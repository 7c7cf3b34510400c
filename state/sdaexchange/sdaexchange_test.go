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
	"testing"

	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/stretchr/testify/require"
)

var (
	owner1 = common.Key{1}
	owner2 = common.Key{2}
	pairA  = MosaicsPair{Give: 1, Get: 2}
	pairB  = MosaicsPair{Give: 3, Get: 4}
)

func newTestEntry(t *testing.T, owner common.Key) *Entry {
	t.Helper()
	entry := NewEntry(owner)
	require.NoError(t, entry.AddOffer(pairA, 100, 10, 50))
	require.NoError(t, entry.AddOffer(pairB, 200, 20, 70))
	return entry
}

func TestEntry_AddOfferRejectsDuplicatePair(t *testing.T) {
	entry := newTestEntry(t, owner1)
	require.ErrorIs(t, entry.AddOffer(pairA, 1, 1, 1), ErrOfferExists)
}

func TestEntry_BalanceTracksTrades(t *testing.T) {
	entry := newTestEntry(t, owner1)
	offer, err := entry.Offer(pairA)
	require.NoError(t, err)
	offer.Spend(30)
	offer.Receive(3)
	require.Equal(t, common.Amount(70), offer.CurrentMosaicGive)
	require.Equal(t, common.Amount(13), offer.CurrentMosaicGet)
	require.Equal(t, common.Amount(100), offer.InitialMosaicGive)

	_, err = entry.Offer(MosaicsPair{Give: 9, Get: 9})
	require.ErrorIs(t, err, ErrOfferNotFound)
}

func TestEntry_ExpireAndUnexpireOffers(t *testing.T) {
	entry := newTestEntry(t, owner1)
	require.Equal(t, common.Height(50), entry.MinExpiryHeight())

	var expired []MosaicsPair
	require.NoError(t, entry.ExpireOffers(50, func(pair MosaicsPair, _ *OfferBalance) {
		expired = append(expired, pair)
	}))
	require.Equal(t, []MosaicsPair{pairA}, expired)
	require.False(t, entry.OfferExists(pairA))
	require.Equal(t, common.Height(70), entry.MinExpiryHeight())
	require.Equal(t, common.Height(50), entry.MinPruneHeight())

	require.NoError(t, entry.UnexpireOffers(50, nil))
	require.True(t, entry.OfferExists(pairA))
	require.Equal(t, common.InvalidHeight, entry.MinPruneHeight())
}

func TestEntry_ExpireOfferTwiceAtSameHeightFails(t *testing.T) {
	entry := newTestEntry(t, owner1)
	require.NoError(t, entry.ExpireOffer(pairA, 50))
	require.NoError(t, entry.AddOffer(pairA, 1, 1, 50))
	require.ErrorIs(t, entry.ExpireOffer(pairA, 50), ErrOfferAlreadyExpired)
}

func TestEntry_PruneExpired(t *testing.T) {
	entry := newTestEntry(t, owner1)
	require.NoError(t, entry.ExpireOffer(pairA, 50))
	require.NoError(t, entry.ExpireOffer(pairB, 70))

	require.Equal(t, 1, entry.PruneExpired(60))
	require.False(t, entry.Empty())
	require.Equal(t, 1, entry.PruneExpired(70))
	require.True(t, entry.Empty())
}

func TestEntry_CloneIsDeep(t *testing.T) {
	entry := newTestEntry(t, owner1)
	require.NoError(t, entry.ExpireOffer(pairB, 70))
	copied := entry.clone()
	copied.Offers[pairA].Spend(1)
	copied.Expired[70][pairB].Receive(1)
	require.Equal(t, common.Amount(100), entry.Offers[pairA].CurrentMosaicGive)
	require.Equal(t, common.Amount(20), entry.Expired[70][pairB].CurrentMosaicGet)
}

func TestSerializer_RestoresEntry(t *testing.T) {
	entry := newTestEntry(t, owner1)
	require.NoError(t, entry.ExpireOffer(pairB, 70))

	data, err := codec.Serialize[Entry](Serializer{}, entry)
	require.NoError(t, err)
	// version, owner, one active offer, one bucket holding one offer
	require.Len(t, data, 4+32+1+offerSize+2+8+1+offerSize)

	restored, err := codec.Deserialize[Entry](Serializer{}, data)
	require.NoError(t, err)
	require.Equal(t, entry, restored)
}

func TestSerializer_RejectsOversizedCount(t *testing.T) {
	entry := NewEntry(owner1)
	data, err := codec.Serialize[Entry](Serializer{}, entry)
	require.NoError(t, err)
	data[4+32] = 5
	_, err = codec.Deserialize[Entry](Serializer{}, data)
	require.ErrorIs(t, err, common.ErrMalformedEntry)
}

func TestCache_OffersExpireAndArePruned(t *testing.T) {
	c, err := NewCache(cache.Parameters[common.Key]{})
	require.NoError(t, err)

	delta := c.Rebase()
	for _, owner := range []common.Key{owner1, owner2} {
		require.NoError(t, delta.Insert(newTestEntry(t, owner)))
		require.NoError(t, TrackExpiry(delta, owner, common.InvalidHeight))
	}
	require.Equal(t, []common.Key{owner1, owner2}, delta.IdentifiersAt(50))
	_, err = c.Commit(delta)
	require.NoError(t, err)

	delta = c.Rebase()
	count, err := ExpireOffers(delta, 50)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Empty(t, delta.IdentifiersAt(50))
	require.Equal(t, []common.Key{owner1, owner2}, delta.IdentifiersAt(70))

	count, err = ExpireOffers(delta, 70)
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Empty(t, delta.IdentifiersAt(70))

	removed, err := Prune(delta, 60)
	require.NoError(t, err)
	require.Zero(t, removed)
	removed, err = Prune(delta, 70)
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	require.Zero(t, delta.Size())

	view, err := c.Commit(delta)
	require.NoError(t, err)
	require.Zero(t, view.Size())
	require.True(t, view.Root().IsZero())
}

func TestCache_UnexpireRestoresGrouping(t *testing.T) {
	c, err := NewCache(cache.Parameters[common.Key]{})
	require.NoError(t, err)

	delta := c.Rebase()
	require.NoError(t, delta.Insert(newTestEntry(t, owner1)))
	require.NoError(t, TrackExpiry(delta, owner1, common.InvalidHeight))
	_, err = ExpireOffers(delta, 50)
	require.NoError(t, err)

	count, err := UnexpireOffers(delta, 50)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, []common.Key{owner1}, delta.IdentifiersAt(50))
	require.Empty(t, delta.IdentifiersAt(70))
}
