// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package grouping

import (
	"testing"

	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

func newIndex() *Index[common.Key] {
	return New(func(a, b common.Key) int { return a.Compare(b) })
}

func TestGrouping_AddIsIdempotentAndSorted(t *testing.T) {
	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{3}, 10)
	delta.AddExpiryHeight(common.Key{1}, 10)
	delta.AddExpiryHeight(common.Key{3}, 10)
	delta.AddExpiryHeight(common.Key{2}, 10)

	require.Equal(t, []common.Key{{1}, {2}, {3}}, delta.IdentifiersAt(10))
	require.Empty(t, delta.IdentifiersAt(11))
}

func TestGrouping_InvalidHeightIsIgnored(t *testing.T) {
	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{1}, common.InvalidHeight)
	require.Equal(t, 0, delta.Size())
	delta.RemoveExpiryHeight(common.Key{1}, common.InvalidHeight)
	require.Empty(t, delta.Changes())
}

func TestGrouping_RemovingLastKeyDropsGroup(t *testing.T) {
	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{1}, 5)
	delta.AddExpiryHeight(common.Key{2}, 5)
	delta.RemoveExpiryHeight(common.Key{1}, 5)
	require.Equal(t, []common.Key{{2}}, delta.IdentifiersAt(5))
	delta.RemoveExpiryHeight(common.Key{2}, 5)
	require.Equal(t, 0, delta.Size())

	// removing unknown memberships is a no-op
	delta.RemoveExpiryHeight(common.Key{2}, 5)
	delta.RemoveExpiryHeight(common.Key{7}, 8)
}

func TestGrouping_DeltaDoesNotAffectBase(t *testing.T) {
	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{1}, 5)
	base := delta.Seal()

	delta.AddExpiryHeight(common.Key{2}, 5)
	delta.RemoveExpiryHeight(common.Key{1}, 5)
	delta.AddExpiryHeight(common.Key{3}, 6)

	require.Equal(t, []common.Key{{1}}, base.IdentifiersAt(5))
	require.Empty(t, base.IdentifiersAt(6))
	require.Equal(t, []common.Key{{2}}, delta.IdentifiersAt(5))
}

func TestGrouping_IdentifiersAtReturnsCopy(t *testing.T) {
	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{1}, 5)
	ids := delta.IdentifiersAt(5)
	ids[0] = common.Key{9}
	require.Equal(t, []common.Key{{1}}, delta.IdentifiersAt(5))
}

func TestGrouping_PruneDropsGroupsAtOrBelowBoundary(t *testing.T) {
	delta := newIndex().Branch()
	for _, height := range []common.Height{1, 5, 10, 11, 20} {
		delta.AddExpiryHeight(common.Key{byte(height)}, height)
	}
	require.Equal(t, 3, delta.Prune(10))
	require.Equal(t, 3, delta.Pruned())

	index := delta.Seal()
	require.Equal(t, []common.Height{11, 20}, index.Heights())
	require.Empty(t, index.IdentifiersAt(10))
	require.Equal(t, 0, delta.Pruned())

	// pruning again is a no-op
	require.Equal(t, 0, index.Branch().Prune(10))
}

func TestGrouping_ChangesReportDifferenceToBase(t *testing.T) {
	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{1}, 8)
	delta.AddExpiryHeight(common.Key{2}, 8)
	delta.AddExpiryHeight(common.Key{3}, 7)
	delta.Seal()

	delta.AddExpiryHeight(common.Key{4}, 8)
	delta.RemoveExpiryHeight(common.Key{1}, 8)
	delta.AddExpiryHeight(common.Key{9}, 6)
	delta.RemoveExpiryHeight(common.Key{9}, 6)
	delta.Prune(7)

	require.Equal(t, []Change[common.Key]{
		{Height: 7, Removed: []common.Key{{3}}},
		{Height: 8, Added: []common.Key{{4}}, Removed: []common.Key{{1}}},
	}, delta.Changes())
}

func TestGrouping_StorePersistsChanges(t *testing.T) {
	db, err := backend.OpenLevelDb(t.TempDir(), nil)
	require.NoError(t, err)
	defer db.Close()

	delta := newIndex().Branch()
	delta.AddExpiryHeight(common.Key{1}, 5)
	delta.AddExpiryHeight(common.Key{2}, 5)
	delta.AddExpiryHeight(common.Key{3}, 300)

	store := NewStore[common.Key](db, backend.SdaExchangeKey, common.KeySerializer{})
	batch := new(leveldb.Batch)
	store.Write(batch, delta.Changes())
	require.NoError(t, db.Write(batch, nil))

	var keys []common.Key
	require.NoError(t, store.ForEach(5, func(key common.Key) { keys = append(keys, key) }))
	require.Equal(t, []common.Key{{1}, {2}}, keys)

	delta.Seal()
	delta.RemoveExpiryHeight(common.Key{1}, 5)
	batch.Reset()
	store.Write(batch, delta.Changes())
	require.NoError(t, db.Write(batch, nil))

	restored := newIndex().Branch()
	require.NoError(t, store.Load(restored))
	require.Equal(t, []common.Key{{2}}, restored.IdentifiersAt(5))
	require.Equal(t, []common.Key{{3}}, restored.IdentifiersAt(300))

	other := NewStore[common.Key](db, backend.SdaOfferGroupKey, common.KeySerializer{})
	empty := newIndex().Branch()
	require.NoError(t, other.Load(empty))
	require.Equal(t, 0, empty.Size())
}

func TestGrouping_SummaryRoundTrip(t *testing.T) {
	heights := []common.Height{1, 50, 200}
	w := codec.NewWriter()
	WriteSummary(w, heights)
	require.NoError(t, w.Err())
	require.Len(t, w.Bytes(), 4+8+3*8)

	restored, err := ReadSummary(codec.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, heights, restored)
}

func TestGrouping_SummaryWithExcessiveCountIsMalformed(t *testing.T) {
	w := codec.NewWriter()
	w.WriteUint32(1)
	w.WriteUint64(1 << 40)
	w.WriteHeight(1)
	_, err := ReadSummary(codec.NewReader(w.Bytes()))
	require.ErrorIs(t, err, common.ErrMalformedEntry)
}
