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
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/common"
)

const Name = "sdaexchange"

type (
	Cache = cache.Cache[common.Key, Entry]
	Delta = cache.Delta[common.Key, Entry]
	View  = cache.View[common.Key, Entry]
)

// NewCache creates an exchange offer cache. Its height groups register each
// owner at the earliest deadline of its active offers.
func NewCache(params cache.Parameters[common.Key]) (*Cache, error) {
	if params.Name == "" {
		params.Name = Name
	}
	if params.Table == 0 {
		params.Table = backend.SdaExchangeKey
	}
	return cache.New[common.Key, Entry](Descriptor{}, params)
}

// TrackExpiry moves the owner from the expiry group of the previous height
// into the group of the earliest deadline of its current offers. Owners
// without offers, or no longer present, are not grouped.
func TrackExpiry(delta *Delta, owner common.Key, previous common.Height) error {
	next := common.InvalidHeight
	if entry, found := delta.Get(owner); found {
		next = entry.MinExpiryHeight()
	}
	if next == previous {
		return nil
	}
	if err := delta.RemoveExpiryHeight(owner, previous); err != nil {
		return err
	}
	return delta.AddExpiryHeight(owner, next)
}

// ExpireOffers expires all offers with a deadline at the given height and
// returns the number of expired offers.
func ExpireOffers(delta *Delta, height common.Height) (int, error) {
	count := 0
	for _, owner := range delta.IdentifiersAt(height) {
		entry, err := delta.Find(owner)
		if err != nil {
			return count, err
		}
		previous := entry.MinExpiryHeight()
		err = entry.ExpireOffers(height, func(MosaicsPair, *OfferBalance) { count++ })
		if err != nil {
			return count, err
		}
		if err := TrackExpiry(delta, owner, previous); err != nil {
			return count, err
		}
	}
	return count, nil
}

// UnexpireOffers reverts ExpireOffers for the given height.
func UnexpireOffers(delta *Delta, height common.Height) (int, error) {
	var owners []common.Key
	delta.ForEach(func(owner common.Key, entry *Entry) bool {
		if _, found := entry.Expired[height]; found {
			owners = append(owners, owner)
		}
		return true
	})
	count := 0
	for _, owner := range owners {
		entry, err := delta.Find(owner)
		if err != nil {
			return count, err
		}
		previous := entry.MinExpiryHeight()
		err = entry.UnexpireOffers(height, func(MosaicsPair, *OfferBalance) { count++ })
		if err != nil {
			return count, err
		}
		if err := TrackExpiry(delta, owner, previous); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Prune drops expired offers at or below the given height and removes
// owners left without any offers. It returns the number of removed owners.
func Prune(delta *Delta, height common.Height) (int, error) {
	var owners []common.Key
	delta.ForEach(func(owner common.Key, entry *Entry) bool {
		if prune := entry.MinPruneHeight(); prune != common.InvalidHeight && prune <= height {
			owners = append(owners, owner)
		}
		return true
	})
	removed := 0
	for _, owner := range owners {
		entry, err := delta.Find(owner)
		if err != nil {
			return removed, err
		}
		entry.PruneExpired(height)
		if !entry.Empty() {
			continue
		}
		if err := delta.Remove(owner); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
