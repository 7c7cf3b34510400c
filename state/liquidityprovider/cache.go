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
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/common"
)

const Name = "liquidityprovider"

type (
	Cache = cache.Cache[common.MosaicID, Entry]
	Delta = cache.Delta[common.MosaicID, Entry]
	View  = cache.View[common.MosaicID, Entry]
)

func NewCache(params cache.Parameters[common.MosaicID]) (*Cache, error) {
	if params.Name == "" {
		params.Name = Name
	}
	if params.Table == 0 {
		params.Table = backend.LiquidityProviderKey
	}
	return cache.New[common.MosaicID, Entry](Descriptor{}, params)
}

// CompletePeriods closes the slashing period of every provider whose period
// ends at the given height, sampling the new rate from the rate callback.
// It returns the mosaics of the affected providers in key order.
func CompletePeriods(delta *Delta, height common.Height, rate func(*Entry) ExchangeRate) ([]common.MosaicID, error) {
	var due []common.MosaicID
	delta.ForEach(func(id common.MosaicID, entry *Entry) bool {
		if entry.IsSlashingHeight(height) {
			due = append(due, id)
		}
		return true
	})
	for _, id := range due {
		entry, err := delta.Find(id)
		if err != nil {
			return nil, err
		}
		entry.CompletePeriod(rate(entry))
	}
	return due, nil
}
