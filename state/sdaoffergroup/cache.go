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
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/common"
)

const Name = "sdaoffergroup"

type (
	Cache = cache.Cache[common.Hash, Entry]
	Delta = cache.Delta[common.Hash, Entry]
	View  = cache.View[common.Hash, Entry]
)

func NewCache(params cache.Parameters[common.Hash]) (*Cache, error) {
	if params.Name == "" {
		params.Name = Name
	}
	if params.Table == 0 {
		params.Table = backend.SdaOfferGroupKey
	}
	return cache.New[common.Hash, Entry](Descriptor{}, params)
}

// AddOffer registers an offer in its group, creating the group on demand.
func AddOffer(delta *Delta, groupHash common.Hash, offer OfferBasicInfo) error {
	if !delta.Contains(groupHash) {
		if err := delta.Insert(NewEntry(groupHash)); err != nil {
			return err
		}
	}
	entry, err := delta.Find(groupHash)
	if err != nil {
		return err
	}
	return entry.AddOffer(offer)
}

// RemoveOffer drops the offer of an owner from its group and removes groups
// left empty.
func RemoveOffer(delta *Delta, groupHash common.Hash, owner common.Key) error {
	entry, err := delta.Find(groupHash)
	if err != nil {
		return err
	}
	if err := entry.RemoveOffer(owner); err != nil {
		return err
	}
	if entry.Empty() {
		return delta.Remove(groupHash)
	}
	return nil
}
