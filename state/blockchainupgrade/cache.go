// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package blockchainupgrade

import (
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/common"
)

const Name = "blockchainupgrade"

type (
	Cache = cache.Cache[common.Height, Entry]
	Delta = cache.Delta[common.Height, Entry]
	View  = cache.View[common.Height, Entry]
)

func NewCache(params cache.Parameters[common.Height]) (*Cache, error) {
	if params.Name == "" {
		params.Name = Name
	}
	if params.Table == 0 {
		params.Table = backend.BlockchainUpgradeKey
	}
	return cache.New[common.Height, Entry](Descriptor{}, params)
}

// RequiredVersion returns the blockchain version required at the given
// height, the one of the latest upgrade at or below it.
func RequiredVersion(view *View, height common.Height) (BlockChainVersion, bool) {
	entry, found := view.Floor(height)
	if !found {
		return 0, false
	}
	return entry.BlockChainVersion, true
}
