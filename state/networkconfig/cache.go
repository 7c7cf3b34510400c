// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package networkconfig

import (
	"github.com/proximax-storage/statecache/go/backend"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/backend/grouping"
	"github.com/proximax-storage/statecache/go/codec"
	"github.com/proximax-storage/statecache/go/common"
)

// Name is the default name of network configuration caches.
const Name = "networkconfig"

type (
	Cache = cache.Cache[common.Height, Entry]
	Delta = cache.Delta[common.Height, Entry]
	View  = cache.View[common.Height, Entry]
)

// NewCache creates a network configuration cache. Name and table space
// default to the ones of network configurations.
func NewCache(params cache.Parameters[common.Height]) (*Cache, error) {
	if params.Name == "" {
		params.Name = Name
	}
	if params.Table == 0 {
		params.Table = backend.NetworkConfigKey
	}
	return cache.New[common.Height, Entry](Descriptor{}, params)
}

// Source resolves configuration entries against the latest committed state
// of a cache.
type Source struct {
	cache *Cache
}

func NewSource(c *Cache) *Source {
	return &Source{cache: c}
}

// FindFloor returns the entry active at the given height, which is the
// entry with the greatest height not exceeding it.
func (s *Source) FindFloor(height common.Height) (*Entry, bool) {
	return s.cache.View().Floor(height)
}

// Height returns the latest committed height.
func (s *Source) Height() common.Height {
	return s.cache.View().Height()
}

// Heights lists the activation heights of all entries of the view.
func Heights(view *View) []common.Height {
	res := make([]common.Height, 0, view.Size())
	view.ForEach(func(height common.Height, _ *Entry) bool {
		res = append(res, height)
		return true
	})
	return res
}

// SaveSummary writes the activation heights of all entries of the view in
// the grouping summary format.
func SaveSummary(view *View) ([]byte, error) {
	w := codec.NewWriter()
	grouping.WriteSummary(w, Heights(view))
	return w.Bytes(), w.Err()
}

// LoadSummary parses activation heights written by SaveSummary.
func LoadSummary(data []byte) ([]common.Height, error) {
	return grouping.ReadSummary(codec.NewReader(data))
}
