// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package config

import (
	"fmt"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/proximax-storage/statecache/go/state/networkconfig"
	"go.uber.org/zap"
)

//go:generate mockgen -source holder.go -destination holder_mocks.go -package config

// EntrySource provides the configuration entries of committed state.
type EntrySource interface {
	// FindFloor returns the entry with the greatest activation height not
	// exceeding the given height.
	FindFloor(height common.Height) (*networkconfig.Entry, bool)
	// Height returns the latest committed height.
	Height() common.Height
}

// DefaultMemoSize is the number of resolved heights memoized by default.
const DefaultMemoSize = 256

type Parameters struct {
	// BaseConfig is the process wide configuration used at the bootstrap
	// height and while no source is attached. It is mandatory.
	BaseConfig *Configuration
	MemoSize   int
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

const (
	lookupMemo     = "memo"
	lookupBase     = "base"
	lookupResolved = "resolved"
	lookupNotFound = "not_found"
	lookupFailed   = "failed"
)

// Holder resolves the configuration effective at a block height. It is safe
// for concurrent use.
type Holder struct {
	base    *Configuration
	logger  *zap.Logger
	lookups *prometheus.CounterVec

	mutex  sync.Mutex
	memo   *simplelru.LRU[common.Height, *Configuration]
	source EntrySource
}

func NewHolder(params Parameters) (*Holder, error) {
	if params.BaseConfig == nil {
		return nil, fmt.Errorf("%w: missing base configuration", cache.UnsupportedConfiguration)
	}
	if params.MemoSize < 0 {
		return nil, fmt.Errorf("%w: negative memo size %d", cache.UnsupportedConfiguration, params.MemoSize)
	}
	if params.MemoSize == 0 {
		params.MemoSize = DefaultMemoSize
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	memo, err := simplelru.NewLRU[common.Height, *Configuration](params.MemoSize, nil)
	if err != nil {
		return nil, err
	}
	return &Holder{
		base:   params.BaseConfig,
		logger: params.Logger.Named("config"),
		lookups: promauto.With(params.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "statecache_config_lookups_total",
			Help: "Number of configuration lookups by result",
		}, []string{"result"}),
		memo: memo,
	}, nil
}

// SetSource attaches the committed configuration entries. Memoized
// configurations of a previous source are dropped.
func (h *Holder) SetSource(source EntrySource) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.source = source
	h.memo.Purge()
}

// BaseConfig returns the process wide configuration.
func (h *Holder) BaseConfig() *Configuration {
	return h.base
}

// Config returns the configuration effective at the given height. It fails
// with common.ErrConfigurationNotFound if no configuration is active at
// that height.
func (h *Holder) Config(height common.Height) (*Configuration, error) {
	h.mutex.Lock()
	if res, found := h.memo.Get(height); found {
		h.mutex.Unlock()
		h.lookups.WithLabelValues(lookupMemo).Inc()
		return res, nil
	}
	source := h.source
	h.mutex.Unlock()

	if height == common.InvalidHeight || source == nil {
		h.lookups.WithLabelValues(lookupBase).Inc()
		return h.base, nil
	}

	entry, found := source.FindFloor(height)
	if !found {
		h.lookups.WithLabelValues(lookupNotFound).Inc()
		return nil, fmt.Errorf("%w at height %v", common.ErrConfigurationNotFound, height)
	}
	res, err := Parse(entry.NetworkConfig, entry.SupportedEntityVersions)
	if err != nil {
		h.lookups.WithLabelValues(lookupFailed).Inc()
		return nil, fmt.Errorf("configuration activated at height %v: %w", entry.Height, err)
	}
	h.logger.Debug("resolved configuration",
		zap.Stringer("height", height),
		zap.Stringer("activation", entry.Height),
	)

	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.source == source {
		h.memo.Add(entry.Height, res)
		h.memo.Add(height, res)
	}
	h.lookups.WithLabelValues(lookupResolved).Inc()
	return res, nil
}

// ConfigAtHeightOrLatest resolves the configuration at the given height or,
// for common.HeightOfLatest, at the latest committed height.
func (h *Holder) ConfigAtHeightOrLatest(height common.Height) (*Configuration, error) {
	if height == common.HeightOfLatest {
		h.mutex.Lock()
		source := h.source
		h.mutex.Unlock()
		height = common.InvalidHeight
		if source != nil {
			height = source.Height()
		}
	}
	return h.Config(height)
}

// Forget drops memoized configurations at or above the given height. It is
// to be called when configuration entries at those heights are rolled back.
func (h *Holder) Forget(from common.Height) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for _, height := range h.memo.Keys() {
		if height >= from {
			h.memo.Remove(height)
		}
	}
}
