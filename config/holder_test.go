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
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/proximax-storage/statecache/go/backend/cache"
	"github.com/proximax-storage/statecache/go/common"
	"github.com/proximax-storage/statecache/go/state/networkconfig"
	"github.com/stretchr/testify/require"
)

const basePayload = "[network]\nidentifier = base\n"

func payloadAt(height common.Height) string {
	return fmt.Sprintf("[network]\nidentifier = at-%d\n", height)
}

func newTestHolder(t *testing.T, registerer prometheus.Registerer) *Holder {
	t.Helper()
	base, err := Parse(basePayload, "")
	require.NoError(t, err)
	holder, err := NewHolder(Parameters{BaseConfig: base, Registerer: registerer})
	require.NoError(t, err)
	return holder
}

func identifier(t *testing.T, config *Configuration) string {
	t.Helper()
	res, err := config.String("network", "identifier")
	require.NoError(t, err)
	return res
}

func TestNewHolder_RequiresBaseConfig(t *testing.T) {
	_, err := NewHolder(Parameters{})
	require.ErrorIs(t, err, cache.UnsupportedConfiguration)

	base, err := Parse(basePayload, "")
	require.NoError(t, err)
	_, err = NewHolder(Parameters{BaseConfig: base, MemoSize: -1})
	require.ErrorIs(t, err, cache.UnsupportedConfiguration)
}

func TestHolder_BaseConfigWithoutSource(t *testing.T) {
	holder := newTestHolder(t, nil)
	for _, height := range []common.Height{0, 1, 1000, common.HeightOfLatest} {
		config, err := holder.ConfigAtHeightOrLatest(height)
		require.NoError(t, err)
		require.Same(t, holder.BaseConfig(), config)
	}
}

func TestHolder_ResolvesFromCommittedConfigurations(t *testing.T) {
	c, err := networkconfig.NewCache(cache.Parameters[common.Height]{})
	require.NoError(t, err)
	delta := c.Rebase()
	require.NoError(t, delta.Insert(networkconfig.NewEntry(1, basePayload, "")))
	for _, height := range []common.Height{50, 200} {
		require.NoError(t, delta.Insert(networkconfig.NewEntry(height, payloadAt(height), "")))
	}
	_, err = c.Commit(delta)
	require.NoError(t, err)

	holder := newTestHolder(t, nil)
	holder.SetSource(networkconfig.NewSource(c))

	tests := []struct {
		height common.Height
		want   string
	}{
		{0, "base"},
		{5, "base"},
		{49, "base"},
		{50, "at-50"},
		{75, "at-50"},
		{200, "at-200"},
		{common.HeightOfLatest, "base"},
	}
	for _, test := range tests {
		config, err := holder.ConfigAtHeightOrLatest(test.height)
		require.NoError(t, err)
		require.Equal(t, test.want, identifier(t, config), "height %v", test.height)
	}
}

func TestHolder_MissingConfigurationIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockEntrySource(ctrl)
	source.EXPECT().FindFloor(common.Height(5)).Return(nil, false)

	holder := newTestHolder(t, nil)
	holder.SetSource(source)
	_, err := holder.Config(5)
	require.ErrorIs(t, err, common.ErrConfigurationNotFound)
}

func TestHolder_MalformedPayloadIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockEntrySource(ctrl)
	source.EXPECT().FindFloor(common.Height(5)).Return(networkconfig.NewEntry(3, "no section", ""), true)

	holder := newTestHolder(t, nil)
	holder.SetSource(source)
	_, err := holder.Config(5)
	require.ErrorIs(t, err, ErrMalformedConfiguration)
}

func TestHolder_MemoizesActivationHeightAndRequestedHeight(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockEntrySource(ctrl)
	source.EXPECT().FindFloor(common.Height(75)).Return(networkconfig.NewEntry(50, payloadAt(50), ""), true).Times(1)

	registry := prometheus.NewRegistry()
	holder := newTestHolder(t, registry)
	holder.SetSource(source)

	first, err := holder.Config(75)
	require.NoError(t, err)
	again, err := holder.Config(75)
	require.NoError(t, err)
	activation, err := holder.Config(50)
	require.NoError(t, err)
	require.Same(t, first, again)
	require.Same(t, first, activation)

	require.Equal(t, 1.0, testutil.ToFloat64(holder.lookups.WithLabelValues(lookupResolved)))
	require.Equal(t, 2.0, testutil.ToFloat64(holder.lookups.WithLabelValues(lookupMemo)))
}

func TestHolder_ForgetDropsRolledBackHeights(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockEntrySource(ctrl)
	gomock.InOrder(
		source.EXPECT().FindFloor(common.Height(75)).Return(networkconfig.NewEntry(60, payloadAt(60), ""), true),
		source.EXPECT().FindFloor(common.Height(75)).Return(networkconfig.NewEntry(50, payloadAt(50), ""), true),
	)

	holder := newTestHolder(t, nil)
	holder.SetSource(source)
	config, err := holder.Config(75)
	require.NoError(t, err)
	require.Equal(t, "at-60", identifier(t, config))

	holder.Forget(60)
	config, err = holder.Config(75)
	require.NoError(t, err)
	require.Equal(t, "at-50", identifier(t, config))
}

func TestHolder_LatestUsesSourceHeight(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := NewMockEntrySource(ctrl)
	source.EXPECT().Height().Return(common.Height(120))
	source.EXPECT().FindFloor(common.Height(120)).Return(networkconfig.NewEntry(100, payloadAt(100), ""), true)

	holder := newTestHolder(t, nil)
	holder.SetSource(source)
	config, err := holder.ConfigAtHeightOrLatest(common.HeightOfLatest)
	require.NoError(t, err)
	require.Equal(t, "at-100", identifier(t, config))
}

func TestHolder_ConcurrentLookups(t *testing.T) {
	c, err := networkconfig.NewCache(cache.Parameters[common.Height]{})
	require.NoError(t, err)
	delta := c.Rebase()
	for height := common.Height(1); height <= 100; height += 10 {
		require.NoError(t, delta.Insert(networkconfig.NewEntry(height, payloadAt(height), "")))
	}
	_, err = c.Commit(delta)
	require.NoError(t, err)

	holder := newTestHolder(t, nil)
	holder.SetSource(networkconfig.NewSource(c))

	var wg sync.WaitGroup
	errs := make(chan error, 8*100)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for height := common.Height(1); height <= 100; height++ {
				config, err := holder.Config(height)
				if err != nil {
					errs <- err
					continue
				}
				want := fmt.Sprintf("at-%d", (height-1)/10*10+1)
				if got, _ := config.String("network", "identifier"); got != want {
					errs <- fmt.Errorf("height %d: wanted %s, got %s", height, want, got)
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
