// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics of a single cache, distinguished from other caches by a constant
// cache label.
type metrics struct {
	commits        prometheus.Counter
	commitDuration prometheus.Histogram
	entries        prometheus.Gauge
	prunedGroups   prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer, name string) *metrics {
	factory := promauto.With(registerer)
	labels := prometheus.Labels{"cache": name}
	return &metrics{
		commits: factory.NewCounter(prometheus.CounterOpts{
			Name:        "statecache_commits_total",
			Help:        "Number of canonical commits",
			ConstLabels: labels,
		}),
		commitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "statecache_commit_duration_seconds",
			Help:        "Duration of canonical commits",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "statecache_entries",
			Help:        "Number of entries in the canonical state",
			ConstLabels: labels,
		}),
		prunedGroups: factory.NewCounter(prometheus.CounterOpts{
			Name:        "statecache_pruned_groups_total",
			Help:        "Number of height groups dropped by pruning",
			ConstLabels: labels,
		}),
	}
}
