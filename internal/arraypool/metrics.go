// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package arraypool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/utf8stream/common"
)

var (
	rentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "arraypool_rent_total",
			Help:      "Arraypool rent requests total",
		},
		[]string{"pool"},
	)

	returnTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "arraypool_return_total",
			Help:      "Arraypool returned arrays total",
		},
		[]string{"pool"},
	)

	allocateTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "arraypool_allocate_total",
			Help:      "Arraypool fresh allocations total",
		},
		[]string{"pool"},
	)

	dropTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "arraypool_drop_total",
			Help:      "Arraypool returned arrays dropped due to irregular capacity",
		},
		[]string{"pool"},
	)
)

// poolMetrics 创建 Pool 时绑定好标签的计数器 避免在 Rent/Return 路径上查找标签
type poolMetrics struct {
	rent     prometheus.Counter
	ret      prometheus.Counter
	allocate prometheus.Counter
	drop     prometheus.Counter
}

func newPoolMetrics(name string) poolMetrics {
	return poolMetrics{
		rent:     rentTotal.WithLabelValues(name),
		ret:      returnTotal.WithLabelValues(name),
		allocate: allocateTotal.WithLabelValues(name),
		drop:     dropTotal.WithLabelValues(name),
	}
}
