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
	"math/bits"
	"sync"
)

// Pool 数组池契约
//
// Rent 返回长度不小于 minSize 的数组 调用方在 Return 之前独占该数组
// Return 之后调用方不得再持有任何由该数组派生出来的切片
type Pool[T any] interface {
	Rent(minSize int) []T
	Return(buf []T)
}

const (
	minClassBits = 4  // 16
	maxClassBits = 30 // 1Gi elements
)

var (
	// Bytes 全局共享的 byte 数组池
	Bytes = New[byte]("bytes")

	// Runes 全局共享的 rune 数组池
	Runes = New[rune]("runes")
)

// Buckets 按 2 的幂次划分规格的数组池
//
// 每个规格使用一个 sync.Pool 超出最大规格的请求直接分配且不回收
type Buckets[T any] struct {
	classes [maxClassBits - minClassBits + 1]sync.Pool
	metrics poolMetrics

	// headers 存放 Rent 取出数组后空闲的 *[]T 由 Return 复用
	headers sync.Pool
}

// New 创建并返回 *Buckets 实例 name 作为指标的 pool 标签
func New[T any](name string) *Buckets[T] {
	return &Buckets[T]{metrics: newPoolMetrics(name)}
}

// classOf 返回 n 所属的规格下标以及规格大小 超出最大规格时下标为 -1
func classOf(n int) (int, int) {
	if n <= 1<<minClassBits {
		return 0, 1 << minClassBits
	}
	b := bits.Len(uint(n - 1))
	if b > maxClassBits {
		return -1, n
	}
	return b - minClassBits, 1 << b
}

// exactClass 只有容量恰好等于某个规格的数组才允许归还
func exactClass(c int) int {
	if c < 1<<minClassBits || c > 1<<maxClassBits || c&(c-1) != 0 {
		return -1
	}
	return bits.Len(uint(c)) - 1 - minClassBits
}

// Rent 实现 Pool 接口
func (p *Buckets[T]) Rent(minSize int) []T {
	if minSize < 0 {
		panic("arraypool: negative size")
	}

	idx, size := classOf(minSize)
	p.metrics.rent.Inc()
	if idx < 0 {
		p.metrics.allocate.Inc()
		return make([]T, size)
	}

	if v := p.classes[idx].Get(); v != nil {
		bp := v.(*[]T)
		buf := (*bp)[:size]
		*bp = nil
		p.headers.Put(bp)
		return buf
	}
	p.metrics.allocate.Inc()
	return make([]T, size)
}

// Return 实现 Pool 接口
//
// 容量不属于任何规格的数组会被直接丢弃 交给 GC 回收
func (p *Buckets[T]) Return(buf []T) {
	idx := exactClass(cap(buf))
	if idx < 0 {
		p.metrics.drop.Inc()
		return
	}

	bp, _ := p.headers.Get().(*[]T)
	if bp == nil {
		bp = new([]T)
	}
	*bp = buf[:cap(buf)]
	p.classes[idx].Put(bp)
	p.metrics.ret.Inc()
}
