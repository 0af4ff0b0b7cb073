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

package segbuf

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/common"
	"github.com/packetd/utf8stream/internal/arraypool"
)

const (
	// DefaultInitialSize 首个 segment 的长度
	DefaultInitialSize = 1024
)

var (
	// ErrFinalized Buffer 已经被 ToSlice/Segments/Release 终结
	ErrFinalized = errors.New("segbuf: buffer already finalized")

	// ErrTooLarge 累计长度超出 maxLength 上限
	ErrTooLarge = errors.New("segbuf: buffer too large")
)

type Option func(*options)

type options struct {
	initialSize int
	maxLength   int
}

// WithInitialSize 设置首个 segment 的长度
func WithInitialSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialSize = n
		}
	}
}

// WithMaxLength 设置累计可写入的最大元素数量
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// Buffer 可增长的分段写缓冲
//
// 扩容时不会拷贝已写入的数据 而是从 Pool 中租借一个两倍长度的新 segment 追加在末尾
// 只有最后一个 segment 可能未写满 之前的 segment 均 100% 写满
//
// Buffer 独占所有 segment 直到被终结 终结方式有三种
// - ToSlice: 拷贝为一个连续数组 并归还所有 segment
// - Segments: 按顺序逐个交出 segment 视图 每个视图在迭代推进后归还
// - Release: 直接归还所有 segment 丢弃已写入内容
//
// 终结之后的任何调用都会 panic(ErrFinalized)
type Buffer[T any] struct {
	pool arraypool.Pool[T]
	opts options

	segments  [][]T // 已写满的 segment
	current   []T   // 正在写入的 segment
	written   int   // current 中已写入的数量
	finished  int   // segments 中的元素总数
	full      bool  // 累计长度已达上限 无法再分配 segment
	finalized bool
}

// New 创建并返回 *Buffer 实例 首个 segment 延迟到第一次写入时分配
func New[T any](pool arraypool.Pool[T], opts ...Option) *Buffer[T] {
	o := options{
		initialSize: DefaultInitialSize,
		maxLength:   common.MaxArrayLength,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.initialSize > o.maxLength {
		o.initialSize = o.maxLength
	}

	return &Buffer[T]{
		pool: pool,
		opts: o,
	}
}

func (b *Buffer[T]) mustNotFinalized() {
	if b.finalized {
		panic(ErrFinalized)
	}
}

func (b *Buffer[T]) rent(n int) []T {
	return b.pool.Rent(n)[:n]
}

// Len 返回已写入的元素总数
func (b *Buffer[T]) Len() int {
	return b.finished + b.written
}

// WriteRegion 返回当前 segment 尚未写入的部分 返回值永远不为空
//
// 累计长度达到上限后再请求写入区域会 panic(ErrTooLarge)
func (b *Buffer[T]) WriteRegion() []T {
	b.mustNotFinalized()

	if b.current == nil {
		b.current = b.rent(b.opts.initialSize)
	}
	if b.full {
		panic(ErrTooLarge)
	}
	return b.current[b.written:]
}

// Advance 标记刚刚通过 WriteRegion 写入的 n 个元素
//
// 恰好写满当前 segment 时会立即分配下一个 segment
func (b *Buffer[T]) Advance(n int) {
	b.mustNotFinalized()

	if n < 0 || b.written+n > len(b.current) {
		panic(errors.Errorf("segbuf: advance %d out of range [0, %d]", n, len(b.current)-b.written))
	}

	b.written += n
	if b.written == len(b.current) && n > 0 {
		b.allocateNext()
	}
}

func (b *Buffer[T]) allocateNext() {
	b.finished += len(b.current)
	b.segments = append(b.segments, b.current)

	next := len(b.current) * 2
	if remain := b.opts.maxLength - b.finished; next > remain {
		next = remain
	}
	b.written = 0
	if next <= 0 {
		b.current = b.current[:0:0]
		b.full = true
		return
	}
	b.current = b.rent(next)
}

// Write 将 p 拷贝进 Buffer 必要时跨越多个 segment
func (b *Buffer[T]) Write(p []T) int {
	total := len(p)
	for len(p) > 0 {
		dst := b.WriteRegion()
		n := copy(dst, p)
		b.Advance(n)
		p = p[n:]
	}
	return total
}

// ToSlice 拷贝所有内容为一个新分配的连续数组并终结 Buffer
func (b *Buffer[T]) ToSlice() []T {
	b.mustNotFinalized()

	out := make([]T, b.Len())
	dst := out
	for _, seg := range b.segments {
		n := copy(dst, seg)
		dst = dst[n:]
	}
	copy(dst, b.current[:b.written])

	b.Release()
	return out
}

// Segments 返回按写入顺序排列的只读视图序列
//
// Buffer 在首次迭代开始时才被终结 每个视图只在 yield 返回之前有效 迭代推进之后对应的 segment 即归还给 Pool
// 提前结束迭代时剩余的 segment 也会全部归还 从未迭代时仍需调用 Release 归还
// 返回的序列只能迭代一次 再次迭代或者 Release 之后迭代不会产生任何元素
func (b *Buffer[T]) Segments() iter.Seq[[]T] {
	b.mustNotFinalized()

	return func(yield func([]T) bool) {
		if b.finalized {
			return
		}

		segments, current, written := b.segments, b.current, b.written
		b.detach()

		pool := b.pool
		for i, seg := range segments {
			ok := yield(seg[:len(seg):len(seg)])
			pool.Return(seg)
			if !ok {
				for _, rest := range segments[i+1:] {
					pool.Return(rest)
				}
				releaseCurrent(pool, current)
				return
			}
		}

		if written > 0 {
			yield(current[:written:written])
		}
		releaseCurrent(pool, current)
	}
}

func releaseCurrent[T any](pool arraypool.Pool[T], current []T) {
	if cap(current) > 0 {
		pool.Return(current)
	}
}

// Release 归还所有 segment 并终结 Buffer 重复调用不会产生任何效果
func (b *Buffer[T]) Release() {
	if b.finalized {
		return
	}

	for _, seg := range b.segments {
		b.pool.Return(seg)
	}
	releaseCurrent(b.pool, b.current)
	b.detach()
}

func (b *Buffer[T]) detach() {
	b.segments = nil
	b.current = nil
	b.written = 0
	b.finished = 0
	b.finalized = true
}
