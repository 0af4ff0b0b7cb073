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
	"sync"
)

// Tracker 记录借出与归还情况的 Pool 装饰器
//
// 用于校验所有借出的数组都被且仅被归还一次
type Tracker[T any] struct {
	mu          sync.Mutex
	pool        Pool[T]
	outstanding map[*T]struct{}
	rents       int
	returns     int
	invalid     int
}

var _ Pool[byte] = (*Tracker[byte])(nil)

func NewTracker[T any](pool Pool[T]) *Tracker[T] {
	return &Tracker[T]{
		pool:        pool,
		outstanding: make(map[*T]struct{}),
	}
}

func key[T any](buf []T) *T {
	if cap(buf) == 0 {
		return nil
	}
	return &buf[:cap(buf)][0]
}

func (t *Tracker[T]) Rent(minSize int) []T {
	buf := t.pool.Rent(minSize)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rents++
	if k := key(buf); k != nil {
		t.outstanding[k] = struct{}{}
	}
	return buf
}

// Return 归还未借出或者重复归还的数组会被记录为 invalid 且不会转交给底层 Pool
func (t *Tracker[T]) Return(buf []T) {
	t.mu.Lock()
	k := key(buf)
	if _, ok := t.outstanding[k]; !ok || k == nil {
		t.invalid++
		t.mu.Unlock()
		return
	}
	delete(t.outstanding, k)
	t.returns++
	t.mu.Unlock()

	t.pool.Return(buf)
}

// Outstanding 返回尚未归还的数组数量
func (t *Tracker[T]) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.outstanding)
}

func (t *Tracker[T]) Rents() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rents
}

func (t *Tracker[T]) Returns() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.returns
}

// Invalid 返回非法归还的次数
func (t *Tracker[T]) Invalid() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.invalid
}
