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

package source

import (
	"context"
	"io"
	"os"
)

var _ ContextReader = (*Chunks)(nil)

// Chunks 按预设分片逐次返回数据的内存 Source
//
// 每次 Read 最多只返回当前分片的剩余部分 用于模拟碎片化的 I/O
// 分片数据不会被拷贝 调用方不应修改传入的分片
type Chunks struct {
	chunks [][]byte
	idx    int
	off    int
	reads  int
	closed bool
}

func NewChunks(chunks ...[]byte) *Chunks {
	return &Chunks{chunks: chunks}
}

// NewStringChunks 以字符串分片创建 *Chunks
func NewStringChunks(chunks ...string) *Chunks {
	bs := make([][]byte, 0, len(chunks))
	for _, s := range chunks {
		bs = append(bs, []byte(s))
	}
	return NewChunks(bs...)
}

// Read 实现 io.Reader 接口
func (c *Chunks) Read(p []byte) (int, error) {
	if c.closed {
		return 0, os.ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}

	for c.idx < len(c.chunks) && c.off == len(c.chunks[c.idx]) {
		c.idx++
		c.off = 0
	}
	if c.idx == len(c.chunks) {
		return 0, io.EOF
	}

	n := copy(p, c.chunks[c.idx][c.off:])
	c.off += n
	c.reads++
	return n, nil
}

// ReadContext 实现 ContextReader 接口
func (c *Chunks) ReadContext(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.Read(p)
}

// Close 实现 io.Closer 接口
func (c *Chunks) Close() error {
	c.closed = true
	return nil
}

// Closed 返回是否已经被关闭
func (c *Chunks) Closed() bool {
	return c.closed
}

// Reads 返回产生数据的 Read 调用次数
func (c *Chunks) Reads() int {
	return c.reads
}

// Restart 重置到初始状态 以便重复读取同一份分片
func (c *Chunks) Restart() {
	c.idx = 0
	c.off = 0
	c.reads = 0
	c.closed = false
}

// Bytes 返回所有分片拼接后的内容
func (c *Chunks) Bytes() []byte {
	var b []byte
	for _, chunk := range c.chunks {
		b = append(b, chunk...)
	}
	return b
}
