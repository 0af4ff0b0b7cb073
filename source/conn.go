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
	"net"
	"time"
)

var aLongTimeAgo = time.Unix(1, 0)

var _ ContextReader = (*Conn)(nil)

// Conn 为 net.Conn 提供 ContextReader 语义
//
// ctx 被取消时通过设置过期的 ReadDeadline 打断进行中的 Read
type Conn struct {
	net.Conn
}

func NewConn(conn net.Conn) *Conn {
	return &Conn{Conn: conn}
}

// ReadContext 实现 ContextReader 接口
func (c *Conn) ReadContext(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if ctx.Done() == nil {
		return c.Conn.Read(p)
	}

	stop := context.AfterFunc(ctx, func() {
		_ = c.Conn.SetReadDeadline(aLongTimeAgo)
	})
	n, err := c.Conn.Read(p)
	if !stop() {
		// AfterFunc 已经执行 需要恢复 deadline 并以 ctx 的错误为准
		_ = c.Conn.SetReadDeadline(time.Time{})
		if err != nil {
			err = ctx.Err()
		}
	}
	return n, err
}
