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

// ContextReader 支持 context 的读取接口
//
// Reader 在非同步读取模式下会优先使用此接口 使得进行中的读取有机会感知取消
// 是否能够中断进行中的读取取决于具体实现
type ContextReader interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

type statSeeker interface {
	Stat() (os.FileInfo, error)
	io.Seeker
}

// Remaining 返回 r 剩余可读取的字节数
//
// 仅对可 Seek 的普通文件生效 其余情况返回 false
func Remaining(r io.Reader) (int64, bool) {
	f, ok := r.(statSeeker)
	if !ok {
		return 0, false
	}

	fi, err := f.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		return 0, false
	}

	off, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false
	}

	n := fi.Size() - off
	if n < 0 {
		n = 0
	}
	return n, true
}
