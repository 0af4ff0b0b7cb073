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

package utf8stream

import (
	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "utf8stream: " + format
	return errors.Errorf(format, args...)
}

var (
	// ErrClosed Reader 已经被关闭
	ErrClosed = newError("reader already closed")

	// ErrSizeHintTooSmall 实际内容超出了 ReadToEndSizeHint 给定的长度
	ErrSizeHintTooSmall = newError("content exceeds size hint")

	// ErrBufferTooLarge 单行或者单个 block 超出 buffer 最大长度
	ErrBufferTooLarge = newError("buffer exceeds maximum length")

	// ErrInvalidUTF8 全文解码时遇到非法或截断的 UTF-8 序列
	ErrInvalidUTF8 = newError("invalid utf-8 sequence")

	errNegativeCount = newError("negative count")
	errInvalidRead   = newError("source returned invalid count from Read")
)
