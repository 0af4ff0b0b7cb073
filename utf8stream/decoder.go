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
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/internal/segbuf"
)

// utf8Decoder 增量校验 UTF-8 字节流并写入 dst
//
// 跨越两次输入的多字节序列会暂存在 pending 中 最多 utf8.UTFMax-1 字节
type utf8Decoder struct {
	pending  [utf8.UTFMax]byte
	npending int

	stripBOM bool
	head     [3]byte
	nhead    int

	offset int64 // 已经处理的输入字节数
}

func (d *utf8Decoder) invalid(at int) error {
	return errors.Wrapf(ErrInvalidUTF8, "at offset %d", d.offset+int64(at))
}

func (d *utf8Decoder) decode(dst *segbuf.Buffer[byte], src []byte) error {
	if d.stripBOM {
		for d.nhead < len(d.head) && len(src) > 0 {
			d.head[d.nhead] = src[0]
			d.nhead++
			src = src[1:]
		}
		if d.nhead < len(d.head) {
			return nil
		}

		d.stripBOM = false
		if bytes.Equal(d.head[:], bom) {
			d.offset += int64(len(bom))
		} else if err := d.decodeBody(dst, d.head[:]); err != nil {
			return err
		}
	}
	return d.decodeBody(dst, src)
}

func (d *utf8Decoder) decodeBody(dst *segbuf.Buffer[byte], src []byte) error {
	if d.npending > 0 {
		for d.npending < utf8.UTFMax && len(src) > 0 && !utf8.FullRune(d.pending[:d.npending]) {
			d.pending[d.npending] = src[0]
			d.npending++
			src = src[1:]
		}
		if !utf8.FullRune(d.pending[:d.npending]) {
			return nil
		}

		r, size := utf8.DecodeRune(d.pending[:d.npending])
		if r == utf8.RuneError && size <= 1 {
			return d.invalid(0)
		}
		dst.Write(d.pending[:size])
		d.offset += int64(size)
		d.npending = 0
	}

	body := src[:len(src)-incompleteSuffix(src)]
	if !utf8.Valid(body) {
		return d.invalid(firstInvalid(body))
	}
	dst.Write(body)
	d.offset += int64(len(body))
	d.npending = copy(d.pending[:], src[len(body):])
	return nil
}

// flush 输入结束 仍有未完成的序列时返回 ErrInvalidUTF8
func (d *utf8Decoder) flush(dst *segbuf.Buffer[byte]) error {
	if d.stripBOM {
		d.stripBOM = false
		if err := d.decodeBody(dst, d.head[:d.nhead]); err != nil {
			return err
		}
	}
	if d.npending > 0 {
		return errors.Wrapf(ErrInvalidUTF8, "truncated sequence at offset %d", d.offset)
	}
	return nil
}

// incompleteSuffix 返回 b 末尾不完整多字节序列的长度
func incompleteSuffix(b []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		c := b[len(b)-i]
		if c < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(c) {
			if utf8.FullRune(b[len(b)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
