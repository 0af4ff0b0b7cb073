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

package cmd

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"

	"github.com/packetd/utf8stream/common"
)

// batchWriter 将输出攒批后写入 w
//
// 行视图在下一次读取后失效 写入时会被复制到 buffer 中
type batchWriter struct {
	w   io.Writer
	buf *bytebufferpool.ByteBuffer
	err error
}

func newBatchWriter(w io.Writer) *batchWriter {
	return &batchWriter{
		w:   w,
		buf: bytebufferpool.Get(),
	}
}

func (b *batchWriter) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	n, _ := b.buf.Write(p)
	b.maybeFlush()
	return n, b.err
}

func (b *batchWriter) writeLine(lineno int, line []byte) error {
	if lineno > 0 {
		b.buf.B = strconv.AppendInt(b.buf.B, int64(lineno), 10)
		b.buf.B = append(b.buf.B, '\t')
	}
	b.buf.B = append(b.buf.B, line...)
	b.buf.B = append(b.buf.B, '\n')
	b.maybeFlush()
	return b.err
}

func (b *batchWriter) writeRunes(lineno int, line []rune) error {
	if lineno > 0 {
		b.buf.B = strconv.AppendInt(b.buf.B, int64(lineno), 10)
		b.buf.B = append(b.buf.B, '\t')
	}
	for _, r := range line {
		b.buf.B = utf8.AppendRune(b.buf.B, r)
	}
	b.buf.B = append(b.buf.B, '\n')
	b.maybeFlush()
	return b.err
}

func (b *batchWriter) maybeFlush() {
	if b.buf.Len() >= common.ReadWriteBlockSize {
		b.flush()
	}
}

func (b *batchWriter) flush() error {
	if b.err == nil && b.buf.Len() > 0 {
		_, b.err = b.w.Write(b.buf.B)
	}
	b.buf.Reset()
	return b.err
}

// Close 刷写剩余数据并归还 buffer
func (b *batchWriter) Close() error {
	if b.buf == nil {
		return b.err
	}
	err := b.flush()
	bytebufferpool.Put(b.buf)
	b.buf = nil
	return err
}
