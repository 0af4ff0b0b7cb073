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
	"context"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/packetd/utf8stream/internal/arraypool"
	"github.com/packetd/utf8stream/internal/segbuf"
)

// TextReader 在 Reader 之上按 UTF-8 解码为 rune
//
// 行视图复用同一块 rune buffer 仅在下一次读取之前有效
// 非法字节解码为 utf8.RuneError
type TextReader struct {
	r      *Reader
	opts   textOptions
	chars  []rune
	closed bool
}

// NewTextReader 创建并返回 TextReader 实例 TextReader 接管 r 的生命周期
func NewTextReader(r *Reader, opts ...TextOption) *TextReader {
	o := textOptions{
		bufferSize: DefaultTextBufferSize,
		pool:       arraypool.Runes,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize < minTextBufferSize {
		o.bufferSize = minTextBufferSize
	}

	t := &TextReader{r: r, opts: o}
	t.chars = o.pool.Rent(o.bufferSize)
	return t
}

// AsText 返回包装当前 Reader 的 TextReader
func (r *Reader) AsText(opts ...TextOption) *TextReader {
	return NewTextReader(r, opts...)
}

// Reader 返回底层的字节 Reader
func (t *TextReader) Reader() *Reader {
	return t.r
}

func (t *TextReader) checkOpen() error {
	if t.closed {
		return ErrClosed
	}
	return nil
}

func (t *TextReader) mustOpen() {
	if t.closed {
		panic(ErrClosed)
	}
}

func (t *TextReader) releaseChars() {
	if t.chars != nil {
		t.opts.pool.Return(t.chars)
		t.chars = nil
	}
}

// decodeLine UTF-8 编码下 rune 数量不会超过字节数
func (t *TextReader) decodeLine(line []byte) []rune {
	if cap(t.chars) < len(line) {
		t.releaseChars()
		t.chars = t.opts.pool.Rent(len(line))
	}

	chars := t.chars[:cap(t.chars)]
	n := 0
	for i := 0; i < len(line); n++ {
		if c := line[i]; c < utf8.RuneSelf {
			chars[n] = rune(c)
			i++
			continue
		}
		r, size := utf8.DecodeRune(line[i:])
		chars[n] = r
		i += size
	}
	return chars[:n:n]
}

// LoadIntoBuffer 参见 Reader.LoadIntoBuffer
func (t *TextReader) LoadIntoBuffer(ctx context.Context) (bool, error) {
	if err := t.checkOpen(); err != nil {
		return false, err
	}
	return t.r.LoadIntoBuffer(ctx)
}

// TryReadLine 从已加载的数据中读取一行并解码
func (t *TextReader) TryReadLine() ([]rune, bool) {
	t.mustOpen()
	line, ok := t.r.TryReadLine()
	if !ok {
		return nil, false
	}
	return t.decodeLine(line), true
}

// ReadLine 读取一行并解码 没有更多数据时返回 io.EOF
func (t *TextReader) ReadLine(ctx context.Context) ([]rune, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}
	line, err := t.r.ReadLine(ctx)
	if err != nil {
		return nil, err
	}
	return t.decodeLine(line), nil
}

// ReadAllLines 返回逐行解码的迭代器
func (t *TextReader) ReadAllLines(ctx context.Context) iter.Seq2[[]rune, error] {
	return func(yield func([]rune, error) bool) {
		if err := t.checkOpen(); err != nil {
			yield(nil, err)
			return
		}
		for line, err := range t.r.ReadAllLines(ctx) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(t.decodeLine(line), nil) {
				return
			}
		}
	}
}

// ReadToEnd 读取并校验剩余的全部内容
//
// 尚未完成 BOM 探测且开启了 SkipBOM 时会去掉开头的 BOM
// 遇到非法或截断的 UTF-8 序列时返回 ErrInvalidUTF8
func (t *TextReader) ReadToEnd(ctx context.Context) (string, error) {
	if err := t.checkOpen(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sb := segbuf.New[byte](t.r.opts.pool)
	defer sb.Release()

	dec := utf8Decoder{stripBOM: t.r.checkBOM}
	for chunk, err := range t.r.ReadToEndChunks(ctx) {
		if err != nil {
			return "", err
		}
		if err := dec.decode(sb, chunk); err != nil {
			return "", err
		}
	}
	if err := dec.flush(sb); err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(sb.Len())
	for seg := range sb.Segments() {
		b.Write(seg)
	}
	return b.String(), nil
}

// Reset 归还行缓冲并重置底层 Reader
func (t *TextReader) Reset() error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	t.releaseChars()
	t.chars = t.opts.pool.Rent(t.opts.bufferSize)
	return t.r.Reset()
}

// ResetSource 归还行缓冲并让底层 Reader 切换到新的 source
func (t *TextReader) ResetSource(src io.Reader) error {
	if err := t.checkOpen(); err != nil {
		return err
	}
	t.releaseChars()
	t.chars = t.opts.pool.Rent(t.opts.bufferSize)
	return t.r.ResetSource(src)
}

// Close 归还行缓冲并关闭底层 Reader 重复调用无副作用
func (t *TextReader) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.releaseChars()
	return t.r.Close()
}
