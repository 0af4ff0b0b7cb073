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
	"context"
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/internal/segbuf"
	"github.com/packetd/utf8stream/source"
)

// ReadAllLines 返回逐行读取的迭代器 每行的视图仅在当次迭代内有效
func (r *Reader) ReadAllLines(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			ok, err := r.LoadIntoBuffer(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok {
				return
			}
			for {
				line, ok := r.TryReadLine()
				if !ok {
					break
				}
				if !yield(line, nil) {
					return
				}
			}
		}
	}
}

func (r *Reader) drain() {
	r.begin = 0
	r.end = 0
	r.state = scanAbsent
}

// ReadToEnd 读取剩余的全部内容
//
// source 为普通文件时使用剩余长度作为 size hint 否则按分段 buffer 累积
func (r *Reader) ReadToEnd(ctx context.Context) ([]byte, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if n, ok := source.Remaining(r.src); ok {
		return r.ReadToEndSizeHint(ctx, n+int64(r.Buffered()))
	}
	return r.ReadToEndSizeHint(ctx, -1)
}

// ReadToEndSizeHint 读取剩余的全部内容 sizeHint 为预期的总长度 (包含已加载的数据)
//
// sizeHint 小于 0 表示未知 实际内容超过 sizeHint 时返回 ErrSizeHintTooSmall
// 实际内容少于 sizeHint 时返回实际长度
func (r *Reader) ReadToEndSizeHint(ctx context.Context, sizeHint int64) ([]byte, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.checkBOM = false
	if r.eof {
		out := bytes.Clone(r.buf[r.begin:r.end])
		r.drain()
		return out, nil
	}
	if sizeHint < 0 {
		return r.readToEndSegmented(ctx)
	}
	if sizeHint > int64(maxBufferLength) {
		return nil, errors.Wrapf(ErrBufferTooLarge, "size hint %d", sizeHint)
	}
	return r.readToEndHinted(ctx, int(sizeHint))
}

func (r *Reader) readToEndHinted(ctx context.Context, sizeHint int) ([]byte, error) {
	if buffered := r.end - r.begin; buffered > sizeHint {
		return nil, errors.Wrapf(ErrSizeHintTooSmall, "size hint %d, buffered %d", sizeHint, buffered)
	}

	out := make([]byte, sizeHint)
	n := copy(out, r.buf[r.begin:r.end])
	r.drain()
	for n < len(out) {
		m, err := r.read(ctx, out[n:])
		n += m
		if err == io.EOF {
			r.eof = true
			return out[:n], nil
		}
		if err != nil {
			return nil, err
		}
	}

	// out 已经写满 多读一次确认 source 没有更多数据 读到的数据留在 buffer 中
	m, err := r.read(ctx, r.buf)
	r.end = m
	if m > 0 {
		r.state = scanUnknown
		return nil, errors.Wrapf(ErrSizeHintTooSmall, "size hint %d", sizeHint)
	}
	if err == io.EOF {
		r.eof = true
		return out, nil
	}
	return nil, err
}

func (r *Reader) readToEndSegmented(ctx context.Context) ([]byte, error) {
	sb := segbuf.New[byte](r.opts.pool, segbuf.WithMaxLength(maxBufferLength))
	defer sb.Release()

	sb.Write(r.buf[r.begin:r.end])
	r.drain()
	for {
		if sb.Len() >= maxBufferLength {
			return nil, errors.Wrapf(ErrBufferTooLarge, "read to end exceeds %d bytes", maxBufferLength)
		}
		n, err := r.read(ctx, sb.WriteRegion())
		sb.Advance(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	r.eof = true
	return sb.ToSlice(), nil
}

// ReadToEndChunks 以分块的形式返回剩余的全部内容
//
// 首块为已加载的数据 其后每块对应一次 source 读取 不做 BOM 处理
// 每块的视图仅在当次迭代内有效
func (r *Reader) ReadToEndChunks(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if err := r.checkOpen(); err != nil {
			yield(nil, err)
			return
		}

		r.checkBOM = false
		if r.begin != r.end {
			chunk := r.buf[r.begin:r.end:r.end]
			r.drain()
			if !yield(chunk, nil) {
				return
			}
		}
		r.drain()
		if r.eof {
			return
		}

		for {
			if r.closed {
				yield(nil, ErrClosed)
				return
			}
			n, err := r.read(ctx, r.buf)
			if n > 0 {
				if !yield(r.buf[:n:n], nil) {
					return
				}
			}
			if err == io.EOF {
				r.eof = true
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}
