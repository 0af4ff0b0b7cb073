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

package resp

import (
	"bytes"
	"context"
	"io"
	"iter"

	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/utf8stream"
)

// maxBulkLength BulkStrings 最大长度 512MB
var maxBulkLength = 512 * 1024 * 1024

// Reader RESP 2.0 读取器
//
// 所有 Read 方法 (ReadType 除外) 都要求类型首字节已经被 ReadType 消费
// 读取到的 []byte 均为内部 buffer 的视图 仅在下一次读取之前有效
type Reader struct {
	r *utf8stream.Reader
}

// NewReader 创建并返回 Reader 实例 RESP 为二进制安全协议 不做 BOM 处理
func NewReader(src io.Reader, opts ...utf8stream.Option) *Reader {
	opts = append(opts, utf8stream.WithSkipBOM(false))
	return &Reader{r: utf8stream.New(src, opts...)}
}

// ReadType 读取类型首字节 没有更多数据时返回 io.EOF
func (r *Reader) ReadType(ctx context.Context) (DataType, error) {
	c, err := r.r.ReadByteContext(ctx)
	if err != nil {
		return 0, err
	}
	t := DataType(c)
	if !t.valid() {
		return 0, errors.Wrapf(errInvalidType, "prefix %q", c)
	}
	return t, nil
}

func (r *Reader) readLine(ctx context.Context) ([]byte, error) {
	line, err := r.r.ReadLine(ctx)
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return line, err
}

// ReadSimpleString 读取 SimpleStrings
func (r *Reader) ReadSimpleString(ctx context.Context) (string, error) {
	line, err := r.readLine(ctx)
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// ReadError 读取 Errors 的错误消息
func (r *Reader) ReadError(ctx context.Context) (string, error) {
	return r.ReadSimpleString(ctx)
}

// ReadInteger 读取 Integers
func (r *Reader) ReadInteger(ctx context.Context) (int64, error) {
	line, err := r.readLine(ctx)
	if err != nil {
		return 0, err
	}
	return parseInt(line)
}

// ReadBulkString 读取 BulkStrings 返回 nil 表示 Null
//
// 多行字符串被用来表示最大 512MB 的二进制安全字符串 编码方式为
// - [$] 后面跟着组成字符串的字节数(前缀长度) + CRLF
// - 实际的字符串数据 + CRLF
func (r *Reader) ReadBulkString(ctx context.Context) ([]byte, error) {
	line, err := r.readLine(ctx)
	if err != nil {
		return nil, err
	}
	n, err := parseLength(line)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	return r.readBulk(ctx, n)
}

func (r *Reader) readBulk(ctx context.Context, n int) ([]byte, error) {
	block, err := r.r.ReadBlock(ctx, n+2)
	if err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(block, crlf) {
		return nil, errBulkTerminate
	}
	return block[:n:n], nil
}

var crlf = []byte("\r\n")

// ReadArray 读取 Array 返回 nil 表示 Null 元素中的 BulkStrings 会被复制
func (r *Reader) ReadArray(ctx context.Context) ([]Value, error) {
	return r.readArray(ctx, 1)
}

func (r *Reader) readArray(ctx context.Context, depth int) ([]Value, error) {
	if depth > maxDepth {
		return nil, errTooDeep
	}

	line, err := r.readLine(ctx)
	if err != nil {
		return nil, err
	}
	n, err := parseLength(line)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}

	values := make([]Value, 0, min(n, 1024))
	for i := 0; i < n; i++ {
		t, err := r.ReadType(ctx)
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		if err != nil {
			return nil, err
		}
		v, err := r.readValue(ctx, t, depth)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ReadValue 读取一个完整的 RESP 数据 没有更多数据时返回 io.EOF
func (r *Reader) ReadValue(ctx context.Context) (Value, error) {
	t, err := r.ReadType(ctx)
	if err != nil {
		return Value{}, err
	}
	return r.readValue(ctx, t, 0)
}

func (r *Reader) readValue(ctx context.Context, t DataType, depth int) (Value, error) {
	v := Value{Type: t}
	var err error
	switch t {
	case SimpleStrings, Errors:
		v.Str, err = r.ReadSimpleString(ctx)
	case Integers:
		v.Int, err = r.ReadInteger(ctx)
	case BulkStrings:
		var b []byte
		b, err = r.ReadBulkString(ctx)
		v.Null = b == nil
		v.Bulk = bytes.Clone(b)
	case Array:
		v.Array, err = r.readArray(ctx, depth+1)
		v.Null = v.Array == nil
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

// Values 返回逐个读取 RESP 数据的迭代器
func (r *Reader) Values(ctx context.Context) iter.Seq2[Value, error] {
	return func(yield func(Value, error) bool) {
		for {
			v, err := r.ReadValue(ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Value{}, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Close 关闭底层 Reader
func (r *Reader) Close() error {
	return r.r.Close()
}
