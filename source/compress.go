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
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Codec 压缩格式
type Codec string

const (
	CodecNone   Codec = "none"
	CodecSnappy Codec = "snappy"
	CodecZstd   Codec = "zstd"
)

// ParseCodec 解析压缩格式 空字符串返回 CodecNone
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CodecNone, nil
	case CodecNone, CodecSnappy, CodecZstd:
		return c, nil
	}
	return CodecNone, errors.Errorf("source: unknown codec %q", s)
}

type readCloser struct {
	io.Reader
	closers []func() error
}

// Close 逆序关闭所有资源 并汇总全部错误
func (rc *readCloser) Close() error {
	var errs error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if err := rc.closers[i](); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	rc.closers = nil
	return errs
}

// Decompress 为 r 包装一层流式解压
//
// snappy 使用 framing format 返回的 io.ReadCloser 在 Close 时会一并关闭 r (如果 r 实现了 io.Closer)
// 返回错误时 r 不会被关闭 由调用方负责
func Decompress(r io.Reader, codec Codec) (io.ReadCloser, error) {
	rc := &readCloser{}
	if c, ok := r.(io.Closer); ok {
		rc.closers = append(rc.closers, c.Close)
	}

	switch codec {
	case CodecNone, "":
		rc.Reader = r

	case CodecSnappy:
		rc.Reader = snappy.NewReader(r)

	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "source: create zstd decoder")
		}
		rc.Reader = dec
		rc.closers = append(rc.closers, func() error {
			dec.Close()
			return nil
		})

	default:
		return nil, errors.Errorf("source: unknown codec %q", codec)
	}
	return rc, nil
}
