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
	"github.com/packetd/utf8stream/common"
	"github.com/packetd/utf8stream/internal/arraypool"
	"github.com/packetd/utf8stream/source"
)

const (
	// DefaultBufferSize Reader 默认的 buffer 长度
	DefaultBufferSize = 65536

	// MinBufferSize Reader buffer 长度下限
	MinBufferSize = 1024

	// DefaultTextBufferSize TextReader 默认的行缓冲长度 (rune)
	DefaultTextBufferSize = 1024

	// MinTextBufferSize TextReader 行缓冲长度下限 (rune)
	MinTextBufferSize = 128
)

var (
	minBufferSize     = MinBufferSize
	minTextBufferSize = MinTextBufferSize
	maxBufferLength   = common.MaxArrayLength
)

type options struct {
	bufferSize int
	leaveOpen  bool
	skipBOM    bool
	syncRead   bool
	pool       arraypool.Pool[byte]
}

func defaultOptions() options {
	return options{
		bufferSize: DefaultBufferSize,
		skipBOM:    true,
		pool:       arraypool.Bytes,
	}
}

type Option func(*options)

// WithBufferSize 设置初始 buffer 长度 小于 MinBufferSize 时取 MinBufferSize
func WithBufferSize(n int) Option {
	return func(o *options) {
		o.bufferSize = n
	}
}

// WithLeaveOpen 为 true 时 Close 不会关闭底层 source
func WithLeaveOpen(b bool) Option {
	return func(o *options) {
		o.leaveOpen = b
	}
}

// WithSkipBOM 是否探测并跳过开头的 UTF-8 BOM 默认开启
func WithSkipBOM(b bool) Option {
	return func(o *options) {
		o.skipBOM = b
	}
}

// WithSyncRead 为 true 时总是使用 io.Reader.Read 忽略 source.ContextReader
func WithSyncRead(b bool) Option {
	return func(o *options) {
		o.syncRead = b
	}
}

// WithPool 设置 buffer 的来源 默认为 arraypool.Bytes
func WithPool(p arraypool.Pool[byte]) Option {
	return func(o *options) {
		if p != nil {
			o.pool = p
		}
	}
}

type textOptions struct {
	bufferSize int
	pool       arraypool.Pool[rune]
}

type TextOption func(*textOptions)

// WithTextBufferSize 设置行缓冲的初始长度 小于 MinTextBufferSize 时取 MinTextBufferSize
func WithTextBufferSize(n int) TextOption {
	return func(o *textOptions) {
		o.bufferSize = n
	}
}

// WithRunePool 设置行缓冲的来源 默认为 arraypool.Runes
func WithRunePool(p arraypool.Pool[rune]) TextOption {
	return func(o *textOptions) {
		if p != nil {
			o.pool = p
		}
	}
}

// Config Reader 配置
//
// 对应配置文件中的 reader 段
type Config struct {
	BufferSize     int    `config:"bufferSize"`
	TextBufferSize int    `config:"textBufferSize"`
	LeaveOpen      bool   `config:"leaveOpen"`
	SkipBOM        bool   `config:"skipBOM"`
	SyncRead       bool   `config:"syncRead"`
	OpenMode       string `config:"openMode"`
	Codec          string `config:"codec"`
}

// DefaultConfig 返回默认配置 Unpack 时缺省的字段会保留默认值
func DefaultConfig() Config {
	return Config{
		BufferSize:     DefaultBufferSize,
		TextBufferSize: DefaultTextBufferSize,
		SkipBOM:        true,
		OpenMode:       source.Throughput.String(),
		Codec:          string(source.CodecNone),
	}
}

// Apply 使用 `--set key=value` 形式的覆盖项更新配置
func (c *Config) Apply(opts common.Options) error {
	var err error
	if opts.Has("bufferSize") {
		if c.BufferSize, err = opts.GetInt("bufferSize"); err != nil {
			return err
		}
	}
	if opts.Has("textBufferSize") {
		if c.TextBufferSize, err = opts.GetInt("textBufferSize"); err != nil {
			return err
		}
	}
	if opts.Has("leaveOpen") {
		if c.LeaveOpen, err = opts.GetBool("leaveOpen"); err != nil {
			return err
		}
	}
	if opts.Has("skipBOM") {
		if c.SkipBOM, err = opts.GetBool("skipBOM"); err != nil {
			return err
		}
	}
	if opts.Has("syncRead") {
		if c.SyncRead, err = opts.GetBool("syncRead"); err != nil {
			return err
		}
	}
	if opts.Has("openMode") {
		if c.OpenMode, err = opts.GetString("openMode"); err != nil {
			return err
		}
	}
	if opts.Has("codec") {
		if c.Codec, err = opts.GetString("codec"); err != nil {
			return err
		}
	}
	return nil
}

// Options 转换为 Reader 构造参数
func (c Config) Options() []Option {
	return []Option{
		WithBufferSize(c.BufferSize),
		WithLeaveOpen(c.LeaveOpen),
		WithSkipBOM(c.SkipBOM),
		WithSyncRead(c.SyncRead),
	}
}

// TextOptions 转换为 TextReader 构造参数
func (c Config) TextOptions() []TextOption {
	return []TextOption{
		WithTextBufferSize(c.TextBufferSize),
	}
}
