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
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/utf8stream"
)

// Handler 接收 Parser 解析出的 RESP 事件
//
// 传入的 []byte 为 Parser 内部 buffer 的视图 仅在回调期间有效
type Handler interface {
	OnSimpleString(b []byte)
	OnError(b []byte)
	OnInteger(n int64)
	OnBulkString(b []byte, null bool)
	OnArrayBegin(n int)
	OnArrayEnd()
}

// Parser 以事件回调的方式解析 RESP 数据流
//
// 优先使用 TryReadLine 消费已加载的数据 仅在 buffer 中没有完整的一行时才发起读取
type Parser struct {
	r *utf8stream.Reader
	h Handler
}

// NewParser 创建并返回 Parser 实例
func NewParser(src io.Reader, h Handler, opts ...utf8stream.Option) *Parser {
	opts = append(opts, utf8stream.WithSkipBOM(false))
	return &Parser{
		r: utf8stream.New(src, opts...),
		h: h,
	}
}

// Run 持续解析直到 source 结束
func (p *Parser) Run(ctx context.Context) error {
	for {
		ok, err := p.r.LoadIntoBuffer(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		for {
			line, ok := p.r.TryReadLine()
			if !ok {
				break
			}
			if err := p.parse(ctx, line, 0); err != nil {
				return err
			}
		}
	}
}

func (p *Parser) nextLine(ctx context.Context) ([]byte, error) {
	if line, ok := p.r.TryReadLine(); ok {
		return line, nil
	}
	line, err := p.r.ReadLine(ctx)
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	}
	return line, err
}

func (p *Parser) parse(ctx context.Context, line []byte, depth int) error {
	if len(line) == 0 {
		return errEmptyLine
	}

	switch t := DataType(line[0]); t {
	case SimpleStrings:
		p.h.OnSimpleString(line[1:])

	case Errors:
		p.h.OnError(line[1:])

	case Integers:
		n, err := parseInt(line[1:])
		if err != nil {
			return err
		}
		p.h.OnInteger(n)

	case BulkStrings:
		n, err := parseLength(line[1:])
		if err != nil {
			return err
		}
		if n < 0 {
			p.h.OnBulkString(nil, true)
			return nil
		}
		block, err := p.r.ReadBlock(ctx, n+2)
		if err != nil {
			return err
		}
		if block[n] != '\r' || block[n+1] != '\n' {
			return errBulkTerminate
		}
		p.h.OnBulkString(block[:n:n], false)

	case Array:
		if depth >= maxDepth {
			return errTooDeep
		}
		n, err := parseLength(line[1:])
		if err != nil {
			return err
		}
		p.h.OnArrayBegin(n)
		for i := 0; i < n; i++ {
			next, err := p.nextLine(ctx)
			if err != nil {
				return err
			}
			if err := p.parse(ctx, next, depth+1); err != nil {
				return err
			}
		}
		p.h.OnArrayEnd()

	default:
		return errors.Wrapf(errInvalidType, "prefix %q", line[0])
	}
	return nil
}

// Close 关闭底层 Reader
func (p *Parser) Close() error {
	return p.r.Close()
}

// Printer 将事件逐行输出到 io.Writer 的 Handler
type Printer struct {
	w   io.Writer
	err error
}

var _ Handler = (*Printer)(nil)

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err 返回第一次写入失败的错误
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) OnSimpleString(b []byte) {
	p.printf("SimpleString:%s\n", b)
}

func (p *Printer) OnError(b []byte) {
	p.printf("Error:%s\n", b)
}

func (p *Printer) OnInteger(n int64) {
	p.printf("Integer:%d\n", n)
}

func (p *Printer) OnBulkString(b []byte, null bool) {
	if null {
		p.printf("BulkString:(nil)\n")
		return
	}
	p.printf("BulkString:%s\n", b)
}

func (p *Printer) OnArrayBegin(n int) {
	p.printf("ArrayBegin(%d)\n", n)
}

func (p *Printer) OnArrayEnd() {
	p.printf("ArrayEnd\n")
}
