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

	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/source"
)

const maxConsecutiveEmptyReads = 100

// Reader 面向 UTF-8 字节流的行/块读取器
//
// 所有返回的 []byte 都是内部 buffer 的视图 仅在下一次读取或者 Reset/Close 之前有效
// 视图的 cap 被截断为 len 追加写入不会覆盖 buffer 中的后续数据
// Reader 不是并发安全的
type Reader struct {
	src       io.Reader
	ctxReader source.ContextReader
	opts      options

	buf   []byte
	begin int
	end   int

	state    scanState
	newline  int
	examined int

	eof      bool
	checkBOM bool
	closed   bool
}

// New 创建并返回 Reader 实例
func New(src io.Reader, opts ...Option) *Reader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize < minBufferSize {
		o.bufferSize = minBufferSize
	}
	if o.bufferSize > maxBufferLength {
		o.bufferSize = maxBufferLength
	}

	r := &Reader{opts: o}
	r.bind(src)
	r.init()
	return r
}

// Open 打开文件并返回 Reader 实例 Close 时会一并关闭文件
func Open(path string, mode source.OpenMode, opts ...Option) (*Reader, error) {
	f, err := source.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return New(f, append(opts, WithLeaveOpen(false))...), nil
}

func (r *Reader) bind(src io.Reader) {
	r.src = src
	r.ctxReader = nil
	if cr, ok := src.(source.ContextReader); ok && !r.opts.syncRead {
		r.ctxReader = cr
	}
}

func (r *Reader) init() {
	r.buf = r.opts.pool.Rent(r.opts.bufferSize)[:r.opts.bufferSize]
	r.begin = 0
	r.end = 0
	r.state = scanUnknown
	r.eof = false
	r.checkBOM = r.opts.skipBOM
}

func (r *Reader) release() {
	if r.buf != nil {
		r.opts.pool.Return(r.buf)
		r.buf = nil
	}
	r.begin = 0
	r.end = 0
	r.state = scanUnknown
}

func (r *Reader) closeSource() error {
	if r.opts.leaveOpen {
		return nil
	}
	if c, ok := r.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Reader) checkOpen() error {
	if r.closed {
		return ErrClosed
	}
	return nil
}

func (r *Reader) mustOpen() {
	if r.closed {
		panic(ErrClosed)
	}
}

// Buffered 返回已加载但尚未消费的字节数
func (r *Reader) Buffered() int {
	return r.end - r.begin
}

// Source 返回底层 source
func (r *Reader) Source() io.Reader {
	return r.src
}

// Reset 归还 buffer 并恢复初始状态 source 保持不变
func (r *Reader) Reset() error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	r.release()
	r.init()
	return nil
}

// ResetSource 切换到新的 source 旧 source 按 LeaveOpen 设置决定是否关闭
func (r *Reader) ResetSource(src io.Reader) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	err := r.closeSource()
	r.release()
	r.bind(src)
	r.init()
	return err
}

// Close 归还 buffer 并按 LeaveOpen 设置关闭 source 重复调用无副作用
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.release()
	err := r.closeSource()
	r.src = nil
	r.ctxReader = nil
	return err
}

// read 从 source 读取一次 连续多次读到 0 字节时返回 io.ErrNoProgress
func (r *Reader) read(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		var n int
		var err error
		if r.ctxReader != nil {
			n, err = r.ctxReader.ReadContext(ctx, p)
		} else {
			n, err = r.src.Read(p)
		}
		if n < 0 || n > len(p) {
			panic(errInvalidRead)
		}
		if n > 0 || err != nil {
			return n, err
		}
	}
	return 0, io.ErrNoProgress
}

// fill 读取数据追加到 buf[end:] 读到 io.EOF 时标记 eof
func (r *Reader) fill(ctx context.Context) (int, error) {
	n, err := r.read(ctx, r.buf[r.end:])
	r.end += n
	if n > 0 && r.state == scanAbsent {
		r.state = scanUnknown
	}
	if err != nil {
		if err != io.EOF {
			return n, err
		}
		r.eof = true
	}
	if r.checkBOM {
		r.detectBOM()
	}
	return n, nil
}

// detectBOM 已加载的数据不再可能是 BOM 前缀时立即做出判断
//
// 只有数据恰好是 BOM 的前缀且流尚未结束时才继续等待
func (r *Reader) detectBOM() {
	n := min(r.end, len(bom))
	if n < len(bom) && !r.eof && bytes.Equal(r.buf[:n], bom[:n]) {
		return
	}
	r.checkBOM = false
	if n == len(bom) && bytes.Equal(r.buf[:n], bom) {
		r.begin = len(bom)
	}
}

func (r *Reader) slide() int {
	shift := r.begin
	if shift == 0 {
		return 0
	}
	copy(r.buf, r.buf[r.begin:r.end])
	r.end -= shift
	r.begin = 0
	if r.state == scanFound {
		r.newline -= shift
		r.examined -= shift
	}
	return shift
}

func (r *Reader) grow(size int) error {
	if size > maxBufferLength || size <= len(r.buf) {
		return errors.Wrapf(ErrBufferTooLarge, "grow from %d to %d", len(r.buf), size)
	}
	buf := r.opts.pool.Rent(size)[:size]
	copy(buf, r.buf[:r.end])
	r.opts.pool.Return(r.buf)
	r.buf = buf
	return nil
}

// makeRoom buffer 写满时腾出空间 优先前移数据 其次扩容 返回数据前移的距离
func (r *Reader) makeRoom() (int, error) {
	if r.begin != 0 {
		return r.slide(), nil
	}
	return 0, r.grow(nextSize(len(r.buf)))
}

// reserve 保证 buffer 能容纳 minimum 字节且尾部仍有可写空间
func (r *Reader) reserve(minimum int) error {
	if r.begin == r.end {
		r.begin = 0
		r.end = 0
	}
	if len(r.buf)-r.begin >= minimum && r.end < len(r.buf) {
		return nil
	}
	r.slide()
	if len(r.buf) >= minimum && r.end < len(r.buf) {
		return nil
	}
	size := nextSize(len(r.buf))
	if size < minimum {
		size = minimum
	}
	return r.grow(size)
}

// scan 从 from 开始查找换行符并缓存结果
func (r *Reader) scan(from int) bool {
	idx, lf := indexNewline(r.buf[from:r.end])
	if idx < 0 {
		r.state = scanAbsent
		return false
	}
	r.newline = from + idx
	r.examined = from + lf
	r.state = scanFound
	return true
}

// LoadIntoBuffer 加载数据直到 buffer 中存在完整的一行或者 source 结束
//
// 返回 true 表示 TryReadLine 至少能够返回一行
func (r *Reader) LoadIntoBuffer(ctx context.Context) (bool, error) {
	if err := r.checkOpen(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	switch r.state {
	case scanFound:
		return true, nil
	case scanUnknown:
		if r.scan(r.begin) {
			return true, nil
		}
	}
	if r.eof {
		return r.begin != r.end, nil
	}

	if r.begin == r.end {
		r.begin = 0
		r.end = 0
	}
	examined := r.end
	for {
		if r.end == len(r.buf) {
			shift, err := r.makeRoom()
			if err != nil {
				return false, err
			}
			examined -= shift
		}

		if _, err := r.fill(ctx); err != nil {
			return false, err
		}
		if r.checkBOM {
			continue
		}

		// 回退一个字节 处理 \r\n 被拆分在两次读取中的情况
		from := examined - 1
		if from < r.begin {
			from = r.begin
		}
		if r.scan(from) {
			return true, nil
		}
		if r.eof {
			return r.begin != r.end, nil
		}
		examined = r.end
	}
}

// LoadIntoBufferAtLeast 加载数据直到 buffer 中至少有 minimum 字节
//
// source 提前结束时返回包装了 io.ErrUnexpectedEOF 的错误
func (r *Reader) LoadIntoBufferAtLeast(ctx context.Context, minimum int) error {
	if err := r.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if minimum < 0 {
		return errNegativeCount
	}

	for {
		if !r.checkBOM && r.end-r.begin >= minimum {
			return nil
		}
		if r.eof {
			return errors.Wrapf(io.ErrUnexpectedEOF, "utf8stream: need %d bytes, %d buffered", minimum, r.end-r.begin)
		}
		if err := r.reserve(minimum); err != nil {
			return err
		}
		if _, err := r.fill(ctx); err != nil {
			return err
		}
	}
}

func (r *Reader) takeLine(newline, next int) []byte {
	line := r.buf[r.begin:newline:newline]
	r.begin = next
	r.state = scanUnknown
	return line
}

// TryReadLine 从已加载的数据中读取一行 不包含行结束符
//
// source 已经结束时最后一段不以换行结尾的数据也会作为一行返回
// Reader 关闭后调用会 panic
func (r *Reader) TryReadLine() ([]byte, bool) {
	r.mustOpen()

	switch r.state {
	case scanFound:
		return r.takeLine(r.newline, r.examined+1), true
	case scanUnknown:
		if r.scan(r.begin) {
			return r.takeLine(r.newline, r.examined+1), true
		}
	}

	if r.eof && r.begin != r.end {
		line := r.buf[r.begin:r.end:r.end]
		r.begin = r.end
		return line, true
	}
	return nil, false
}

// ReadLine 读取一行 没有更多数据时返回 io.EOF
func (r *Reader) ReadLine(ctx context.Context) ([]byte, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if line, ok := r.TryReadLine(); ok {
		return line, nil
	}

	ok, err := r.LoadIntoBuffer(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		if line, ok := r.TryReadLine(); ok {
			return line, nil
		}
	}
	return nil, io.EOF
}

// TryPeek 返回下一个字节但不消费
func (r *Reader) TryPeek() (byte, bool) {
	r.mustOpen()
	if r.begin < r.end {
		return r.buf[r.begin], true
	}
	return 0, false
}

// Peek 返回下一个字节但不消费 没有更多数据时返回 io.EOF
func (r *Reader) Peek(ctx context.Context) (byte, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	if c, ok := r.TryPeek(); ok {
		return c, nil
	}
	if err := r.loadByte(ctx); err != nil {
		return 0, err
	}
	return r.buf[r.begin], nil
}

// TryReadByte 从已加载的数据中读取一个字节
func (r *Reader) TryReadByte() (byte, bool) {
	r.mustOpen()
	if r.begin == r.end {
		return 0, false
	}
	c := r.buf[r.begin]
	r.begin++
	r.state = scanUnknown
	return c, true
}

// ReadByteContext 读取一个字节 没有更多数据时返回 io.EOF
func (r *Reader) ReadByteContext(ctx context.Context) (byte, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	if c, ok := r.TryReadByte(); ok {
		return c, nil
	}
	if err := r.loadByte(ctx); err != nil {
		return 0, err
	}
	c, _ := r.TryReadByte()
	return c, nil
}

// ReadByte 实现 io.ByteReader
func (r *Reader) ReadByte() (byte, error) {
	return r.ReadByteContext(context.Background())
}

func (r *Reader) loadByte(ctx context.Context) error {
	err := r.LoadIntoBufferAtLeast(ctx, 1)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return io.EOF
	}
	return err
}

// TryReadBlock 从已加载的数据中读取 n 字节 已加载数据不足时返回 false
func (r *Reader) TryReadBlock(n int) ([]byte, bool) {
	r.mustOpen()
	if n < 0 || n > r.end-r.begin {
		return nil, false
	}
	block := r.buf[r.begin : r.begin+n : r.begin+n]
	r.begin += n
	r.state = scanUnknown
	return block, true
}

// ReadBlock 读取恰好 n 字节 source 提前结束时返回包装了 io.ErrUnexpectedEOF 的错误
func (r *Reader) ReadBlock(ctx context.Context, n int) ([]byte, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errNegativeCount
	}
	if block, ok := r.TryReadBlock(n); ok {
		return block, nil
	}
	if err := r.LoadIntoBufferAtLeast(ctx, n); err != nil {
		return nil, err
	}
	block, _ := r.TryReadBlock(n)
	return block, nil
}
