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
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/utf8stream/internal/arraypool"
	"github.com/packetd/utf8stream/source"
)

func readLines(t *testing.T, r *Reader) []string {
	t.Helper()

	var lines []string
	for line, err := range r.ReadAllLines(context.Background()) {
		require.NoError(t, err)
		assert.Equal(t, len(line), cap(line))
		lines = append(lines, string(line))
	}
	return lines
}

func TestIndexNewline(t *testing.T) {
	tests := []struct {
		input string
		idx   int
		lf    int
	}{
		{input: "", idx: -1, lf: -1},
		{input: "abc", idx: -1, lf: 2},
		{input: "\n", idx: 0, lf: 0},
		{input: "\r\n", idx: 0, lf: 1},
		{input: "ab\ncd", idx: 2, lf: 2},
		{input: "ab\r\ncd", idx: 2, lf: 3},
		{input: "ab\rcd\n", idx: 5, lf: 5},
		{input: "ab\r\r\n", idx: 3, lf: 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			idx, lf := indexNewline([]byte(tt.input))
			assert.Equal(t, tt.idx, idx)
			assert.Equal(t, tt.lf, lf)
		})
	}
}

func TestNextSize(t *testing.T) {
	withMaxBufferLength(t, 100)

	assert.Equal(t, 20, nextSize(10))
	assert.Equal(t, 98, nextSize(49))
	assert.Equal(t, 100, nextSize(50))
	assert.Equal(t, 100, nextSize(100))
}

func TestReadLineFragmented(t *testing.T) {
	withMinBufferSize(t, 1)

	chunks := []string{"a", "bc\n", "def\r\n", "ghij\n", "zklmno\r\n\n"}
	expected := []string{"abc", "def", "ghij", "zklmno", ""}

	for _, size := range []int{1, 2, 3, 4, 5, 8, 1024} {
		t.Run(fmt.Sprintf("Size%d", size), func(t *testing.T) {
			r, _ := newChunksReader(chunks, WithBufferSize(size))
			defer r.Close()

			assert.Equal(t, expected, readLines(t, r))
		})
	}
}

func TestReadLine(t *testing.T) {
	r, _ := newChunksReader([]string{"a\r\nb", "\nc"})
	defer r.Close()

	ctx := context.Background()
	for _, want := range []string{"a", "b", "c"} {
		line, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, string(line))
	}

	_, err := r.ReadLine(ctx)
	assert.Equal(t, io.EOF, err)
	_, err = r.ReadLine(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestTryReadLine(t *testing.T) {
	r, _ := newChunksReader([]string{"ab\ncd\n", "ef"})
	defer r.Close()

	_, ok := r.TryReadLine()
	assert.False(t, ok)

	ok, err := r.LoadIntoBuffer(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	line, ok := r.TryReadLine()
	assert.True(t, ok)
	assert.Equal(t, "ab", string(line))

	line, ok = r.TryReadLine()
	assert.True(t, ok)
	assert.Equal(t, "cd", string(line))

	_, ok = r.TryReadLine()
	assert.False(t, ok)

	ok, err = r.LoadIntoBuffer(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	line, ok = r.TryReadLine()
	assert.True(t, ok)
	assert.Equal(t, "ef", string(line))

	ok, err = r.LoadIntoBuffer(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadLineEquivalence(t *testing.T) {
	withMinBufferSize(t, 1)

	alphabet := []string{"a", "b", "\n", "\r", "\r\n", "é", "世"}
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		var sb strings.Builder
		parts := rnd.Intn(64)
		for j := 0; j < parts; j++ {
			sb.WriteString(alphabet[rnd.Intn(len(alphabet))])
		}
		content := sb.String()

		var chunks []string
		for s := content; len(s) > 0; {
			n := 1 + rnd.Intn(7)
			if n > len(s) {
				n = len(s)
			}
			chunks = append(chunks, s[:n])
			s = s[n:]
		}

		size := 1 + rnd.Intn(16)
		r, _ := newChunksReader(chunks, WithBufferSize(size), WithSkipBOM(false))
		assert.Equal(t, splitLines(content), readLines(t, r), "content %q buffer %d", content, size)
		assert.NoError(t, r.Close())
	}
}

func TestReadLineLongerThanBuffer(t *testing.T) {
	withMinBufferSize(t, 1)

	long := strings.Repeat("0123456789", 10)
	content := "ab\n" + long + "\r\ncd\n" + long
	r, _ := newChunksReader(splitEvery(content, 3), WithBufferSize(4))
	defer r.Close()

	assert.Equal(t, []string{"ab", long, "cd", long}, readLines(t, r))
}

func TestReadLineBufferTooLarge(t *testing.T) {
	withMinBufferSize(t, 1)
	withMaxBufferLength(t, 8)

	r, _ := newChunksReader(splitEvery(strings.Repeat("x", 20)+"\n", 2), WithBufferSize(4))
	defer r.Close()

	_, err := r.LoadIntoBuffer(context.Background())
	assert.True(t, errors.Is(err, ErrBufferTooLarge))
}

func TestReadToEndBufferTooLarge(t *testing.T) {
	withMinBufferSize(t, 1)
	withMaxBufferLength(t, 8)

	r, _ := newChunksReader(splitEvery(strings.Repeat("x", 20), 2), WithBufferSize(4))
	defer r.Close()

	_, err := r.ReadToEndSizeHint(context.Background(), -1)
	assert.True(t, errors.Is(err, ErrBufferTooLarge))
}

func TestSkipBOM(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []string
		skipBOM  bool
		expected []string
	}{
		{
			name:     "Skip",
			chunks:   []string{"\xEF\xBB\xBFabc\ndef"},
			skipBOM:  true,
			expected: []string{"abc", "def"},
		},
		{
			name:     "Keep",
			chunks:   []string{"\xEF\xBB\xBFabc\ndef"},
			skipBOM:  false,
			expected: []string{"\xEF\xBB\xBFabc", "def"},
		},
		{
			name:    "OnlyBOM",
			chunks:  []string{"\xEF\xBB\xBF"},
			skipBOM: true,
		},
		{
			name:     "Short",
			chunks:   []string{"\xEF\xBB"},
			skipBOM:  true,
			expected: []string{"\xEF\xBB"},
		},
		{
			name:     "Fragmented",
			chunks:   []string{"\xEF", "\xBB", "\xBFx\n"},
			skipBOM:  true,
			expected: []string{"x"},
		},
		{
			name:     "Middle",
			chunks:   []string{"a\n\xEF\xBB\xBFb"},
			skipBOM:  true,
			expected: []string{"a", "\xEF\xBB\xBFb"},
		},
		{
			name:     "NewlineFirst",
			chunks:   []string{"\n", "ab"},
			skipBOM:  true,
			expected: []string{"", "ab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newChunksReader(tt.chunks, WithSkipBOM(tt.skipBOM))
			defer r.Close()

			assert.Equal(t, tt.expected, readLines(t, r))
		})
	}
}

// stallReader 返回预设的数据后一直返回 err 用于模拟没有后续数据的交互式连接
type stallReader struct {
	data []string
	err  error
}

func (s *stallReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, s.err
	}
	n := copy(p, s.data[0])
	s.data[0] = s.data[0][n:]
	if s.data[0] == "" {
		s.data = s.data[1:]
	}
	return n, nil
}

func TestSkipBOMStalledSource(t *testing.T) {
	errStall := errors.New("would block")

	tests := []struct {
		name     string
		data     []string
		expected string
		err      error
	}{
		{
			name:     "ShortLine",
			data:     []string{"a\n"},
			expected: "a",
		},
		{
			name:     "EmptyLine",
			data:     []string{"\n"},
			expected: "",
		},
		{
			name:     "NotBOMPrefix",
			data:     []string{"\xEFa\n"},
			expected: "\xEFa",
		},
		{
			name:     "BOMThenLine",
			data:     []string{"\xEF\xBB", "\xBFa\n"},
			expected: "a",
		},
		{
			name: "PendingBOMPrefix",
			data: []string{"\xEF\xBB"},
			err:  errStall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stallReader{data: tt.data, err: errStall})
			defer r.Close()

			line, err := r.ReadLine(context.Background())
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(line))
		})
	}
}

func TestEmptySource(t *testing.T) {
	ctx := context.Background()

	r, _ := newChunksReader(nil)
	assert.Nil(t, readLines(t, r))
	_, err := r.ReadLine(ctx)
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, r.Close())

	r, _ = newChunksReader(nil)
	b, err := r.ReadToEnd(ctx)
	assert.NoError(t, err)
	assert.Empty(t, b)
	assert.NoError(t, r.Close())
}

func TestPeekAndReadByte(t *testing.T) {
	r, _ := newChunksReader([]string{"a", "b"})
	defer r.Close()

	ctx := context.Background()
	_, ok := r.TryPeek()
	assert.False(t, ok)

	c, err := r.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('a'), c)

	c, err = r.ReadByteContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('a'), c)

	c, err = r.Peek(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte('b'), c)

	c, ok = r.TryPeek()
	assert.True(t, ok)
	assert.Equal(t, byte('b'), c)

	c, ok = r.TryReadByte()
	assert.True(t, ok)
	assert.Equal(t, byte('b'), c)

	_, ok = r.TryReadByte()
	assert.False(t, ok)

	_, err = r.ReadByte()
	assert.Equal(t, io.EOF, err)
	_, err = r.Peek(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestReadByteThenLine(t *testing.T) {
	r, _ := newChunksReader([]string{"ab\ncd\n"})
	defer r.Close()

	ctx := context.Background()
	_, err := r.ReadLine(ctx)
	require.NoError(t, err)

	c, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('c'), c)

	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", string(line))
}

func TestReadBlock(t *testing.T) {
	withMinBufferSize(t, 1)

	ctx := context.Background()
	r, _ := newChunksReader(splitEvery("0123456789abcdef", 3), WithBufferSize(4))
	defer r.Close()

	tests := []struct {
		n        int
		expected string
	}{
		{n: 3, expected: "012"},
		{n: 0, expected: ""},
		{n: 10, expected: "3456789abc"},
		{n: 1, expected: "d"},
		{n: 2, expected: "ef"},
	}
	for _, tt := range tests {
		block, err := r.ReadBlock(ctx, tt.n)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, string(block))
		assert.Equal(t, len(block), cap(block))
	}

	_, err := r.ReadBlock(ctx, 1)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))

	_, err = r.ReadBlock(ctx, -1)
	assert.Error(t, err)
}

func TestReadBlockUnexpectedEOF(t *testing.T) {
	r, _ := newChunksReader([]string{"ab", "c"})
	defer r.Close()

	_, err := r.ReadBlock(context.Background(), 5)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, 3, r.Buffered())

	block, ok := r.TryReadBlock(3)
	assert.True(t, ok)
	assert.Equal(t, "abc", string(block))
}

func TestReadBlockAndLines(t *testing.T) {
	r, _ := newChunksReader([]string{"ab\ncd", "ef\ngh\n"})
	defer r.Close()

	ctx := context.Background()
	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(line))

	block, err := r.ReadBlock(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "cde", string(block))

	assert.Equal(t, []string{"f", "gh"}, readLines(t, r))
}

func TestLoadIntoBufferAtLeast(t *testing.T) {
	withMinBufferSize(t, 1)

	r, _ := newChunksReader(splitEvery("abcdef", 1), WithBufferSize(4))
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.LoadIntoBufferAtLeast(ctx, 6))
	assert.Equal(t, 6, r.Buffered())

	err := r.LoadIntoBufferAtLeast(ctx, 7)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, 6, r.Buffered())

	assert.NoError(t, r.LoadIntoBufferAtLeast(ctx, 0))
	assert.Error(t, r.LoadIntoBufferAtLeast(ctx, -1))
}

func TestReadToEndSizeHint(t *testing.T) {
	content := "hello world"
	tests := []struct {
		name     string
		hint     int64
		expected string
		err      error
	}{
		{name: "Unknown", hint: -1, expected: content},
		{name: "Exact", hint: int64(len(content)), expected: content},
		{name: "Larger", hint: 64, expected: content},
		{name: "TooSmall", hint: int64(len(content)) - 2, err: ErrSizeHintTooSmall},
		{name: "Zero", hint: 0, err: ErrSizeHintTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newChunksReader(splitEvery(content, 4))
			defer r.Close()

			b, err := r.ReadToEndSizeHint(context.Background(), tt.hint)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(b))
		})
	}
}

func TestReadToEndAfterLines(t *testing.T) {
	r, _ := newChunksReader([]string{"line\nre", "st\n", "tail"})
	defer r.Close()

	ctx := context.Background()
	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "line", string(line))

	b, err := r.ReadToEnd(ctx)
	require.NoError(t, err)
	assert.Equal(t, "rest\ntail", string(b))

	b, err = r.ReadToEnd(ctx)
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = r.ReadLine(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestReadToEndBufferedExceedsHint(t *testing.T) {
	r, _ := newChunksReader([]string{"abcdef\n"})
	defer r.Close()

	ctx := context.Background()
	_, err := r.LoadIntoBuffer(ctx)
	require.NoError(t, err)

	_, err = r.ReadToEndSizeHint(ctx, 3)
	assert.True(t, errors.Is(err, ErrSizeHintTooSmall))
}

func TestReadToEndSegmented(t *testing.T) {
	withMinBufferSize(t, 1)

	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString("0123456789\n")
	}
	content := sb.String()

	pool := arraypool.NewTracker[byte](arraypool.Bytes)
	r, _ := newChunksReader(splitEvery(content, 333), WithBufferSize(16), WithPool(pool))

	b, err := r.ReadToEnd(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content, string(b))

	require.NoError(t, r.Close())
	assert.Equal(t, 0, pool.Outstanding())
	assert.Equal(t, 0, pool.Invalid())
}

func TestReadToEndChunks(t *testing.T) {
	r, _ := newChunksReader([]string{"abc\nde", "fgh", "ij"})
	defer r.Close()

	ctx := context.Background()
	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(line))

	var chunks []string
	for chunk, err := range r.ReadToEndChunks(ctx) {
		require.NoError(t, err)
		chunks = append(chunks, string(chunk))
	}
	assert.Equal(t, []string{"de", "fgh", "ij"}, chunks)
	assert.Equal(t, 0, r.Buffered())

	_, err = r.ReadLine(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestReadToEndChunksBreak(t *testing.T) {
	r, _ := newChunksReader([]string{"ab", "cd", "ef"})
	defer r.Close()

	ctx := context.Background()
	for chunk, err := range r.ReadToEndChunks(ctx) {
		require.NoError(t, err)
		assert.Equal(t, "ab", string(chunk))
		break
	}

	b, err := r.ReadToEnd(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cdef", string(b))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFfirst\r\nsecond\nthird"), 0o644))

	for _, mode := range []source.OpenMode{source.Throughput, source.Scalability} {
		t.Run(mode.String(), func(t *testing.T) {
			r, err := Open(path, mode)
			require.NoError(t, err)

			ctx := context.Background()
			line, err := r.ReadLine(ctx)
			require.NoError(t, err)
			assert.Equal(t, "first", string(line))

			b, err := r.ReadToEnd(ctx)
			require.NoError(t, err)
			assert.Equal(t, "second\nthird", string(b))

			f := r.Source().(*os.File)
			require.NoError(t, r.Close())
			_, err = f.Stat()
			assert.Error(t, err)
		})
	}

	_, err := Open(filepath.Join(t.TempDir(), "missing"), source.Throughput)
	assert.Error(t, err)
}

func TestReadToEndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	content := strings.Repeat("abcdefgh\n", 1000)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := Open(path, source.Throughput, WithBufferSize(MinBufferSize))
	require.NoError(t, err)
	defer r.Close()

	b, err := r.ReadToEnd(context.Background())
	require.NoError(t, err)
	assert.Equal(t, content, string(b))
}

func TestClose(t *testing.T) {
	t.Run("CloseSource", func(t *testing.T) {
		r, src := newChunksReader([]string{"a\n"})
		assert.NoError(t, r.Close())
		assert.True(t, src.Closed())
		assert.NoError(t, r.Close())
	})

	t.Run("LeaveOpen", func(t *testing.T) {
		r, src := newChunksReader([]string{"a\n"}, WithLeaveOpen(true))
		assert.NoError(t, r.Close())
		assert.False(t, src.Closed())
	})

	t.Run("Closed", func(t *testing.T) {
		r, _ := newChunksReader([]string{"a\n"})
		require.NoError(t, r.Close())

		ctx := context.Background()
		_, err := r.ReadLine(ctx)
		assert.Equal(t, ErrClosed, err)
		_, err = r.LoadIntoBuffer(ctx)
		assert.Equal(t, ErrClosed, err)
		assert.Equal(t, ErrClosed, r.LoadIntoBufferAtLeast(ctx, 1))
		_, err = r.ReadBlock(ctx, 1)
		assert.Equal(t, ErrClosed, err)
		_, err = r.ReadToEnd(ctx)
		assert.Equal(t, ErrClosed, err)
		_, err = r.Peek(ctx)
		assert.Equal(t, ErrClosed, err)
		assert.Equal(t, ErrClosed, r.Reset())

		for _, err := range r.ReadAllLines(ctx) {
			assert.Equal(t, ErrClosed, err)
		}
		for _, err := range r.ReadToEndChunks(ctx) {
			assert.Equal(t, ErrClosed, err)
		}

		assert.Panics(t, func() { r.TryReadLine() })
		assert.Panics(t, func() { r.TryPeek() })
		assert.Panics(t, func() { r.TryReadByte() })
		assert.Panics(t, func() { r.TryReadBlock(1) })
	})
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("KeepSource", func(t *testing.T) {
		r, src := newChunksReader([]string{"a\nb\n", "c\n"})
		defer r.Close()

		line, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", string(line))
		assert.Equal(t, 2, r.Buffered())

		require.NoError(t, r.Reset())
		assert.Equal(t, 0, r.Buffered())
		assert.False(t, src.Closed())
		assert.Equal(t, []string{"c"}, readLines(t, r))
	})

	t.Run("SwitchSource", func(t *testing.T) {
		r, src := newChunksReader([]string{"a\nb\n"})
		defer r.Close()

		_, err := r.ReadLine(ctx)
		require.NoError(t, err)

		next := source.NewStringChunks("\xEF\xBB\xBFx\ny")
		require.NoError(t, r.ResetSource(next))
		assert.True(t, src.Closed())
		assert.Equal(t, io.Reader(next), r.Source())
		assert.Equal(t, []string{"x", "y"}, readLines(t, r))
	})
}

func TestPoolBalanced(t *testing.T) {
	withMinBufferSize(t, 1)

	pool := arraypool.NewTracker[byte](arraypool.Bytes)
	content := strings.Repeat("x", 100) + "\n" + strings.Repeat("y", 300) + "\nz"

	r, _ := newChunksReader(splitEvery(content, 7), WithBufferSize(2), WithPool(pool))
	assert.Equal(t, []string{strings.Repeat("x", 100), strings.Repeat("y", 300), "z"}, readLines(t, r))
	require.NoError(t, r.ResetSource(source.NewStringChunks("tail")))

	b, err := r.ReadToEnd(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tail", string(b))

	require.NoError(t, r.Close())
	assert.True(t, pool.Rents() > 2)
	assert.Equal(t, pool.Rents(), pool.Returns())
	assert.Equal(t, 0, pool.Outstanding())
	assert.Equal(t, 0, pool.Invalid())
}

func TestContextCanceled(t *testing.T) {
	r, _ := newChunksReader([]string{"a\n"})
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.LoadIntoBuffer(ctx)
	assert.Equal(t, context.Canceled, err)
	_, err = r.ReadLine(ctx)
	assert.Equal(t, context.Canceled, err)
	_, err = r.ReadToEnd(ctx)
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, context.Canceled, r.LoadIntoBufferAtLeast(ctx, 1))
}

func TestNoProgress(t *testing.T) {
	r := New(emptyReader{})
	defer r.Close()

	_, err := r.LoadIntoBuffer(context.Background())
	assert.Equal(t, io.ErrNoProgress, err)
}

func TestSyncRead(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := source.NewStringChunks("a\nb")
	r := New(src, WithSyncRead(true))
	defer r.Close()

	assert.Nil(t, r.ctxReader)
	line, err := r.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", string(line))

	r = New(source.NewStringChunks("a"))
	defer r.Close()
	assert.NotNil(t, r.ctxReader)
}

func BenchmarkReadLine(b *testing.B) {
	content := strings.Repeat("The quick brown fox jumps over the lazy dog\r\n", 4096)
	chunks := splitEvery(content, 4096)

	b.ReportAllocs()
	b.SetBytes(int64(len(content)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r := New(source.NewStringChunks(chunks...))
		for _, err := range r.ReadAllLines(context.Background()) {
			if err != nil {
				b.Fatal(err)
			}
		}
		r.Close()
	}
}
