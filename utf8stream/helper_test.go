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
	"strings"
	"testing"

	"github.com/packetd/utf8stream/source"
)

func withMinBufferSize(t *testing.T, n int) {
	old := minBufferSize
	minBufferSize = n
	t.Cleanup(func() {
		minBufferSize = old
	})
}

func withMaxBufferLength(t *testing.T, n int) {
	old := maxBufferLength
	maxBufferLength = n
	t.Cleanup(func() {
		maxBufferLength = old
	})
}

// splitEvery 将 s 按 n 字节切分为多段
func splitEvery(s string, n int) []string {
	var chunks []string
	for len(s) > n {
		chunks = append(chunks, s[:n])
		s = s[n:]
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}
	return chunks
}

// splitLines 参照实现 \n 与 \r\n 均为行结束符 末尾不以换行结尾的数据也是一行
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, strings.TrimSuffix(s[:i], "\r"))
		s = s[i+1:]
	}
	return lines
}

func newChunksReader(chunks []string, opts ...Option) (*Reader, *source.Chunks) {
	src := source.NewStringChunks(chunks...)
	return New(src, opts...), src
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) {
	return 0, nil
}
