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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/utf8stream/internal/arraypool"
	"github.com/packetd/utf8stream/internal/segbuf"
)

func TestIncompleteSuffix(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{input: "", expected: 0},
		{input: "abc", expected: 0},
		{input: "a\xc3", expected: 1},
		{input: "a\xc3\xa9", expected: 0},
		{input: "\xe4\xb8", expected: 2},
		{input: "\xe4\xb8\x96", expected: 0},
		{input: "\xf0\x9f\x98", expected: 3},
		{input: "\xf0\x9f\x98\x80", expected: 0},
		{input: "a\xff", expected: 0},
		{input: "\x80\x80\x80", expected: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, incompleteSuffix([]byte(tt.input)), "input %q", tt.input)
	}
}

func TestFirstInvalid(t *testing.T) {
	assert.Equal(t, 3, firstInvalid([]byte("abc")))
	assert.Equal(t, 1, firstInvalid([]byte("a\xffc")))
	assert.Equal(t, 3, firstInvalid([]byte("世\x80")))
}

func TestDecoderSplitSequence(t *testing.T) {
	content := "a世😀b"
	for i := 0; i <= len(content); i++ {
		sb := segbuf.New[byte](arraypool.Bytes)
		var dec utf8Decoder
		require.NoError(t, dec.decode(sb, []byte(content[:i])))
		require.NoError(t, dec.decode(sb, []byte(content[i:])))
		require.NoError(t, dec.flush(sb))
		assert.Equal(t, content, string(sb.ToSlice()))
	}
}

func TestDecoderErrorOffset(t *testing.T) {
	sb := segbuf.New[byte](arraypool.Bytes)
	defer sb.Release()

	dec := utf8Decoder{stripBOM: true}
	require.NoError(t, dec.decode(sb, []byte("\xEF\xBB\xBFab")))
	err := dec.decode(sb, []byte("c\xff"))
	assert.True(t, errors.Is(err, ErrInvalidUTF8))
	assert.Contains(t, err.Error(), "offset 6")
}

func TestDecoderShortHead(t *testing.T) {
	sb := segbuf.New[byte](arraypool.Bytes)

	dec := utf8Decoder{stripBOM: true}
	require.NoError(t, dec.decode(sb, []byte("é")))
	require.NoError(t, dec.flush(sb))
	assert.Equal(t, "é", string(sb.ToSlice()))
}
