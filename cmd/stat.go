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

package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packetd/utf8stream/internal/sigs"
	"github.com/packetd/utf8stream/utf8stream"
)

type statCmdConfig struct {
	JSON      bool
	BlockSize int
}

var statConfig statCmdConfig

// fileStat 单个输入的统计信息
//
// 行模式下 Digest 为各行内容以 LF 连接后的 xxhash64 与原始换行风格无关
// 块模式下 Digest 为原始字节的 xxhash64
type fileStat struct {
	Name       string `json:"name"`
	Lines      int    `json:"lines,omitempty"`
	EmptyLines int    `json:"emptyLines,omitempty"`
	MaxLine    int    `json:"maxLineBytes,omitempty"`
	Runes      int64  `json:"runes,omitempty"`
	Blocks     int    `json:"blocks,omitempty"`
	Bytes      int64  `json:"bytes"`
	Digest     string `json:"xxhash64"`
}

func (s fileStat) String() string {
	if s.Blocks > 0 {
		return fmt.Sprintf("%s\tblocks=%d bytes=%d xxhash64=%s", s.Name, s.Blocks, s.Bytes, s.Digest)
	}
	return fmt.Sprintf("%s\tlines=%d empty=%d maxLineBytes=%d runes=%d bytes=%d xxhash64=%s",
		s.Name, s.Lines, s.EmptyLines, s.MaxLine, s.Runes, s.Bytes, s.Digest)
}

func formatDigest(h *xxhash.Digest) string {
	return strconv.FormatUint(h.Sum64(), 16)
}

var lf = []byte{'\n'}

func statLines(ctx context.Context, name string, r *utf8stream.Reader) (fileStat, error) {
	s := fileStat{Name: name}
	h := xxhash.New()
	for line, err := range r.ReadAllLines(ctx) {
		if err != nil {
			return s, err
		}
		if s.Lines > 0 {
			_, _ = h.Write(lf)
		}
		_, _ = h.Write(line)

		s.Lines++
		s.Bytes += int64(len(line))
		s.Runes += int64(utf8.RuneCount(line))
		if len(line) == 0 {
			s.EmptyLines++
		}
		if len(line) > s.MaxLine {
			s.MaxLine = len(line)
		}
	}
	s.Digest = formatDigest(h)
	return s, nil
}

func statBlocks(ctx context.Context, name string, r *utf8stream.Reader, size int) (fileStat, error) {
	if size <= 0 {
		return fileStat{}, errors.Errorf("invalid block size %d", size)
	}

	s := fileStat{Name: name}
	h := xxhash.New()
	for {
		block, err := r.ReadBlock(ctx, size)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return s, err
		}
		_, _ = h.Write(block)
		s.Blocks++
		s.Bytes += int64(len(block))
	}

	rest, err := r.ReadToEnd(ctx)
	if err != nil {
		return s, err
	}
	if len(rest) > 0 {
		_, _ = h.Write(rest)
		s.Blocks++
		s.Bytes += int64(len(rest))
	}
	s.Digest = formatDigest(h)
	return s, nil
}

var statCmd = &cobra.Command{
	Use:   "stat [file...]",
	Short: "Count lines or fixed-size blocks and digest the content of each input",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := sigs.WithTerminate(cmd.Context())
		defer cancel()

		w := cmd.OutOrStdout()
		enc := json.NewEncoder(w)
		return forEachInput(ctx, args, func(name string, src io.Reader) error {
			r := utf8stream.New(src, app.readerOptions()...)
			defer r.Close()

			var s fileStat
			var err error
			if statConfig.BlockSize > 0 {
				s, err = statBlocks(ctx, name, r, statConfig.BlockSize)
			} else {
				s, err = statLines(ctx, name, r)
			}
			if err != nil {
				return err
			}

			if statConfig.JSON {
				return enc.Encode(s)
			}
			_, err = fmt.Fprintln(w, s.String())
			return err
		})
	},
	Example: "# utf8stream stat --json --block-size 4096 a.txt b.txt",
}

func init() {
	statCmd.Flags().BoolVar(&statConfig.JSON, "json", false, "Print one JSON object per input")
	statCmd.Flags().IntVar(&statConfig.BlockSize, "block-size", 0, "Read fixed-size blocks instead of lines")
	rootCmd.AddCommand(statCmd)
}
