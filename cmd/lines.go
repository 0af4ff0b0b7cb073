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
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/packetd/utf8stream/internal/sigs"
	"github.com/packetd/utf8stream/utf8stream"
)

type linesCmdConfig struct {
	Number bool
	Text   bool
}

var linesConfig linesCmdConfig

var linesCmd = &cobra.Command{
	Use:   "lines [file...]",
	Short: "Print input lines with LF and CRLF terminators normalized to LF",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := sigs.WithTerminate(cmd.Context())
		defer cancel()

		out := newBatchWriter(cmd.OutOrStdout())
		err := forEachInput(ctx, args, func(_ string, src io.Reader) error {
			r := utf8stream.New(src, app.readerOptions()...)
			if linesConfig.Text {
				return printTextLines(ctx, r.AsText(app.reader.TextOptions()...), out)
			}
			return printLines(ctx, r, out)
		})
		if cerr := out.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
		return err
	},
	Example: "# utf8stream lines -n --compression zstd access.log.zst",
}

func lineno(n int) int {
	if linesConfig.Number {
		return n
	}
	return 0
}

func printLines(ctx context.Context, r *utf8stream.Reader, out *batchWriter) error {
	defer r.Close()

	n := 0
	for line, err := range r.ReadAllLines(ctx) {
		if err != nil {
			return err
		}
		n++
		if err := out.writeLine(lineno(n), line); err != nil {
			return err
		}
	}
	return nil
}

func printTextLines(ctx context.Context, r *utf8stream.TextReader, out *batchWriter) error {
	defer r.Close()

	n := 0
	for line, err := range r.ReadAllLines(ctx) {
		if err != nil {
			return err
		}
		n++
		if err := out.writeRunes(lineno(n), line); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	linesCmd.Flags().BoolVarP(&linesConfig.Number, "number", "n", false, "Prefix each line with its line number")
	linesCmd.Flags().BoolVar(&linesConfig.Text, "text", false, "Decode lines as UTF-8 text and replace invalid bytes with U+FFFD")
	rootCmd.AddCommand(linesCmd)
}
