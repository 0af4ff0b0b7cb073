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

type catCmdConfig struct {
	Text bool
	All  bool
}

var catConfig catCmdConfig

var catCmd = &cobra.Command{
	Use:   "cat [file...]",
	Short: "Copy inputs to stdout after decompression",
	Long: "Copy inputs to stdout after decompression.\n" +
		"By default the content is streamed chunk by chunk as it is read. " +
		"With --all each input is loaded into memory first, and with --text it is also validated as UTF-8.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := sigs.WithTerminate(cmd.Context())
		defer cancel()

		out := newBatchWriter(cmd.OutOrStdout())
		err := forEachInput(ctx, args, func(_ string, src io.Reader) error {
			r := utf8stream.New(src, app.readerOptions()...)
			switch {
			case catConfig.Text:
				return catText(ctx, r.AsText(app.reader.TextOptions()...), out)
			case catConfig.All:
				return catAll(ctx, r, out)
			}
			return catChunks(ctx, r, out)
		})
		if cerr := out.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
		return err
	},
	Example: "# utf8stream cat --compression snappy --text data.sz",
}

func catChunks(ctx context.Context, r *utf8stream.Reader, w io.Writer) error {
	defer r.Close()

	for chunk, err := range r.ReadToEndChunks(ctx) {
		if err != nil {
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

func catAll(ctx context.Context, r *utf8stream.Reader, w io.Writer) error {
	defer r.Close()

	b, err := r.ReadToEnd(ctx)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func catText(ctx context.Context, r *utf8stream.TextReader, w io.Writer) error {
	defer r.Close()

	s, err := r.ReadToEnd(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func init() {
	catCmd.Flags().BoolVar(&catConfig.Text, "text", false, "Validate the content as UTF-8 and strip a leading BOM")
	catCmd.Flags().BoolVar(&catConfig.All, "all", false, "Load each input into memory before writing it")
	rootCmd.AddCommand(catCmd)
}
