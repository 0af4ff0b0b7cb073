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

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/packetd/utf8stream/internal/sigs"
	"github.com/packetd/utf8stream/resp"
)

type respCmdConfig struct {
	JSON bool
}

var respConfig respCmdConfig

// respJSON 将 resp.Value 转换为便于 JSON 输出的结构
//
// BulkStrings 以字符串输出 Errors 输出为 {"error": msg} Null 输出为 null
func respJSON(v resp.Value) any {
	switch v.Type {
	case resp.SimpleStrings:
		return v.Str
	case resp.Errors:
		return map[string]string{"error": v.Str}
	case resp.Integers:
		return v.Int
	case resp.BulkStrings:
		if v.Null {
			return nil
		}
		return string(v.Bulk)
	case resp.Array:
		if v.Null {
			return nil
		}
		items := make([]any, 0, len(v.Array))
		for _, item := range v.Array {
			items = append(items, respJSON(item))
		}
		return items
	}
	return nil
}

func printRespEvents(ctx context.Context, src io.Reader, w io.Writer) error {
	printer := resp.NewPrinter(w)
	p := resp.NewParser(src, printer, app.readerOptions()...)
	defer p.Close()

	if err := p.Run(ctx); err != nil {
		return err
	}
	return printer.Err()
}

func printRespValues(ctx context.Context, src io.Reader, w io.Writer) error {
	r := resp.NewReader(src, app.readerOptions()...)
	defer r.Close()

	enc := json.NewEncoder(w)
	for v, err := range r.Values(ctx) {
		if err != nil {
			return err
		}
		if err := enc.Encode(respJSON(v)); err != nil {
			return err
		}
	}
	return nil
}

var respCmd = &cobra.Command{
	Use:   "resp [file|tcp://host:port...]",
	Short: "Decode a RESP (Redis serialization protocol) stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := sigs.WithTerminate(cmd.Context())
		defer cancel()

		out := newBatchWriter(cmd.OutOrStdout())
		err := forEachInput(ctx, args, func(_ string, src io.Reader) error {
			if respConfig.JSON {
				return printRespValues(ctx, src, out)
			}
			return printRespEvents(ctx, src, out)
		})
		if cerr := out.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
		return err
	},
	Example: "# utf8stream resp --json dump.resp",
}

func init() {
	respCmd.Flags().BoolVar(&respConfig.JSON, "json", false, "Print one JSON value per top-level RESP value")
	rootCmd.AddCommand(respCmd)
}
