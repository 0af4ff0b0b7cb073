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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/utf8stream/common"
)

var rootCmd = &cobra.Command{
	Use:           common.App,
	Short:         "Read UTF-8 lines and blocks from files, pipes and sockets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		app.close()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Configuration file path")
	pf.StringSliceVar(&flags.sets, "set", nil, "Override configuration in 'section.key=value' format")
	pf.StringVar(&flags.logLevel, "log.level", "warn", "Logger level [debug|info|warn|error]")
	pf.StringVar(&flags.httpAddress, "http.address", "", "Serve /metrics and /buildinfo on this address")
	pf.IntVar(&flags.bufferSize, "buffer-size", 0, "Initial reader buffer size in bytes")
	pf.BoolVar(&flags.noSkipBOM, "no-skip-bom", false, "Keep a leading UTF-8 BOM")
	pf.BoolVar(&flags.syncRead, "sync", false, "Use plain blocking reads and ignore cancellation of in-flight reads")
	pf.StringVar(&flags.codec, "compression", "", "Input compression [none|snappy|zstd]")
	pf.StringVar(&flags.openMode, "open-mode", "", "File open mode [throughput|scalability]")
}

// Execute 命令行入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
