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
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/packetd/utf8stream/common"
	"github.com/packetd/utf8stream/confengine"
	"github.com/packetd/utf8stream/internal/rescue"
	"github.com/packetd/utf8stream/logger"
	"github.com/packetd/utf8stream/server"
	"github.com/packetd/utf8stream/source"
	"github.com/packetd/utf8stream/utf8stream"
)

type globalFlags struct {
	configPath  string
	sets        []string
	logLevel    string
	httpAddress string
	bufferSize  int
	noSkipBOM   bool
	syncRead    bool
	codec       string
	openMode    string
}

var flags globalFlags

type textConfig struct {
	BufferSize int `config:"bufferSize"`
}

// appConfig 所有子命令共享的运行时配置
//
// 优先级 命令行参数 > --set > 配置文件 > 默认值
type appConfig struct {
	reader utf8stream.Config
	codec  source.Codec
	mode   source.OpenMode
	server *server.Server
}

var app appConfig

func loadConfig(cmd *cobra.Command) (*confengine.Config, error) {
	conf := confengine.Empty()
	if flags.configPath != "" {
		var err error
		if conf, err = confengine.LoadConfigPath(flags.configPath); err != nil {
			return nil, err
		}
	}
	if err := conf.MergeOptions(common.ParseOptions(flags.sets)); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("http.address") {
		opts := common.NewOptions()
		opts.Merge("server.enabled", true)
		opts.Merge("server.address", strconv.Quote(flags.httpAddress))
		if err := conf.MergeOptions(opts); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

func readerOverrides(cmd *cobra.Command) common.Options {
	opts := common.NewOptions()
	if cmd.Flags().Changed("buffer-size") {
		opts.Merge("bufferSize", flags.bufferSize)
	}
	if cmd.Flags().Changed("no-skip-bom") {
		opts.Merge("skipBOM", !flags.noSkipBOM)
	}
	if cmd.Flags().Changed("sync") {
		opts.Merge("syncRead", flags.syncRead)
	}
	if cmd.Flags().Changed("compression") {
		opts.Merge("codec", flags.codec)
	}
	if cmd.Flags().Changed("open-mode") {
		opts.Merge("openMode", flags.openMode)
	}
	return opts
}

func (a *appConfig) load(cmd *cobra.Command) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logOpts := logger.Options{Console: true, Level: "warn"}
	if err := conf.UnpackChild("logger", &logOpts); err != nil {
		return err
	}
	if cmd.Flags().Changed("log.level") {
		logOpts.Level = flags.logLevel
	}
	if err := logger.SetOptions(logOpts); err != nil {
		return err
	}

	a.reader = utf8stream.DefaultConfig()
	if err := conf.UnpackChild("reader", &a.reader); err != nil {
		return err
	}
	text := textConfig{BufferSize: a.reader.TextBufferSize}
	if err := conf.UnpackChild("text", &text); err != nil {
		return err
	}
	a.reader.TextBufferSize = text.BufferSize
	if err := a.reader.Apply(readerOverrides(cmd)); err != nil {
		return err
	}

	if a.codec, err = source.ParseCodec(a.reader.Codec); err != nil {
		return err
	}
	if a.mode, err = source.ParseOpenMode(a.reader.OpenMode); err != nil {
		return err
	}
	logger.Debugf("reader config: %+v", a.reader)

	if a.server, err = server.New(conf); err != nil {
		return err
	}
	if a.server != nil {
		go func() {
			defer rescue.HandleCrash()
			if err := a.server.ListenAndServe(); err != nil {
				logger.Errorf("server exited: %v", err)
			}
		}()
	}
	return nil
}

func (a *appConfig) close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Warnf("server shutdown: %v", err)
		}
		a.server = nil
	}
	_ = logger.Sync()
}

func (a *appConfig) readerOptions() []utf8stream.Option {
	return append(a.reader.Options(), utf8stream.WithLeaveOpen(true))
}
