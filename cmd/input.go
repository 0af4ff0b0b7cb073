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
	"net"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/internal/rescue"
	"github.com/packetd/utf8stream/logger"
	"github.com/packetd/utf8stream/source"
)

const (
	stdinPath = "-"
	tcpScheme = "tcp://"
)

// openSource 打开输入 "-" 为标准输入 "tcp://host:port" 为 TCP 连接 其余为文件路径
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	var rc io.ReadCloser
	switch {
	case path == stdinPath:
		rc = io.NopCloser(os.Stdin)

	case strings.HasPrefix(path, tcpScheme):
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", strings.TrimPrefix(path, tcpScheme))
		if err != nil {
			return nil, err
		}
		rc = source.NewConn(conn)

	default:
		f, err := source.Open(path, app.mode)
		if err != nil {
			return nil, err
		}
		rc = f
	}

	if app.codec == source.CodecNone {
		return rc, nil
	}
	dec, err := source.Decompress(rc, app.codec)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return dec, nil
}

// forEachInput 依次处理每个输入 单个输入失败不影响后续输入 最终汇总所有错误
func forEachInput(ctx context.Context, paths []string, fn func(name string, src io.Reader) error) error {
	if len(paths) == 0 {
		paths = []string{stdinPath}
	}

	var errs *multierror.Error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		if err := processInput(ctx, path, fn); err != nil {
			logger.Warnf("process input %s failed: %v", path, err)
			errs = multierror.Append(errs, errors.Wrapf(err, "input %s", path))
		}
	}
	return errs.ErrorOrNil()
}

func processInput(ctx context.Context, path string, fn func(name string, src io.Reader) error) (err error) {
	defer rescue.ToError(&err)

	src, err := openSource(ctx, path)
	if err != nil {
		return err
	}
	logger.Debugf("open input %s", path)

	err = fn(path, src)
	if cerr := src.Close(); cerr != nil {
		err = multierror.Append(err, cerr).ErrorOrNil()
	}
	return err
}
