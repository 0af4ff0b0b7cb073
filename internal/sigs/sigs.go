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

package sigs

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var terminateSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// WithTerminate 返回收到终止信号后被取消的 context
//
// 正在进行的读取通过 context 感知到取消 命令行借此在 Ctrl-C 时及时退出
func WithTerminate(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, terminateSignals...)
}
