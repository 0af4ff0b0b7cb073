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

package rescue

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/utf8stream/common"
	"github.com/packetd/utf8stream/logger"
)

var panicTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "panic_total",
		Help:      "program causes panic total",
	},
)

var PanicHandlers = []func(any){
	incPanicCounter,
	logPanic,
}

func incPanicCounter(_ any) {
	panicTotal.Inc()
}

func logPanic(r any) {
	const size = 64 << 10
	stacktrace := make([]byte, size)
	stacktrace = stacktrace[:runtime.Stack(stacktrace, false)]
	logger.Errorf("Observed a panic: %v\n%s", r, stacktrace)
}

func handle(r any) {
	for _, fn := range PanicHandlers {
		fn(r)
	}
}

// HandleCrash 记录 panic 后恢复执行 需在 defer 中直接调用
func HandleCrash() {
	if r := recover(); r != nil {
		handle(r)
	}
}

// ToError 记录 panic 并将其转换为 *err 需在 defer 中直接调用
//
// 例如 Reader 关闭后调用 Try* 方法引发的 panic 会以 error 的形式返回给调用方
func ToError(err *error) {
	r := recover()
	if r == nil {
		return
	}
	handle(r)

	if e, ok := r.(error); ok {
		*err = errors.Wrap(e, "recovered")
		return
	}
	*err = errors.Errorf("recovered: %v", r)
}
