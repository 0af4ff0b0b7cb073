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

package source

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// OpenMode 文件打开策略
type OpenMode uint8

const (
	// Throughput 面向吞吐 提示内核按顺序预读
	Throughput OpenMode = iota

	// Scalability 面向并发 不做任何预读提示
	Scalability
)

func (m OpenMode) String() string {
	switch m {
	case Throughput:
		return "throughput"
	case Scalability:
		return "scalability"
	}
	return "unknown"
}

// ParseOpenMode 解析字符串形式的 OpenMode 空字符串返回 Throughput
func ParseOpenMode(s string) (OpenMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "throughput":
		return Throughput, nil
	case "scalability":
		return Scalability, nil
	}
	return Throughput, errors.Errorf("source: unknown open mode %q", s)
}

// Open 以只读方式打开 path
//
// 预读提示失败不会影响文件打开 仅是少了一次优化
func Open(path string, mode OpenMode) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if mode == Throughput {
		_ = adviseSequential(f)
	}
	return f, nil
}
