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

package common

import (
	"strings"

	"github.com/spf13/cast"
)

// Options 命令行 `--set key=value` 形式的覆盖项
//
// value 均以字符串形式传入 读取时按需转换类型
type Options map[string]any

func NewOptions() Options {
	return make(Options)
}

// ParseOptions 解析 key=value 列表 非法项会被忽略
func ParseOptions(kvs []string) Options {
	o := NewOptions()
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		o[k] = strings.TrimSpace(v)
	}
	return o
}

func (o Options) Has(k string) bool {
	_, ok := o[k]
	return ok
}

func (o Options) GetInt(k string) (int, error) {
	return cast.ToIntE(o[k])
}

func (o Options) GetBool(k string) (bool, error) {
	return cast.ToBoolE(o[k])
}

func (o Options) GetString(k string) (string, error) {
	return cast.ToStringE(o[k])
}

func (o Options) Merge(k string, v any) {
	o[k] = v
}
