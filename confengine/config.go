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

package confengine

import (
	"fmt"
	"sort"

	"github.com/elastic/go-ucfg"
	"github.com/elastic/go-ucfg/yaml"
	"github.com/pkg/errors"

	"github.com/packetd/utf8stream/common"
)

var pathSep = ucfg.PathSep(".")

// Config 是对 ucfg.Config 的封装 并提供一些简便的操作函数
type Config struct {
	conf *ucfg.Config
}

func New(conf *ucfg.Config) *Config {
	return &Config{conf: conf}
}

// Empty 返回空配置 所有 section 均取默认值
func Empty() *Config {
	return New(ucfg.New())
}

func (c *Config) Has(s string) bool {
	ok, err := c.conf.Has(s, -1, pathSep)
	if err != nil {
		return false
	}
	return ok
}

func (c *Config) Child(s string) (*Config, error) {
	content, err := c.conf.Child(s, -1, pathSep)
	if err != nil {
		return nil, err
	}
	return &Config{conf: content}, nil
}

func (c *Config) Unpack(to any) error {
	return c.conf.Unpack(to)
}

func (c *Config) Enabled(s string) bool {
	ok, err := c.conf.Bool(fmt.Sprintf("%s.enabled", s), -1, pathSep)
	if err != nil {
		return false
	}
	return ok
}

// UnpackChild 解析 section s 到 to section 不存在时保持 to 原有的值
func (c *Config) UnpackChild(s string, to any) error {
	if !c.Has(s) {
		return nil
	}
	content, err := c.conf.Child(s, -1, pathSep)
	if err != nil {
		return err
	}
	return content.Unpack(to)
}

// MergeOptions 合并 `--set section.key=value` 形式的覆盖项
//
// value 按 YAML 标量解析 "4096" 为整数 "false" 为布尔值
func (c *Config) MergeOptions(opts common.Options) error {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		other, err := yaml.NewConfig([]byte(fmt.Sprintf("%s: %v", k, opts[k])), pathSep)
		if err != nil {
			return errors.Wrapf(err, "confengine: parse option %q", k)
		}
		if err := c.conf.Merge(other, pathSep); err != nil {
			return errors.Wrapf(err, "confengine: merge option %q", k)
		}
	}
	return nil
}

func LoadConfigPath(path string) (*Config, error) {
	config, err := yaml.NewConfigWithFile(path, pathSep)
	if err != nil {
		return nil, err
	}
	return New(config), nil
}

func LoadContent(b []byte) (*Config, error) {
	config, err := yaml.NewConfig(b, pathSep)
	if err != nil {
		return nil, err
	}
	return New(config), nil
}
