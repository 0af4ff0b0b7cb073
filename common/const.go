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

const (
	// App 应用程序名称
	App = "utf8stream"

	// Version 应用程序版本
	Version = "v0.0.1"

	// MaxArrayLength 单块 buffer 允许增长到的最大长度
	//
	// 单行或者单个 block 超过此长度时 Reader 无法继续扩容
	MaxArrayLength = 0x7FFFFFC7

	// ReadWriteBlockSize 命令行输出时批量刷写的阈值
	ReadWriteBlockSize = 64 * 1024
)
