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

package utf8stream

import (
	"bytes"
)

// bom UTF-8 字节序标记
var bom = []byte{0xEF, 0xBB, 0xBF}

type scanState uint8

const (
	scanUnknown scanState = iota // 自上次消费后尚未扫描
	scanFound                    // newline/examined 有效
	scanAbsent                   // [begin, end) 内没有换行符 需要更多数据
)

// indexNewline 查找 b 中第一个行结束符
//
// idx 为行结束符起始位置 \r\n 时指向 \r
// lf 为 \n 所在位置 下一行从 lf+1 开始
// 未找到时 idx 为 -1 lf 为 len(b)-1
func indexNewline(b []byte) (idx int, lf int) {
	lf = bytes.IndexByte(b, '\n')
	if lf < 0 {
		return -1, len(b) - 1
	}
	idx = lf
	if lf > 0 && b[lf-1] == '\r' {
		idx--
	}
	return idx, lf
}

// nextSize buffer 扩容后的长度 不超过 maxBufferLength
func nextSize(n int) int {
	if n >= maxBufferLength/2 {
		return maxBufferLength
	}
	if n <= 0 {
		return minBufferSize
	}
	return n * 2
}
