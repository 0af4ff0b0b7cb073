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

package resp

import (
	"strconv"

	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "resp: " + format
	return errors.Errorf(format, args...)
}

var (
	errInvalidType   = newError("invalid type prefix")
	errInvalidLength = newError("invalid length")
	errBulkTerminate = newError("BulkStrings not terminated by CRLF")
	errEmptyLine     = newError("empty line")
	errTooDeep       = newError("array nested too deep")
)

// maxDepth Array 最大嵌套层数
const maxDepth = 64

// DataType 定义 RESP 多种数据类型 取值为类型首字节
type DataType byte

const (
	// SimpleStrings RESP 单行字符串
	//
	// "+OK\r\n"
	SimpleStrings DataType = '+'

	// Errors RESP 错误
	//
	// "-Error message\r\n"
	Errors DataType = '-'

	// Integers RESP 整数
	//
	// ":1000\r\n"
	Integers DataType = ':'

	// BulkStrings
	//
	// "$6\r\nfoobar\r\n"
	BulkStrings DataType = '$'

	// Array RESP 数组
	//
	// "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"
	Array DataType = '*'
)

func (t DataType) String() string {
	switch t {
	case SimpleStrings:
		return "SimpleStrings"
	case Errors:
		return "Errors"
	case Integers:
		return "Integers"
	case BulkStrings:
		return "BulkStrings"
	case Array:
		return "Array"
	}
	return "Unknown(" + strconv.Itoa(int(t)) + ")"
}

func (t DataType) valid() bool {
	switch t {
	case SimpleStrings, Errors, Integers, BulkStrings, Array:
		return true
	}
	return false
}

// Value 完整解析后的 RESP 数据
//
// Null 表示 "$-1\r\n" 或者 "*-1\r\n"
type Value struct {
	Type  DataType
	Str   string
	Int   int64
	Bulk  []byte
	Array []Value
	Null  bool
}

// parseInt 解析长度或者整数 行内容不包含类型首字节
func parseInt(b []byte) (int64, error) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errInvalidLength, "parse %q", b)
	}
	return n, nil
}

// parseLength 解析 BulkStrings / Array 的长度 -1 表示 Null
func parseLength(b []byte) (int, error) {
	n, err := parseInt(b)
	if err != nil {
		return 0, err
	}
	if n < -1 || n > int64(maxBulkLength) {
		return 0, errors.Wrapf(errInvalidLength, "length %d", n)
	}
	return int(n), nil
}
