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

package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

// ParseLevel 解析日志级别 空字符串返回 info
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	if level, ok := levels[Level(s)]; ok {
		return level, nil
	}
	return zapcore.InfoLevel, errors.Errorf("logger: unknown level %q", s)
}

// Options 日志配置
//
// 标准输出被命令行用于输出数据 Console 模式下日志写入 stderr
type Options struct {
	Console    bool   `config:"console"`
	Level      string `config:"level"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // unit: MB
	MaxAge     int    `config:"maxAge"`  // unit: days
	MaxBackups int    `config:"maxBackups"`
}

type Logger struct {
	sugared *zap.SugaredLogger
}

func (l Logger) Debugf(template string, args ...any) {
	l.sugared.Debugf(template, args...)
}

func (l Logger) Infof(template string, args ...any) {
	l.sugared.Infof(template, args...)
}

func (l Logger) Warnf(template string, args ...any) {
	l.sugared.Warnf(template, args...)
}

func (l Logger) Errorf(template string, args ...any) {
	l.sugared.Errorf(template, args...)
}

func (l Logger) Sync() error {
	return l.sugared.Sync()
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func newWriter(opt Options) (zapcore.WriteSyncer, error) {
	if opt.Console || opt.Filename == "" {
		return zapcore.Lock(zapcore.AddSync(os.Stderr)), nil
	}

	if err := os.MkdirAll(filepath.Dir(opt.Filename), os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "logger: create log dir")
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   opt.Filename,
		MaxSize:    opt.MaxSize,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAge,
		LocalTime:  true,
	}), nil
}

// New 创建并返回标准 Logger 实例
func New(opt Options) (Logger, error) {
	level, err := ParseLevel(opt.Level)
	if err != nil {
		return Logger{}, err
	}
	w, err := newWriter(opt)
	if err != nil {
		return Logger{}, err
	}
	return newLogger(w, level), nil
}

// NewWriter 创建输出到 w 的 Logger 实例
func NewWriter(w io.Writer, level string) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return Logger{}, err
	}
	return newLogger(zapcore.AddSync(w), lvl), nil
}

func newLogger(w zapcore.WriteSyncer, level zapcore.Level) Logger {
	core := zapcore.NewCore(newEncoder(), w, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return Logger{
		sugared: logger.Sugar(),
	}
}

var std = newLogger(zapcore.Lock(zapcore.AddSync(os.Stderr)), zapcore.WarnLevel)

// SetOptions 设置全局 Logger 配置
func SetOptions(opt Options) error {
	l, err := New(opt)
	if err != nil {
		return err
	}
	std = l
	return nil
}

// SetLogger 替换全局 Logger
func SetLogger(l Logger) {
	std = l
}

func Debugf(template string, args ...any) {
	std.Debugf(template, args...)
}

func Infof(template string, args ...any) {
	std.Infof(template, args...)
}

func Warnf(template string, args ...any) {
	std.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	std.Errorf(template, args...)
}

// Sync 刷写全局 Logger 缓冲
func Sync() error {
	return std.Sync()
}
