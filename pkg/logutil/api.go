// Copyright 2022 GalenaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logutil

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	initOnce     sync.Once
	globalLogger atomic.Value
	skip1Logger  atomic.Value
)

// GetGlobalLogger returns the process logger, setting up a default
// console logger on first use if none was installed.
func GetGlobalLogger() *zap.Logger {
	initOnce.Do(func() {
		if globalLogger.Load() == nil {
			cfg := &LogConfig{}
			cfg.SetDefaultValues()
			SetLogger(initGalenaLogger(cfg))
		}
	})
	return globalLogger.Load().(*zap.Logger)
}

// SetLogger installs logger as the process logger.
func SetLogger(logger *zap.Logger) {
	globalLogger.Store(logger)
	skip1Logger.Store(logger.WithOptions(zap.AddCallerSkip(1)))
}

func getSkip1Logger() *zap.Logger {
	GetGlobalLogger()
	return skip1Logger.Load().(*zap.Logger)
}

func Debug(msg string, fields ...zap.Field) {
	getSkip1Logger().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	getSkip1Logger().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	getSkip1Logger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	getSkip1Logger().Error(msg, fields...)
}

func Panic(msg string, fields ...zap.Field) {
	getSkip1Logger().Panic(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	getSkip1Logger().Fatal(msg, fields...)
}

// Debugf only use in develop mode
func Debugf(msg string, args ...interface{}) {
	getSkip1Logger().Sugar().Debugf(msg, args...)
}

// Infof only use in develop mode
func Infof(msg string, args ...interface{}) {
	getSkip1Logger().Sugar().Infof(msg, args...)
}

// Warnf only use in develop mode
func Warnf(msg string, args ...interface{}) {
	getSkip1Logger().Sugar().Warnf(msg, args...)
}

// Errorf only use in develop mode
func Errorf(msg string, args ...interface{}) {
	getSkip1Logger().Sugar().Errorf(msg, args...)
}
