// Package logging builds the panel's zap logger: a console core, plus a
// rotating file core when a log file is configured.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a sugared logger at the given level. An unparseable level
// falls back to info. When file is non-empty the logger tees into a
// size-rotated file alongside stdout.
func New(level, file string) *zap.SugaredLogger {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(parsed)

	encoder := zapcore.NewConsoleEncoder(encoderConfig())

	consoleCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), atomicLevel)
	core := consoleCore

	if file != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    100, // MB
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		})
		fileCore := zapcore.NewCore(encoder, fileWriter, atomicLevel)
		core = zapcore.NewTee(fileCore, consoleCore)
	}

	return zap.New(core, zap.AddCaller()).Sugar()
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
	}
}
