// Package logging provides structured logging for the bridge using zap.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Notifier is a sink for host-facing diagnostic messages. It must never fail
// the call being logged.
type Notifier interface {
	Notify(msg string)
}

// Build creates a zap.Logger with JSON output to a rotated file plus any
// extra sinks. The log file is rotated at 10MB with 5 backups kept for 30
// days. Extra sinks receive warn-and-above console lines; the host callback
// sink is attached this way.
func Build(level, file string, extras ...zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}

	// File writer with rotation
	fileWriter := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(fileWriter),
			lvl,
		),
	}

	consoleCfg := zap.NewProductionEncoderConfig()
	consoleCfg.TimeKey = ""
	for _, sink := range extras {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			sink,
			zapcore.WarnLevel,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return logger, nil
}

// NotifySyncer adapts a Notifier into a WriteSyncer so warnings reach the
// host's reporting callback through the normal logger.
func NotifySyncer(n Notifier) zapcore.WriteSyncer {
	return notifySyncer{n: n}
}

type notifySyncer struct {
	n Notifier
}

func (s notifySyncer) Write(p []byte) (int, error) {
	s.n.Notify(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (s notifySyncer) Sync() error { return nil }
