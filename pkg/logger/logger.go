package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var InfoLogger, FatalLogger *zap.Logger = zap.NewNop(), zap.NewNop()

var (
	serviceName = "default"
	runID       = ""
)

// Init создаёт production-логгеры с нужным уровнем (debug|info|warn|error).
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	InfoLogger, FatalLogger = l, l
	return nil
}

func Sync() {
	_ = InfoLogger.Sync()
}

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// SetRunID: id текущего прогона, пишется в каждую строку лога.
func SetRunID(id string) string {
	old := runID
	runID = id

	return old
}

func fields() []zap.Field {
	fs := []zap.Field{zap.String("service", serviceName)}
	if runID != "" {
		fs = append(fs, zap.String("run_id", runID))
	}
	return fs
}

func Debug(format string, args ...interface{}) {
	InfoLogger.With(fields()...).Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	if InfoLogger == nil {
		panic("InfoLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	InfoLogger.With(fields()...).Info(msg)
}

func Warn(format string, args ...interface{}) {
	InfoLogger.With(fields()...).Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	if InfoLogger == nil {
		panic("InfoLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	InfoLogger.With(fields()...).Error(msg)
}

func Fatal(format string, args ...interface{}) {
	if FatalLogger == nil {
		panic("FatalLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	FatalLogger.With(fields()...).Fatal(msg)
}
