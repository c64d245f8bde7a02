package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Provides the logger interface used across the application

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(msg string, args ...any) { l.s.Debugf(msg, args...) }
func (l zapLogger) Info(msg string, args ...any)  { l.s.Infof(msg, args...) }
func (l zapLogger) Warn(msg string, args ...any)  { l.s.Warnf(msg, args...) }
func (l zapLogger) Error(msg string, args ...any) { l.s.Errorf(msg, args...) }

// New builds a logger writing timestamped lines to stderr and, when
// logFile is non-empty, appending the same lines to that file. The
// returned func flushes buffered entries and must be called before exit.
func New(logFile string, level string) (Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	cfg.OutputPaths = []string{"stderr"}
	if logFile != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, logFile)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return zapLogger{s: logger.Sugar()}, func() { _ = logger.Sync() }, nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return zapLogger{s: zap.NewNop().Sugar()}
}
