// internal/logger/logger.go
//
// Structured JSON logger (Zap + Lumberjack).
//
// Context
// -------
// objview writes lifecycle, resolve, and binding events to one JSON log per
// day under `<root>/logs/YYYY-MM-DD.log`.  When running in an interactive
// TTY the same events are teed, human-readable, to stdout.  Rotation,
// compression, and retention are handled by Lumberjack.
//
// Usage
// -----
//
//	log, err := logger.New(cfg.Paths.Root, logger.Options{Tee: isTTY()})
//	if err != nil { … }
//	log.Infow("content store online", "paths", n)
//
// Notes
// -----
// • Zap core uses ISO-8601 timestamps and lowercase levels.
// • Errors are written to the same sink via `ErrorOutput`.
// • The define-objects binder logs one DEBUG line per render, so Level is
//   usually Info in production.
// • Oxford commas, two spaces after periods.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options tune New.  The zero value logs at Info without a console tee.
type Options struct {
	Level string // debug, info, warn, error; empty means info
	Tee   bool
}

// New returns a *zap.SugaredLogger that writes JSON to logs/YYYY-MM-DD.log.
// The logger is installed as the process-wide default via
// zap.ReplaceGlobals.
func New(rootDir string, opts Options) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.Set(opts.Level); err != nil {
			return nil, fmt.Errorf("logger level %q: %w", opts.Level, err)
		}
	}

	logDir := filepath.Join(rootDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	fileSink := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName(time.Now())),
		MaxSize:    50, // MB
		MaxBackups: 7,
		MaxAge:     14, // days
		Compress:   true,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), level),
	}
	if opts.Tee {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			level,
		))
	}

	z := zap.New(
		zapcore.NewTee(cores...),
		zap.ErrorOutput(zapcore.AddSync(fileSink)),
	).Sugar()

	// Make this the global logger so zap.L() works everywhere after startup.
	zap.ReplaceGlobals(z.Desugar())

	z.Infow("logger online", "tee", opts.Tee, "level", level.String())
	return z, nil
}

// FileName is the daily log file name for t.
func FileName(t time.Time) string { return t.Format("2006-01-02") + ".log" }
