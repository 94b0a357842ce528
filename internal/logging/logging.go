// Package logging builds the session logger. The animation owns the
// terminal while it runs, so diagnostics go to a date-named file under the
// XDG state directory; with nothing enabled the logger is a no-op and no
// files are touched.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"heartrain/internal/config"
)

// Options selects the log sinks.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool

	// ToFile writes JSON logs to the session log file.
	ToFile bool

	// Console writes human-readable logs to stderr. Never enable this for
	// the animation; it would tear the TUI.
	Console bool

	// Dir overrides the log directory.
	Dir string
}

// New returns a logger and the session id stamped on every entry.
func New(opts Options) (*zap.Logger, string, error) {
	sessionID := uuid.NewString()

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core

	if opts.Console {
		encCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	if opts.ToFile {
		dir := opts.Dir
		if dir == "" {
			dir = config.LogDir()
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create log directory: %w", err)
		}

		// Date-named files keep rotation as simple as deleting old days.
		name := fmt.Sprintf("%s-%s.log", config.AppName, time.Now().Format("2006-01-02"))
		file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open log file: %w", err)
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.AddSync(file),
			level,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop(), sessionID, nil
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(zap.String("session_id", sessionID))
	return logger, sessionID, nil
}
