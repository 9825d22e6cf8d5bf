// Package logging builds the diagnostic logger used across stagger.
//
// Diagnostics are structured JSON lines on stderr. They never share a stream
// with the failure lines and report printed on stdout.
package logging

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps a normal run quiet on stderr.
const DefaultLevel = "warn"

// New returns a zap logger that writes JSON lines at or above level to w.
func New(level string, w io.Writer) (*zap.Logger, error) {
	if w == nil {
		w = io.Discard
	}
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultLevel
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.AddSync(w),
		lvl,
	)
	return zap.New(core), nil
}
