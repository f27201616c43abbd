// Package logging builds the zap logger shared by a conversion run.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps normal runs quiet apart from the confirmation lines.
const DefaultLevel = "warn"

// ParseLevel accepts debug, info, warn and error (case-insensitive).
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		s = DefaultLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q (want debug|info|warn|error)", s)
	}
	switch lvl {
	case zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel:
		return lvl, nil
	}
	return lvl, fmt.Errorf("invalid log level %q (want debug|info|warn|error)", s)
}

// New returns a console logger writing to w. Every entry carries a run id.
func New(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).With(zap.String("run", uuid.NewString())), nil
}
