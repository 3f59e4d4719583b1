// Package log builds the zap loggers used by the command line shells.
//
// Library packages take a *zap.Logger and default to a no-op logger, so
// nothing is written unless a shell passes one in.
package log

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv enables debug output when set to 1 or true.
const DebugEnv = "VSUPLOAD_DEBUG"

// New returns a console logger writing to w. Debug level is enabled when
// debug is true or DebugEnv is set.
func New(w io.Writer, debug bool) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	level := zapcore.InfoLevel
	if debug || debugFromEnv() {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// NewStderr is New(os.Stderr, debug).
func NewStderr(debug bool) *zap.Logger {
	return New(os.Stderr, debug)
}

func debugFromEnv() bool {
	v := strings.TrimSpace(os.Getenv(DebugEnv))
	return v == "1" || strings.EqualFold(v, "true")
}
