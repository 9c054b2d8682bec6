// internal/infra/logging/logging.go
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger.
// format "json" → production encoder, anything else → console.
func New(level, format string) (*zap.Logger, error) {
	return NewTo(os.Stderr, level, format)
}

// NewTo is New writing to w (serve tees stdout + a log file).
func NewTo(w io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var enc zapcore.Encoder
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		enc = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// ParseLevel accepts zap level names; "" is info.
func ParseLevel(level string) (zapcore.Level, error) {
	s := strings.ToLower(strings.TrimSpace(level))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: invalid level %q", level)
	}
	return lvl, nil
}

// TeeFile returns stdout plus the (best-effort) log file at path.
// The returned closer is a no-op when the file could not be opened.
func TeeFile(path string) (io.Writer, func() error, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return os.Stdout, func() error { return nil }, err
	}
	return io.MultiWriter(os.Stdout, f), f.Close, nil
}
