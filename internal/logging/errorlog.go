package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultErrorLogFile is the error log name used when none is configured.
const DefaultErrorLogFile = "erros_agrorganica.log"

// errorTimeLayout is the timestamp inside the brackets of each line.
const errorTimeLayout = "2006-01-02 15:04:05"

// ErrorLog appends one line per failure to a file, in the form
//
//	[YYYY-MM-DD HH:MM:SS] ERRO: <message>
//
// and shows a short notice on the console.
type ErrorLog struct {
	logger  *zap.Logger
	console io.Writer
	closer  io.Closer
}

// OpenErrorLog opens (or creates) the error log at path in append mode.
// When the file cannot be opened the returned log still echoes to the
// console and the open error is returned alongside it.
func OpenErrorLog(path string, console io.Writer) (*ErrorLog, error) {
	if path == "" {
		path = DefaultErrorLogFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return NewErrorLog(nil, console), fmt.Errorf("creating error log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return NewErrorLog(nil, console), fmt.Errorf("opening error log: %w", err)
	}
	l := NewErrorLog(f, console)
	l.closer = f
	return l, nil
}

// NewErrorLog writes log lines to w (discarded when nil) and notices to
// console (discarded when nil).
func NewErrorLog(w io.Writer, console io.Writer) *ErrorLog {
	if console == nil {
		console = io.Discard
	}
	if w == nil {
		return &ErrorLog{logger: zap.NewNop(), console: console}
	}
	core := zapcore.NewCore(newErrorEncoder(), zapcore.AddSync(w), zapcore.ErrorLevel)
	return &ErrorLog{logger: zap.New(core), console: console}
}

// newErrorEncoder renders "[time] ERRO: message" and nothing else.
func newErrorEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.Format(errorTimeLayout) + "]")
		},
		EncodeLevel: func(_ zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("ERRO:")
		},
	})
}

// Record writes msg to the log file and prints it framed on the console.
func (l *ErrorLog) Record(msg string) {
	l.logger.Error(msg)
	fmt.Fprintln(l.console, "\n========== ERRO ==========")
	fmt.Fprintln(l.console, msg)
	fmt.Fprintln(l.console, "==========================")
}

// Recordf formats and records a message.
func (l *ErrorLog) Recordf(format string, args ...any) {
	l.Record(fmt.Sprintf(format, args...))
}

// Close flushes and closes the log file.
func (l *ErrorLog) Close() error {
	_ = l.logger.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
