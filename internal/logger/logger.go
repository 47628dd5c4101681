// Package logger provides structured logging with file rotation support.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// markField carries an explicit line mark that overrides the level mark.
const markField = "mark"

// sinkWriter is the single destination shared by every logger derived from
// the global one. Swapping its target redirects all of them at once.
type sinkWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	file   string
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *sinkWriter) set(w io.Writer, closer io.Closer, file string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		s.closer.Close()
	}
	s.w, s.closer, s.file = w, closer, file
}

// Config holds the logger configuration.
type Config struct {
	Level      string `json:"Level"`
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	MaxAgeDays int    `json:"MaxAgeDays"`
	Compress   bool   `json:"Compress"`
}

// DefaultConfig returns sensible defaults for logging.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		FilePath:   defaultLogPath(),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 30,
		Compress:   false,
	}
}

var (
	sink         = &sinkWriter{w: NewLineWriter(os.Stdout)}
	globalLogger = zerolog.New(sink).With().Timestamp().Logger()
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
}

// Init resolves the log sink. The file at cfg.FilePath is used when it can be
// opened; otherwise output goes to stdout and the open error is returned so
// the caller can report it. Either way the logger is usable afterwards.
func Init(cfg Config) error {
	SetLevel(cfg.Level)

	if cfg.FilePath == "" {
		sink.set(NewLineWriter(os.Stdout), nil, "")
		return nil
	}

	if err := probeFile(cfg.FilePath); err != nil {
		sink.set(NewLineWriter(os.Stdout), nil, "")
		return fmt.Errorf("unable to open log file %s: %w", cfg.FilePath, err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	sink.set(NewLineWriter(fileWriter), fileWriter, cfg.FilePath)
	return nil
}

// probeFile checks that path can be opened for appending.
func probeFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// UseConsole closes the log file, if one is open, and sends all further
// output to stdout.
func UseConsole() {
	sink.set(NewLineWriter(os.Stdout), nil, "")
}

// FilePath returns the path of the open log file, or "" when logging to the console.
func FilePath() string {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return sink.file
}

// Close releases the log file. Output falls back to stdout.
func Close() {
	UseConsole()
}

// SetLevel changes the global level. Unknown levels mean info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// Logger returns the global logger instance.
func Logger() *zerolog.Logger {
	return &globalLogger
}

// Debug logs a debug message.
func Debug() *zerolog.Event {
	return globalLogger.Debug()
}

// Info logs an info message.
func Info() *zerolog.Event {
	return globalLogger.Info()
}

// Warn logs a warning message.
func Warn() *zerolog.Event {
	return globalLogger.Warn()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return globalLogger.Error()
}

// WithComponent returns a logger with component field.
func WithComponent(component string) zerolog.Logger {
	return globalLogger.With().Str("component", component).Logger()
}

// Succeed marks an event from a component logger as a success line.
func Succeed(e *zerolog.Event) *zerolog.Event {
	return e.Str(markField, MarkSuccess)
}
