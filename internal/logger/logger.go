package logger

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
)

// DevEnv is the environment name that switches logging to debug level
const DevEnv = "dev"

// Config holds logger configuration
type Config struct {
	Env string
}

// Properties are the structured fields attached to a log record
type Properties map[string]any

// Logger adapts (message, properties) calls onto a Backend that expects
// (properties, message). Missing properties are always sent as an empty map.
type Logger struct {
	backend Backend
	level   Level
}

// Option configures a Logger
type Option func(*Logger)

// WithBackend routes records to the given backend
func WithBackend(b Backend) Option {
	return func(l *Logger) {
		l.backend = b
	}
}

// WithZap routes records to an existing zap logger
func WithZap(z *zap.Logger) Option {
	return func(l *Logger) {
		l.backend = NewZapBackendFromLogger(z)
	}
}

// New creates a Logger. The level is debug when cfg.Env is "dev", else info.
// Without a backend option records go to a slog backend on stdout.
func New(cfg Config, opts ...Option) *Logger {
	l := &Logger{level: LevelFor(cfg.Env)}
	for _, opt := range opts {
		opt(l)
	}
	if l.backend == nil {
		l.backend = NewSlogBackend(os.Stdout, cfg.Env)
	}
	return l
}

// NewWithWriter creates a Logger backed by slog writing to w
func NewWithWriter(cfg Config, w io.Writer) *Logger {
	return New(cfg, WithBackend(NewSlogBackend(w, cfg.Env)))
}

// Level returns the minimum level this logger emits
func (l *Logger) Level() Level {
	return l.level
}

// Backend returns the underlying backend
func (l *Logger) Backend() Backend {
	return l.backend
}

// Info logs at info level
func (l *Logger) Info(msg string, props ...Properties) {
	l.log(LevelInfo, msg, merge(props))
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, props ...Properties) {
	l.log(LevelDebug, msg, merge(props))
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, props ...Properties) {
	l.log(LevelWarn, msg, merge(props))
}

// Error logs at error level. The error value is placed under the "error" key
// and overrides a property of the same name.
func (l *Logger) Error(msg string, ev ErrorValue, props ...Properties) {
	record := merge(props)
	if ev == nil {
		ev = Opaque{}
	}
	record["error"] = ev.errorField()
	l.log(LevelError, msg, record)
}

// Sync flushes backends that buffer output. Backends without buffering are a no-op.
func (l *Logger) Sync() error {
	if s, ok := l.backend.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}

func (l *Logger) log(level Level, msg string, props Properties) {
	if level < l.level {
		return
	}
	l.backend.Log(level, props, msg)
}

func merge(props []Properties) Properties {
	out := Properties{}
	for _, p := range props {
		for k, v := range p {
			out[k] = v
		}
	}
	return out
}

var std atomic.Pointer[Logger]

// Default returns the process-wide logger, creating an info-level one on first use
func Default() *Logger {
	if l := std.Load(); l != nil {
		return l
	}
	l := New(Config{})
	if std.CompareAndSwap(nil, l) {
		return l
	}
	return std.Load()
}

// SetDefault replaces the process-wide logger
func SetDefault(l *Logger) {
	std.Store(l)
}

// Init initializes and configures the application logger based on environment.
// backend selects "slog" (default) or "zap". The result becomes the default
// logger, and for the slog backend also the default slog.Logger.
func Init(cfg Config, backend string) (*Logger, error) {
	var l *Logger
	switch backend {
	case "zap":
		zb, err := NewZapBackend(cfg.Env)
		if err != nil {
			return nil, err
		}
		l = New(cfg, WithBackend(zb))
	default:
		sb := NewSlogBackend(os.Stdout, cfg.Env)
		slog.SetDefault(sb.Slog())
		l = New(cfg, WithBackend(sb))
	}

	SetDefault(l)
	return l, nil
}
