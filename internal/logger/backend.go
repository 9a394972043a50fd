package logger

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"go.uber.org/zap"
)

// Backend is the underlying structured logger. It receives the properties
// object first and the message second.
type Backend interface {
	Log(level Level, props Properties, msg string)
}

// BackendFunc adapts a function to Backend
type BackendFunc func(level Level, props Properties, msg string)

// Log calls f
func (f BackendFunc) Log(level Level, props Properties, msg string) {
	f(level, props, msg)
}

// SlogBackend writes records through log/slog
type SlogBackend struct {
	log *slog.Logger
}

// NewSlogBackend builds a slog backend. In the dev environment it uses a text
// handler with source locations, otherwise a JSON handler.
func NewSlogBackend(w io.Writer, env string) *SlogBackend {
	opts := &slog.HandlerOptions{
		Level: LevelFor(env).slog(),
	}

	var handler slog.Handler
	if env == DevEnv {
		opts.AddSource = true
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &SlogBackend{log: slog.New(handler)}
}

// Slog returns the wrapped slog.Logger
func (b *SlogBackend) Slog() *slog.Logger {
	return b.log
}

// Log implements Backend
func (b *SlogBackend) Log(level Level, props Properties, msg string) {
	attrs := make([]slog.Attr, 0, len(props))
	for _, k := range sortedKeys(props) {
		attrs = append(attrs, slog.Any(k, props[k]))
	}
	b.log.LogAttrs(context.Background(), level.slog(), msg, attrs...)
}

// ZapBackend writes records through go.uber.org/zap
type ZapBackend struct {
	log *zap.Logger
}

// NewZapBackend builds a zap production logger at the level for env
func NewZapBackend(env string, opts ...zap.Option) (*ZapBackend, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(LevelFor(env).zap())
	if env == DevEnv {
		config.Development = true
	}

	z, err := config.Build(opts...)
	if err != nil {
		return nil, err
	}
	return &ZapBackend{log: z}, nil
}

// NewZapBackendFromLogger wraps an existing zap logger
func NewZapBackendFromLogger(z *zap.Logger) *ZapBackend {
	return &ZapBackend{log: z}
}

// Log implements Backend
func (b *ZapBackend) Log(level Level, props Properties, msg string) {
	ce := b.log.Check(level.zap(), msg)
	if ce == nil {
		return
	}
	fields := make([]zap.Field, 0, len(props))
	for _, k := range sortedKeys(props) {
		fields = append(fields, zap.Any(k, props[k]))
	}
	ce.Write(fields...)
}

// Sync flushes buffered zap output
func (b *ZapBackend) Sync() error {
	return b.log.Sync()
}

func sortedKeys(props Properties) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
