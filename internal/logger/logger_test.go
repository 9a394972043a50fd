package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type record struct {
	level Level
	props Properties
	msg   string
}

type recorder struct {
	records []record
}

func (r *recorder) Log(level Level, props Properties, msg string) {
	r.records = append(r.records, record{level: level, props: props, msg: msg})
}

func newRecorded(env string) (*Logger, *recorder) {
	rec := &recorder{}
	return New(Config{Env: env}, WithBackend(rec)), rec
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		env  string
		want Level
	}{
		{"dev", LevelDebug},
		{"production", LevelInfo},
		{"test", LevelInfo},
		{"", LevelInfo},
		{"development", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.env))
		})
	}
}

func TestLogger_DebugOnlyInDev(t *testing.T) {
	dev, devRec := newRecorded("dev")
	dev.Debug("debug message", Properties{"debug": true})
	require.Len(t, devRec.records, 1)
	assert.Equal(t, LevelDebug, devRec.records[0].level)

	prod, prodRec := newRecorded("production")
	prod.Debug("debug message")
	assert.Empty(t, prodRec.records)
	prod.Info("info message")
	assert.Len(t, prodRec.records, 1)
}

func TestLogger_PassesPropertiesThenMessage(t *testing.T) {
	l, rec := newRecorded("test")

	l.Info("test message", Properties{"userId": 123})
	l.Warn("warning message", Properties{"level": "high"})

	require.Len(t, rec.records, 2)
	assert.Equal(t, record{LevelInfo, Properties{"userId": 123}, "test message"}, rec.records[0])
	assert.Equal(t, record{LevelWarn, Properties{"level": "high"}, "warning message"}, rec.records[1])
}

func TestLogger_MissingPropertiesBecomeEmptyMap(t *testing.T) {
	l, rec := newRecorded("dev")

	l.Info("simple message")
	l.Debug("simple message")
	l.Warn("simple message")
	l.Error("simple message", Value("boom"))

	require.Len(t, rec.records, 4)
	for _, r := range rec.records[:3] {
		require.NotNil(t, r.props)
		assert.Empty(t, r.props)
	}
	assert.Equal(t, Properties{"error": "boom"}, rec.records[3].props)
}

func TestLogger_ErrorWithNativeError(t *testing.T) {
	l, rec := newRecorded("test")
	err := errors.New("x")

	l.Error("m", Err(err), Properties{"a": 1})

	require.Len(t, rec.records, 1)
	got := rec.records[0]
	assert.Equal(t, LevelError, got.level)
	assert.Equal(t, "m", got.msg)
	assert.Equal(t, 1, got.props["a"])

	fields, ok := got.props["error"].(map[string]any)
	require.True(t, ok, "error field should be a map, got %T", got.props["error"])
	assert.Equal(t, "x", fields["message"])
	assert.Equal(t, "errors.errorString", fields["name"])
	stack, ok := fields["stack"].(string)
	require.True(t, ok, "stack should be a string, got %T", fields["stack"])
	assert.NotEqual(t, fields["message"], stack)
	assert.Contains(t, stack, "goroutine ")
	assert.Contains(t, stack, "TestLogger_ErrorWithNativeError")
}

func TestLogger_ErrorWithOpaqueValue(t *testing.T) {
	l, rec := newRecorded("test")
	value := map[string]any{"code": 1}

	l.Error("m", Value(value))

	require.Len(t, rec.records, 1)
	want := Properties{"error": map[string]any{"code": 1}}
	if diff := cmp.Diff(want, rec.records[0].props); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_ErrorKeyOverridesProperty(t *testing.T) {
	l, rec := newRecorded("test")

	l.Error("m", Value("real"), Properties{"error": "shadowed", "context": "test"})

	require.Len(t, rec.records, 1)
	assert.Equal(t, Properties{"error": "real", "context": "test"}, rec.records[0].props)
}

func TestErrorOf(t *testing.T) {
	err := errors.New("x")

	assert.Equal(t, NativeError{Err: err}, ErrorOf(err))
	assert.Equal(t, Opaque{Value: 42}, ErrorOf(42))
	assert.Equal(t, Opaque{Value: nil}, ErrorOf(nil))

	var typedNil error
	assert.Equal(t, Opaque{Value: typedNil}, ErrorOf(typedNil))
}

func TestSlogBackend_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(Config{Env: "production"}, &buf)

	l.Error("error occurred", Err(errors.New("test error")), Properties{"context": "test"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error occurred", line["msg"])
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "test", line["context"])

	errField, ok := line["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "test error", errField["message"])
}

func TestSlogBackend_FiltersDebugOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	b := NewSlogBackend(&buf, "production")

	b.Log(LevelDebug, Properties{}, "hidden")
	assert.Zero(t, buf.Len())

	b.Log(LevelInfo, Properties{}, "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestZapBackend(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(Config{Env: "dev"}, WithZap(zap.New(core)))

	l.Debug("debug message", Properties{"debug": true})
	l.Error("error occurred", Value(map[string]any{"code": "ERR_001"}), Properties{"context": "test"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, map[string]any{"debug": true}, entries[0].ContextMap())

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "error occurred", entries[1].Message)
	ctx := entries[1].ContextMap()
	assert.Equal(t, "test", ctx["context"])
	assert.Equal(t, map[string]any{"code": "ERR_001"}, ctx["error"])
}

func TestDefault(t *testing.T) {
	prev := std.Load()
	t.Cleanup(func() { std.Store(prev) })

	l, _ := newRecorded("dev")
	SetDefault(l)
	assert.Same(t, l, Default())
}

type syncBackend struct {
	synced int
}

func (b *syncBackend) Log(Level, Properties, string) {}

func (b *syncBackend) Sync() error {
	b.synced++
	return nil
}

func TestLogger_Sync(t *testing.T) {
	b := &syncBackend{}
	require.NoError(t, New(Config{}, WithBackend(b)).Sync())
	assert.Equal(t, 1, b.synced)

	// backends without buffering
	quiet := New(Config{}, WithBackend(BackendFunc(func(Level, Properties, string) {})))
	assert.NoError(t, quiet.Sync())

	core, _ := observer.New(zapcore.InfoLevel)
	assert.NoError(t, New(Config{}, WithZap(zap.New(core))).Sync())
}
