package logger

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// ErrorValue is what gets logged under the "error" key. It is either a
// NativeError or an Opaque value.
type ErrorValue interface {
	errorField() any
}

// NativeError wraps a Go error. It is logged as {message, stack, name}; the
// stack is the goroutine stack at the time the record is built.
type NativeError struct {
	Err error
}

// Opaque wraps any other value. It is logged as-is.
type Opaque struct {
	Value any
}

// Err tags err as a NativeError
func Err(err error) ErrorValue {
	return NativeError{Err: err}
}

// Value tags v as an Opaque value
func Value(v any) ErrorValue {
	return Opaque{Value: v}
}

// ErrorOf picks the variant from the dynamic type of v
func ErrorOf(v any) ErrorValue {
	if err, ok := v.(error); ok && err != nil {
		return NativeError{Err: err}
	}
	return Opaque{Value: v}
}

func (e NativeError) errorField() any {
	if e.Err == nil {
		return nil
	}
	return map[string]any{
		"message": e.Err.Error(),
		"stack":   string(debug.Stack()),
		"name":    errorName(e.Err),
	}
}

func (o Opaque) errorField() any {
	return o.Value
}

// errorName reports the concrete type of err without the pointer marker
func errorName(err error) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}
