package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// AnnotatedError carries slog attributes and the source location of the error
// so that troubleshooting does not require a stack trace.
type AnnotatedError struct {
	// msg is the error message.
	msg string
	// pc is the program counter for the location of the error provided by runtime.Callers.
	pc uintptr
	// attrs are slog attributes that are added to the log event to provide more context for the error.
	attrs []slog.Attr
}

func newAnnotated(msg string, skip int, attrs []slog.Attr) AnnotatedError {
	var pcs [1]uintptr
	runtime.Callers(skip, pcs[:])
	return AnnotatedError{
		msg:   msg,
		pc:    pcs[0],
		attrs: attrs,
	}
}

// New creates a new AnnotatedError with the given message and attributes.
func New(msg string, attrs ...slog.Attr) error {
	// Skip runtime.Callers, newAnnotated, and this function.
	return newAnnotated(msg, 3, attrs)
}

// Wrap annotates err with a message and attributes. The returned error
// matches both the annotation and err for errors.Is and errors.As.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	wrapper := newAnnotated(msg, 3, attrs)
	return fmt.Errorf("%w: %w", wrapper, err)
}

// NewSentinel creates a plain error without other context for use as a
// sentinel that can be detected with errors.Is.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

// SlogError formats the error as an attribute for logging.
func SlogError(err error) slog.Attr {
	return slog.Any("error", err)
}

// Error implements error interface.
func (err AnnotatedError) Error() string {
	return err.msg
}

// LogValue formats the error for useful logging.
func (err AnnotatedError) LogValue() slog.Value {
	// Retrieve the source location of the error so that developers can locate it faster.
	frames := runtime.CallersFrames([]uintptr{err.pc})
	source, _ := frames.Next()
	sourceAttr := slog.String("source", fmt.Sprintf("%s:%d", source.File, source.Line))

	attrs := append(
		[]slog.Attr{sourceAttr},
		err.attrs...,
	)

	return slog.GroupValue(attrs...)
}

// As exposes stdlib errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is exposes stdlib errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join exposes stdlib errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Unwrap exposes stdlib errors.Unwrap.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
