package fst

import "fmt"

// ErrorKind classifies the ways an FST operation can fail. Traversal misses
// ("this input isn't in the automaton") are never represented this way —
// those are reported as an ordinary boolean/sentinel return, per the
// lookup contract described in SPEC_FULL.md.
type ErrorKind int

const (
	// FormatError means the byte stream is malformed: unknown version,
	// unknown input-type tag, truncated read, or an illegal flag
	// combination.
	FormatError ErrorKind = iota
	// IllegalState means the core was misused: save before finish,
	// finish twice, pack an FST not built with willPackFST, or advance
	// past the last arc of a node.
	IllegalState
	// CapacityExceeded means a hard limit was hit: node count would
	// overflow a 31-bit ordinal in willPack mode, or a block-size
	// parameter is out of range.
	CapacityExceeded
	// IOError wraps a failure from the underlying byte sink or source.
	IOError
)

func (k ErrorKind) String() string {
	switch k {
	case FormatError:
		return "format_error"
	case IllegalState:
		return "illegal_state"
	case CapacityExceeded:
		return "capacity_exceeded"
	case IOError:
		return "io_error"
	default:
		return "unknown_error"
	}
}

// Error is the error type returned by every exported operation in this
// package that can fail. It carries a Kind alongside the underlying cause,
// the same shape nakama's server/db_error.go wraps a codes.Code and cause
// around a message.
type Error struct {
	Kind  ErrorKind
	msg   string
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("fst: %s: %s: %v", e.Kind, e.msg, e.cause)
	}
	return fmt.Sprintf("fst: %s: %s", e.Kind, e.msg)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the proximate cause of this error, or nil.
func (e *Error) Cause() error {
	return e.cause
}

// Kind returns the ErrorKind of err, or false if err is nil or not one of
// this package's errors.
func Kind(err error) (ErrorKind, bool) {
	fe, ok := err.(*Error)
	if !ok {
		return 0, false
	}
	return fe.Kind, true
}

func newError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func errFormat(format string, args ...interface{}) error {
	return newError(FormatError, nil, format, args...)
}

func errFormatCause(cause error, format string, args ...interface{}) error {
	return newError(FormatError, cause, format, args...)
}

func errIllegalState(format string, args ...interface{}) error {
	return newError(IllegalState, nil, format, args...)
}

func errCapacityExceeded(format string, args ...interface{}) error {
	return newError(CapacityExceeded, nil, format, args...)
}

func errIO(cause error, format string, args ...interface{}) error {
	return newError(IOError, cause, format, args...)
}
