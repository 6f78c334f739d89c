package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in dispatch the error occurred
type Phase string

const (
	PhaseEnqueue Phase = "enqueue" // queue admission
	PhaseResolve Phase = "resolve" // async value resolution
	PhaseExecute Phase = "execute" // op body execution
	PhaseAttrs   Phase = "attrs"   // attribute bag construction
	PhaseHost    Phase = "host"    // host lifecycle and registration
)

// Kind categorizes the error
type Kind string

const (
	KindCapacity     Kind = "capacity"      // blocking queue could not accept work
	KindResolution   Kind = "resolution"    // an input async value resolved to an error
	KindNotFound     Kind = "not_found"     // named op or resource missing
	KindInvalidInput Kind = "invalid_input" // malformed caller input
	KindClosed       Kind = "closed"        // host or queue already torn down
	KindArity        Kind = "arity"         // result count mismatch from an op body
	KindDuplicate    Kind = "duplicate"     // name already registered
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in op ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the op name the error belongs to
func (b *Builder) Op(name string) *Builder {
	b.err.Op = name
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Capacity creates an enqueue-capacity error for the named submission path.
func Capacity(what string) *Error {
	return &Error{
		Phase:  PhaseEnqueue,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("failed to %s: no capacity", what),
	}
}

// Resolution wraps the error an input async value resolved to.
func Resolution(op string, cause error) *Error {
	return &Error{
		Phase: PhaseResolve,
		Kind:  KindResolution,
		Op:    op,
		Cause: cause,
	}
}

// OpNotFound creates a missing-op error
func OpNotFound(name string) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("op %q not registered", name),
	}
}

// Duplicate creates a duplicate-registration error
func Duplicate(what, name string) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s %q already registered", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Closed creates an error for operations against a torn-down host or queue
func Closed(what string) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// Arity creates a result-count mismatch error
func Arity(op string, got, want int) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindArity,
		Op:     op,
		Detail: fmt.Sprintf("op returned %d results, want %d", got, want),
	}
}

// ExecuteFailed wraps an error returned by an op body
func ExecuteFailed(op string, cause error) *Error {
	return &Error{
		Phase: PhaseExecute,
		Kind:  KindResolution,
		Op:    op,
		Cause: cause,
	}
}
