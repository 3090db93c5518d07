package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pointer lifecycle the error occurred
type Phase string

const (
	PhaseNew      Phase = "new"      // shared/unique construction
	PhasePromote  Phase = "promote"  // weak to strong promotion
	PhaseRegistry Phase = "registry" // tracker bookkeeping
	PhaseRuntime  Phase = "runtime"  // everything else
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation    Kind = "allocation"     // control block could not be created
	KindExpiredWeak   Kind = "expired_weak"   // payload already destroyed
	KindCapacity      Kind = "capacity"       // tracker at its live-block limit
	KindClosed        Kind = "closed"         // tracker no longer accepting blocks
	KindNilPayload    Kind = "nil_payload"    // operation requires a payload
	KindDoubleRelease Kind = "double_release" // stake returned more than once
	KindLeak          Kind = "leak"           // block still live at shutdown
)

// Error is the structured error type used throughout the library
type Error struct {
	Cause       error
	Phase       Phase
	Kind        Kind
	PayloadType string
	Detail      string
	Handle      uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " block %d", e.Handle)
	}

	if e.PayloadType != "" {
		b.WriteString(": payload ")
		b.WriteString(e.PayloadType)
	}

	if e.Detail != "" {
		if e.PayloadType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Handle sets the control-block ID
func (b *Builder) Handle(id uint64) *Builder {
	b.err.Handle = id
	return b
}

// PayloadType sets the payload's Go type name
func (b *Builder) PayloadType(t string) *Builder {
	b.err.PayloadType = t
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

// Allocation creates a control-block allocation failure error
func Allocation(phase Phase, payloadType string, cause error) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindAllocation,
		PayloadType: payloadType,
		Detail:      "control block allocation failed",
		Cause:       cause,
	}
}

// ExpiredWeak creates an error for promoting an already-expired weak handle
func ExpiredWeak(handle uint64) *Error {
	return &Error{
		Phase:  PhasePromote,
		Kind:   KindExpiredWeak,
		Handle: handle,
		Detail: "payload already destroyed",
	}
}

// Capacity creates a tracker-at-capacity error
func Capacity(limit int) *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindCapacity,
		Detail: fmt.Sprintf("live-block limit %d reached", limit),
	}
}

// Closed creates an error for registering with a closed tracker
func Closed() *Error {
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindClosed,
		Detail: "registry closed",
	}
}

// Leak creates an error describing a block still live at shutdown
func Leak(handle uint64, payloadType string, strong, weak int64) *Error {
	return &Error{
		Phase:       PhaseRegistry,
		Kind:        KindLeak,
		Handle:      handle,
		PayloadType: payloadType,
		Detail:      fmt.Sprintf("still live at close (strong %d, weak %d)", strong, weak),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
