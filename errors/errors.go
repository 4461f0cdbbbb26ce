package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode Phase = "decode" // class file to Go
	PhaseLoad   Phase = "load"   // opening the input
	PhaseConfig Phase = "config" // reading decoder limits
)

// Kind categorizes the error
type Kind string

const (
	KindTruncatedInput     Kind = "truncated_input"
	KindIO                 Kind = "io_error"
	KindFormatMismatch     Kind = "format_mismatch"
	KindUnsupportedVersion Kind = "unsupported_version"
	KindOversizedField     Kind = "oversized_field"
	KindInvalidReference   Kind = "invalid_reference"
	KindOutOfMemory        Kind = "out_of_memory"
	KindSuspiciouslyLarge  Kind = "suspiciously_large"
	KindInvalidInput       Kind = "invalid_input"
)

// Error is the structured error type used throughout the decoder
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
	Offset int64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Offset > 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
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

// Path sets the location within the input
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Offset sets the byte offset where the problem was detected
func (b *Builder) Offset(off int64) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
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

// Truncated creates a truncated input error
func Truncated(path []string, offset int64, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncatedInput,
		Path:   path,
		Offset: offset,
		Detail: "unexpected end of input",
		Cause:  cause,
	}
}

// IO creates an error for a failing input source
func IO(path []string, offset int64, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindIO,
		Path:   path,
		Offset: offset,
		Detail: "read failed",
		Cause:  cause,
	}
}

// FormatMismatch creates a magic number mismatch error
func FormatMismatch(got, want uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindFormatMismatch,
		Path:   []string{"magic"},
		Detail: fmt.Sprintf("magic 0x%08X, want 0x%08X", got, want),
		Value:  got,
	}
}

// UnsupportedVersion creates an unsupported major version error
func UnsupportedVersion(major, minMajor, maxMajor uint16) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnsupportedVersion,
		Path:   []string{"major_version"},
		Detail: fmt.Sprintf("major version %d outside [%d, %d]", major, minMajor, maxMajor),
		Value:  major,
	}
}

// Oversized creates an error for a length or count above its ceiling
func Oversized(path []string, value, limit any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOversizedField,
		Path:   path,
		Detail: fmt.Sprintf("%v exceeds limit %v", value, limit),
		Value:  value,
	}
}

// InvalidReference creates an out-of-range pool index error
func InvalidReference(path []string, index, count int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidReference,
		Path:   path,
		Detail: fmt.Sprintf("pool index %d out of range (count %d)", index, count),
		Value:  index,
	}
}

// OutOfMemory creates an allocation budget error
func OutOfMemory(path []string, requested, remaining int64) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfMemory,
		Path:   path,
		Detail: fmt.Sprintf("cannot allocate %d bytes (%d left in budget)", requested, remaining),
		Value:  requested,
	}
}

// SuspiciouslyLarge creates an error for a count rejected by a sanity ceiling
func SuspiciouslyLarge(path []string, value, limit int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindSuspiciouslyLarge,
		Path:   path,
		Detail: fmt.Sprintf("count %d is suspiciously large (limit %d)", value, limit),
		Value:  value,
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

// Load creates an input opening error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}
