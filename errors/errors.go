package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile   Phase = "compile"   // shape compilation
	PhaseMarshal   Phase = "marshal"   // Go to JS
	PhaseUnmarshal Phase = "unmarshal" // JS to Go
	PhaseRegister  Phase = "register"  // constructor and union registration
	PhaseBuild     Phase = "build"     // partial construction
)

// Kind categorizes the error
type Kind string

const (
	KindException       Kind = "exception"
	KindReflect         Kind = "reflect"
	KindVariant         Kind = "variant"
	KindClobberedTag    Kind = "clobbered_tag"
	KindUnexpectedValue Kind = "unexpected_value"
	KindOverflow        Kind = "overflow"
	KindUnsupported     Kind = "unsupported"
	KindFieldMissing    Kind = "field_missing"
)

// Error is the structured error type used throughout the module.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	JSType string
	Detail string
	Path   []string
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
		b.WriteString(FormatPath(e.Path))
	}

	if e.GoType != "" || e.JSType != "" {
		b.WriteString(": ")
		switch {
		case e.GoType != "" && e.JSType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", JS value ")
			b.WriteString(e.JSType)
		case e.GoType != "":
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		default:
			b.WriteString("JS value ")
			b.WriteString(e.JSType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.JSType != "" {
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

// Is reports whether target matches this error.
// An empty Phase on the target matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return (t.Phase == "" || e.Phase == t.Phase) && e.Kind == t.Kind
	}
	return false
}

// FormatPath joins path segments, rendering index segments ("[3]")
// without a leading dot.
func FormatPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
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

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// JSType sets the observed or produced JS value type
func (b *Builder) JSType(t string) *Builder {
	b.err.JSType = t
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

// Convenience constructors, one per error kind

// Exception wraps an error thrown by the JS runtime.
func Exception(phase Phase, path []string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindException,
		Path:   path,
		Detail: "javascript exception",
		Cause:  cause,
	}
}

// Reflect reports an operation the shape does not support.
func Reflect(phase Phase, path []string, goType, operation string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReflect,
		Path:   path,
		GoType: goType,
		Detail: operation,
	}
}

// Variant reports a failed variant selection.
func Variant(phase Phase, path []string, goType string, tag any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindVariant,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("no variant matches tag %v", tag),
		Value:  tag,
	}
}

// ClobberedTag reports a payload field whose name collides with the enum tag.
func ClobberedTag(path []string, goType, tag string) *Error {
	return &Error{
		Phase:  PhaseMarshal,
		Kind:   KindClobberedTag,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("payload field %q clobbers the enum tag", tag),
		Value:  tag,
	}
}

// UnexpectedValue reports a JS value whose kind does not fit the Go type.
func UnexpectedValue(phase Phase, path []string, goType, observed string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnexpectedValue,
		Path:   path,
		GoType: goType,
		JSType: observed,
	}
}

// Overflow reports a numeric value that does not fit the target Go type.
func Overflow(phase Phase, path []string, value any, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("value %v overflows %s", value, goType),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, path []string, goType, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Path:   path,
		GoType: goType,
		Detail: what,
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, goType, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		GoType: goType,
		Detail: fmt.Sprintf("field %q was not set and has no default", fieldName),
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
