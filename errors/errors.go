package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile  Phase = "compile"  // type description to signature
	PhaseEncode   Phase = "encode"   // value to serialized bytes
	PhaseDecode   Phase = "decode"   // serialized bytes to value
	PhaseValidate Phase = "validate" // signature/data validation
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedType  Kind = "unsupported_type"
	KindTypeMismatch     Kind = "type_mismatch"
	KindUnsupportedValue Kind = "unsupported_value"
	KindTruncatedInput   Kind = "truncated_input"
	KindBadFraming       Kind = "bad_framing"
	KindInvalidUTF8      Kind = "invalid_utf8"
	KindUnknownSignature Kind = "unknown_variant_signature"
	KindUnknownEnum      Kind = "unknown_enum_variant"
	KindBadFlags         Kind = "unrepresentable_flag_combination"
	KindInvalidSignature Kind = "invalid_signature"
	KindInvalidData      Kind = "invalid_data"
	KindOverflow         Kind = "overflow"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	GoType      string
	VariantType string
	Detail      string
	Path        []string
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

	if e.GoType != "" || e.VariantType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.VariantType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", variant type ")
			b.WriteString(e.VariantType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("variant type ")
			b.WriteString(e.VariantType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.VariantType != "" {
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

// VariantType sets the variant type signature
func (b *Builder) VariantType(t string) *Builder {
	b.err.VariantType = t
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

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, variantType string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindTypeMismatch,
		Path:        path,
		GoType:      goType,
		VariantType: variantType,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Truncated creates a truncated input error
func Truncated(phase Phase, path []string, need, have int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncatedInput,
		Path:   path,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

// BadFraming creates a framing error for malformed containers
func BadFraming(phase Phase, path []string, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  phase,
		Kind:   KindBadFraming,
		Path:   path,
		Detail: detail,
	}
}

// UnsupportedType creates an error for types with no variant representation
func UnsupportedType(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedType,
		Path:   path,
		Detail: what,
	}
}

// UnsupportedValue creates an error for values outside the representable range
func UnsupportedValue(phase Phase, path []string, value any, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedValue,
		Path:   path,
		Detail: detail,
		Value:  value,
	}
}

// UnknownEnumVariant creates an error for an undeclared enum wire string
func UnknownEnumVariant(phase Phase, path []string, nick, enumName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownEnum,
		Path:   path,
		Detail: fmt.Sprintf("%q is not a declared variant of %s", nick, enumName),
		Value:  nick,
	}
}

// UnrepresentableFlags creates an error for a bit pattern with no declared decomposition
func UnrepresentableFlags(phase Phase, path []string, bits uint64, flagsName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBadFlags,
		Path:   path,
		Detail: fmt.Sprintf("bit pattern %#x has no declared decomposition in %s", bits, flagsName),
		Value:  bits,
	}
}

// UnknownSignature creates an error for an unparsable embedded variant signature
func UnknownSignature(phase Phase, path []string, sig string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindUnknownSignature,
		Path:        path,
		VariantType: sig,
		Detail:      "embedded variant signature is not a single definite type",
	}
}

// InvalidSignature creates an error for a malformed type signature string
func InvalidSignature(phase Phase, sig, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:       phase,
		Kind:        KindInvalidSignature,
		VariantType: sig,
		Detail:      detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindOverflow,
		Path:        path,
		VariantType: targetType,
		Detail:      fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:       value,
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
