package codec

import (
	"github.com/wippyai/gvariant/codec/internal/types"
	"github.com/wippyai/gvariant/signature"
)

// CompiledType is the resolved form of a type description or signature.
type CompiledType = types.CompiledType

// Field is one named member of a compiled tuple.
type Field = types.Field

// Boxed is a dynamically typed value carried in a variant box: the child
// signature travels with the payload so the receiver can decode without
// prior knowledge of the type.
type Boxed struct {
	Value any
	Sig   signature.Signature
}

// EnumValue is a decoded plain-enum leaf: the wire nick plus the declared
// discriminant it maps to.
type EnumValue struct {
	Nick string
	Disc int32
}

// FlagsValue is a decoded flags leaf: the wire string plus the combined
// bit pattern it denotes.
type FlagsValue struct {
	Wire string
	Bits uint32
}
