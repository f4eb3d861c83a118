package types

import (
	"github.com/wippyai/gvariant/enums"
	"github.com/wippyai/gvariant/signature"
)

// CompiledType is the resolved form of a type: its wire signature, layout,
// and the value-level metadata (field names, enum classes) the signature
// alone cannot carry. Compiled types are immutable and shared.
type CompiledType struct {
	Elem       *CompiledType
	EnumClass  *enums.Class
	FlagsClass *enums.FlagsClass
	Fields     []Field
	Sig        signature.Signature
	Name       string
	Size       int // meaningful only when Fixed
	Align      int
	Kind       Kind
	Fixed      bool
}

// Field is one member of a tuple or dict-entry compiled type. Name is
// empty for types compiled from a bare signature.
type Field struct {
	Type *CompiledType
	Name string
}

// IsContainer reports whether the type holds child values.
func (ct *CompiledType) IsContainer() bool {
	switch ct.Kind {
	case KindArray, KindMaybe, KindTuple, KindDictEntry, KindVariant:
		return true
	}
	return false
}
