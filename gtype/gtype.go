package gtype

import (
	"fmt"
	"strings"

	"github.com/wippyai/gvariant/enums"
)

// Kind identifies the shape category of a description.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindByte
	KindInt8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindObjectPath
	KindSignature
	KindVariant
	KindRecord
	KindSequence
	KindOptional
	KindDict
	KindEnum
	KindEnumRepr
	KindFlags
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindBool:       "bool",
	KindByte:       "byte",
	KindInt8:       "int8",
	KindInt16:      "int16",
	KindUint16:     "uint16",
	KindInt32:      "int32",
	KindUint32:     "uint32",
	KindInt64:      "int64",
	KindUint64:     "uint64",
	KindFloat32:    "float32",
	KindFloat64:    "float64",
	KindString:     "string",
	KindObjectPath: "object-path",
	KindSignature:  "signature",
	KindVariant:    "variant",
	KindRecord:     "record",
	KindSequence:   "sequence",
	KindOptional:   "optional",
	KindDict:       "dict",
	KindEnum:       "enum",
	KindEnumRepr:   "enum-repr",
	KindFlags:      "flags",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Desc describes the structure of a type. Implementations are the concrete
// description values in this package; ID is a canonical identity string
// used to memoize compilation.
type Desc interface {
	Kind() Kind
	ID() string
}

// Scalar is a leaf description. Use the package-level variables rather
// than constructing Scalar values directly.
type Scalar struct {
	kind Kind
}

func (s Scalar) Kind() Kind { return s.kind }
func (s Scalar) ID() string { return s.kind.String() }

var (
	Bool            = Scalar{KindBool}
	Byte            = Scalar{KindByte}
	Int8            = Scalar{KindInt8}
	Int16           = Scalar{KindInt16}
	Uint16          = Scalar{KindUint16}
	Int32           = Scalar{KindInt32}
	Uint32          = Scalar{KindUint32}
	Int64           = Scalar{KindInt64}
	Uint64          = Scalar{KindUint64}
	Float32         = Scalar{KindFloat32}
	Float64         = Scalar{KindFloat64}
	String          = Scalar{KindString}
	ObjectPath      = Scalar{KindObjectPath}
	SignatureString = Scalar{KindSignature}
	Variant         = Scalar{KindVariant}
)

// Field is one named member of a Record.
type Field struct {
	Name string
	Type Desc
}

// Record is an ordered sequence of named fields. Field names never reach
// the wire; only declaration order and field types matter.
type Record struct {
	Name   string
	Fields []Field
}

func (r Record) Kind() Kind { return KindRecord }

func (r Record) ID() string {
	var b strings.Builder
	b.WriteString("record[")
	b.WriteString(r.Name)
	b.WriteString("](")
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.Name)
		b.WriteByte(':')
		b.WriteString(f.Type.ID())
	}
	b.WriteByte(')')
	return b.String()
}

// Sequence is a homogeneous ordered collection.
type Sequence struct {
	Elem Desc
}

func (s Sequence) Kind() Kind { return KindSequence }
func (s Sequence) ID() string { return "seq[" + s.Elem.ID() + "]" }

// Optional holds zero or one element.
type Optional struct {
	Elem Desc
}

func (o Optional) Kind() Kind { return KindOptional }
func (o Optional) ID() string { return "opt[" + o.Elem.ID() + "]" }

// Dict is an unordered key/value mapping. The key must be a basic scalar.
type Dict struct {
	Key   Desc
	Value Desc
}

func (d Dict) Kind() Kind { return KindDict }
func (d Dict) ID() string { return "dict[" + d.Key.ID() + "=" + d.Value.ID() + "]" }

// Enum is a plain enumeration leaf; the class supplies the nick mapping.
type Enum struct {
	Class *enums.Class
}

func (e Enum) Kind() Kind { return KindEnum }
func (e Enum) ID() string { return "enum:" + classID(e.Class) }

// EnumRepr is an enumeration leaf carried as its raw discriminant instead
// of a nick string.
type EnumRepr struct {
	Class *enums.Class
}

func (e EnumRepr) Kind() Kind { return KindEnumRepr }
func (e EnumRepr) ID() string { return "enum-repr:" + classID(e.Class) }

// Flags is a bitmask enumeration leaf.
type Flags struct {
	Class *enums.FlagsClass
}

func (f Flags) Kind() Kind { return KindFlags }
func (f Flags) ID() string { return "flags:" + flagsClassID(f.Class) }

// classID folds the class instance into the identity string so two
// classes that happen to share a name never collide in a compiled-type
// cache.
func classID(c *enums.Class) string {
	return fmt.Sprintf("%s@%p", c.Name(), c)
}

func flagsClassID(c *enums.FlagsClass) string {
	return fmt.Sprintf("%s@%p", c.Name(), c)
}
