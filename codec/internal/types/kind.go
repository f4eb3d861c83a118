package types

type Kind uint8

const (
	KindBool Kind = iota
	KindByte
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindDouble
	KindString
	KindObjectPath
	KindSignature
	KindVariant
	KindArray
	KindMaybe
	KindTuple
	KindDictEntry
	KindEnum
	KindEnumRepr
	KindFlags
)

var kindNames = [...]string{
	KindBool:       "bool",
	KindByte:       "byte",
	KindInt16:      "int16",
	KindUint16:     "uint16",
	KindInt32:      "int32",
	KindUint32:     "uint32",
	KindInt64:      "int64",
	KindUint64:     "uint64",
	KindDouble:     "double",
	KindString:     "string",
	KindObjectPath: "object-path",
	KindSignature:  "signature",
	KindVariant:    "variant",
	KindArray:      "array",
	KindMaybe:      "maybe",
	KindTuple:      "tuple",
	KindDictEntry:  "dict-entry",
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

// IsStringLike reports whether values of this kind are framed as
// NUL-terminated UTF-8 on the wire.
func (k Kind) IsStringLike() bool {
	switch k {
	case KindString, KindObjectPath, KindSignature, KindEnum, KindFlags:
		return true
	}
	return false
}

// IsInteger reports whether the kind is one of the fixed integer scalars.
func (k Kind) IsInteger() bool {
	switch k {
	case KindByte, KindInt16, KindUint16, KindInt32, KindUint32,
		KindInt64, KindUint64:
		return true
	}
	return false
}
