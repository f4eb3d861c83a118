package codec

import (
	"reflect"

	"github.com/wippyai/gvariant/codec/internal/types"
	"github.com/wippyai/gvariant/errors"
	"github.com/wippyai/gvariant/signature"
)

// NewValueBuilder returns a Visitor that materializes the traversal as a
// dynamic value tree: records with named fields become map[string]any,
// unnamed tuples become []any, sequences become []any, absent optionals
// become nil, enum leaves become EnumValue, flags leaves FlagsValue, and
// variant boxes Boxed. Value returns the finished tree.
func NewValueBuilder() *ValueBuilder {
	return &ValueBuilder{}
}

// ValueBuilder accumulates one value tree per traversal. Not safe for
// concurrent use; create one per decode.
type ValueBuilder struct {
	stack  []*buildFrame
	result any
	done   bool
}

type buildFrame struct {
	kind    types.Kind
	sig     signature.Signature
	items   []any
	names   []string
	pending string
	named   bool
}

// Value returns the built tree. Valid once the traversal has completed.
func (b *ValueBuilder) Value() any { return b.result }

func (b *ValueBuilder) place(v any) error {
	if len(b.stack) == 0 {
		if b.done {
			return errors.InvalidData(errors.PhaseDecode, nil, "traversal produced a second root value")
		}
		b.result = v
		b.done = true
		return nil
	}
	top := b.stack[len(b.stack)-1]
	top.items = append(top.items, v)
	if top.kind == types.KindTuple {
		top.names = append(top.names, top.pending)
		if top.pending == "" {
			top.named = false
		}
		top.pending = ""
	}
	return nil
}

func (b *ValueBuilder) push(f *buildFrame) error {
	b.stack = append(b.stack, f)
	return nil
}

func (b *ValueBuilder) pop(kind types.Kind) (*buildFrame, error) {
	if len(b.stack) == 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "unbalanced traversal: End without Begin")
	}
	top := b.stack[len(b.stack)-1]
	if top.kind != kind {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			"unbalanced traversal: closing "+kind.String()+" inside "+top.kind.String())
	}
	b.stack = b.stack[:len(b.stack)-1]
	return top, nil
}

func (b *ValueBuilder) VisitBool(v bool) error                     { return b.place(v) }
func (b *ValueBuilder) VisitByte(v byte) error                     { return b.place(v) }
func (b *ValueBuilder) VisitInt16(v int16) error                   { return b.place(v) }
func (b *ValueBuilder) VisitUint16(v uint16) error                 { return b.place(v) }
func (b *ValueBuilder) VisitInt32(v int32) error                   { return b.place(v) }
func (b *ValueBuilder) VisitUint32(v uint32) error                 { return b.place(v) }
func (b *ValueBuilder) VisitInt64(v int64) error                   { return b.place(v) }
func (b *ValueBuilder) VisitUint64(v uint64) error                 { return b.place(v) }
func (b *ValueBuilder) VisitDouble(v float64) error                { return b.place(v) }
func (b *ValueBuilder) VisitString(v string) error                 { return b.place(v) }
func (b *ValueBuilder) VisitObjectPath(v string) error             { return b.place(v) }
func (b *ValueBuilder) VisitSignature(v signature.Signature) error { return b.place(v) }

func (b *ValueBuilder) VisitEnum(nick string, disc int32) error {
	return b.place(EnumValue{Nick: nick, Disc: disc})
}

func (b *ValueBuilder) VisitFlags(wire string, bits uint32) error {
	return b.place(FlagsValue{Wire: wire, Bits: bits})
}

func (b *ValueBuilder) BeginRecord(n int) error {
	return b.push(&buildFrame{
		kind:  types.KindTuple,
		items: make([]any, 0, n),
		names: make([]string, 0, n),
		named: true,
	})
}

func (b *ValueBuilder) RecordField(name string) error {
	if len(b.stack) == 0 || b.stack[len(b.stack)-1].kind != types.KindTuple {
		return errors.InvalidData(errors.PhaseDecode, nil, "RecordField outside a record")
	}
	b.stack[len(b.stack)-1].pending = name
	return nil
}

func (b *ValueBuilder) EndRecord() error {
	top, err := b.pop(types.KindTuple)
	if err != nil {
		return err
	}
	if top.named && len(top.items) > 0 {
		m := make(map[string]any, len(top.items))
		for i, it := range top.items {
			m[top.names[i]] = it
		}
		return b.place(m)
	}
	return b.place(top.items)
}

func (b *ValueBuilder) BeginSequence(n int) error {
	return b.push(&buildFrame{kind: types.KindArray, items: make([]any, 0, n)})
}

func (b *ValueBuilder) EndSequence() error {
	top, err := b.pop(types.KindArray)
	if err != nil {
		return err
	}
	return b.place(top.items)
}

func (b *ValueBuilder) BeginOptional(present bool) error {
	f := &buildFrame{kind: types.KindMaybe}
	if !present {
		f.items = []any{nil}
	}
	return b.push(f)
}

func (b *ValueBuilder) EndOptional() error {
	top, err := b.pop(types.KindMaybe)
	if err != nil {
		return err
	}
	if len(top.items) == 0 {
		return errors.InvalidData(errors.PhaseDecode, nil, "optional closed without a value")
	}
	return b.place(top.items[0])
}

func (b *ValueBuilder) BeginVariant(sig signature.Signature) error {
	return b.push(&buildFrame{kind: types.KindVariant, sig: sig})
}

func (b *ValueBuilder) EndVariant() error {
	top, err := b.pop(types.KindVariant)
	if err != nil {
		return err
	}
	if len(top.items) != 1 {
		return errors.InvalidData(errors.PhaseDecode, nil, "variant box must hold exactly one value")
	}
	return b.place(Boxed{Sig: top.sig, Value: top.items[0]})
}

// walkCompiler resolves variant-box signatures during Walk. Compiled
// types are immutable, so one shared instance serves all walkers.
var walkCompiler = NewCompiler()

// Walk drives a Visitor from an in-memory value, the encode-side mirror
// of Decoder.Decode: the same callbacks fire in the same order as they
// would when decoding the value's serialized form.
func Walk(ct *CompiledType, value any, v Visitor) error {
	return walk(ct, value, v, nil)
}

func walk(ct *CompiledType, value any, v Visitor, path []string) error {
	switch ct.Kind {
	case types.KindBool:
		b, ok := value.(bool)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		return v.VisitBool(b)

	case types.KindByte:
		n, err := toUint(value, 0xff, ct, path)
		if err != nil {
			return err
		}
		return v.VisitByte(byte(n))

	case types.KindInt16:
		n, err := toInt(value, -1<<15, 1<<15-1, ct, path)
		if err != nil {
			return err
		}
		return v.VisitInt16(int16(n))

	case types.KindUint16:
		n, err := toUint(value, 1<<16-1, ct, path)
		if err != nil {
			return err
		}
		return v.VisitUint16(uint16(n))

	case types.KindInt32:
		n, err := toInt(value, -1<<31, 1<<31-1, ct, path)
		if err != nil {
			return err
		}
		return v.VisitInt32(int32(n))

	case types.KindUint32:
		n, err := toUint(value, 1<<32-1, ct, path)
		if err != nil {
			return err
		}
		return v.VisitUint32(uint32(n))

	case types.KindInt64:
		n, err := toInt(value, -1<<63, 1<<63-1, ct, path)
		if err != nil {
			return err
		}
		return v.VisitInt64(n)

	case types.KindUint64:
		n, err := toUint(value, 1<<64-1, ct, path)
		if err != nil {
			return err
		}
		return v.VisitUint64(n)

	case types.KindDouble:
		switch f := value.(type) {
		case float64:
			return v.VisitDouble(f)
		case float32:
			return v.VisitDouble(float64(f))
		default:
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}

	case types.KindString:
		s, ok := value.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		return v.VisitString(s)

	case types.KindObjectPath:
		s, ok := value.(string)
		if !ok {
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		return v.VisitObjectPath(s)

	case types.KindSignature:
		switch s := value.(type) {
		case signature.Signature:
			return v.VisitSignature(s)
		case string:
			sig, err := signature.Parse(s)
			if err != nil {
				return err
			}
			return v.VisitSignature(sig)
		default:
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}

	case types.KindEnum, types.KindEnumRepr:
		nick, err := enumNick(ct, value, path)
		if err != nil {
			return err
		}
		disc, err := ct.EnumClass.FromNick(nick)
		if err != nil {
			return err
		}
		return v.VisitEnum(nick, disc)

	case types.KindFlags:
		wire, err := flagsWire(ct, value, path)
		if err != nil {
			return err
		}
		bits, err := ct.FlagsClass.ParseWire(wire)
		if err != nil {
			return err
		}
		return v.VisitFlags(wire, bits)

	case types.KindTuple, types.KindDictEntry:
		if err := checkRecordShape(ct, value, path); err != nil {
			return err
		}
		if err := v.BeginRecord(len(ct.Fields)); err != nil {
			return err
		}
		for i, f := range ct.Fields {
			mv, err := tupleMember(value, i, f.Name, ct, path)
			if err != nil {
				return err
			}
			if err := v.RecordField(f.Name); err != nil {
				return err
			}
			if err := walk(f.Type, mv, v, append(path, fieldLabel(f.Name, i))); err != nil {
				return err
			}
		}
		return v.EndRecord()

	case types.KindArray:
		elems, err := arrayElems(ct, value, path)
		if err != nil {
			return err
		}
		if err := v.BeginSequence(len(elems)); err != nil {
			return err
		}
		for i, ev := range elems {
			if err := walk(ct.Elem, ev, v, append(path, indexLabel(i))); err != nil {
				return err
			}
		}
		return v.EndSequence()

	case types.KindMaybe:
		if isNil(value) {
			if err := v.BeginOptional(false); err != nil {
				return err
			}
			return v.EndOptional()
		}
		if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr {
			value = rv.Elem().Interface()
		}
		if err := v.BeginOptional(true); err != nil {
			return err
		}
		if err := walk(ct.Elem, value, v, path); err != nil {
			return err
		}
		return v.EndOptional()

	case types.KindVariant:
		var boxed Boxed
		switch bv := value.(type) {
		case Boxed:
			boxed = bv
		case *Boxed:
			boxed = *bv
		default:
			return errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "v")
		}
		child, err := walkCompiler.CompileWireSignature(boxed.Sig)
		if err != nil {
			return err
		}
		if err := v.BeginVariant(boxed.Sig); err != nil {
			return err
		}
		if err := walk(child, boxed.Value, v, append(path, "<"+boxed.Sig.String()+">")); err != nil {
			return err
		}
		return v.EndVariant()

	default:
		return errors.UnsupportedType(errors.PhaseEncode, path, ct.Kind.String())
	}
}
