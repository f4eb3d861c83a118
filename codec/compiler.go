package codec

import (
	"sync"

	"github.com/wippyai/gvariant/codec/internal/types"
	"github.com/wippyai/gvariant/errors"
	"github.com/wippyai/gvariant/gtype"
	"github.com/wippyai/gvariant/signature"
	"go.uber.org/zap"
)

// Compiler turns type descriptions and signatures into compiled types.
// Results are cached process-wide per description identity; compiled
// types are immutable and shared across goroutines.
type Compiler struct {
	layout *LayoutCalculator
	cache  sync.Map // desc ID / signature -> *CompiledType
}

func NewCompiler() *Compiler {
	return &Compiler{
		layout: NewLayoutCalculator(),
	}
}

// Compile resolves a structural type description into its wire signature
// and layout.
func (c *Compiler) Compile(desc gtype.Desc) (*CompiledType, error) {
	if desc == nil {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupportedType).
			Detail("type description cannot be nil").
			Build()
	}

	key := "desc:" + desc.ID()
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*CompiledType), nil
	}

	ct, err := c.compile(desc)
	if err != nil {
		return nil, err
	}

	Logger().Debug("compiled type description",
		zap.String("desc", desc.ID()),
		zap.String("signature", ct.Sig.String()))

	c.cache.Store(key, ct)
	return ct, nil
}

// CompileSignature resolves a bare signature, with no field names or enum
// classes attached. Results are cached; use it only for signatures that
// are part of the program's type vocabulary, never for signatures read
// out of wire data.
func (c *Compiler) CompileSignature(sig signature.Signature) (*CompiledType, error) {
	key := "sig:" + sig.String()
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*CompiledType), nil
	}

	ct, err := c.compileSig(sig)
	if err != nil {
		return nil, err
	}

	c.cache.Store(key, ct)
	return ct, nil
}

// CompileWireSignature resolves a signature recovered from serialized
// data, such as a variant box's embedded type. It reads the cache but
// never writes it: wire signatures are chosen by whoever produced the
// bytes, and caching them would let untrusted input grow the cache
// without bound. Layout results are still memoized per signature.
func (c *Compiler) CompileWireSignature(sig signature.Signature) (*CompiledType, error) {
	if cached, ok := c.cache.Load("sig:" + sig.String()); ok {
		return cached.(*CompiledType), nil
	}
	return c.compileSig(sig)
}

func (c *Compiler) compile(desc gtype.Desc) (*CompiledType, error) {
	// Container descriptions are often built as pointers; normalize so the
	// switch below only deals with value forms.
	switch p := desc.(type) {
	case *gtype.Record:
		desc = *p
	case *gtype.Sequence:
		desc = *p
	case *gtype.Optional:
		desc = *p
	case *gtype.Dict:
		desc = *p
	case *gtype.Enum:
		desc = *p
	case *gtype.EnumRepr:
		desc = *p
	case *gtype.Flags:
		desc = *p
	}

	switch d := desc.(type) {
	case gtype.Scalar:
		return c.compileScalar(d)

	case gtype.Record:
		fields := make([]Field, 0, len(d.Fields))
		sig := "("
		for _, f := range d.Fields {
			ft, err := c.compile(f.Type)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: f.Name, Type: ft})
			sig += ft.Sig.String()
		}
		sig += ")"
		return c.finish(&CompiledType{
			Kind:   types.KindTuple,
			Name:   d.Name,
			Fields: fields,
		}, sig)

	case gtype.Sequence:
		elem, err := c.compile(d.Elem)
		if err != nil {
			return nil, err
		}
		return c.finish(&CompiledType{
			Kind: types.KindArray,
			Elem: elem,
		}, "a"+elem.Sig.String())

	case gtype.Optional:
		elem, err := c.compile(d.Elem)
		if err != nil {
			return nil, err
		}
		return c.finish(&CompiledType{
			Kind: types.KindMaybe,
			Elem: elem,
		}, "m"+elem.Sig.String())

	case gtype.Dict:
		key, err := c.compile(d.Key)
		if err != nil {
			return nil, err
		}
		if !key.Sig.IsBasic() {
			return nil, errors.UnsupportedType(errors.PhaseCompile, nil,
				"dict key must be a basic scalar, got "+key.Sig.String())
		}
		val, err := c.compile(d.Value)
		if err != nil {
			return nil, err
		}
		entrySig := "{" + key.Sig.String() + val.Sig.String() + "}"
		entry, err := c.finish(&CompiledType{
			Kind: types.KindDictEntry,
			Fields: []Field{
				{Name: "key", Type: key},
				{Name: "value", Type: val},
			},
		}, entrySig)
		if err != nil {
			return nil, err
		}
		return c.finish(&CompiledType{
			Kind: types.KindArray,
			Elem: entry,
		}, "a"+entrySig)

	case gtype.Enum:
		return c.finish(&CompiledType{
			Kind:      types.KindEnum,
			Name:      d.Class.Name(),
			EnumClass: d.Class,
		}, "s")

	case gtype.EnumRepr:
		return c.finish(&CompiledType{
			Kind:      types.KindEnumRepr,
			Name:      d.Class.Name(),
			EnumClass: d.Class,
		}, "i")

	case gtype.Flags:
		return c.finish(&CompiledType{
			Kind:       types.KindFlags,
			Name:       d.Class.Name(),
			FlagsClass: d.Class,
		}, "s")

	default:
		return nil, errors.UnsupportedType(errors.PhaseCompile, nil, desc.Kind().String())
	}
}

func (c *Compiler) compileScalar(d gtype.Scalar) (*CompiledType, error) {
	var (
		kind types.Kind
		sig  string
	)
	switch d.Kind() {
	case gtype.KindBool:
		kind, sig = types.KindBool, "b"
	case gtype.KindByte:
		kind, sig = types.KindByte, "y"
	case gtype.KindInt8:
		// No 8-bit signed code on the wire; widen to int16.
		kind, sig = types.KindInt16, "n"
	case gtype.KindInt16:
		kind, sig = types.KindInt16, "n"
	case gtype.KindUint16:
		kind, sig = types.KindUint16, "q"
	case gtype.KindInt32:
		kind, sig = types.KindInt32, "i"
	case gtype.KindUint32:
		kind, sig = types.KindUint32, "u"
	case gtype.KindInt64:
		kind, sig = types.KindInt64, "x"
	case gtype.KindUint64:
		kind, sig = types.KindUint64, "t"
	case gtype.KindFloat32:
		// No 32-bit float code on the wire; widen to double.
		kind, sig = types.KindDouble, "d"
	case gtype.KindFloat64:
		kind, sig = types.KindDouble, "d"
	case gtype.KindString:
		kind, sig = types.KindString, "s"
	case gtype.KindObjectPath:
		kind, sig = types.KindObjectPath, "o"
	case gtype.KindSignature:
		kind, sig = types.KindSignature, "g"
	case gtype.KindVariant:
		kind, sig = types.KindVariant, "v"
	default:
		return nil, errors.UnsupportedType(errors.PhaseCompile, nil, d.Kind().String())
	}
	return c.finish(&CompiledType{Kind: kind}, sig)
}

func (c *Compiler) compileSig(sig signature.Signature) (*CompiledType, error) {
	switch sig.Code() {
	case signature.CodeBool:
		return c.finish(&CompiledType{Kind: types.KindBool}, sig.String())
	case signature.CodeByte:
		return c.finish(&CompiledType{Kind: types.KindByte}, sig.String())
	case signature.CodeInt16:
		return c.finish(&CompiledType{Kind: types.KindInt16}, sig.String())
	case signature.CodeUint16:
		return c.finish(&CompiledType{Kind: types.KindUint16}, sig.String())
	case signature.CodeInt32:
		return c.finish(&CompiledType{Kind: types.KindInt32}, sig.String())
	case signature.CodeUint32:
		return c.finish(&CompiledType{Kind: types.KindUint32}, sig.String())
	case signature.CodeInt64:
		return c.finish(&CompiledType{Kind: types.KindInt64}, sig.String())
	case signature.CodeUint64:
		return c.finish(&CompiledType{Kind: types.KindUint64}, sig.String())
	case signature.CodeDouble:
		return c.finish(&CompiledType{Kind: types.KindDouble}, sig.String())
	case signature.CodeString:
		return c.finish(&CompiledType{Kind: types.KindString}, sig.String())
	case signature.CodeObjectPath:
		return c.finish(&CompiledType{Kind: types.KindObjectPath}, sig.String())
	case signature.CodeSignature:
		return c.finish(&CompiledType{Kind: types.KindSignature}, sig.String())
	case signature.CodeVariant:
		return c.finish(&CompiledType{Kind: types.KindVariant}, sig.String())

	case signature.CodeArray, signature.CodeMaybe:
		elem, err := c.CompileWireSignature(sig.Elem())
		if err != nil {
			return nil, err
		}
		kind := types.KindArray
		if sig.Code() == signature.CodeMaybe {
			kind = types.KindMaybe
		}
		return c.finish(&CompiledType{Kind: kind, Elem: elem}, sig.String())

	case '(', '{':
		kind := types.KindTuple
		if sig.Code() == '{' {
			kind = types.KindDictEntry
		}
		members := sig.Members()
		fields := make([]Field, 0, len(members))
		for _, m := range members {
			mt, err := c.CompileWireSignature(m)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Type: mt})
		}
		return c.finish(&CompiledType{Kind: kind, Fields: fields}, sig.String())

	default:
		return nil, errors.InvalidSignature(errors.PhaseCompile, sig.String(),
			"unknown type code %q", string(sig.Code()))
	}
}

// finish validates the assembled signature and stamps the layout class
// onto the compiled type.
func (c *Compiler) finish(ct *CompiledType, sig string) (*CompiledType, error) {
	parsed, err := signature.Parse(sig)
	if err != nil {
		return nil, err
	}
	ct.Sig = parsed
	info := c.layout.Calculate(parsed)
	ct.Size = info.Size
	ct.Align = info.Align
	ct.Fixed = info.Fixed
	return ct, nil
}
