package gvariant

import (
	"github.com/wippyai/gvariant/codec"
	"github.com/wippyai/gvariant/gtype"
	"github.com/wippyai/gvariant/signature"
)

// defaults shared by the package-level entry points. Compiled types are
// immutable, so one compiler cache serves every call.
var (
	defaultCompiler = codec.NewCompiler()
	defaultEncoder  = codec.NewEncoder(defaultCompiler)
	defaultDecoder  = codec.NewDecoder(defaultCompiler)
)

// Serialize encodes value according to desc and returns the framed bytes
// together with the compiled wire signature.
func Serialize(value any, desc gtype.Desc) ([]byte, signature.Signature, error) {
	ct, err := defaultCompiler.Compile(desc)
	if err != nil {
		return nil, "", err
	}
	data, err := defaultEncoder.Encode(ct, value)
	if err != nil {
		return nil, "", err
	}
	return data, ct.Sig, nil
}

// Deserialize decodes data against a signature string and returns the
// dynamic value tree: map[string]any for named records, []any for
// sequences and bare tuples, nil for absent optionals, codec.Boxed for
// variant boxes.
func Deserialize(data []byte, sig string) (any, error) {
	parsed, err := signature.Parse(sig)
	if err != nil {
		return nil, err
	}
	ct, err := defaultCompiler.CompileSignature(parsed)
	if err != nil {
		return nil, err
	}
	builder := codec.NewValueBuilder()
	if err := defaultDecoder.Decode(ct, data, builder); err != nil {
		return nil, err
	}
	return builder.Value(), nil
}

// DeserializeAs decodes data against a type description rather than a
// bare signature, so enum leaves come back as codec.EnumValue and record
// fields keep their declared names.
func DeserializeAs(data []byte, desc gtype.Desc) (any, error) {
	ct, err := defaultCompiler.Compile(desc)
	if err != nil {
		return nil, err
	}
	builder := codec.NewValueBuilder()
	if err := defaultDecoder.Decode(ct, data, builder); err != nil {
		return nil, err
	}
	return builder.Value(), nil
}

// SignatureOf compiles a type description and returns its wire signature.
func SignatureOf(desc gtype.Desc) (signature.Signature, error) {
	ct, err := defaultCompiler.Compile(desc)
	if err != nil {
		return "", err
	}
	return ct.Sig, nil
}

// Walk drives a codec.Visitor over an in-memory value as desc describes
// it, firing the same callbacks decoding the value's serialized form
// would.
func Walk(desc gtype.Desc, value any, v codec.Visitor) error {
	ct, err := defaultCompiler.Compile(desc)
	if err != nil {
		return err
	}
	return codec.Walk(ct, value, v)
}
