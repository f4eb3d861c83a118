package codec

import (
	"encoding/binary"
	"math"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/gvariant/codec/internal/framing"
	"github.com/wippyai/gvariant/codec/internal/types"
	"github.com/wippyai/gvariant/errors"
	"github.com/wippyai/gvariant/signature"
)

// Encoder serializes dynamic values against compiled types. Output is a
// single contiguous buffer: fixed leaves inline, variable-size container
// members followed by a trailing table of end offsets.
//
// Values are matched structurally: records accept map[string]any (by
// field name) or []any (positional), sequences accept any slice or array,
// optionals use nil for absence, variants take Boxed, and enum/flags
// leaves take EnumValue/FlagsValue or plain integers.
type Encoder struct {
	compiler *Compiler
}

// NewEncoder returns an encoder sharing c's compiled-type cache. A nil c
// gets a private compiler.
func NewEncoder(c *Compiler) *Encoder {
	if c == nil {
		c = NewCompiler()
	}
	return &Encoder{compiler: c}
}

// Encode serializes value as ct and returns the framed buffer.
func (e *Encoder) Encode(ct *CompiledType, value any) ([]byte, error) {
	staging := getBuf()
	defer putBuf(staging)

	buf, err := e.encode(ct, value, (*staging)[:0], nil)
	*staging = buf[:0]
	if err != nil {
		return nil, err
	}
	if len(buf) > framing.MaxSize {
		// The decoder rejects anything past the cap, so producing it
		// would only defer the failure to the other side.
		return nil, errors.New(errors.PhaseEncode, errors.KindUnsupportedValue).
			Detail("encoded size %d exceeds the %d byte limit", len(buf), framing.MaxSize).
			Build()
	}

	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// encode appends value's serialized form to buf. The caller has already
// padded buf so that len(buf) is aligned for ct; every container's start
// offset is aligned at least as strictly as any member, so aligning
// against the global offset is equivalent to container-relative padding.
func (e *Encoder) encode(ct *CompiledType, value any, buf []byte, path []string) ([]byte, error) {
	switch ct.Kind {
	case types.KindBool:
		b, ok := value.(bool)
		if !ok {
			return buf, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		if b {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil

	case types.KindByte:
		v, err := toUint(value, math.MaxUint8, ct, path)
		if err != nil {
			return buf, err
		}
		return append(buf, byte(v)), nil

	case types.KindInt16:
		v, err := toInt(value, math.MinInt16, math.MaxInt16, ct, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(v)), nil

	case types.KindUint16:
		v, err := toUint(value, math.MaxUint16, ct, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(v)), nil

	case types.KindInt32:
		v, err := toInt(value, math.MinInt32, math.MaxInt32, ct, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(v)), nil

	case types.KindUint32:
		v, err := toUint(value, math.MaxUint32, ct, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(v)), nil

	case types.KindInt64:
		v, err := toInt(value, math.MinInt64, math.MaxInt64, ct, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint64(buf, uint64(v)), nil

	case types.KindUint64:
		v, err := toUint(value, math.MaxUint64, ct, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint64(buf, v), nil

	case types.KindDouble:
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case float32:
			f = float64(v)
		default:
			return buf, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f)), nil

	case types.KindString:
		s, ok := value.(string)
		if !ok {
			return buf, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		return e.appendString(s, buf, path)

	case types.KindObjectPath:
		s, ok := value.(string)
		if !ok {
			return buf, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		if !validObjectPath(s) {
			return buf, errors.UnsupportedValue(errors.PhaseEncode, path, s, "not a valid object path")
		}
		return e.appendString(s, buf, path)

	case types.KindSignature:
		var raw string
		switch v := value.(type) {
		case string:
			raw = v
		case signature.Signature:
			raw = v.String()
		default:
			return buf, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		if _, err := signature.Parse(raw); err != nil {
			return buf, errors.UnsupportedValue(errors.PhaseEncode, path, raw, "not a valid signature string")
		}
		return e.appendString(raw, buf, path)

	case types.KindEnum:
		nick, err := enumNick(ct, value, path)
		if err != nil {
			return buf, err
		}
		return e.appendString(nick, buf, path)

	case types.KindEnumRepr:
		disc, err := enumDisc(ct, value, path)
		if err != nil {
			return buf, err
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(disc)), nil

	case types.KindFlags:
		wire, err := flagsWire(ct, value, path)
		if err != nil {
			return buf, err
		}
		return e.appendString(wire, buf, path)

	case types.KindTuple, types.KindDictEntry:
		return e.encodeTuple(ct, value, buf, path)

	case types.KindArray:
		return e.encodeArray(ct, value, buf, path)

	case types.KindMaybe:
		return e.encodeMaybe(ct, value, buf, path)

	case types.KindVariant:
		return e.encodeVariant(ct, value, buf, path)

	default:
		return buf, errors.UnsupportedType(errors.PhaseEncode, path, ct.Kind.String())
	}
}

func (e *Encoder) appendString(s string, buf []byte, path []string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return buf, errors.InvalidUTF8(errors.PhaseEncode, path, []byte(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return buf, errors.UnsupportedValue(errors.PhaseEncode, path, s,
				"string contains an interior NUL byte")
		}
	}
	buf = append(buf, s...)
	return append(buf, 0), nil
}

func (e *Encoder) encodeTuple(ct *CompiledType, value any, buf []byte, path []string) ([]byte, error) {
	if err := checkRecordShape(ct, value, path); err != nil {
		return buf, err
	}
	if len(ct.Fields) == 0 {
		// Unit value: a single zero byte keeps it addressable in arrays.
		return append(buf, 0), nil
	}

	start := len(buf)
	last := len(ct.Fields) - 1
	var ends []int
	for i, f := range ct.Fields {
		mv, err := tupleMember(value, i, f.Name, ct, path)
		if err != nil {
			return buf, err
		}
		buf = pad(buf, f.Type.Align)
		buf, err = e.encode(f.Type, mv, buf, append(path, fieldLabel(f.Name, i)))
		if err != nil {
			return buf, err
		}
		if !f.Type.Fixed && i != last {
			ends = append(ends, len(buf)-start)
		}
	}

	if ct.Fixed {
		buf = pad(buf, ct.Align)
		return buf, nil
	}
	if len(ends) > 0 {
		w := framing.OffsetWidth(len(buf)-start, len(ends))
		// Offsets live at the tail in reverse member order: the first
		// variable member's end is the final word of the container.
		for j := len(ends) - 1; j >= 0; j-- {
			buf = framing.AppendWord(buf, w, uint64(ends[j]))
		}
	}
	return buf, nil
}

func (e *Encoder) encodeArray(ct *CompiledType, value any, buf []byte, path []string) ([]byte, error) {
	elems, err := arrayElems(ct, value, path)
	if err != nil {
		return buf, err
	}
	if len(elems) == 0 {
		return buf, nil
	}

	start := len(buf)
	if ct.Elem.Fixed {
		for i, ev := range elems {
			buf = pad(buf, ct.Elem.Align)
			buf, err = e.encode(ct.Elem, ev, buf, append(path, indexLabel(i)))
			if err != nil {
				return buf, err
			}
		}
		return buf, nil
	}

	ends := make([]int, 0, len(elems))
	for i, ev := range elems {
		buf = pad(buf, ct.Elem.Align)
		buf, err = e.encode(ct.Elem, ev, buf, append(path, indexLabel(i)))
		if err != nil {
			return buf, err
		}
		ends = append(ends, len(buf)-start)
	}
	w := framing.OffsetWidth(len(buf)-start, len(ends))
	for _, end := range ends {
		buf = framing.AppendWord(buf, w, uint64(end))
	}
	return buf, nil
}

func (e *Encoder) encodeMaybe(ct *CompiledType, value any, buf []byte, path []string) ([]byte, error) {
	if isNil(value) {
		return buf, nil
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr {
		value = rv.Elem().Interface()
	}
	buf, err := e.encode(ct.Elem, value, buf, path)
	if err != nil {
		return buf, err
	}
	if !ct.Elem.Fixed {
		// Variable-size contents need a terminator so present-and-empty
		// stays distinct from absent.
		buf = append(buf, 0)
	}
	return buf, nil
}

func (e *Encoder) encodeVariant(ct *CompiledType, value any, buf []byte, path []string) ([]byte, error) {
	var boxed Boxed
	switch v := value.(type) {
	case Boxed:
		boxed = v
	case *Boxed:
		boxed = *v
	default:
		return buf, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), "v")
	}

	child, err := e.compiler.CompileWireSignature(boxed.Sig)
	if err != nil {
		return buf, err
	}
	// Box contents start at the box's own offset, which the caller
	// aligned to 8, the maximum any child needs.
	buf, err = e.encode(child, boxed.Value, buf, append(path, "<"+boxed.Sig.String()+">"))
	if err != nil {
		return buf, err
	}
	buf = append(buf, 0)
	return append(buf, boxed.Sig.String()...), nil
}

func enumNick(ct *CompiledType, value any, path []string) (string, error) {
	switch v := value.(type) {
	case EnumValue:
		return ct.EnumClass.Nick(v.Disc)
	case *EnumValue:
		return ct.EnumClass.Nick(v.Disc)
	case string:
		if _, err := ct.EnumClass.FromNick(v); err != nil {
			return "", errors.UnsupportedValue(errors.PhaseEncode, path, v,
				"nick not declared in enum "+ct.Name)
		}
		return v, nil
	default:
		disc, err := toInt(value, math.MinInt32, math.MaxInt32, ct, path)
		if err != nil {
			return "", err
		}
		return ct.EnumClass.Nick(int32(disc))
	}
}

func enumDisc(ct *CompiledType, value any, path []string) (int32, error) {
	switch v := value.(type) {
	case EnumValue:
		value = v.Disc
	case *EnumValue:
		value = v.Disc
	}
	disc, err := toInt(value, math.MinInt32, math.MaxInt32, ct, path)
	if err != nil {
		return 0, err
	}
	if _, err := ct.EnumClass.Nick(int32(disc)); err != nil {
		return 0, err
	}
	return int32(disc), nil
}

func flagsWire(ct *CompiledType, value any, path []string) (string, error) {
	switch v := value.(type) {
	case FlagsValue:
		return ct.FlagsClass.WireString(v.Bits)
	case *FlagsValue:
		return ct.FlagsClass.WireString(v.Bits)
	case string:
		if _, err := ct.FlagsClass.ParseWire(v); err != nil {
			return "", errors.UnsupportedValue(errors.PhaseEncode, path, v,
				"wire string not representable in flags "+ct.Name)
		}
		return v, nil
	default:
		bits, err := toUint(value, math.MaxUint32, ct, path)
		if err != nil {
			return "", err
		}
		return ct.FlagsClass.WireString(uint32(bits))
	}
}

func toInt(value any, min, max int64, ct *CompiledType, path []string) (int64, error) {
	var v int64
	switch n := value.(type) {
	case int:
		v = int64(n)
	case int8:
		v = int64(n)
	case int16:
		v = int64(n)
	case int32:
		v = int64(n)
	case int64:
		v = n
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = int64(n)
	case uint8:
		v = int64(n)
	case uint16:
		v = int64(n)
	case uint32:
		v = int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = int64(n)
	default:
		return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
	}
	if v < min || v > max {
		return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
	}
	return v, nil
}

func toUint(value any, max uint64, ct *CompiledType, path []string) (uint64, error) {
	var v uint64
	switch n := value.(type) {
	case uint:
		v = uint64(n)
	case uint8:
		v = uint64(n)
	case uint16:
		v = uint64(n)
	case uint32:
		v = uint64(n)
	case uint64:
		v = n
	case int:
		if n < 0 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = uint64(n)
	case int8:
		if n < 0 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = uint64(n)
	case int16:
		if n < 0 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = uint64(n)
	case int32:
		if n < 0 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = uint64(n)
	case int64:
		if n < 0 {
			return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
		}
		v = uint64(n)
	default:
		return 0, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
	}
	if v > max {
		return 0, errors.Overflow(errors.PhaseEncode, path, value, ct.Sig.String())
	}
	return v, nil
}

// checkRecordShape rejects values whose member set disagrees with the
// compiled record: positional values must match the field count exactly,
// and map values may not carry undeclared fields. Missing map fields are
// reported per-field by tupleMember. Extra members are never dropped.
func checkRecordShape(ct *CompiledType, value any, path []string) error {
	switch v := value.(type) {
	case []any:
		if len(v) != len(ct.Fields) {
			return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				Path(path...).
				Detail("value has %d members, type has %d", len(v), len(ct.Fields)).
				Build()
		}
	case map[string]any:
		declared := make(map[string]bool, len(ct.Fields))
		for _, f := range ct.Fields {
			declared[f.Name] = true
		}
		var extra []string
		for name := range v {
			if !declared[name] {
				extra = append(extra, name)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				Path(append(path, extra[0])...).
				Detail("field %q is not declared in %s", extra[0], ct.Sig.String()).
				Build()
		}
	}
	return nil
}

// tupleMember resolves field i of value: map lookup for named fields,
// positional for the rest.
func tupleMember(value any, i int, name string, ct *CompiledType, path []string) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if name == "" {
			return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		mv, ok := v[name]
		if !ok {
			return nil, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				Path(append(path, name)...).
				Detail("missing field %q", name).
				Build()
		}
		return mv, nil
	case []any:
		if i >= len(v) {
			return nil, errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
				Path(path...).
				Detail("value has %d members, type has %d", len(v), len(ct.Fields)).
				Build()
		}
		return v[i], nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
	}
}

// arrayElems flattens the accepted sequence shapes into a slice of
// element values. Maps become sorted key/value entries so dictionaries
// encode deterministically.
func arrayElems(ct *CompiledType, value any, path []string) ([]any, error) {
	if isNil(value) {
		return nil, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	case reflect.Map:
		if ct.Elem.Kind != types.KindDictEntry {
			return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(a, b int) bool { return lessMapKey(keys[a], keys[b]) })
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			out = append(out, []any{k.Interface(), rv.MapIndex(k).Interface()})
		}
		return out, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseEncode, path, typeName(value), ct.Sig.String())
	}
}

func lessMapKey(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.String:
		return a.String() < b.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return a.Uint() < b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() < b.Float()
	case reflect.Bool:
		return !a.Bool() && b.Bool()
	default:
		return false
	}
}

func pad(buf []byte, align int) []byte {
	target := alignTo(len(buf), align)
	for len(buf) < target {
		buf = append(buf, 0)
	}
	return buf
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// validObjectPath checks the object-path grammar: "/" alone, or "/"-led
// segments of [A-Za-z0-9_]+ with no trailing slash.
func validObjectPath(s string) bool {
	if s == "/" {
		return true
	}
	if len(s) == 0 || s[0] != '/' || s[len(s)-1] == '/' {
		return false
	}
	segLen := 0
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '/':
			if segLen == 0 {
				return false
			}
			segLen = 0
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			segLen++
		default:
			return false
		}
	}
	return segLen > 0
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return reflect.TypeOf(value).String()
}

func fieldLabel(name string, i int) string {
	if name != "" {
		return name
	}
	return indexLabel(i)
}

func indexLabel(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
