package codec

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/gvariant/codec/internal/framing"
	"github.com/wippyai/gvariant/codec/internal/types"
	"github.com/wippyai/gvariant/errors"
	"github.com/wippyai/gvariant/signature"
)

// maxNesting bounds decode recursion. Signatures are depth-capped at
// parse time, but variant boxes nest data-driven, so the decoder carries
// its own guard.
const maxNesting = 512

// Decoder reconstructs values from serialized bytes, driving a Visitor
// callback by callback. It shares the encoder's layout rules, so any
// buffer the encoder produces decodes to an identical traversal; foreign
// buffers are validated and rejected rather than read out of bounds.
type Decoder struct {
	compiler *Compiler
}

// NewDecoder returns a decoder sharing c's compiled-type cache. A nil c
// gets a private compiler.
func NewDecoder(c *Compiler) *Decoder {
	if c == nil {
		c = NewCompiler()
	}
	return &Decoder{compiler: c}
}

// Decode validates data against ct and replays the value into v. The
// visitor sees either a complete traversal or nothing past the first
// error; no partial value escapes.
func (d *Decoder) Decode(ct *CompiledType, data []byte, v Visitor) error {
	if len(data) > framing.MaxSize {
		return errors.BadFraming(errors.PhaseDecode, nil,
			"input of %d bytes exceeds the %d byte limit", len(data), framing.MaxSize)
	}
	return d.decode(ct, data, v, nil, 0)
}

func (d *Decoder) decode(ct *CompiledType, data []byte, v Visitor, path []string, depth int) error {
	if depth > maxNesting {
		return errors.BadFraming(errors.PhaseDecode, path, "nesting exceeds %d levels", maxNesting)
	}

	if ct.Fixed && !ct.IsContainer() {
		if len(data) < ct.Size {
			return errors.Truncated(errors.PhaseDecode, path, ct.Size, len(data))
		}
		if len(data) != ct.Size {
			return errors.BadFraming(errors.PhaseDecode, path,
				"fixed %s value occupies %d bytes, got %d", ct.Sig.String(), ct.Size, len(data))
		}
	}

	switch ct.Kind {
	case types.KindBool:
		switch data[0] {
		case 0:
			return v.VisitBool(false)
		case 1:
			return v.VisitBool(true)
		default:
			return errors.InvalidData(errors.PhaseDecode, path,
				"boolean byte must be 0 or 1, got "+strconv.Itoa(int(data[0])))
		}

	case types.KindByte:
		return v.VisitByte(data[0])

	case types.KindInt16:
		return v.VisitInt16(int16(binary.LittleEndian.Uint16(data)))

	case types.KindUint16:
		return v.VisitUint16(binary.LittleEndian.Uint16(data))

	case types.KindInt32:
		return v.VisitInt32(int32(binary.LittleEndian.Uint32(data)))

	case types.KindUint32:
		return v.VisitUint32(binary.LittleEndian.Uint32(data))

	case types.KindInt64:
		return v.VisitInt64(int64(binary.LittleEndian.Uint64(data)))

	case types.KindUint64:
		return v.VisitUint64(binary.LittleEndian.Uint64(data))

	case types.KindDouble:
		return v.VisitDouble(math.Float64frombits(binary.LittleEndian.Uint64(data)))

	case types.KindEnumRepr:
		disc := int32(binary.LittleEndian.Uint32(data))
		nick, err := ct.EnumClass.Nick(disc)
		if err != nil {
			return errors.UnknownEnumVariant(errors.PhaseDecode, path,
				strconv.Itoa(int(disc)), ct.Name)
		}
		return v.VisitEnum(nick, disc)

	case types.KindString:
		s, err := d.decodeString(data, path)
		if err != nil {
			return err
		}
		return v.VisitString(s)

	case types.KindObjectPath:
		s, err := d.decodeString(data, path)
		if err != nil {
			return err
		}
		if !validObjectPath(s) {
			return errors.InvalidData(errors.PhaseDecode, path, "not a valid object path: "+s)
		}
		return v.VisitObjectPath(s)

	case types.KindSignature:
		s, err := d.decodeString(data, path)
		if err != nil {
			return err
		}
		sig, err := signature.Parse(s)
		if err != nil {
			return errors.InvalidData(errors.PhaseDecode, path, "not a valid signature string: "+s)
		}
		return v.VisitSignature(sig)

	case types.KindEnum:
		nick, err := d.decodeString(data, path)
		if err != nil {
			return err
		}
		disc, err := ct.EnumClass.FromNick(nick)
		if err != nil {
			return err
		}
		return v.VisitEnum(nick, disc)

	case types.KindFlags:
		wire, err := d.decodeString(data, path)
		if err != nil {
			return err
		}
		bits, err := ct.FlagsClass.ParseWire(wire)
		if err != nil {
			return err
		}
		return v.VisitFlags(wire, bits)

	case types.KindTuple, types.KindDictEntry:
		return d.decodeTuple(ct, data, v, path, depth)

	case types.KindArray:
		return d.decodeArray(ct, data, v, path, depth)

	case types.KindMaybe:
		return d.decodeMaybe(ct, data, v, path, depth)

	case types.KindVariant:
		return d.decodeVariant(ct, data, v, path, depth)

	default:
		return errors.UnsupportedType(errors.PhaseDecode, path, ct.Kind.String())
	}
}

// decodeString validates NUL-terminated UTF-8 framing and returns the
// body.
func (d *Decoder) decodeString(data []byte, path []string) (string, error) {
	if len(data) == 0 {
		return "", errors.Truncated(errors.PhaseDecode, path, 1, 0)
	}
	if data[len(data)-1] != 0 {
		return "", errors.BadFraming(errors.PhaseDecode, path, "string is not NUL-terminated")
	}
	body := data[:len(data)-1]
	if i := bytes.IndexByte(body, 0); i >= 0 {
		return "", errors.BadFraming(errors.PhaseDecode, path,
			"interior NUL byte at offset %d", i)
	}
	if !utf8.Valid(body) {
		return "", errors.InvalidUTF8(errors.PhaseDecode, path, body)
	}
	return string(body), nil
}

func (d *Decoder) decodeTuple(ct *CompiledType, data []byte, v Visitor, path []string, depth int) error {
	if len(ct.Fields) == 0 {
		if len(data) == 0 {
			return errors.Truncated(errors.PhaseDecode, path, 1, 0)
		}
		if len(data) != 1 || data[0] != 0 {
			return errors.BadFraming(errors.PhaseDecode, path, "unit value must be a single zero byte")
		}
		if err := v.BeginRecord(0); err != nil {
			return err
		}
		return v.EndRecord()
	}

	if ct.Fixed {
		if len(data) < ct.Size {
			return errors.Truncated(errors.PhaseDecode, path, ct.Size, len(data))
		}
		if len(data) != ct.Size {
			return errors.BadFraming(errors.PhaseDecode, path,
				"fixed %s value occupies %d bytes, got %d", ct.Sig.String(), ct.Size, len(data))
		}
	}

	last := len(ct.Fields) - 1
	tabled := 0
	for i, f := range ct.Fields {
		if !f.Type.Fixed && i != last {
			tabled++
		}
	}

	w := 0
	bodyEnd := len(data)
	if tabled > 0 {
		w = framing.WidthForSize(len(data))
		if tabled*w > len(data) {
			return errors.BadFraming(errors.PhaseDecode, path,
				"offset table of %d entries does not fit %d bytes", tabled, len(data))
		}
		bodyEnd = len(data) - tabled*w
	}

	if err := v.BeginRecord(len(ct.Fields)); err != nil {
		return err
	}

	off := 0
	j := 0
	for i, f := range ct.Fields {
		off = alignTo(off, f.Type.Align)

		var end int
		switch {
		case f.Type.Fixed:
			end = off + f.Type.Size
			if end > bodyEnd {
				return errors.Truncated(errors.PhaseDecode, append(path, fieldLabel(f.Name, i)),
					end, bodyEnd)
			}
		case i == last:
			end = bodyEnd
		default:
			end = int(framing.ReadWord(data[len(data)-(j+1)*w:], w))
			j++
			if end > bodyEnd {
				return errors.BadFraming(errors.PhaseDecode, append(path, fieldLabel(f.Name, i)),
					"member end %d past body end %d", end, bodyEnd)
			}
		}
		if end < off {
			return errors.BadFraming(errors.PhaseDecode, append(path, fieldLabel(f.Name, i)),
				"member end %d before its start %d", end, off)
		}

		if err := v.RecordField(f.Name); err != nil {
			return err
		}
		if err := d.decode(f.Type, data[off:end], v, append(path, fieldLabel(f.Name, i)), depth+1); err != nil {
			return err
		}
		off = end
	}

	// A fixed tuple's trailing padding was covered by the exact size
	// check; a variable tuple must account for every body byte.
	if !ct.Fixed && off != bodyEnd {
		return errors.BadFraming(errors.PhaseDecode, path,
			"%d trailing bytes after final member", bodyEnd-off)
	}

	return v.EndRecord()
}

func (d *Decoder) decodeArray(ct *CompiledType, data []byte, v Visitor, path []string, depth int) error {
	if len(data) == 0 {
		if err := v.BeginSequence(0); err != nil {
			return err
		}
		return v.EndSequence()
	}

	if ct.Elem.Fixed {
		size := ct.Elem.Size
		if len(data)%size != 0 {
			return errors.BadFraming(errors.PhaseDecode, path,
				"%d bytes is not a multiple of the %d byte element size", len(data), size)
		}
		count := len(data) / size
		if err := v.BeginSequence(count); err != nil {
			return err
		}
		for i := 0; i < count; i++ {
			if err := d.decode(ct.Elem, data[i*size:(i+1)*size], v, append(path, indexLabel(i)), depth+1); err != nil {
				return err
			}
		}
		return v.EndSequence()
	}

	// The final offset word doubles as the table locator: it holds the
	// end of the last element, which is where the table begins.
	w := framing.WidthForSize(len(data))
	if len(data) < w {
		return errors.Truncated(errors.PhaseDecode, path, w, len(data))
	}
	tableStart := int(framing.ReadWord(data[len(data)-w:], w))
	if tableStart > len(data)-w {
		return errors.BadFraming(errors.PhaseDecode, path,
			"offset table start %d past its own first entry", tableStart)
	}
	if (len(data)-tableStart)%w != 0 {
		return errors.BadFraming(errors.PhaseDecode, path,
			"offset table of %d bytes is not a multiple of width %d", len(data)-tableStart, w)
	}
	count := (len(data) - tableStart) / w

	if err := v.BeginSequence(count); err != nil {
		return err
	}
	prevEnd := 0
	for i := 0; i < count; i++ {
		end := int(framing.ReadWord(data[tableStart+i*w:], w))
		start := alignTo(prevEnd, ct.Elem.Align)
		if end < start || end > tableStart {
			return errors.BadFraming(errors.PhaseDecode, append(path, indexLabel(i)),
				"element end %d outside [%d, %d]", end, start, tableStart)
		}
		if err := d.decode(ct.Elem, data[start:end], v, append(path, indexLabel(i)), depth+1); err != nil {
			return err
		}
		prevEnd = end
	}
	return v.EndSequence()
}

func (d *Decoder) decodeMaybe(ct *CompiledType, data []byte, v Visitor, path []string, depth int) error {
	if len(data) == 0 {
		if err := v.BeginOptional(false); err != nil {
			return err
		}
		return v.EndOptional()
	}

	elemData := data
	if ct.Elem.Fixed {
		if len(data) < ct.Elem.Size {
			return errors.Truncated(errors.PhaseDecode, path, ct.Elem.Size, len(data))
		}
		if len(data) != ct.Elem.Size {
			return errors.BadFraming(errors.PhaseDecode, path,
				"present %s value occupies %d bytes, got %d", ct.Elem.Sig.String(), ct.Elem.Size, len(data))
		}
	} else {
		if data[len(data)-1] != 0 {
			return errors.BadFraming(errors.PhaseDecode, path,
				"present maybe value must end in a zero pad byte")
		}
		elemData = data[:len(data)-1]
	}

	if err := v.BeginOptional(true); err != nil {
		return err
	}
	if err := d.decode(ct.Elem, elemData, v, path, depth+1); err != nil {
		return err
	}
	return v.EndOptional()
}

func (d *Decoder) decodeVariant(ct *CompiledType, data []byte, v Visitor, path []string, depth int) error {
	sep := bytes.LastIndexByte(data, 0)
	if sep < 0 {
		return errors.UnknownSignature(errors.PhaseDecode, path, string(data))
	}
	sig, err := signature.Parse(string(data[sep+1:]))
	if err != nil {
		return errors.UnknownSignature(errors.PhaseDecode, path, string(data[sep+1:]))
	}
	child, err := d.compiler.CompileWireSignature(sig)
	if err != nil {
		return err
	}

	if err := v.BeginVariant(sig); err != nil {
		return err
	}
	if err := d.decode(child, data[:sep], v, append(path, "<"+sig.String()+">"), depth+1); err != nil {
		return err
	}
	return v.EndVariant()
}
