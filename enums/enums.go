package enums

import (
	"strings"
	"unicode"

	"github.com/wippyai/gvariant/errors"
)

// Value is one declared variant of a plain enumeration.
type Value struct {
	Name string
	Nick string // derived from Name when empty
	Disc int32
}

// Class is the immutable wire mapping for a plain enumeration. Build one
// per enum type at registration time and share it freely; all methods are
// safe for concurrent use.
type Class struct {
	name   string
	values []Value
	byNick map[string]int32
	byDisc map[int32]string
}

// NewClass builds a Class from declared values. Empty nicks are derived
// with NickOf. Duplicate nicks or discriminants are rejected so the
// mapping stays injective in both directions.
func NewClass(name string, values ...Value) (*Class, error) {
	c := &Class{
		name:   name,
		values: make([]Value, 0, len(values)),
		byNick: make(map[string]int32, len(values)),
		byDisc: make(map[int32]string, len(values)),
	}
	for _, v := range values {
		if v.Nick == "" {
			v.Nick = NickOf(v.Name)
		}
		if v.Nick == "" {
			return nil, errors.InvalidData(errors.PhaseCompile, nil,
				"enum "+name+": variant with empty name and nick")
		}
		if _, dup := c.byNick[v.Nick]; dup {
			return nil, errors.InvalidData(errors.PhaseCompile, nil,
				"enum "+name+": duplicate nick "+v.Nick)
		}
		if _, dup := c.byDisc[v.Disc]; dup {
			return nil, errors.InvalidData(errors.PhaseCompile, nil,
				"enum "+name+": duplicate discriminant for "+v.Nick)
		}
		c.byNick[v.Nick] = v.Disc
		c.byDisc[v.Disc] = v.Nick
		c.values = append(c.values, v)
	}
	return c, nil
}

// MustClass is NewClass for declarations known valid at compile time.
func MustClass(name string, values ...Value) *Class {
	c, err := NewClass(name, values...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Class) Name() string { return c.name }

// Values returns the declared variants in declaration order.
func (c *Class) Values() []Value {
	out := make([]Value, len(c.values))
	copy(out, c.values)
	return out
}

// Nick returns the wire string for a discriminant.
func (c *Class) Nick(disc int32) (string, error) {
	nick, ok := c.byDisc[disc]
	if !ok {
		return "", errors.UnsupportedValue(errors.PhaseEncode, nil, disc,
			"discriminant not declared in enum "+c.name)
	}
	return nick, nil
}

// FromNick returns the discriminant for a wire string.
func (c *Class) FromNick(nick string) (int32, error) {
	disc, ok := c.byNick[nick]
	if !ok {
		return 0, errors.UnknownEnumVariant(errors.PhaseDecode, nil, nick, c.name)
	}
	return disc, nil
}

// Flag is one declared bit pattern of a flags enumeration.
type Flag struct {
	Name string
	Nick string // derived from Name when empty
	Bits uint32
}

// FlagsClass is the immutable wire mapping for a flags enumeration.
type FlagsClass struct {
	name   string
	flags  []Flag
	byNick map[string]uint32
}

// NewFlagsClass builds a FlagsClass from declared flags. Duplicate nicks
// are rejected; duplicate bit patterns are allowed (aliases), with the
// first declaration winning on encode.
func NewFlagsClass(name string, flags ...Flag) (*FlagsClass, error) {
	f := &FlagsClass{
		name:   name,
		flags:  make([]Flag, 0, len(flags)),
		byNick: make(map[string]uint32, len(flags)),
	}
	for _, v := range flags {
		if v.Nick == "" {
			v.Nick = NickOf(v.Name)
		}
		if v.Nick == "" {
			return nil, errors.InvalidData(errors.PhaseCompile, nil,
				"flags "+name+": value with empty name and nick")
		}
		if _, dup := f.byNick[v.Nick]; dup {
			return nil, errors.InvalidData(errors.PhaseCompile, nil,
				"flags "+name+": duplicate nick "+v.Nick)
		}
		f.byNick[v.Nick] = v.Bits
		f.flags = append(f.flags, v)
	}
	return f, nil
}

// MustFlagsClass is NewFlagsClass for declarations known valid at compile time.
func MustFlagsClass(name string, flags ...Flag) *FlagsClass {
	f, err := NewFlagsClass(name, flags...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *FlagsClass) Name() string { return f.name }

// Flags returns the declared values in declaration order.
func (f *FlagsClass) Flags() []Flag {
	out := make([]Flag, len(f.flags))
	copy(out, f.flags)
	return out
}

// WireString decomposes bits over the declared values and joins the
// matching nicks with "|". Declaration order drives the greedy match, so
// composite values declared before their parts win. Bits not covered by
// any declared value are a hard error, never silently dropped.
func (f *FlagsClass) WireString(bits uint32) (string, error) {
	if bits == 0 {
		// A declared zero value names the empty set; otherwise it is
		// the empty string.
		for _, v := range f.flags {
			if v.Bits == 0 {
				return v.Nick, nil
			}
		}
		return "", nil
	}
	var parts []string
	rest := bits
	for _, v := range f.flags {
		if v.Bits != 0 && rest&v.Bits == v.Bits {
			parts = append(parts, v.Nick)
			rest &^= v.Bits
		}
	}
	if rest != 0 {
		return "", errors.UnrepresentableFlags(errors.PhaseEncode, nil, uint64(rest), f.name)
	}
	return strings.Join(parts, "|"), nil
}

// ParseWire reverses WireString: "" is the empty set, otherwise the bits
// of each "|"-separated nick are ORed together.
func (f *FlagsClass) ParseWire(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	var bits uint32
	for _, nick := range strings.Split(s, "|") {
		b, ok := f.byNick[nick]
		if !ok {
			return 0, errors.UnknownEnumVariant(errors.PhaseDecode, nil, nick, f.name)
		}
		bits |= b
	}
	return bits, nil
}

// NickOf derives the wire nick from a declared name: word boundaries in
// CamelCase, snake_case, and spaced names all become hyphens, and the
// result is lowercased. "NorthEast", "NORTH_EAST", and "north east" all
// yield "north-east".
func NickOf(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == ' ' || r == '-':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		case unicode.IsUpper(r):
			if i > 0 {
				prev := runes[i-1]
				next := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
					(unicode.IsUpper(prev) && next) {
					if !strings.HasSuffix(b.String(), "-") {
						b.WriteByte('-')
					}
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
