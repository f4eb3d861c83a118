package signature

import (
	"fmt"

	"github.com/wippyai/gvariant/errors"
)

// MaxDepth bounds container nesting during parsing. It keeps recursive
// consumers (layout calculation, decoding) on a bounded stack even for
// adversarial signatures.
const MaxDepth = 128

// Type codes as they appear on the wire.
const (
	CodeBool       = 'b'
	CodeByte       = 'y'
	CodeInt16      = 'n'
	CodeUint16     = 'q'
	CodeInt32      = 'i'
	CodeUint32     = 'u'
	CodeInt64      = 'x'
	CodeUint64     = 't'
	CodeDouble     = 'd'
	CodeString     = 's'
	CodeObjectPath = 'o'
	CodeSignature  = 'g'
	CodeVariant    = 'v'
	CodeArray      = 'a'
	CodeMaybe      = 'm'
)

// Signature is a validated GVariant type string. The zero value is not
// valid; obtain instances through Parse or the accessor methods of an
// already-validated Signature.
type Signature string

// Parse validates s as exactly one complete definite type.
func Parse(s string) (Signature, error) {
	if s == "" {
		return "", errors.InvalidSignature(errors.PhaseCompile, "", "empty signature")
	}
	end, err := parseOne(s, 0, 0)
	if err != nil {
		return "", err
	}
	if end != len(s) {
		return "", errors.InvalidSignature(errors.PhaseCompile, s, "trailing characters after type at offset %d", end)
	}
	return Signature(s), nil
}

// MustParse is Parse for signatures known valid at compile time.
func MustParse(s string) Signature {
	sig, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("signature: %v", err))
	}
	return sig
}

func (s Signature) String() string { return string(s) }

// Code returns the leading type code: the scalar code, 'a', 'm', 'v',
// '(' for tuples, or '{' for dict entries.
func (s Signature) Code() byte {
	if s == "" {
		return 0
	}
	return s[0]
}

// Elem returns the element type of an array or maybe signature.
// It panics when s is neither; callers dispatch on Code first.
func (s Signature) Elem() Signature {
	if len(s) < 2 || (s[0] != CodeArray && s[0] != CodeMaybe) {
		panic(fmt.Sprintf("signature: Elem on %q", string(s)))
	}
	return s[1:]
}

// Members splits a tuple or dict-entry signature into its member
// signatures. An empty tuple yields an empty slice.
func (s Signature) Members() []Signature {
	if len(s) < 2 || (s[0] != '(' && s[0] != '{') {
		panic(fmt.Sprintf("signature: Members on %q", string(s)))
	}
	inner := string(s[1 : len(s)-1])
	var out []Signature
	for pos := 0; pos < len(inner); {
		end, err := parseOne(inner, pos, 1)
		if err != nil {
			// s was validated at construction time.
			panic(fmt.Sprintf("signature: corrupt %q: %v", string(s), err))
		}
		out = append(out, Signature(inner[pos:end]))
		pos = end
	}
	return out
}

// IsBasic reports whether s is a basic (non-container) type, the set
// permitted as a dict-entry key.
func (s Signature) IsBasic() bool {
	return len(s) == 1 && isBasicCode(s[0])
}

// IsDefinite reports whether s describes exactly one concrete type. The
// grammar Parse accepts has no wildcard codes, so anything it returned is
// definite; this re-checks for Signature values converted from raw
// strings.
func (s Signature) IsDefinite() bool {
	_, err := Parse(string(s))
	return err == nil
}

func isBasicCode(c byte) bool {
	switch c {
	case CodeBool, CodeByte, CodeInt16, CodeUint16, CodeInt32, CodeUint32,
		CodeInt64, CodeUint64, CodeDouble, CodeString, CodeObjectPath, CodeSignature:
		return true
	}
	return false
}

// parseOne consumes one complete type starting at pos and returns the
// offset just past it.
func parseOne(s string, pos, depth int) (int, error) {
	if depth > MaxDepth {
		return 0, errors.InvalidSignature(errors.PhaseCompile, s, "nesting exceeds %d levels", MaxDepth)
	}
	if pos >= len(s) {
		return 0, errors.InvalidSignature(errors.PhaseCompile, s, "unexpected end of signature at offset %d", pos)
	}
	c := s[pos]
	switch {
	case isBasicCode(c), c == CodeVariant:
		return pos + 1, nil
	case c == CodeArray, c == CodeMaybe:
		return parseOne(s, pos+1, depth+1)
	case c == '(':
		end := pos + 1
		for end < len(s) && s[end] != ')' {
			next, err := parseOne(s, end, depth+1)
			if err != nil {
				return 0, err
			}
			end = next
		}
		if end >= len(s) {
			return 0, errors.InvalidSignature(errors.PhaseCompile, s, "unterminated tuple opened at offset %d", pos)
		}
		return end + 1, nil
	case c == '{':
		keyEnd, err := parseOne(s, pos+1, depth+1)
		if err != nil {
			return 0, err
		}
		if keyEnd-pos != 2 || !isBasicCode(s[pos+1]) {
			return 0, errors.InvalidSignature(errors.PhaseCompile, s, "dict entry key at offset %d must be a basic type", pos+1)
		}
		valEnd, err := parseOne(s, keyEnd, depth+1)
		if err != nil {
			return 0, err
		}
		if valEnd >= len(s) || s[valEnd] != '}' {
			return 0, errors.InvalidSignature(errors.PhaseCompile, s, "dict entry opened at offset %d must hold exactly one key and one value", pos)
		}
		return valEnd + 1, nil
	case c == ')', c == '}':
		return 0, errors.InvalidSignature(errors.PhaseCompile, s, "unmatched %q at offset %d", string(c), pos)
	default:
		return 0, errors.InvalidSignature(errors.PhaseCompile, s, "unknown type code %q at offset %d", string(c), pos)
	}
}
