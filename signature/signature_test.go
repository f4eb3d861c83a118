package signature

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/gvariant/errors"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		name string
		sig  string
	}{
		{name: "bool", sig: "b"},
		{name: "byte", sig: "y"},
		{name: "int16", sig: "n"},
		{name: "uint16", sig: "q"},
		{name: "int32", sig: "i"},
		{name: "uint32", sig: "u"},
		{name: "int64", sig: "x"},
		{name: "uint64", sig: "t"},
		{name: "double", sig: "d"},
		{name: "string", sig: "s"},
		{name: "object path", sig: "o"},
		{name: "signature", sig: "g"},
		{name: "variant", sig: "v"},
		{name: "array of int", sig: "ai"},
		{name: "array of string", sig: "as"},
		{name: "maybe string", sig: "ms"},
		{name: "nested array", sig: "aai"},
		{name: "maybe array", sig: "mas"},
		{name: "empty tuple", sig: "()"},
		{name: "pair tuple", sig: "(is)"},
		{name: "nested tuple", sig: "(i(sd))"},
		{name: "dict of strings", sig: "a{ss}"},
		{name: "dict variant values", sig: "a{sv}"},
		{name: "tuple of containers", sig: "(a{sv}ams)"},
		{name: "deeply mixed", sig: "am(a{si}v)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, err := Parse(tt.sig)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.sig, err)
			}
			if sig.String() != tt.sig {
				t.Errorf("round-trip mismatch: got %q, want %q", sig.String(), tt.sig)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		sig  string
	}{
		{name: "empty", sig: ""},
		{name: "unknown code", sig: "z"},
		{name: "bare array", sig: "a"},
		{name: "bare maybe", sig: "m"},
		{name: "trailing garbage", sig: "ix"},
		{name: "two types", sig: "ss"},
		{name: "unterminated tuple", sig: "(is"},
		{name: "unmatched close", sig: ")"},
		{name: "unmatched brace", sig: "}"},
		{name: "dict no value", sig: "{s}"},
		{name: "dict extra member", sig: "{sss}"},
		{name: "dict container key", sig: "{(i)s}"},
		{name: "dict variant key", sig: "{vs}"},
		{name: "dict maybe key", sig: "a{msi}"},
		{name: "unterminated dict", sig: "{ss"},
		{name: "nested unknown", sig: "(iz)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.sig); err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.sig)
			}
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := strings.Repeat("a", MaxDepth+1) + "i"
	_, err := Parse(deep)
	if err == nil {
		t.Fatal("expected depth error")
	}
	var serr *errors.Error
	if !stderrors.As(err, &serr) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if serr.Kind != errors.KindInvalidSignature {
		t.Errorf("wrong kind: %v", serr.Kind)
	}

	ok := strings.Repeat("a", MaxDepth-1) + "i"
	if _, err := Parse(ok); err != nil {
		t.Errorf("Parse under the limit failed: %v", err)
	}
}

func TestElem(t *testing.T) {
	tests := []struct {
		sig  string
		elem string
	}{
		{sig: "ai", elem: "i"},
		{sig: "aai", elem: "ai"},
		{sig: "ms", elem: "s"},
		{sig: "ma{sv}", elem: "a{sv}"},
	}
	for _, tt := range tests {
		if got := MustParse(tt.sig).Elem(); got.String() != tt.elem {
			t.Errorf("Elem(%q) = %q, want %q", tt.sig, got, tt.elem)
		}
	}
}

func TestElemPanicsOnScalar(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	MustParse("i").Elem()
}

func TestMembers(t *testing.T) {
	tests := []struct {
		sig     string
		members []string
	}{
		{sig: "()", members: nil},
		{sig: "(i)", members: []string{"i"}},
		{sig: "(is)", members: []string{"i", "s"}},
		{sig: "(a{sv}ms(xy))", members: []string{"a{sv}", "ms", "(xy)"}},
		{sig: "{sv}", members: []string{"s", "v"}},
	}
	for _, tt := range tests {
		got := MustParse(tt.sig).Members()
		if len(got) != len(tt.members) {
			t.Fatalf("Members(%q) = %v, want %v", tt.sig, got, tt.members)
		}
		for i, m := range got {
			if m.String() != tt.members[i] {
				t.Errorf("Members(%q)[%d] = %q, want %q", tt.sig, i, m, tt.members[i])
			}
		}
	}
}

func TestIsBasic(t *testing.T) {
	for _, s := range []string{"b", "y", "n", "q", "i", "u", "x", "t", "d", "s", "o", "g"} {
		if !MustParse(s).IsBasic() {
			t.Errorf("%q should be basic", s)
		}
	}
	for _, s := range []string{"v", "ai", "ms", "(i)", "{ss}"} {
		if MustParse(s).IsBasic() {
			t.Errorf("%q should not be basic", s)
		}
	}
}

func TestIsDefinite(t *testing.T) {
	for _, s := range []string{"i", "v", "a{sv}", "(ims)"} {
		if !Signature(s).IsDefinite() {
			t.Errorf("%q should be definite", s)
		}
	}
	for _, s := range []string{"", "a", "z", "ss", "(i"} {
		if Signature(s).IsDefinite() {
			t.Errorf("%q should not be definite", s)
		}
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		sig  string
		code byte
	}{
		{sig: "i", code: CodeInt32},
		{sig: "ai", code: CodeArray},
		{sig: "ms", code: CodeMaybe},
		{sig: "(is)", code: '('},
		{sig: "{sv}", code: '{'},
		{sig: "v", code: CodeVariant},
	}
	for _, tt := range tests {
		if got := MustParse(tt.sig).Code(); got != tt.code {
			t.Errorf("Code(%q) = %q, want %q", tt.sig, got, tt.code)
		}
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{"i", "ai", "(is)", "a{sv}", "mmms", "(a{si}v)", "z", "((", "{s}"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		sig, err := Parse(s)
		if err != nil {
			return
		}
		// Valid signatures must survive structural accessors without
		// panicking, and re-parse to themselves.
		switch sig.Code() {
		case CodeArray, CodeMaybe:
			if _, err := Parse(sig.Elem().String()); err != nil {
				t.Fatalf("Elem(%q) not parseable: %v", s, err)
			}
		case '(', '{':
			for _, m := range sig.Members() {
				if _, err := Parse(m.String()); err != nil {
					t.Fatalf("member %q of %q not parseable: %v", m, s, err)
				}
			}
		}
		if again, err := Parse(sig.String()); err != nil || again != sig {
			t.Fatalf("re-parse of %q changed: %v", s, err)
		}
	})
}
