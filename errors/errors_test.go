package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:       PhaseEncode,
				Kind:        KindTypeMismatch,
				Path:        []string{"user", "address", "zip"},
				GoType:      "string",
				VariantType: "u",
				Detail:      "cannot convert",
			},
			contains: []string{"[encode]", "type_mismatch", "user.address.zip", "string", "u", "cannot convert"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDecode,
				Kind:  KindBadFraming,
			},
			contains: []string{"[decode]", "bad_framing"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindInvalidData,
				Detail: "short buffer",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[decode]", "invalid_data", "short buffer", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindTypeMismatch,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseEncode, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindBadFraming}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseEncode, Kind: KindTypeMismatch}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseEncode, KindTypeMismatch).
		Path("user", "name").
		GoType("string").
		VariantType("u").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "string", "int").
		Build()

	if err.Phase != PhaseEncode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseEncode)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "user" || err.Path[1] != "name" {
		t.Errorf("Path = %v, want [user name]", err.Path)
	}
	if err.GoType != "string" {
		t.Errorf("GoType = %v, want 'string'", err.GoType)
	}
	if err.VariantType != "u" {
		t.Errorf("VariantType = %v, want 'u'", err.VariantType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected string, got int" {
		t.Errorf("Detail = %v, want 'expected string, got int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseEncode, []string{"field"}, "int", "s")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.GoType != "int" || err.VariantType != "s" {
			t.Errorf("GoType=%v VariantType=%v", err.GoType, err.VariantType)
		}
	})

	t.Run("InvalidUTF8", func(t *testing.T) {
		data := []byte{0xff, 0xfe}
		err := InvalidUTF8(PhaseDecode, []string{"str"}, data)
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		err := Truncated(PhaseDecode, []string{"val"}, 8, 5)
		if err.Kind != KindTruncatedInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTruncatedInput)
		}
		if !containsSubstring(err.Detail, "8") || !containsSubstring(err.Detail, "5") {
			t.Errorf("Detail = %v, should contain byte counts", err.Detail)
		}
	})

	t.Run("BadFraming", func(t *testing.T) {
		err := BadFraming(PhaseDecode, []string{"array"}, "offset %d past end %d", 12, 10)
		if err.Kind != KindBadFraming {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadFraming)
		}
		if err.Detail != "offset 12 past end 10" {
			t.Errorf("Detail = %v, want formatted message", err.Detail)
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		err := UnsupportedType(PhaseCompile, nil, "128-bit integers")
		if err.Kind != KindUnsupportedType {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedType)
		}
	})

	t.Run("UnknownEnumVariant", func(t *testing.T) {
		err := UnknownEnumVariant(PhaseDecode, []string{"dir"}, "north-east", "Direction")
		if err.Kind != KindUnknownEnum {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownEnum)
		}
		if err.Value != "north-east" {
			t.Errorf("Value = %v, want north-east", err.Value)
		}
	})

	t.Run("UnrepresentableFlags", func(t *testing.T) {
		err := UnrepresentableFlags(PhaseEncode, nil, 0x80, "FileMode")
		if err.Kind != KindBadFlags {
			t.Errorf("Kind = %v, want %v", err.Kind, KindBadFlags)
		}
		if err.Value != uint64(0x80) {
			t.Errorf("Value = %v, want 0x80", err.Value)
		}
	})

	t.Run("UnknownSignature", func(t *testing.T) {
		err := UnknownSignature(PhaseDecode, nil, "(is")
		if err.Kind != KindUnknownSignature {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnknownSignature)
		}
		if err.VariantType != "(is" {
			t.Errorf("VariantType = %v, want '(is'", err.VariantType)
		}
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		err := InvalidSignature(PhaseValidate, "a", "indefinite element")
		if err.Kind != KindInvalidSignature {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidSignature)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseEncode, []string{"val"}, 300, "y")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
		if err.Value != 300 {
			t.Errorf("Value = %v, want 300", err.Value)
		}
	})
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
