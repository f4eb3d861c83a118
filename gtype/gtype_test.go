package gtype

import (
	"testing"

	"github.com/wippyai/gvariant/enums"
)

func TestScalarKinds(t *testing.T) {
	tests := []struct {
		desc Desc
		kind Kind
	}{
		{desc: Bool, kind: KindBool},
		{desc: Byte, kind: KindByte},
		{desc: Int8, kind: KindInt8},
		{desc: Int32, kind: KindInt32},
		{desc: Uint64, kind: KindUint64},
		{desc: Float64, kind: KindFloat64},
		{desc: String, kind: KindString},
		{desc: ObjectPath, kind: KindObjectPath},
		{desc: SignatureString, kind: KindSignature},
		{desc: Variant, kind: KindVariant},
	}
	for _, tt := range tests {
		if tt.desc.Kind() != tt.kind {
			t.Errorf("%v: Kind() = %v, want %v", tt.desc, tt.desc.Kind(), tt.kind)
		}
	}
}

func TestIDDeterminism(t *testing.T) {
	item := Record{
		Name: "Item",
		Fields: []Field{
			{Name: "id", Type: Int32},
			{Name: "name", Type: String},
			{Name: "tags", Type: Sequence{Elem: String}},
		},
	}
	a := item.ID()
	b := item.ID()
	if a != b {
		t.Fatalf("ID not stable: %q vs %q", a, b)
	}

	reordered := Record{
		Name: "Item",
		Fields: []Field{
			{Name: "name", Type: String},
			{Name: "id", Type: Int32},
			{Name: "tags", Type: Sequence{Elem: String}},
		},
	}
	if reordered.ID() == a {
		t.Error("field order must change the identity")
	}
}

func TestContainerIDs(t *testing.T) {
	tests := []struct {
		desc Desc
		want string
	}{
		{desc: Sequence{Elem: Int32}, want: "seq[int32]"},
		{desc: Optional{Elem: String}, want: "opt[string]"},
		{desc: Dict{Key: String, Value: Variant}, want: "dict[string=variant]"},
		{desc: Record{}, want: "record[]()"},
		{desc: Record{Name: "Unit"}, want: "record[Unit]()"},
	}
	for _, tt := range tests {
		if got := tt.desc.ID(); got != tt.want {
			t.Errorf("ID = %q, want %q", got, tt.want)
		}
	}
}

func TestIDDistinguishesRecordNames(t *testing.T) {
	fields := []Field{{Name: "id", Type: Int32}}
	if (Record{Name: "A", Fields: fields}).ID() == (Record{Name: "B", Fields: fields}).ID() {
		t.Error("record name must change the identity")
	}
}

func TestIDDistinguishesEnumClasses(t *testing.T) {
	a := enums.MustClass("Direction", enums.Value{Name: "North", Disc: 0})
	b := enums.MustClass("Direction", enums.Value{Name: "South", Disc: 0})

	if (Enum{Class: a}).ID() == (Enum{Class: b}).ID() {
		t.Error("distinct enum classes sharing a name must not collide")
	}
	if (EnumRepr{Class: a}).ID() == (EnumRepr{Class: b}).ID() {
		t.Error("distinct enum-repr classes sharing a name must not collide")
	}
	if (Enum{Class: a}).ID() != (Enum{Class: a}).ID() {
		t.Error("identity must be stable for one class instance")
	}

	fa := enums.MustFlagsClass("Access", enums.Flag{Name: "Read", Bits: 1})
	fb := enums.MustFlagsClass("Access", enums.Flag{Name: "Write", Bits: 2})
	if (Flags{Class: fa}).ID() == (Flags{Class: fb}).ID() {
		t.Error("distinct flags classes sharing a name must not collide")
	}
}
