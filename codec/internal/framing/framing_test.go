package framing

import "testing"

func TestAlignTo(t *testing.T) {
	tests := []struct {
		offset, align, want int
	}{
		{0, 1, 0},
		{5, 1, 5},
		{0, 4, 0},
		{1, 4, 4},
		{4, 4, 4},
		{5, 8, 8},
		{8, 8, 8},
		{9, 2, 10},
	}
	for _, tt := range tests {
		if got := AlignTo(tt.offset, tt.align); got != tt.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", tt.offset, tt.align, got, tt.want)
		}
	}
}

func TestOffsetWidth(t *testing.T) {
	tests := []struct {
		name        string
		body, count int
		want        int
	}{
		{name: "tiny", body: 10, count: 3, want: 1},
		{name: "exactly fits one byte", body: 252, count: 3, want: 1},
		{name: "body pushes past one byte", body: 253, count: 3, want: 2},
		{name: "large body", body: 70000, count: 1, want: 4},
		{name: "zero offsets", body: 300, count: 0, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OffsetWidth(tt.body, tt.count); got != tt.want {
				t.Errorf("OffsetWidth(%d, %d) = %d, want %d", tt.body, tt.count, got, tt.want)
			}
		})
	}
}

// The decoder recovers the width from the total size alone, so for every
// body/count pair the width implied by body+count*w must equal w.
func TestWidthAgreement(t *testing.T) {
	bodies := []int{0, 1, 200, 252, 253, 255, 256, 65000, 65534, 65535, 70000}
	counts := []int{0, 1, 2, 3, 100, 1000}
	for _, body := range bodies {
		for _, count := range counts {
			w := OffsetWidth(body, count)
			total := body + count*w
			if got := WidthForSize(total); got != w {
				t.Errorf("body=%d count=%d: encoder picked %d, decoder derives %d from %d",
					body, count, w, got, total)
			}
		}
	}
}

func TestWordRoundTrip(t *testing.T) {
	for _, w := range []int{1, 2, 4, 8} {
		values := []uint64{0, 1, maxForWidth(w) / 2, maxForWidth(w)}
		for _, v := range values {
			buf := AppendWord(nil, w, v)
			if len(buf) != w {
				t.Fatalf("width %d: wrote %d bytes", w, len(buf))
			}
			if got := ReadWord(buf, w); got != v {
				t.Errorf("width %d: round trip %d gave %d", w, v, got)
			}
		}
	}
}

func TestSafeArithmetic(t *testing.T) {
	if _, ok := SafeMul(MaxSize, 2); ok {
		t.Error("SafeMul overflow not detected")
	}
	if v, ok := SafeMul(1000, 1000); !ok || v != 1000000 {
		t.Errorf("SafeMul(1000, 1000) = %d, %v", v, ok)
	}
	if _, ok := SafeAdd(MaxSize, 1); ok {
		t.Error("SafeAdd overflow not detected")
	}
	if _, ok := SafeAdd(-1, 1); ok {
		t.Error("SafeAdd accepted negative input")
	}
}
