// Package framing implements the byte-level plumbing shared by the
// encoder and decoder: alignment arithmetic, offset-word width selection,
// and little-endian word I/O for offset tables.
package framing

import (
	"encoding/binary"
	"math"
)

// MaxSize caps any single serialized value. Offsets are addressed with at
// most 8-byte words, but a 1 GB ceiling keeps hostile inputs from driving
// huge allocations.
const MaxSize = 1 << 30

// AlignTo rounds offset up to the next multiple of align. Alignments are
// powers of two (1, 2, 4, 8).
func AlignTo(offset, align int) int {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func maxForWidth(w int) uint64 {
	switch w {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// OffsetWidth returns the smallest word width (1, 2, 4, or 8) such that
// the body plus count trailing words of that width still fits the width's
// addressable range. The total container size then implies the same width,
// which is how the decoder recovers it without a stored hint.
func OffsetWidth(body, count int) int {
	for _, w := range []int{1, 2, 4} {
		total := uint64(body) + uint64(count)*uint64(w)
		if total <= maxForWidth(w) {
			return w
		}
	}
	return 8
}

// WidthForSize returns the offset-word width implied by a container's
// total serialized size.
func WidthForSize(total int) int {
	switch {
	case total <= math.MaxUint8:
		return 1
	case total <= math.MaxUint16:
		return 2
	case total <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// ReadWord reads one little-endian offset word of width w from data.
// len(data) must be at least w.
func ReadWord(data []byte, w int) uint64 {
	switch w {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(data))
	case 4:
		return uint64(binary.LittleEndian.Uint32(data))
	default:
		return binary.LittleEndian.Uint64(data)
	}
}

// AppendWord appends one little-endian offset word of width w.
func AppendWord(buf []byte, w int, v uint64) []byte {
	switch w {
	case 1:
		return append(buf, byte(v))
	case 2:
		return binary.LittleEndian.AppendUint16(buf, uint16(v))
	case 4:
		return binary.LittleEndian.AppendUint32(buf, uint32(v))
	default:
		return binary.LittleEndian.AppendUint64(buf, v)
	}
}

// SafeMul multiplies non-negative ints, reporting overflow past MaxSize.
func SafeMul(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if b != 0 && a > MaxSize/b {
		return 0, false
	}
	return a * b, true
}

// SafeAdd adds non-negative ints, reporting overflow past MaxSize.
func SafeAdd(a, b int) (int, bool) {
	if a < 0 || b < 0 || a > MaxSize-b {
		return 0, false
	}
	return a + b, true
}
