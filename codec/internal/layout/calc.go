// Package layout computes the size and alignment class of wire types.
// The encoder and decoder query the same calculator so padding decisions
// are identical in both directions.
package layout

import (
	"fmt"
	"sync"

	"github.com/wippyai/gvariant/codec/internal/framing"
	"github.com/wippyai/gvariant/signature"
)

// Info is the alignment class of a type: Fixed types occupy exactly Size
// bytes; variable types carry Size 0 and are delimited by container
// framing instead.
type Info struct {
	Size  int
	Align int
	Fixed bool
}

// Calculator memoizes Info per signature. Safe for concurrent use.
type Calculator struct {
	mu    sync.Mutex
	cache map[signature.Signature]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[signature.Signature]Info),
	}
}

// Calculate returns the alignment class for a validated signature.
func (c *Calculator) Calculate(sig signature.Signature) Info {
	c.mu.Lock()
	if cached, ok := c.cache[sig]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	info := c.compute(sig)

	c.mu.Lock()
	c.cache[sig] = info
	c.mu.Unlock()
	return info
}

func (c *Calculator) compute(sig signature.Signature) Info {
	switch sig.Code() {
	case signature.CodeBool, signature.CodeByte:
		return Info{Size: 1, Align: 1, Fixed: true}
	case signature.CodeInt16, signature.CodeUint16:
		return Info{Size: 2, Align: 2, Fixed: true}
	case signature.CodeInt32, signature.CodeUint32:
		return Info{Size: 4, Align: 4, Fixed: true}
	case signature.CodeInt64, signature.CodeUint64, signature.CodeDouble:
		return Info{Size: 8, Align: 8, Fixed: true}
	case signature.CodeString, signature.CodeObjectPath, signature.CodeSignature:
		return Info{Align: 1}
	case signature.CodeVariant:
		return Info{Align: 8}
	case signature.CodeArray, signature.CodeMaybe:
		// Arrays and maybes take the element's alignment but are never
		// fixed-size: length is conveyed by framing.
		elem := c.Calculate(sig.Elem())
		return Info{Align: elem.Align}
	case '(', '{':
		return c.computeTuple(sig)
	default:
		// Signatures reaching the calculator were validated by Parse.
		panic(fmt.Sprintf("layout: invalid signature %q", sig.String()))
	}
}

func (c *Calculator) computeTuple(sig signature.Signature) Info {
	members := sig.Members()
	if len(members) == 0 {
		// The unit tuple still occupies one byte so that arrays of it
		// have countable elements.
		return Info{Size: 1, Align: 1, Fixed: true}
	}

	align := 1
	size := 0
	fixed := true
	for _, m := range members {
		mi := c.Calculate(m)
		if mi.Align > align {
			align = mi.Align
		}
		if !mi.Fixed {
			fixed = false
			continue
		}
		if fixed {
			size = framing.AlignTo(size, mi.Align) + mi.Size
		}
	}
	if !fixed {
		return Info{Align: align}
	}
	return Info{Size: framing.AlignTo(size, align), Align: align, Fixed: true}
}
