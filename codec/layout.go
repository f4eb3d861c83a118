package codec

import (
	"github.com/wippyai/gvariant/codec/internal/framing"
	"github.com/wippyai/gvariant/codec/internal/layout"
	"github.com/wippyai/gvariant/signature"
)

// LayoutInfo is the alignment class of a wire type.
type LayoutInfo = layout.Info

// LayoutCalculator answers size/alignment queries for signatures. The
// encoder and decoder share one calculator so padding decisions match.
type LayoutCalculator struct {
	calc *layout.Calculator
}

func NewLayoutCalculator() *LayoutCalculator {
	return &LayoutCalculator{
		calc: layout.NewCalculator(),
	}
}

func (lc *LayoutCalculator) Calculate(sig signature.Signature) LayoutInfo {
	return lc.calc.Calculate(sig)
}

var alignTo = framing.AlignTo
