// Package signature implements the GVariant type-signature grammar.
//
// A signature is a compact string describing the shape of a serialized
// value. Each type is spelled with a single code, prefix, or bracket pair:
//
//	Code    Type
//	────────────────────────────
//	b       boolean
//	y       byte
//	n/q     int16/uint16
//	i/u     int32/uint32
//	x/t     int64/uint64
//	d       double
//	s       string
//	o       object path
//	g       signature string
//	v       boxed variant
//	aT      array of T
//	mT      maybe (optional) T
//	(...)   tuple
//	{KV}    dict entry (basic key K, value V)
//
// Parse accepts exactly one complete, definite type and rejects everything
// else: unknown codes, unbalanced brackets, bare prefixes, non-basic dict
// keys, trailing garbage, and nesting deeper than MaxDepth.
package signature
