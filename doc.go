// Package gvariant serializes structured data in the GVariant format.
//
// This library bridges a structured-data model (records with named
// fields, enumerations, flag sets, sequences, optionals, scalars, and
// dynamically boxed variants) and GVariant's self-describing binary
// encoding: type-signature compilation, alignment-aware layout, framed
// encoding and strictly validated decoding, and the enum/flags wire
// bridge.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	gvariant/            Root package with the Serialize/Deserialize entry points
//	├── signature/       Type-signature grammar: parsing and structural accessors
//	├── gtype/           Structural type descriptions supplied by the host
//	├── enums/           Enum and flags nick registries (wire-string bridge)
//	├── codec/           Compiler, layout engine, encoder, decoder, visitor
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Describe a type, then serialize a matching value:
//
//	item := gtype.Record{
//	    Name: "Item",
//	    Fields: []gtype.Field{
//	        {Name: "id", Type: gtype.Int32},
//	        {Name: "name", Type: gtype.String},
//	    },
//	}
//
//	data, sig, err := gvariant.Serialize(map[string]any{
//	    "id":   int32(1),
//	    "name": "Item",
//	}, item)
//	// sig == "(is)"
//
//	value, err := gvariant.Deserialize(data, sig.String())
//
// # Wire Format
//
// Values are framed per the GVariant serialization rules: little-endian
// scalars padded to their alignment, NUL-terminated UTF-8 strings, and
// trailing end-offset tables for variable-size container members, with
// the offset-word width chosen as the smallest of 1/2/4/8 bytes that can
// address the container. Signatures use the standard code alphabet
// (b y n q i u x t d s o g v, a for arrays, m for maybes, parentheses
// for tuples, braces for dict entries).
//
// # Error Handling
//
// Every failure is returned as an *errors.Error carrying the processing
// phase, an error kind from the format's taxonomy (type mismatch,
// truncated input, bad framing, invalid UTF-8, unknown enum variant, and
// so on), and the path to the offending value. Nothing is coerced or
// silently dropped: decode yields a fully validated value or fails, and
// encode never emits partial bytes.
//
// # Thread Safety
//
// Compiled types, signatures, and enum classes are immutable and safe to
// share. Encode and decode calls on independent inputs need no
// coordination; the signature and layout caches are internally
// synchronized.
package gvariant
