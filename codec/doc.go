// Package codec provides GVariant serialization and deserialization.
//
// This package handles bidirectional conversion between dynamic Go values
// and the GVariant serialized format: little-endian scalars, NUL-terminated
// strings, and variable-size containers framed by trailing end-offset
// tables.
//
// # Wire Layout
//
// Every type has a fixed alignment; fixed-size types also have a fixed
// size, while variable-size types are delimited by container framing:
//
//	Signature       Size    Alignment
//	──────────────────────────────────
//	b / y           1       1
//	n / q           2       2
//	i / u           4       4
//	x / t / d       8       8
//	s / o / g       varies  1 (UTF-8 + NUL)
//	v               varies  8 (payload + NUL + signature)
//	aT              varies  align of T
//	mT              varies  align of T
//	(...)           sum     max member align (1 if empty; () is 1 byte)
//	{KV}            as tuple of K, V
//
// Variable-size members of a container are followed by a table of end
// offsets at the container's tail, sized to the smallest of 1/2/4/8 bytes
// that can address the container. Arrays store one end per element in
// order; tuples store ends only for variable members that are not the
// last, in reverse member order. A tuple whose only variable member is
// last needs no table at all.
//
// # Key Types
//
//	Compiler      - Resolves type descriptions and signatures
//	CompiledType  - Cached signature + layout + enum metadata
//	Encoder       - Serializes dynamic values to framed buffers
//	Decoder       - Validates buffers and drives a Visitor
//	Visitor       - Callback contract shared by both directions
//	ValueBuilder  - Visitor that materializes a dynamic value tree
//
// # Encoding Flow
//
//  1. Compiler.Compile(desc) → CompiledType
//  2. Encoder.Encode(ct, value) → []byte
//
// # Decoding Flow
//
//  1. Compiler.CompileSignature(sig) → CompiledType
//  2. Decoder.Decode(ct, data, visitor)
//     or decode into NewValueBuilder() and take Value()
//
// Enum and flags leaves travel as strings: the variant nick for enums,
// "|"-joined nicks for flags. The enums package owns that mapping; the
// codec only diverts leaf values through it.
package codec
