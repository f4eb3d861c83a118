package codec

import "github.com/wippyai/gvariant/signature"

// Visitor receives a value tree one callback at a time, in signature
// order. The decoder drives a Visitor while slicing the input buffer;
// Walk drives one from an in-memory value, so a serialization front-end
// can consume the same contract in both directions.
//
// Container callbacks arrive as balanced Begin/End pairs. Within a
// record, RecordField precedes each member's callbacks; the name is empty
// for tuples compiled from a bare signature. Any callback may return an
// error to abort the traversal.
type Visitor interface {
	VisitBool(v bool) error
	VisitByte(v byte) error
	VisitInt16(v int16) error
	VisitUint16(v uint16) error
	VisitInt32(v int32) error
	VisitUint32(v uint32) error
	VisitInt64(v int64) error
	VisitUint64(v uint64) error
	VisitDouble(v float64) error
	VisitString(v string) error
	VisitObjectPath(v string) error
	VisitSignature(v signature.Signature) error

	// VisitEnum reports a plain-enum leaf as its wire nick and declared
	// discriminant. VisitFlags reports a flags leaf as its wire string
	// and combined bit pattern.
	VisitEnum(nick string, disc int32) error
	VisitFlags(wire string, bits uint32) error

	BeginRecord(n int) error
	RecordField(name string) error
	EndRecord() error

	BeginSequence(n int) error
	EndSequence() error

	BeginOptional(present bool) error
	EndOptional() error

	BeginVariant(sig signature.Signature) error
	EndVariant() error
}
