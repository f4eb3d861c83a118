// Package gtype declares the structural type descriptions the codec
// compiles into wire signatures.
//
// A Desc is the registration-time data structure a host supplies in place
// of runtime reflection: ordered named fields for records, element types
// for sequences and optionals, enum/flags classes for enumeration leaves,
// and scalar kinds for everything else. Descriptions are immutable once
// built and safe to share across goroutines.
package gtype
