// Package enums maps between declared enumeration variants and their wire
// representation.
//
// A plain enumeration travels as the nick (kebab-case short name) of the
// active variant. A flags enumeration travels as the nicks of its set bits
// joined with "|". Both directions are total over the declared values:
// an unknown nick fails decode, an undeclared discriminant fails encode,
// and flag bits not covered by any declared value fail encode rather than
// being dropped.
package enums
