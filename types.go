// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

import (
	"slices"
	"strconv"
	"strings"
)

//region BIT STRING

// BitString is the payload of a Value of [VariantBitString]. A bit string is
// padded up to the nearest byte and the number of valid bits is recorded
// separately. Padding bits are always zero. Bits are packed MSB-first within
// a byte.
type BitString struct {
	Bytes     []byte
	BitLength int
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return len(s.Bytes) >= (s.BitLength+7)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int { return s.BitLength }

// At returns the bit at the given index. At panics if i is out of range.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("asn1rt: bit index out of range")
	}
	return int(s.Bytes[i/8]>>(7-uint(i%8))) & 1
}

// Equal reports whether s and other describe the same bit sequence,
// including any trailing unused bits (which must both be zero).
func (s BitString) Equal(other BitString) bool {
	return s.BitLength == other.BitLength && slices.Equal(s.Bytes, other.Bytes)
}

// Compare defines the total order over BitString values used by
// [Value.Compare]: shorter bit length sorts first, ties broken
// lexicographically on the packed bytes.
func (s BitString) Compare(other BitString) int {
	if s.BitLength != other.BitLength {
		return cmpInt(s.BitLength, other.BitLength)
	}
	return slices.Compare(s.Bytes, other.Bytes)
}

// String renders s as a sequence of '0'/'1' characters, most significant bit
// first.
func (s BitString) String() string {
	var b strings.Builder
	b.Grow(s.BitLength)
	for i := 0; i < s.BitLength; i++ {
		b.WriteByte('0' + byte(s.At(i)))
	}
	return b.String()
}

//endregion

//region OBJECT IDENTIFIER / RELATIVE-OID

// ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER: an ordered
// sequence of unsigned arc numbers.
type ObjectIdentifier []uint64

// Equal reports whether oid and other name the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// Compare defines the total order over ObjectIdentifier used by
// [Value.Compare]: component-wise, then by length.
func (oid ObjectIdentifier) Compare(other ObjectIdentifier) int {
	for i := 0; i < len(oid) && i < len(other); i++ {
		if oid[i] != other[i] {
			return cmpUint(oid[i], other[i])
		}
	}
	return cmpInt(len(oid), len(other))
}

// DottedString returns the dot-separated notation of oid, e.g. "1.3.6.1".
// This is a diagnostic convenience distinct from the brace/space notation
// the avn package emits for OBJECT IDENTIFIER values.
func (oid ObjectIdentifier) DottedString() string {
	var b strings.Builder
	b.Grow(4 * len(oid))
	for i, v := range oid {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatUint(v, 10))
	}
	return b.String()
}

// RelativeOID is like ObjectIdentifier but represents only a suffix of an
// OID (ASN.1 RELATIVE-OID).
type RelativeOID []uint64

// Equal reports whether oid and other name the same relative identifier.
func (oid RelativeOID) Equal(other RelativeOID) bool { return slices.Equal(oid, other) }

//endregion

//region GeneralizedTime

// GeneralizedTime is the payload of a Value of [VariantGeneralizedTime]. It
// is represented as explicit calendar fields rather than a [time.Time]
// because ASN.1 GeneralizedTime allows a "local time with minute offset"
// representation that time.Time's monotonic/location model does not
// round-trip losslessly, and because a Value must remain comparable without
// relying on time zone database state.
type GeneralizedTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Millisecond          int
	// MinuteOffset is the signed offset from UTC in minutes. Only
	// meaningful when UTC is false and Local is false.
	MinuteOffset int
	// UTC indicates the time carries a trailing "Z" (Coordinated Universal
	// Time). Mutually exclusive with a non-zero MinuteOffset.
	UTC bool
	// Local indicates the time carries no zone designator at all (a "local
	// time" value per X.680 §46.3).
	Local bool
}

// Compare defines the total order over GeneralizedTime values used by
// [Value.Compare]: lexicographic over the calendar fields in the order they
// are declared, not normalized to UTC (consistent with the fact that two
// GeneralizedTime values in different zones are distinct ASN.1 values).
func (t GeneralizedTime) Compare(other GeneralizedTime) int {
	fields := [][2]int{
		{t.Year, other.Year}, {t.Month, other.Month}, {t.Day, other.Day},
		{t.Hour, other.Hour}, {t.Minute, other.Minute}, {t.Second, other.Second},
		{t.Millisecond, other.Millisecond}, {t.MinuteOffset, other.MinuteOffset},
	}
	for _, f := range fields {
		if c := cmpInt(f[0], f[1]); c != 0 {
			return c
		}
	}
	if c := cmpBool(t.UTC, other.UTC); c != 0 {
		return c
	}
	return cmpBool(t.Local, other.Local)
}

// IsValid reports whether the calendar fields of t are within their legal
// ranges. It does not check day-of-month validity against the given month
// (e.g. Feb 30 is accepted).
func (t GeneralizedTime) IsValid() bool {
	return t.Year >= 1 && t.Year <= 9999 &&
		t.Month >= 1 && t.Month <= 12 &&
		t.Day >= 1 && t.Day <= 31 &&
		t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 60 &&
		t.Millisecond >= 0 && t.Millisecond < 1000 &&
		t.MinuteOffset > -24*60 && t.MinuteOffset < 24*60
}

// String renders t in the canonical ASN.1 GeneralizedTime notation
// (YYYYMMDDHHMMSS[.fff][Z|+-HHMM]).
func (t GeneralizedTime) String() string {
	var b strings.Builder
	b.Grow(23)
	b.WriteString(itoaN(t.Year, 4))
	b.WriteString(itoaN(t.Month, 2))
	b.WriteString(itoaN(t.Day, 2))
	b.WriteString(itoaN(t.Hour, 2))
	b.WriteString(itoaN(t.Minute, 2))
	b.WriteString(itoaN(t.Second, 2))
	if t.Millisecond > 0 {
		b.WriteByte('.')
		b.WriteString(itoaN(t.Millisecond, 3))
	}
	switch {
	case t.UTC:
		b.WriteByte('Z')
	case !t.Local:
		if t.MinuteOffset < 0 {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}
		off := t.MinuteOffset
		if off < 0 {
			off = -off
		}
		b.WriteString(itoaN(off/60, 2))
		b.WriteString(itoaN(off%60, 2))
	}
	return b.String()
}

// itoaN returns the base-10 representation of the absolute value of i,
// zero-padded (or truncated on the left) to exactly n digits.
func itoaN(i, n int) string {
	if i < 0 {
		i = -i
	}
	bs := make([]byte, n)
	for ; n > 0; n-- {
		bs[n-1] = '0' + byte(i%10)
		i /= 10
	}
	return string(bs)
}

//endregion

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
