// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/internal/bitio"
)

// maxUnfragmentedLength is the largest count this codec encodes as a single
// length determinant. X.691 requires fragmenting longer lengths into chunks
// that are multiples of 16384; this codec does not implement fragmentation
// and reports [asn1rt.ErrUnsupported] instead, matching this runtime's
// general posture of reporting unimplemented wire edge cases rather than
// silently truncating.
const maxUnfragmentedLength = 1<<14 - 1

// decodeLengthDeterminant reads an unconstrained length determinant: a
// single byte for counts below 128, or two bytes with the top two bits set
// to "10" for counts up to maxUnfragmentedLength.
func decodeLengthDeterminant(r *bitio.Reader) (int, error) {
	r.ByteAlign()
	b, err := r.ReadBits(8)
	if err != nil {
		return 0, asn1rt.ErrTruncated
	}
	switch {
	case b&0x80 == 0:
		return int(b), nil
	case b&0xC0 == 0x80:
		b2, err := r.ReadBits(8)
		if err != nil {
			return 0, asn1rt.ErrTruncated
		}
		return int(b&0x3F)<<8 | int(b2), nil
	default:
		return 0, asn1rt.ErrUnsupported
	}
}

// appendLengthDeterminant appends the unconstrained length determinant
// encoding of n to w. n must be within [0, maxUnfragmentedLength].
func appendLengthDeterminant(w *bitio.Writer, n int) error {
	w.ByteAlign()
	if n > maxUnfragmentedLength {
		return asn1rt.ErrUnsupported
	}
	if n < 128 {
		w.WriteBits(uint64(n), 8)
		return nil
	}
	w.WriteBits(uint64(n>>8)|0x80, 8)
	w.WriteBits(uint64(n&0xFF), 8)
	return nil
}

// decodeNormallySmallLength reads a "normally small" length determinant,
// used for the extension-addition presence bitmap count. Values up to 64 fit
// in a single byte; this codec does not implement the larger unconstrained
// fallback form.
func decodeNormallySmallLength(r *bitio.Reader) (int, error) {
	b, err := r.ReadBits(1)
	if err != nil {
		return 0, asn1rt.ErrTruncated
	}
	if b == 1 {
		return 0, asn1rt.ErrUnsupported
	}
	v, err := r.ReadBits(6)
	if err != nil {
		return 0, asn1rt.ErrTruncated
	}
	return int(v) + 1, nil
}

func appendNormallySmallLength(w *bitio.Writer, n int) error {
	if n < 1 || n > 64 {
		return asn1rt.ErrUnsupported
	}
	w.WriteBit(0)
	w.WriteBits(uint64(n-1), 6)
	return nil
}

// decodeSmallNonNegativeWholeNumber reads a CHOICE extension's selection
// index: a single zero bit followed by a 6-bit value. This codec does not
// implement the general unconstrained fallback (signaled by a leading one
// bit), so CHOICEs with more than 64 extension alternatives are unsupported.
func decodeSmallNonNegativeWholeNumber(r *bitio.Reader) (int, error) {
	b, err := r.ReadBit()
	if err != nil {
		return 0, asn1rt.ErrTruncated
	}
	if b == 1 {
		return 0, asn1rt.ErrUnsupported
	}
	v, err := r.ReadBits(6)
	if err != nil {
		return 0, asn1rt.ErrTruncated
	}
	return int(v), nil
}

func appendSmallNonNegativeWholeNumber(w *bitio.Writer, n int) error {
	if n < 0 || n > 63 {
		return asn1rt.ErrUnsupported
	}
	w.WriteBit(0)
	w.WriteBits(uint64(n), 6)
	return nil
}

// constrainedWholeNumberBits returns the number of bits needed to represent
// every value in a root range of size rangeSize, per X.691's "minimum bits"
// rule. It panics if rangeSize <= 0.
func constrainedWholeNumberBits(rangeSize int64) int {
	if rangeSize <= 0 {
		panic("per: non-positive range")
	}
	bits := 0
	for v := rangeSize - 1; v > 0; v >>= 1 {
		bits++
	}
	return bits
}

// maxFixedWidthRange is the largest root range this codec packs into a fixed
// number of octet-aligned bytes. X.691 §10.5.7.4 requires ranges larger than
// 64K to use a length-prefixed encoding instead of a fixed width; that form
// is not implemented, so decodeConstrainedWholeNumber and
// appendConstrainedWholeNumber report [asn1rt.ErrUnsupported] rather than
// silently emitting the wrong wire shape for such a range.
const maxFixedWidthRange = 1 << 16

// decodeConstrainedWholeNumber reads a value offset from lower, encoded over
// a root range of size rangeSize. Ranges up to 256 are packed into the
// minimum number of bits with no alignment; larger ranges (up to
// maxFixedWidthRange) are octet-aligned and use the minimum whole number of
// bytes, both per X.691 §10.5.
func decodeConstrainedWholeNumber(r *bitio.Reader, lower int64, rangeSize int64) (int64, error) {
	if rangeSize == 1 {
		return lower, nil
	}
	if rangeSize > maxFixedWidthRange {
		return 0, asn1rt.ErrUnsupported
	}
	bits := constrainedWholeNumberBits(rangeSize)
	if rangeSize <= 256 {
		v, err := r.ReadBits(bits)
		if err != nil {
			return 0, asn1rt.ErrTruncated
		}
		return lower + int64(v), nil
	}
	r.ByteAlign()
	numBytes := (bits + 7) / 8
	v, err := r.ReadBits(numBytes * 8)
	if err != nil {
		return 0, asn1rt.ErrTruncated
	}
	return lower + int64(v), nil
}

func appendConstrainedWholeNumber(w *bitio.Writer, value, lower, rangeSize int64) error {
	if rangeSize == 1 {
		return nil
	}
	if rangeSize > maxFixedWidthRange {
		return asn1rt.ErrUnsupported
	}
	offset := uint64(value - lower)
	bits := constrainedWholeNumberBits(rangeSize)
	if rangeSize <= 256 {
		w.WriteBits(offset, bits)
		return nil
	}
	w.ByteAlign()
	numBytes := (bits + 7) / 8
	w.WriteBits(offset, numBytes*8)
	return nil
}
