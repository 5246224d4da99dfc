// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"math"

	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/internal/vlq"
)

// CombinedLength returns the length of a data value encoding (not including
// its header) consisting of data value encodings of the specified lengths.
func CombinedLength(ls ...int) int {
	sum := 0
	for _, l := range ls {
		if l > math.MaxInt-sum { // overflow
			return math.MaxInt
		}
		sum += l
	}
	return sum
}

// Header represents the BER header of an encoded data value. Length
// indicates the number of bytes that make up the content octets of the
// encoded data value. Indefinite-length encodings are not supported; see
// this package's documentation for the set of BER features this codec
// implements.
type Header struct {
	Tag         asn1rt.Tag
	Length      int
	Constructed bool
}

// numBytes computes the number of bytes required to BER-encode h. The
// appendTo method writes this exact number of bytes.
func (h Header) numBytes() int {
	l := 1 // class, constructed, tag
	if h.Tag.Number() >= 31 {
		l += vlq.Length(uint(h.Tag.Number()))
	}
	l++ // length
	if h.Length < 128 {
		return l
	}
	l++
	for hl := h.Length; hl > 255; hl >>= 8 {
		l++
	}
	return l
}

// appendTo appends the BER encoding of h to dst, returning the extended
// slice.
func (h Header) appendTo(dst []byte) []byte {
	b := byte(h.Tag.Class() >> 24)
	if h.Constructed {
		b |= 0x20
	}
	if h.Tag.Number() < 31 {
		b |= byte(h.Tag.Number())
		dst = append(dst, b)
	} else {
		b |= 0x1f
		dst = append(dst, b)
		dst = vlq.Append(dst, uint(h.Tag.Number()))
	}

	if h.Length >= 128 {
		numBytes := 1
		l := h.Length
		for l > 255 {
			numBytes++
			l >>= 8
		}
		dst = append(dst, 0x80|byte(numBytes))
		for j := numBytes - 1; j >= 0; j-- {
			dst = append(dst, byte(h.Length>>uint(j*8)))
		}
	} else {
		dst = append(dst, byte(h.Length))
	}
	return dst
}

// decodeHeader reads the identifier and length octets of a data value
// encoding from the start of data and returns the decoded Header together
// with the number of bytes consumed.
func decodeHeader(data []byte) (h Header, n int, err error) {
	if len(data) == 0 {
		return Header{}, 0, asn1rt.ErrTruncated
	}
	b := data[0]
	n = 1
	h.Tag = asn1rt.Tag(b>>6) << 30
	h.Constructed = b&0x20 == 0x20

	if b&0x1f == 0x1f {
		if len(data) > n && data[n] == 0x80 {
			return h, 0, asn1rt.ErrMalformedHeader
		}
		num, used, rerr := vlq.Read[uint](data[n:])
		if rerr != nil {
			return h, 0, asn1rt.ErrMalformedHeader
		}
		n += used
		h.Tag |= asn1rt.Tag(num) &^ (0b11 << 30)
	} else {
		h.Tag |= asn1rt.Tag(b & 0x1f)
	}

	if n >= len(data) {
		return h, 0, asn1rt.ErrTruncated
	}
	b = data[n]
	n++
	switch {
	case b&0x80 == 0:
		h.Length = int(b & 0x7f)
	case b == 0x80:
		return h, 0, asn1rt.ErrUnsupported
	default:
		numBytes := int(b & 0x7f)
		h.Length = 0
		for i := 0; i < numBytes; i++ {
			if n >= len(data) {
				return h, 0, asn1rt.ErrTruncated
			}
			b = data[n]
			n++
			if h.Length >= 1<<23 {
				return h, 0, asn1rt.ErrLengthViolation
			}
			h.Length <<= 8
			h.Length |= int(b)
		}
	}
	return h, n, nil
}
