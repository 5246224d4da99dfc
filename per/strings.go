// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"strconv"
	"strings"

	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/internal/vlq"
)

// decodeTwosComplement interprets content as a big-endian two's-complement
// signed integer. Grounded in the same algorithm [github.com/go-asn1rt/asn1rt/ber]
// uses for BER INTEGER content octets; duplicated here rather than shared
// since the two codecs have no common non-internal home for it and the
// algorithm is a handful of lines.
func decodeTwosComplement(content []byte) int64 {
	var v int64
	if len(content) > 0 && content[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range content {
		v = v<<8 | int64(b)
	}
	return v
}

// appendTwosComplement appends the minimal big-endian two's-complement
// encoding of v to dst.
func appendTwosComplement(dst []byte, v int64) []byte {
	n := twosComplementLength(v)
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(uint(i)*8)))
	}
	return dst
}

func twosComplementLength(v int64) int {
	n := 1
	for (v > 0 && v >= 1<<7) || (v < 0 && v < -(1<<7)) {
		v >>= 8
		n++
	}
	return n
}

// alphabetIndex returns the index of r within alphabet, or -1.
func alphabetIndex(alphabet string, r rune) int {
	return strings.IndexRune(alphabet, r)
}

// decodeOIDContent and decodeArcsContent mirror the content-octet layout BER
// uses for OBJECT IDENTIFIER and RELATIVE-OID (X.691 reuses the BER encoding
// for these content octets verbatim): a VLQ-encoded sequence of arcs, with
// the first two arcs packed as 40*X+Y for OBJECT IDENTIFIER.
func decodeOIDContent(content []byte) (asn1rt.ObjectIdentifier, error) {
	if len(content) == 0 {
		return nil, asn1rt.ErrMalformedHeader
	}
	first := uint64(content[0])
	oid := asn1rt.ObjectIdentifier{first / 40, first % 40}
	rest, err := decodeArcsContent(content[1:])
	if err != nil {
		return nil, err
	}
	return append(oid, rest...), nil
}

func appendOIDContent(dst []byte, oid asn1rt.ObjectIdentifier) []byte {
	dst = append(dst, byte(oid[0]*40+oid[1]))
	return appendArcsContent(dst, oid[2:])
}

func decodeArcsContent(content []byte) ([]uint64, error) {
	var arcs []uint64
	for len(content) > 0 {
		v, n, err := vlq.Read[uint64](content)
		if err != nil {
			return nil, asn1rt.ErrMalformedHeader
		}
		arcs = append(arcs, v)
		content = content[n:]
	}
	return arcs, nil
}

func appendArcsContent(dst []byte, arcs []uint64) []byte {
	for _, a := range arcs {
		dst = vlq.Append(dst, a)
	}
	return dst
}

// parseGeneralizedTimeContent parses the canonical textual content octets of
// a GeneralizedTime value, the same YYYYMMDDHHMMSS[.fff][Z|+-HHMM] form BER
// uses, since X.691 encodes GeneralizedTime as an unrestricted character
// string of its VisibleString textual representation rather than a binary
// form.
func parseGeneralizedTimeContent(s string) (asn1rt.GeneralizedTime, error) {
	var t asn1rt.GeneralizedTime
	if len(s) < 14 {
		return t, asn1rt.ErrMalformedHeader
	}
	fields := []*int{&t.Year, &t.Month, &t.Day, &t.Hour, &t.Minute, &t.Second}
	widths := []int{4, 2, 2, 2, 2, 2}
	pos := 0
	for i, field := range fields {
		n, err := strconv.Atoi(s[pos : pos+widths[i]])
		if err != nil {
			return t, asn1rt.ErrMalformedHeader
		}
		*field = n
		pos += widths[i]
	}
	rest := s[pos:]
	if len(rest) > 0 && rest[0] == '.' {
		end := 1
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		frac := rest[1:end]
		for len(frac) < 3 {
			frac += "0"
		}
		ms, err := strconv.Atoi(frac[:3])
		if err != nil {
			return t, asn1rt.ErrMalformedHeader
		}
		t.Millisecond = ms
		rest = rest[end:]
	}
	switch {
	case rest == "Z":
		t.UTC = true
	case rest == "":
		t.Local = true
	case len(rest) == 5 && (rest[0] == '+' || rest[0] == '-'):
		hh, err1 := strconv.Atoi(rest[1:3])
		mm, err2 := strconv.Atoi(rest[3:5])
		if err1 != nil || err2 != nil {
			return t, asn1rt.ErrMalformedHeader
		}
		off := hh*60 + mm
		if rest[0] == '-' {
			off = -off
		}
		t.MinuteOffset = off
	default:
		return t, asn1rt.ErrMalformedHeader
	}
	return t, nil
}

// formatGeneralizedTimeContent renders t in the canonical textual notation.
func formatGeneralizedTimeContent(t asn1rt.GeneralizedTime) []byte {
	return []byte(t.String())
}
