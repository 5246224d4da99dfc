// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"strconv"

	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/internal/vlq"
)

// decodeSignedInt parses the two's-complement big-endian content octets of
// an INTEGER or ENUMERATED value.
func decodeSignedInt(content []byte) (int64, error) {
	if len(content) == 0 {
		return 0, asn1rt.ErrMalformedHeader
	}
	if len(content) > 1 && ((content[0] == 0 && content[1]&0x80 == 0) || (content[0] == 0xff && content[1]&0x80 != 0)) {
		return 0, asn1rt.ErrMalformedHeader
	}
	var v int64
	if content[0]&0x80 != 0 {
		v = -1
	}
	for _, b := range content {
		v = v<<8 | int64(b)
	}
	return v, nil
}

// appendSignedInt appends the minimal two's-complement big-endian encoding
// of v to dst.
func appendSignedInt(dst []byte, v int64) []byte {
	n := signedIntLength(v)
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(uint(i)*8)))
	}
	return dst
}

func signedIntLength(v int64) int {
	n := 1
	for (v > 0 && v >= 1<<7) || (v < 0 && v < -(1<<7)) {
		v >>= 8
		n++
	}
	return n
}

// decodeOID parses the content octets of an OBJECT IDENTIFIER: the first
// byte packs the first two arcs as 40*X+Y, the rest are VLQ-encoded arcs.
func decodeOID(content []byte) (asn1rt.ObjectIdentifier, error) {
	if len(content) == 0 {
		return nil, asn1rt.ErrMalformedHeader
	}
	first := uint64(content[0])
	oid := asn1rt.ObjectIdentifier{first / 40, first % 40}
	rest, err := decodeArcs(content[1:])
	if err != nil {
		return nil, err
	}
	return append(oid, rest...), nil
}

// appendOID appends the BER content-octet encoding of oid to dst. oid must
// have at least two arcs.
func appendOID(dst []byte, oid asn1rt.ObjectIdentifier) []byte {
	dst = append(dst, byte(oid[0]*40+oid[1]))
	return appendArcs(dst, oid[2:])
}

// decodeArcs parses a sequence of VLQ-encoded arc numbers, used for
// RELATIVE-OID content and for the trailing arcs of an OBJECT IDENTIFIER.
func decodeArcs(content []byte) ([]uint64, error) {
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

// appendArcs appends the VLQ encoding of each arc in arcs to dst.
func appendArcs(dst []byte, arcs []uint64) []byte {
	for _, a := range arcs {
		dst = vlq.Append(dst, a)
	}
	return dst
}

// parseGeneralizedTime parses the canonical textual content octets of a
// GeneralizedTime value (YYYYMMDDHHMMSS[.fff][Z|+-HHMM]).
func parseGeneralizedTime(s string) (asn1rt.GeneralizedTime, error) {
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
		ms, err := strconv.Atoi(padRight(frac, 3))
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

func padRight(s string, n int) string {
	for len(s) < n {
		s += "0"
	}
	return s[:n]
}

// formatGeneralizedTime renders t in the canonical textual notation used on
// the wire. It defers to [asn1rt.GeneralizedTime.String].
func formatGeneralizedTime(t asn1rt.GeneralizedTime) []byte {
	return []byte(t.String())
}
