// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package avn

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-asn1rt/asn1rt"
)

// lookupNameByValue finds the named number matching v, binary searching
// names (sorted by Value, per [asn1rt.NamedNumber]'s doc comment).
func lookupNameByValue(names []asn1rt.NamedNumber, v int64) (string, bool) {
	i := sort.Search(len(names), func(i int) bool { return names[i].Value >= v })
	if i < len(names) && names[i].Value == v {
		return names[i].Name, true
	}
	return "", false
}

// lookupValueByName finds the named number matching name. Unlike
// lookupNameByValue this is a linear scan: the names table is sorted by
// value, not by name.
func lookupValueByName(names []asn1rt.NamedNumber, name string) (int64, bool) {
	for _, nn := range names {
		if nn.Name == name {
			return nn.Value, true
		}
	}
	return 0, false
}

// bitsToString renders a BitString as a string of '0'/'1' characters,
// most-significant-bit first, per [asn1rt.BitString]'s bit order.
func bitsToString(bs asn1rt.BitString) string {
	var sb strings.Builder
	sb.Grow(bs.BitLength)
	for i := 0; i < bs.BitLength; i++ {
		byteIdx, bitIdx := i/8, 7-i%8
		if bs.Bytes[byteIdx]&(1<<bitIdx) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// parseBits parses a string of '0'/'1' characters into a BitString.
func parseBits(s string) (asn1rt.BitString, error) {
	bytes := make([]byte, (len(s)+7)/8)
	for i, r := range s {
		switch r {
		case '1':
			bytes[i/8] |= 1 << (7 - i%8)
		case '0':
			// zero bit, nothing to set
		default:
			return asn1rt.BitString{}, asn1rt.ErrMalformedHeader
		}
	}
	return asn1rt.BitString{Bytes: bytes, BitLength: len(s)}, nil
}

// hexString renders b as space-separated uppercase hex byte pairs.
func hexString(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, " ")
}

// parseGeneralizedTimeText parses the canonical YYYYMMDDHHMMSS[.fff][Z|+-HHMM]
// textual form, the same algorithm [github.com/go-asn1rt/asn1rt/ber] and
// [github.com/go-asn1rt/asn1rt/per] use for the same content; duplicated here
// since the three codecs share no common non-internal home for it.
func parseGeneralizedTimeText(s string) (asn1rt.GeneralizedTime, error) {
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

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, asn1rt.ErrMalformedHeader
	}
	return b, nil
}
