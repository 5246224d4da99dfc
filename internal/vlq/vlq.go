// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vlq implements [Variable-length quantity] encoding as used in BER
// for high tag numbers and in aligned PER for unconstrained arc numbers. A
// VLQ is essentially a base-128 representation of an unsigned integer with
// the addition of the eighth bit to mark continuation of bytes. VLQ is
// identical to [LEB128] except in endianness.
//
// Unlike a streaming codec, every function here operates on an in-memory
// byte slice and returns the number of bytes consumed or produced; no
// internal I/O is performed.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
// [LEB128]: https://en.wikipedia.org/wiki/LEB128
package vlq

import (
	"errors"
	"math/bits"
)

var (
	// ErrNotMinimal is returned by ReadMinimal when the input starts with a
	// non-significant 0x80 byte.
	ErrNotMinimal = errors.New("vlq: value is not minimally encoded")
	// ErrOverflow is returned when a decoded value does not fit into T.
	ErrOverflow = errors.New("vlq: value too large for target type")
	// ErrTruncated is returned when data ends before a continuation bit
	// sequence is terminated.
	ErrTruncated = errors.New("vlq: truncated input")
)

// Read parses an unsigned VLQ from the start of data. It returns the decoded
// value and the number of bytes consumed. The maximum allowed value is
// limited by the size of T.
//
// Read ignores an arbitrary amount of leading zeros (encoded as 0x80 bytes).
// Use [ReadMinimal] to reject a non-minimally encoded VLQ.
func Read[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](data []byte) (T, int, error) {
	return read[T](data, false)
}

// ReadMinimal works like [Read] but returns [ErrNotMinimal] if the encoded
// VLQ is not minimally encoded (i.e. if it starts with a 0x80 byte).
func ReadMinimal[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](data []byte) (T, int, error) {
	return read[T](data, true)
}

func read[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](data []byte, minimal bool) (ret T, n int, err error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncated
	}
	b := data[0]
	if b == 0x80 && minimal {
		return 0, 0, ErrNotMinimal
	}

	ret = T(b & 0x7f)
	numBits := bits.Len8(b & 0x7f)
	n = 1

	for b&0x80 != 0 {
		if n >= len(data) {
			return 0, 0, ErrTruncated
		}
		b = data[n]
		n++
		ret <<= 7
		ret |= T(b & 0x7f)

		if numBits == 0 {
			numBits = bits.Len8(b & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > sizeofBits(ret) {
			return 0, 0, ErrOverflow
		}
	}
	return ret, n, nil
}

// sizeofBits returns the bit width of T's underlying unsigned type, used for
// overflow detection in read.
func sizeofBits[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](v T) int {
	switch any(v).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	default:
		return 64
	}
}

// Length returns the number of bytes needed to encode n as a VLQ.
func Length[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append encodes i as a VLQ and appends the result to dst, returning the
// extended slice.
func Append[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](dst []byte, i T) []byte {
	l := Length(i)
	for j := l - 1; j >= 0; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
