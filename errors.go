// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

import "errors"

// Sentinel errors returned by the codecs in the ber, per and avn
// subpackages. They correspond to the error taxonomy described for this
// runtime: truncation, tag mismatch, length violations, unknown CHOICE
// alternatives, malformed headers and unsupported wire features. Callers
// should use [errors.Is] to test for these, since codecs wrap them with
// positional context via fmt.Errorf("%w: ...").
var (
	// ErrTruncated indicates that a decoder reached the end of its input
	// before a construct was fully read.
	ErrTruncated = errors.New("asn1rt: truncated input")

	// ErrTagMismatch indicates that a BER decoder found a tag that does not
	// match the expected field or CHOICE alternative.
	ErrTagMismatch = errors.New("asn1rt: tag mismatch")

	// ErrLengthViolation indicates that an encoded length exceeds the
	// available input, or exceeds a decoder's configured safety limit.
	ErrLengthViolation = errors.New("asn1rt: length violation")

	// ErrUnknownAlternative indicates that a CHOICE decoder found an
	// alternative index it does not recognize, on a CHOICE type that is not
	// extensible.
	ErrUnknownAlternative = errors.New("asn1rt: unknown choice alternative")

	// ErrMalformedHeader indicates that a BER tag or length octet violates
	// its syntactic form.
	ErrMalformedHeader = errors.New("asn1rt: malformed header")

	// ErrUnsupported indicates a wire feature this runtime deliberately does
	// not implement: indefinite-length BER, PER fragmented lengths, or
	// unaligned PER.
	ErrUnsupported = errors.New("asn1rt: unsupported encoding feature")

	// ErrDescriptorMismatch indicates an attempt to assign, compare, or
	// select a Value whose Descriptor does not match what the caller
	// expected (see the assignment-compatibility invariant of Value).
	ErrDescriptorMismatch = errors.New("asn1rt: descriptor mismatch")
)
