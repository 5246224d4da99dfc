// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber implements the ASN.1 Basic Encoding Rules (BER) over the
// schema-driven runtime types in [github.com/go-asn1rt/asn1rt]. The Basic
// Encoding Rules are defined in [Rec. ITU-T X.690].
//
// Unlike a struct-tag/reflection codec, this package never inspects Go types.
// Every value being encoded or decoded is an [asn1rt.Value] paired with an
// [asn1rt.Descriptor] that describes its ASN.1 shape; [Decoder] and [Encoder]
// drive that Value's [asn1rt.Value.Accept] / [asn1rt.Value.AcceptConst]
// trampoline to do the actual tag/length/content work. Both operate entirely
// over in-memory byte slices: there is no streaming I/O, and a BER TLV's
// length is always known up front (indefinite length is unsupported; see
// [asn1rt.ErrUnsupported]).
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package ber

import "github.com/go-asn1rt/asn1rt"

// Marshal allocates a Value for typ and encodes it, a convenience wrapper
// around [Encode] for callers that already have a Descriptor but not yet a
// Value.
func Marshal(typ *asn1rt.Descriptor, build func(v *asn1rt.Value)) ([]byte, error) {
	v := asn1rt.NewValue(typ)
	build(v)
	return Encode(v)
}

// Unmarshal allocates a Value for typ, decodes data into it, and returns the
// Value. It returns [asn1rt.ErrTruncated] if trailing bytes remain unconsumed.
func Unmarshal(data []byte, typ *asn1rt.Descriptor) (*asn1rt.Value, error) {
	v := asn1rt.NewValue(typ)
	n, err := Decode(data, v)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, asn1rt.ErrTruncated
	}
	return v, nil
}
