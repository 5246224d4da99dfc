// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

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
