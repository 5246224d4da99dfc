// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package avn

import "github.com/go-asn1rt/asn1rt"

func init() {
	asn1rt.SetTextFormatter(Encode)
}

// Marshal allocates a Value for typ and renders it as value notation, a
// convenience wrapper around [Encode] for callers that already have a
// Descriptor but not yet a Value.
func Marshal(typ *asn1rt.Descriptor, build func(v *asn1rt.Value)) (string, error) {
	v := asn1rt.NewValue(typ)
	build(v)
	return Encode(v)
}

// Unmarshal allocates a Value for typ, parses s into it, and returns the
// Value.
func Unmarshal(s string, typ *asn1rt.Descriptor) (*asn1rt.Value, error) {
	v := asn1rt.NewValue(typ)
	if err := Decode(s, v); err != nil {
		return nil, err
	}
	return v, nil
}
