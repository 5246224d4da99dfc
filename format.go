// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

import "fmt"

// textFormatter renders a Value as diagnostic text. Package
// [github.com/go-asn1rt/asn1rt/avn] registers itself here via
// SetTextFormatter on import, so that [Value.String] produces value
// notation instead of a Go struct dump; this indirection exists because
// avn imports this package for [Descriptor]/[Value]/[Visitor] and a direct
// call the other way would be an import cycle.
var textFormatter func(*Value) (string, error)

// SetTextFormatter installs the function [Value.String] delegates to. It is
// meant to be called once, from an importing codec package's init, and is
// not otherwise part of this package's public contract.
func SetTextFormatter(f func(*Value) (string, error)) {
	textFormatter = f
}

// String renders v for diagnostics: value notation if a formatter has been
// registered (see [SetTextFormatter]), or a minimal tag-only description
// otherwise.
func (v *Value) String() string {
	if textFormatter != nil {
		if s, err := textFormatter(v); err == nil {
			return s
		}
	}
	return fmt.Sprintf("asn1rt.Value{tag=%v}", v.desc.Tag)
}
