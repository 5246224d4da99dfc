// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

//go:generate stringer -type=Rule

// Rule selects which encoding an [Env] uses for Encode/Decode.
type Rule uint8

const (
	// RuleAVN renders/parses ASN.1 Value Notation text via package
	// [github.com/go-asn1rt/asn1rt/avn].
	RuleAVN Rule = iota
	// RuleBER uses the Basic Encoding Rules via package
	// [github.com/go-asn1rt/asn1rt/ber].
	RuleBER
	// RulePERAligned uses the Aligned Packed Encoding Rules via package
	// [github.com/go-asn1rt/asn1rt/per].
	RulePERAligned
)
