// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

//go:generate stringer -type=ConstraintKind

// ConstraintKind classifies the size/value constraint carried by a
// [Descriptor]. The codecs in the ber, per and avn subpackages switch on this
// enum exhaustively; it is never extended by a caller.
type ConstraintKind uint8

const (
	// Unconstrained indicates that no upper or lower bound applies. PER
	// encodes such values using a length-determinant-prefixed form.
	Unconstrained ConstraintKind = iota
	// PartiallyConstrained indicates a constraint with a lower bound but no
	// upper bound (or vice versa). The schema compiler that ships with this
	// runtime's design never produces this kind for generated tables; its
	// runtime treatment is identical to Unconstrained except that
	// [Value.IsStrictlyValid] checks the lower bound (see
	// [Constraint.Contains]). See the
	// recorded Open Question about this kind's original intent.
	PartiallyConstrained
	// FixedConstraint indicates a closed range [Lower, Upper] with no
	// extension marker. PER encodes the value as a constrained unsigned
	// integer over that range.
	FixedConstraint
	// ExtendableConstraint is like FixedConstraint but the range itself can
	// be exceeded by an extension; values are encoded relative to the root
	// range when they fit, and as an unconstrained extension value
	// otherwise.
	ExtendableConstraint
)

// Constraint describes the size or value bound attached to a [Descriptor].
// Lower and Upper are only meaningful when Kind is FixedConstraint,
// ExtendableConstraint, or PartiallyConstrained.
type Constraint struct {
	Kind  ConstraintKind
	Lower int64
	Upper int64
}

// Range reports the number of distinct values in the constrained root range,
// i.e. Upper-Lower+1. Range is only meaningful for FixedConstraint and
// ExtendableConstraint.
func (c Constraint) Range() int64 {
	return c.Upper - c.Lower + 1
}

// Contains reports whether v lies within the root range of c. For
// Unconstrained, Contains always returns true.
//
// PartiallyConstrained only ever checks the lower bound: Lower and Upper are
// both plain int64s with no separate "bound present" flag, so an
// upper-bound-only constraint cannot be told apart from a zero lower bound.
// This is unreachable today since no schema this runtime produces emits a
// PartiallyConstrained constraint (see the recorded Open Question decision);
// if that changes, Constraint needs an explicit flag for which bound is set
// before this can check an upper-only range correctly.
func (c Constraint) Contains(v int64) bool {
	switch c.Kind {
	case FixedConstraint, ExtendableConstraint:
		return v >= c.Lower && v <= c.Upper
	case PartiallyConstrained:
		if c.Lower != 0 || c.Upper != 0 {
			return v >= c.Lower
		}
		return true
	default:
		return true
	}
}
