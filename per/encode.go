// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/internal/bitio"
)

// Encoder implements [asn1rt.ConstVisitor] for the Aligned Packed Encoding
// Rules, accumulating output into a [bitio.Writer].
type Encoder struct {
	w *bitio.Writer
}

// Encode returns the PER-aligned encoding of v.
func Encode(v *asn1rt.Value) ([]byte, error) {
	e := &Encoder{w: bitio.NewWriter()}
	if err := e.encodeValue(v); err != nil {
		return nil, err
	}
	e.w.ByteAlign()
	return e.w.Bytes(), nil
}

func (e *Encoder) encodeValue(v *asn1rt.Value) error {
	desc := v.Descriptor()
	if desc.Variant != asn1rt.VariantSequenceOf && desc.Variant != asn1rt.VariantSetOf {
		return v.AcceptConst(e)
	}
	if err := e.encodeCount(len(v.Elements()), desc.SeqOf.Constraint); err != nil {
		return err
	}
	return v.AcceptConst(e)
}

func (e *Encoder) encodeCount(n int, c asn1rt.Constraint) error {
	switch c.Kind {
	case asn1rt.FixedConstraint, asn1rt.ExtendableConstraint:
		return appendConstrainedWholeNumber(e.w, int64(n), c.Lower, c.Range())
	default:
		return appendLengthDeterminant(e.w, n)
	}
}

func (e *Encoder) encodeUnconstrainedInteger(v int64) error {
	content := appendTwosComplement(nil, v)
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return nil
}

//region leaf variants

func (e *Encoder) VisitNullConst(v *asn1rt.Value) error { return nil }

func (e *Encoder) VisitBooleanConst(v *asn1rt.Value) error {
	b := 0
	if v.Bool() {
		b = 1
	}
	e.w.WriteBit(b)
	return nil
}

func (e *Encoder) VisitIntegerConst(v *asn1rt.Value) error {
	c := v.Descriptor().Constraint
	switch c.Kind {
	case asn1rt.FixedConstraint:
		return appendConstrainedWholeNumber(e.w, v.Int(), c.Lower, c.Range())
	case asn1rt.ExtendableConstraint:
		if c.Contains(v.Int()) {
			e.w.WriteBit(0)
			return appendConstrainedWholeNumber(e.w, v.Int(), c.Lower, c.Range())
		}
		e.w.WriteBit(1)
		return e.encodeUnconstrainedInteger(v.Int())
	default:
		return e.encodeUnconstrainedInteger(v.Int())
	}
}

func (e *Encoder) VisitEnumeratedConst(v *asn1rt.Value) error {
	names := v.Descriptor().Names
	for i, nn := range names {
		if nn.Value == v.Int() {
			return appendConstrainedWholeNumber(e.w, int64(i), 0, int64(len(names)))
		}
	}
	return asn1rt.ErrMalformedHeader
}

func (e *Encoder) VisitOIDConst(v *asn1rt.Value) error {
	oid := v.OID()
	if len(oid) < 2 {
		return asn1rt.ErrMalformedHeader
	}
	content := appendOIDContent(nil, oid)
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return nil
}

func (e *Encoder) VisitRelativeOIDConst(v *asn1rt.Value) error {
	content := appendArcsContent(nil, v.RelativeOID())
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return nil
}

func (e *Encoder) VisitBitStringConst(v *asn1rt.Value) error {
	bs := v.BitStringValue()
	if err := e.encodeCount(bs.BitLength, v.Descriptor().Constraint); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(bs.Bytes)
	return nil
}

func (e *Encoder) VisitOctetStringConst(v *asn1rt.Value) error {
	b := v.Bytes()
	if err := e.encodeCount(len(b), v.Descriptor().Constraint); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(b)
	return nil
}

func (e *Encoder) VisitStringConst(v *asn1rt.Value) error {
	si := v.Descriptor().String
	s := []rune(v.Str())
	if err := e.encodeCount(len(s), si.Size); err != nil {
		return err
	}
	e.w.ByteAlign()
	if si.Alphabet == "" {
		e.w.WriteBytes([]byte(v.Str()))
		return nil
	}
	for _, r := range s {
		idx := alphabetIndex(si.Alphabet, r)
		if idx < 0 {
			return asn1rt.ErrMalformedHeader
		}
		e.w.WriteBits(uint64(idx), si.CharBits)
	}
	return nil
}

func (e *Encoder) VisitBMPStringConst(v *asn1rt.Value) error {
	units := v.CodeUnits()
	if err := e.encodeCount(len(units), v.Descriptor().String.Size); err != nil {
		return err
	}
	e.w.ByteAlign()
	for _, u := range units {
		e.w.WriteBits(uint64(u), 16)
	}
	return nil
}

func (e *Encoder) VisitGeneralizedTimeConst(v *asn1rt.Value) error {
	content := formatGeneralizedTimeContent(v.Time())
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return nil
}

//endregion

func (e *Encoder) VisitChoiceConst(v *asn1rt.Value) error {
	ci := v.Descriptor().Choice
	idx := v.Selected()
	if idx < 0 {
		return asn1rt.ErrUnknownAlternative
	}
	if idx < len(ci.Root) {
		if ci.Extensible {
			e.w.WriteBit(0)
		}
		if err := appendConstrainedWholeNumber(e.w, int64(idx), 0, int64(len(ci.Root))); err != nil {
			return err
		}
		return e.encodeValue(v.ChoiceValue())
	}
	if !ci.Extensible {
		return asn1rt.ErrUnknownAlternative
	}
	e.w.WriteBit(1)
	if err := appendSmallNonNegativeWholeNumber(e.w, idx-len(ci.Root)); err != nil {
		return err
	}
	sub := &Encoder{w: bitio.NewWriter()}
	if err := sub.encodeValue(v.ChoiceValue()); err != nil {
		return err
	}
	sub.w.ByteAlign()
	content := sub.w.Bytes()
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return nil
}

func (e *Encoder) VisitOpenTypeConst(v *asn1rt.Value) error {
	var content []byte
	if raw, ok := v.OpenRaw(); ok {
		content = raw
	} else if inner, ok := v.OpenValue(); ok {
		sub := &Encoder{w: bitio.NewWriter()}
		if err := sub.encodeValue(inner); err != nil {
			return err
		}
		sub.w.ByteAlign()
		content = sub.w.Bytes()
	} else {
		return asn1rt.ErrUnsupported
	}
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return err
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return nil
}

//region SEQUENCE protocol

func (e *Encoder) PreEncodeExtensionRoots(v *asn1rt.Value) asn1rt.HookResult {
	seq := v.Descriptor().Sequence
	if seq.Extensible {
		hasExt := false
		for i := range seq.Extensions {
			if v.ExtensionPresent(i) {
				hasExt = true
				break
			}
		}
		b := 0
		if hasExt {
			b = 1
		}
		e.w.WriteBit(b)
	}
	for i, f := range seq.Fields {
		if !f.Optional {
			continue
		}
		b := 0
		if v.FieldPresent(i) {
			b = 1
		}
		e.w.WriteBit(b)
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeExtensionRoot(v *asn1rt.Value, fieldIndex int) asn1rt.HookResult {
	if err := e.encodeValue(v.Field(fieldIndex)); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) PreEncodeExtensions(v *asn1rt.Value) asn1rt.HookResult {
	extensions := v.Descriptor().Sequence.Extensions
	count := 0
	for i := range extensions {
		if v.ExtensionPresent(i) {
			count = i + 1
		}
	}
	if count == 0 {
		return asn1rt.ResultNoExtension
	}
	if err := appendNormallySmallLength(e.w, count); err != nil {
		return asn1rt.ResultFail
	}
	for i := 0; i < count; i++ {
		b := 0
		if v.ExtensionPresent(i) {
			b = 1
		}
		e.w.WriteBit(b)
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeKnownExtension(v *asn1rt.Value, extIndex int) asn1rt.HookResult {
	if !v.ExtensionPresent(extIndex) {
		return asn1rt.ResultContinue
	}
	sub := &Encoder{w: bitio.NewWriter()}
	if err := sub.encodeValue(v.Extension(extIndex)); err != nil {
		return asn1rt.ResultFail
	}
	sub.w.ByteAlign()
	content := sub.w.Bytes()
	if err := appendLengthDeterminant(e.w, len(content)); err != nil {
		return asn1rt.ResultFail
	}
	e.w.ByteAlign()
	e.w.WriteBytes(content)
	return asn1rt.ResultContinue
}

func (e *Encoder) AfterEncodeSequence(v *asn1rt.Value) asn1rt.HookResult {
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeElementConst(v *asn1rt.Value, elem *asn1rt.Value, index int) error {
	return e.encodeValue(elem)
}

//endregion
