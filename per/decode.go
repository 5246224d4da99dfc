// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package per implements the Aligned Packed Encoding Rules (PER), as
// described in [Rec. ITU-T X.691], over the same [asn1rt.Value]/
// [asn1rt.Descriptor] model the ber package uses. Unlike BER, PER carries no
// tags on the wire: field shapes are fully determined by the schema, so this
// codec's field-level dispatch collapses to a single recursive decodeValue/
// encodeValue pair instead of BER's tag-driven decodeField/encodeField.
//
// [Rec. ITU-T X.691]: https://www.itu.int/rec/T-REC-X.691
package per

import (
	"github.com/go-asn1rt/asn1rt"
	"github.com/go-asn1rt/asn1rt/internal/bitio"
)

// Decoder implements [asn1rt.Visitor] for the Aligned Packed Encoding Rules.
type Decoder struct {
	r *bitio.Reader

	// countStack tracks the remaining element count for each SEQUENCE OF /
	// SET OF currently being decoded, innermost last. Needed because
	// DecodeElement is called once per element with no surrounding hook to
	// stash a per-container count.
	countStack []int

	// optStack/optIdxStack track, per nested SEQUENCE being decoded, the
	// root optional-field presence bitmap read by PreDecodeExtensionRoots
	// and a cursor into it, since DecodeExtensionRoot is called once per
	// field with no access to the bitmap read before the loop started.
	optStack    [][]bool
	optIdxStack []int

	// extStack tracks, per nested SEQUENCE, the extension-addition presence
	// bitmap read by PreDecodeExtensions, consumed by DecodeKnownExtension
	// and DecodeUnknownExtensions.
	extStack [][]bool
}

// Decode parses a PER-aligned encoding from the start of data into v, which
// must already be allocated (see [asn1rt.NewValue]). It returns the number
// of bytes touched, rounding a partially-consumed trailing byte up to one.
func Decode(data []byte, v *asn1rt.Value) (int, error) {
	d := &Decoder{r: bitio.NewReader(data)}
	if err := d.decodeValue(v); err != nil {
		return 0, err
	}
	return d.r.BytePos(), nil
}

// decodeValue decodes v according to its descriptor, handling the
// SEQUENCE OF / SET OF element count that has no dedicated Visitor hook.
func (d *Decoder) decodeValue(v *asn1rt.Value) error {
	desc := v.Descriptor()
	if desc.Variant != asn1rt.VariantSequenceOf && desc.Variant != asn1rt.VariantSetOf {
		return v.Accept(d)
	}
	count, err := d.decodeCount(desc.SeqOf.Constraint)
	if err != nil {
		return err
	}
	d.countStack = append(d.countStack, count)
	err = v.Accept(d)
	d.countStack = d.countStack[:len(d.countStack)-1]
	return err
}

// decodeCount reads a count (element, byte, bit, or character count)
// constrained by c: a constrained whole number when c has a fixed root
// range, or an unconstrained length determinant otherwise.
func (d *Decoder) decodeCount(c asn1rt.Constraint) (int, error) {
	switch c.Kind {
	case asn1rt.FixedConstraint, asn1rt.ExtendableConstraint:
		n, err := decodeConstrainedWholeNumber(d.r, c.Lower, c.Range())
		return int(n), err
	default:
		return decodeLengthDeterminant(d.r)
	}
}

func (d *Decoder) decodeUnconstrainedInteger() (int64, error) {
	n, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return 0, err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	return decodeTwosComplement(content), nil
}

//region leaf variants

func (d *Decoder) VisitNull(v *asn1rt.Value) error { return nil }

func (d *Decoder) VisitBoolean(v *asn1rt.Value) error {
	b, err := d.r.ReadBit()
	if err != nil {
		return asn1rt.ErrTruncated
	}
	v.SetBool(b == 1)
	return nil
}

func (d *Decoder) VisitInteger(v *asn1rt.Value) error {
	c := v.Descriptor().Constraint
	switch c.Kind {
	case asn1rt.FixedConstraint:
		n, err := decodeConstrainedWholeNumber(d.r, c.Lower, c.Range())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case asn1rt.ExtendableConstraint:
		ext, err := d.r.ReadBit()
		if err != nil {
			return asn1rt.ErrTruncated
		}
		var n int64
		if ext == 1 {
			n, err = d.decodeUnconstrainedInteger()
		} else {
			n, err = decodeConstrainedWholeNumber(d.r, c.Lower, c.Range())
		}
		if err != nil {
			return err
		}
		v.SetInt(n)
	default:
		n, err := d.decodeUnconstrainedInteger()
		if err != nil {
			return err
		}
		v.SetInt(n)
	}
	return nil
}

func (d *Decoder) VisitEnumerated(v *asn1rt.Value) error {
	names := v.Descriptor().Names
	if len(names) == 0 {
		return asn1rt.ErrMalformedHeader
	}
	idx, err := decodeConstrainedWholeNumber(d.r, 0, int64(len(names)))
	if err != nil {
		return err
	}
	v.SetInt(names[idx].Value)
	return nil
}

func (d *Decoder) VisitOID(v *asn1rt.Value) error {
	n, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(n)
	if err != nil {
		return err
	}
	oid, err := decodeOIDContent(content)
	if err != nil {
		return err
	}
	v.SetOID(oid)
	return nil
}

func (d *Decoder) VisitRelativeOID(v *asn1rt.Value) error {
	n, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(n)
	if err != nil {
		return err
	}
	arcs, err := decodeArcsContent(content)
	if err != nil {
		return err
	}
	v.SetRelativeOID(asn1rt.RelativeOID(arcs))
	return nil
}

func (d *Decoder) VisitBitString(v *asn1rt.Value) error {
	bitLen, err := d.decodeCount(v.Descriptor().Constraint)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	byteLen := (bitLen + 7) / 8
	content, err := d.r.ReadBytes(byteLen)
	if err != nil {
		return err
	}
	v.SetBitString(asn1rt.BitString{Bytes: append([]byte(nil), content...), BitLength: bitLen})
	return nil
}

func (d *Decoder) VisitOctetString(v *asn1rt.Value) error {
	n, err := d.decodeCount(v.Descriptor().Constraint)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(n)
	if err != nil {
		return err
	}
	v.SetBytes(append([]byte(nil), content...))
	return nil
}

func (d *Decoder) VisitString(v *asn1rt.Value) error {
	si := v.Descriptor().String
	n, err := d.decodeCount(si.Size)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	if si.Alphabet == "" {
		content, err := d.r.ReadBytes(n)
		if err != nil {
			return err
		}
		v.SetStr(string(content))
		return nil
	}
	runes := make([]rune, n)
	for i := range runes {
		idx, err := d.r.ReadBits(si.CharBits)
		if err != nil {
			return asn1rt.ErrTruncated
		}
		if int(idx) >= len(si.Alphabet) {
			return asn1rt.ErrMalformedHeader
		}
		runes[i] = rune(si.Alphabet[idx])
	}
	v.SetStr(string(runes))
	return nil
}

func (d *Decoder) VisitBMPString(v *asn1rt.Value) error {
	n, err := d.decodeCount(v.Descriptor().String.Size)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	units := make([]uint16, n)
	for i := range units {
		b, err := d.r.ReadBits(16)
		if err != nil {
			return asn1rt.ErrTruncated
		}
		units[i] = uint16(b)
	}
	v.SetCodeUnits(units)
	return nil
}

func (d *Decoder) VisitGeneralizedTime(v *asn1rt.Value) error {
	n, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(n)
	if err != nil {
		return err
	}
	t, err := parseGeneralizedTimeContent(string(content))
	if err != nil {
		return err
	}
	v.SetTime(t)
	return nil
}

//endregion

func (d *Decoder) VisitChoice(v *asn1rt.Value) error {
	ci := v.Descriptor().Choice
	ext := 0
	var err error
	if ci.Extensible {
		ext, err = d.r.ReadBit()
		if err != nil {
			return asn1rt.ErrTruncated
		}
	}
	if ext == 0 {
		if len(ci.Root) == 0 {
			return asn1rt.ErrMalformedHeader
		}
		idx, err := decodeConstrainedWholeNumber(d.r, 0, int64(len(ci.Root)))
		if err != nil {
			return err
		}
		child := v.Select(int(idx))
		return d.decodeValue(child)
	}
	idx, err := decodeSmallNonNegativeWholeNumber(d.r)
	if err != nil {
		return err
	}
	length, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(length)
	if err != nil {
		return err
	}
	if idx >= len(ci.Extensions) {
		v.Select(-2)
		return nil
	}
	child := v.Select(len(ci.Root) + idx)
	sub := &Decoder{r: bitio.NewReader(content)}
	return sub.decodeValue(child)
}

func (d *Decoder) VisitOpenType(v *asn1rt.Value) error {
	n, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return err
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(n)
	if err != nil {
		return err
	}
	v.SetOpenRaw(append([]byte(nil), content...))
	return nil
}

//region SEQUENCE protocol

func (d *Decoder) PreDecodeExtensionRoots(v *asn1rt.Value) asn1rt.HookResult {
	ext := 0
	if v.Descriptor().Sequence.Extensible {
		b, err := d.r.ReadBit()
		if err != nil {
			return asn1rt.ResultFail
		}
		ext = b
	}
	v.SetHasExtensions(ext == 1)

	fields := v.Descriptor().Sequence.Fields
	bitmap := make([]bool, 0, v.Descriptor().Sequence.NumOptional())
	for _, f := range fields {
		if !f.Optional {
			continue
		}
		b, err := d.r.ReadBit()
		if err != nil {
			return asn1rt.ResultFail
		}
		bitmap = append(bitmap, b == 1)
	}
	d.optStack = append(d.optStack, bitmap)
	d.optIdxStack = append(d.optIdxStack, 0)
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeExtensionRoot(v *asn1rt.Value, fieldIndex int) asn1rt.HookResult {
	fields := v.Descriptor().Sequence.Fields
	fd := fields[fieldIndex]
	top := len(d.optStack) - 1
	present := true
	if fd.Optional {
		idx := d.optIdxStack[top]
		present = d.optStack[top][idx]
		d.optIdxStack[top]++
	}
	child := v.SetFieldPresent(fieldIndex, present)
	var err error
	if present {
		err = d.decodeValue(child)
	}
	if fieldIndex == len(fields)-1 {
		d.optStack = d.optStack[:top]
		d.optIdxStack = d.optIdxStack[:top]
	}
	if err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) PreDecodeExtensions(v *asn1rt.Value) asn1rt.HookResult {
	if !v.HasExtensions() {
		return asn1rt.ResultNoExtension
	}
	count, err := decodeNormallySmallLength(d.r)
	if err != nil {
		return asn1rt.ResultFail
	}
	bitmap := make([]bool, count)
	for i := range bitmap {
		b, err := d.r.ReadBit()
		if err != nil {
			return asn1rt.ResultFail
		}
		bitmap[i] = b == 1
	}
	d.extStack = append(d.extStack, bitmap)
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeKnownExtension(v *asn1rt.Value, extIndex int) asn1rt.HookResult {
	top := d.extStack[len(d.extStack)-1]
	present := extIndex < len(top) && top[extIndex]
	child := v.SetExtensionPresent(extIndex, present)
	if !present {
		return asn1rt.ResultContinue
	}
	length, err := decodeLengthDeterminant(d.r)
	if err != nil {
		return asn1rt.ResultFail
	}
	d.r.ByteAlign()
	content, err := d.r.ReadBytes(length)
	if err != nil {
		return asn1rt.ResultFail
	}
	sub := &Decoder{r: bitio.NewReader(content)}
	if err := sub.decodeValue(child); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeUnknownExtensions(v *asn1rt.Value) asn1rt.HookResult {
	top := d.extStack[len(d.extStack)-1]
	extensions := v.Descriptor().Sequence.Extensions
	for i := len(extensions); i < len(top); i++ {
		if !top[i] {
			continue
		}
		length, err := decodeLengthDeterminant(d.r)
		if err != nil {
			return asn1rt.ResultFail
		}
		d.r.ByteAlign()
		if _, err := d.r.ReadBytes(length); err != nil {
			return asn1rt.ResultFail
		}
	}
	d.extStack = d.extStack[:len(d.extStack)-1]
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeElement(v *asn1rt.Value) (bool, error) {
	top := len(d.countStack) - 1
	if d.countStack[top] <= 0 {
		return false, nil
	}
	elem := v.AppendElement()
	if err := d.decodeValue(elem); err != nil {
		return false, err
	}
	d.countStack[top]--
	return true, nil
}

//endregion
