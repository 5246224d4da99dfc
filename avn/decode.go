// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package avn implements ASN.1 Value Notation: the textual form where
// `{ field-name value, field-name value }` describes a SEQUENCE,
// `choice-name : value` describes a CHOICE, `'00 FF'H` is a hex OCTET
// STRING, `'1011'B` a binary BIT STRING, and `{ 0 1 2 }` an OBJECT
// IDENTIFIER. [Decode] is a recursive-descent parser driven by the target
// Value's Descriptor; [Encode] is the matching pretty-printer.
//
// Value references and embedded expressions are not supported, matching
// [Rec. ITU-T X.680] Annex A's value-notation subset as this runtime
// restricts it; open-type value literals are likewise not accepted by
// Decode, which reports [asn1rt.ErrUnsupported] for an open type.
//
// [Rec. ITU-T X.680]: https://www.itu.int/rec/T-REC-X.680
package avn

import "github.com/go-asn1rt/asn1rt"

// Decoder implements [asn1rt.Visitor] by consuming tokens from a lexer,
// matching named fields and alternatives literally against the target
// Value's Descriptor rather than against any positional wire layout.
type Decoder struct {
	lex *lexer
	cur token

	// firstStack tracks, per nested SEQUENCE OF / SET OF currently being
	// decoded, whether the next element is the first (and so must not be
	// preceded by a comma). Needed because DecodeElement is called once per
	// element with no surrounding hook to stash this.
	firstStack []bool
}

// Decode parses a value-notation document into v, which must already be
// allocated (see [asn1rt.NewValue]). It fails if trailing, non-whitespace
// content remains after the value.
func Decode(s string, v *asn1rt.Value) error {
	d := &Decoder{lex: newLexer(s)}
	if err := d.advance(); err != nil {
		return err
	}
	if err := d.decodeValue(v); err != nil {
		return err
	}
	if d.cur.kind != tokEOF {
		return asn1rt.ErrMalformedHeader
	}
	return nil
}

func (d *Decoder) advance() error {
	tok, err := d.lex.next()
	if err != nil {
		return err
	}
	d.cur = tok
	return nil
}

func (d *Decoder) expect(kind tokenKind) error {
	if d.cur.kind != kind {
		return asn1rt.ErrMalformedHeader
	}
	return d.advance()
}

// consumeComma skips a comma token if one is present, leaving the cursor
// untouched otherwise (used after the last field/element of a construct,
// where no trailing comma is expected).
func (d *Decoder) consumeComma() error {
	if d.cur.kind == tokComma {
		return d.advance()
	}
	return nil
}

// matchField consumes a leading identifier equal to name. If the identifier
// doesn't match, it reports absence for optional fields and fails otherwise,
// without consuming the token (so a following field/extension can still
// match it).
func (d *Decoder) matchField(name string, optional bool) (bool, error) {
	if d.cur.kind == tokIdent && d.cur.text == name {
		if err := d.advance(); err != nil {
			return false, err
		}
		return true, nil
	}
	if optional {
		return false, nil
	}
	return false, asn1rt.ErrMalformedHeader
}

// decodeValue decodes v according to its descriptor, handling the
// brace-delimited SEQUENCE OF / SET OF form that has no dedicated Visitor
// hook pair.
func (d *Decoder) decodeValue(v *asn1rt.Value) error {
	desc := v.Descriptor()
	if desc.Variant != asn1rt.VariantSequenceOf && desc.Variant != asn1rt.VariantSetOf {
		return v.Accept(d)
	}
	if err := d.expect(tokLBrace); err != nil {
		return err
	}
	d.firstStack = append(d.firstStack, true)
	err := v.Accept(d)
	d.firstStack = d.firstStack[:len(d.firstStack)-1]
	return err
}

//region leaf variants

func (d *Decoder) VisitNull(v *asn1rt.Value) error {
	if d.cur.kind != tokIdent || d.cur.text != "NULL" {
		return asn1rt.ErrMalformedHeader
	}
	return d.advance()
}

func (d *Decoder) VisitBoolean(v *asn1rt.Value) error {
	if d.cur.kind != tokIdent {
		return asn1rt.ErrMalformedHeader
	}
	switch d.cur.text {
	case "TRUE":
		v.SetBool(true)
	case "FALSE":
		v.SetBool(false)
	default:
		return asn1rt.ErrMalformedHeader
	}
	return d.advance()
}

func (d *Decoder) VisitInteger(v *asn1rt.Value) error {
	if d.cur.kind == tokIdent {
		n, ok := lookupValueByName(v.Descriptor().Names, d.cur.text)
		if !ok {
			return asn1rt.ErrMalformedHeader
		}
		v.SetInt(n)
		return d.advance()
	}
	if d.cur.kind != tokInt {
		return asn1rt.ErrMalformedHeader
	}
	v.SetInt(d.cur.num)
	return d.advance()
}

func (d *Decoder) VisitEnumerated(v *asn1rt.Value) error {
	if d.cur.kind == tokIdent {
		n, ok := lookupValueByName(v.Descriptor().Names, d.cur.text)
		if !ok {
			return asn1rt.ErrMalformedHeader
		}
		v.SetInt(n)
		return d.advance()
	}
	if d.cur.kind != tokInt {
		return asn1rt.ErrMalformedHeader
	}
	v.SetInt(d.cur.num)
	return d.advance()
}

func (d *Decoder) VisitOID(v *asn1rt.Value) error {
	if err := d.expect(tokLBrace); err != nil {
		return err
	}
	var arcs asn1rt.ObjectIdentifier
	for d.cur.kind != tokRBrace {
		if d.cur.kind != tokInt {
			return asn1rt.ErrMalformedHeader
		}
		arcs = append(arcs, uint64(d.cur.num))
		if err := d.advance(); err != nil {
			return err
		}
	}
	if err := d.advance(); err != nil { // closing brace
		return err
	}
	v.SetOID(arcs)
	return nil
}

func (d *Decoder) VisitRelativeOID(v *asn1rt.Value) error {
	if err := d.expect(tokLBrace); err != nil {
		return err
	}
	var arcs asn1rt.RelativeOID
	for d.cur.kind != tokRBrace {
		if d.cur.kind != tokInt {
			return asn1rt.ErrMalformedHeader
		}
		arcs = append(arcs, uint64(d.cur.num))
		if err := d.advance(); err != nil {
			return err
		}
	}
	if err := d.advance(); err != nil {
		return err
	}
	v.SetRelativeOID(arcs)
	return nil
}

func (d *Decoder) VisitBitString(v *asn1rt.Value) error {
	if d.cur.kind != tokBinString {
		return asn1rt.ErrMalformedHeader
	}
	bs, err := parseBits(d.cur.text)
	if err != nil {
		return err
	}
	v.SetBitString(bs)
	return d.advance()
}

func (d *Decoder) VisitOctetString(v *asn1rt.Value) error {
	if d.cur.kind != tokHexString {
		return asn1rt.ErrMalformedHeader
	}
	b, err := decodeHex(d.cur.text)
	if err != nil {
		return err
	}
	v.SetBytes(b)
	return d.advance()
}

func (d *Decoder) VisitString(v *asn1rt.Value) error {
	if d.cur.kind != tokString {
		return asn1rt.ErrMalformedHeader
	}
	v.SetStr(d.cur.text)
	return d.advance()
}

func (d *Decoder) VisitBMPString(v *asn1rt.Value) error {
	if d.cur.kind == tokString {
		units := make([]uint16, 0, len(d.cur.text))
		for _, r := range d.cur.text {
			units = append(units, uint16(r))
		}
		v.SetCodeUnits(units)
		return d.advance()
	}
	// Quadruple form: {{ 0, 0, hi, lo }, { 0, 0, hi, lo }, ...}
	if err := d.expect(tokLBrace); err != nil {
		return err
	}
	var units []uint16
	for d.cur.kind != tokRBrace {
		if err := d.expect(tokLBrace); err != nil {
			return err
		}
		var quad [4]int64
		for i := 0; i < 4; i++ {
			if d.cur.kind != tokInt {
				return asn1rt.ErrMalformedHeader
			}
			quad[i] = d.cur.num
			if err := d.advance(); err != nil {
				return err
			}
			if i < 3 {
				if err := d.expect(tokComma); err != nil {
					return err
				}
			}
		}
		if err := d.expect(tokRBrace); err != nil {
			return err
		}
		units = append(units, uint16(quad[2]<<8|quad[3]))
		if err := d.consumeComma(); err != nil {
			return err
		}
	}
	v.SetCodeUnits(units)
	return d.advance()
}

func (d *Decoder) VisitGeneralizedTime(v *asn1rt.Value) error {
	if d.cur.kind != tokString {
		return asn1rt.ErrMalformedHeader
	}
	t, err := parseGeneralizedTimeText(d.cur.text)
	if err != nil {
		return err
	}
	v.SetTime(t)
	return d.advance()
}

//endregion

func (d *Decoder) VisitChoice(v *asn1rt.Value) error {
	if d.cur.kind != tokIdent {
		return asn1rt.ErrMalformedHeader
	}
	name := d.cur.text
	if err := d.advance(); err != nil {
		return err
	}
	if err := d.expect(tokColon); err != nil {
		return err
	}
	ci := v.Descriptor().Choice
	for i := 0; i < ci.NumAlternatives(); i++ {
		if ci.Alternative(i).Name == name {
			child := v.Select(i)
			return d.decodeValue(child)
		}
	}
	return asn1rt.ErrUnknownAlternative
}

func (d *Decoder) VisitOpenType(v *asn1rt.Value) error {
	return asn1rt.ErrUnsupported
}

//region SEQUENCE protocol

func (d *Decoder) PreDecodeExtensionRoots(v *asn1rt.Value) asn1rt.HookResult {
	if err := d.expect(tokLBrace); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeExtensionRoot(v *asn1rt.Value, fieldIndex int) asn1rt.HookResult {
	fields := v.Descriptor().Sequence.Fields
	fd := fields[fieldIndex]
	present, err := d.matchField(fd.Name, fd.Optional)
	if err != nil {
		return asn1rt.ResultFail
	}
	child := v.SetFieldPresent(fieldIndex, present)
	if present {
		if err := d.decodeValue(child); err != nil {
			return asn1rt.ResultFail
		}
		if err := d.consumeComma(); err != nil {
			return asn1rt.ResultFail
		}
	}
	if fieldIndex == len(fields)-1 && !v.Descriptor().Sequence.Extensible {
		if err := d.expect(tokRBrace); err != nil {
			return asn1rt.ResultFail
		}
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) PreDecodeExtensions(v *asn1rt.Value) asn1rt.HookResult {
	if d.cur.kind == tokRBrace {
		if err := d.advance(); err != nil {
			return asn1rt.ResultFail
		}
		return asn1rt.ResultNoExtension
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeKnownExtension(v *asn1rt.Value, extIndex int) asn1rt.HookResult {
	fd := v.Descriptor().Sequence.Extensions[extIndex]
	present, err := d.matchField(fd.Name, true)
	if err != nil {
		return asn1rt.ResultFail
	}
	child := v.SetExtensionPresent(extIndex, present)
	if present {
		if err := d.decodeValue(child); err != nil {
			return asn1rt.ResultFail
		}
		if err := d.consumeComma(); err != nil {
			return asn1rt.ResultFail
		}
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeUnknownExtensions(v *asn1rt.Value) asn1rt.HookResult {
	hasExt := false
	for i := 0; i < v.NumExtensions(); i++ {
		if v.ExtensionPresent(i) {
			hasExt = true
			break
		}
	}
	v.SetHasExtensions(hasExt)
	if d.cur.kind != tokRBrace {
		return asn1rt.ResultFail
	}
	if err := d.advance(); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeElement(v *asn1rt.Value) (bool, error) {
	if d.cur.kind == tokRBrace {
		return false, d.advance()
	}
	top := len(d.firstStack) - 1
	if !d.firstStack[top] {
		if err := d.expect(tokComma); err != nil {
			return false, err
		}
	}
	d.firstStack[top] = false
	elem := v.AppendElement()
	if err := d.decodeValue(elem); err != nil {
		return false, err
	}
	return true, nil
}

//endregion
