// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"github.com/go-asn1rt/asn1rt"
)

// Encoder implements [asn1rt.ConstVisitor] for the Basic Encoding Rules,
// accumulating output into an in-memory buffer.
type Encoder struct {
	dst []byte
}

// Encode returns the BER encoding of v.
func Encode(v *asn1rt.Value) ([]byte, error) {
	e := &Encoder{}
	if err := e.encodeTop(v); err != nil {
		return nil, err
	}
	return e.dst, nil
}

// isConstructed reports whether variant uses the constructed encoding form.
func isConstructed(variant asn1rt.Variant) bool {
	switch variant {
	case asn1rt.VariantSequence, asn1rt.VariantSequenceOf, asn1rt.VariantSetOf:
		return true
	}
	return false
}

// encodeTagged runs v through AcceptConst with e.dst as the content buffer,
// then prepends a header for tag/constructed around exactly the bytes that
// call appended.
func (e *Encoder) encodeTagged(v *asn1rt.Value, tag asn1rt.Tag, constructed bool) error {
	mark := len(e.dst)
	if err := v.AcceptConst(e); err != nil {
		e.dst = e.dst[:mark]
		return err
	}
	content := append([]byte(nil), e.dst[mark:]...)
	e.dst = e.dst[:mark]
	h := Header{Tag: tag, Length: len(content), Constructed: constructed}
	e.dst = h.appendTo(e.dst)
	e.dst = append(e.dst, content...)
	return nil
}

// encodeTop encodes v using its descriptor's own tag, except for CHOICE and
// open type values, whose wire tag belongs to the selected alternative or
// the embedded value.
func (e *Encoder) encodeTop(v *asn1rt.Value) error {
	switch v.Descriptor().Variant {
	case asn1rt.VariantChoice, asn1rt.VariantOpenType:
		return v.AcceptConst(e)
	}
	return e.encodeTagged(v, v.Descriptor().Tag, isConstructed(v.Descriptor().Variant))
}

// encodeField encodes a SEQUENCE field or CHOICE alternative value v
// according to fd's tagging rules.
func (e *Encoder) encodeField(v *asn1rt.Value, fd asn1rt.FieldDescriptor) error {
	if (fd.Desc.Variant == asn1rt.VariantChoice || fd.Desc.Variant == asn1rt.VariantOpenType) && !fd.HasTag {
		return v.AcceptConst(e)
	}
	if !fd.HasTag {
		return e.encodeTop(v)
	}
	if fd.Explicit {
		mark := len(e.dst)
		if err := e.encodeTop(v); err != nil {
			e.dst = e.dst[:mark]
			return err
		}
		inner := append([]byte(nil), e.dst[mark:]...)
		e.dst = e.dst[:mark]
		h := Header{Tag: fd.Tag, Length: len(inner), Constructed: true}
		e.dst = h.appendTo(e.dst)
		e.dst = append(e.dst, inner...)
		return nil
	}
	return e.encodeTagged(v, fd.Tag, isConstructed(fd.Desc.Variant))
}

//region leaf variants

func (e *Encoder) VisitNullConst(v *asn1rt.Value) error { return nil }

func (e *Encoder) VisitBooleanConst(v *asn1rt.Value) error {
	b := byte(0)
	if v.Bool() {
		b = 0xff
	}
	e.dst = append(e.dst, b)
	return nil
}

func (e *Encoder) VisitIntegerConst(v *asn1rt.Value) error {
	e.dst = appendSignedInt(e.dst, v.Int())
	return nil
}

func (e *Encoder) VisitEnumeratedConst(v *asn1rt.Value) error {
	return e.VisitIntegerConst(v)
}

func (e *Encoder) VisitOIDConst(v *asn1rt.Value) error {
	oid := v.OID()
	if len(oid) < 2 {
		return asn1rt.ErrMalformedHeader
	}
	e.dst = appendOID(e.dst, oid)
	return nil
}

func (e *Encoder) VisitRelativeOIDConst(v *asn1rt.Value) error {
	e.dst = appendArcs(e.dst, v.RelativeOID())
	return nil
}

func (e *Encoder) VisitBitStringConst(v *asn1rt.Value) error {
	bs := v.BitStringValue()
	unused := (8 - bs.BitLength%8) % 8
	e.dst = append(e.dst, byte(unused))
	e.dst = append(e.dst, bs.Bytes...)
	return nil
}

func (e *Encoder) VisitOctetStringConst(v *asn1rt.Value) error {
	e.dst = append(e.dst, v.Bytes()...)
	return nil
}

func (e *Encoder) VisitStringConst(v *asn1rt.Value) error {
	e.dst = append(e.dst, v.Str()...)
	return nil
}

func (e *Encoder) VisitBMPStringConst(v *asn1rt.Value) error {
	for _, u := range v.CodeUnits() {
		e.dst = append(e.dst, byte(u>>8), byte(u))
	}
	return nil
}

func (e *Encoder) VisitGeneralizedTimeConst(v *asn1rt.Value) error {
	e.dst = append(e.dst, formatGeneralizedTime(v.Time())...)
	return nil
}

//endregion

func (e *Encoder) VisitChoiceConst(v *asn1rt.Value) error {
	idx := v.Selected()
	if idx < 0 {
		return asn1rt.ErrUnknownAlternative
	}
	child := v.ChoiceValue()
	fd := v.Descriptor().Choice.Alternative(idx)
	return e.encodeField(child, fd)
}

func (e *Encoder) VisitOpenTypeConst(v *asn1rt.Value) error {
	if raw, ok := v.OpenRaw(); ok {
		e.dst = append(e.dst, raw...)
		return nil
	}
	if inner, ok := v.OpenValue(); ok {
		return e.encodeTop(inner)
	}
	return asn1rt.ErrUnsupported
}

//region SEQUENCE protocol

func (e *Encoder) PreEncodeExtensionRoots(v *asn1rt.Value) asn1rt.HookResult {
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeExtensionRoot(v *asn1rt.Value, fieldIndex int) asn1rt.HookResult {
	fd := v.Descriptor().Sequence.Fields[fieldIndex]
	if err := e.encodeField(v.Field(fieldIndex), fd); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) PreEncodeExtensions(v *asn1rt.Value) asn1rt.HookResult {
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeKnownExtension(v *asn1rt.Value, extIndex int) asn1rt.HookResult {
	fd := v.Descriptor().Sequence.Extensions[extIndex]
	if err := e.encodeField(v.Extension(extIndex), fd); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) AfterEncodeSequence(v *asn1rt.Value) asn1rt.HookResult {
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeElementConst(v *asn1rt.Value, elem *asn1rt.Value, index int) error {
	return e.encodeTop(elem)
}

//endregion
