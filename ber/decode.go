// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"fmt"

	"github.com/go-asn1rt/asn1rt"
)

// Decoder implements [asn1rt.Visitor] for the Basic Encoding Rules. It reads
// from an in-memory byte slice and never performs I/O of its own.
type Decoder struct {
	data []byte
	pos  int
	end  int
}

// Decode parses a BER-encoded data value from the start of data into v,
// which must already be allocated (see [asn1rt.NewValue]). It returns the
// number of bytes consumed.
func Decode(data []byte, v *asn1rt.Value) (int, error) {
	d := &Decoder{data: data, pos: 0, end: len(data)}
	if err := d.decodeTop(v); err != nil {
		return 0, err
	}
	return d.pos, nil
}

// decodeWithHeader reads a header at d.pos expecting tag expectTag,
// restricts the content window to the decoded length, runs inner, and then
// restores the enclosing window; on success d's position is left at the end
// of the value.
func (d *Decoder) decodeWithHeader(expectTag asn1rt.Tag, inner func() error) error {
	h, n, err := decodeHeader(d.data[d.pos:d.end])
	if err != nil {
		return err
	}
	if h.Tag != expectTag {
		return fmt.Errorf("%w: want %s, got %s", asn1rt.ErrTagMismatch, expectTag, h.Tag)
	}
	d.pos += n
	if d.pos+h.Length > d.end {
		return asn1rt.ErrTruncated
	}
	savedEnd := d.end
	d.end = d.pos + h.Length
	if err := inner(); err != nil {
		d.end = savedEnd
		return err
	}
	d.pos = d.end
	d.end = savedEnd
	return nil
}

// decodeTop decodes v using its descriptor's own tag, except for CHOICE and
// open type values, which carry no tag of their own: the tag actually on the
// wire belongs to the selected alternative or the embedded value.
func (d *Decoder) decodeTop(v *asn1rt.Value) error {
	switch v.Descriptor().Variant {
	case asn1rt.VariantChoice, asn1rt.VariantOpenType:
		return v.Accept(d)
	}
	return d.decodeWithHeader(v.Descriptor().Tag, func() error { return v.Accept(d) })
}

// decodeField decodes a SEQUENCE field or CHOICE alternative value v
// according to fd's tagging rules.
func (d *Decoder) decodeField(v *asn1rt.Value, fd asn1rt.FieldDescriptor) error {
	if (fd.Desc.Variant == asn1rt.VariantChoice || fd.Desc.Variant == asn1rt.VariantOpenType) && !fd.HasTag {
		return v.Accept(d)
	}
	if !fd.HasTag {
		return d.decodeTop(v)
	}
	if fd.Explicit {
		return d.decodeWithHeader(fd.Tag, func() error { return d.decodeTop(v) })
	}
	return d.decodeWithHeader(fd.Tag, func() error { return v.Accept(d) })
}

// fieldTag returns the tag that identifies fd on the wire, used to decide
// whether an OPTIONAL root field is present.
func fieldTag(fd asn1rt.FieldDescriptor) asn1rt.Tag {
	if fd.HasTag {
		return fd.Tag
	}
	return fd.Desc.Tag
}

// fieldPresent reports whether the upcoming tag in the decode window belongs
// to fd, used to resolve OPTIONAL root and extension fields.
func fieldPresent(fd asn1rt.FieldDescriptor, tag asn1rt.Tag) bool {
	if fd.Desc.Variant == asn1rt.VariantChoice && !fd.HasTag {
		_, ok := fd.Desc.Choice.FindTag(tag)
		return ok
	}
	return fieldTag(fd) == tag
}

func (d *Decoder) decodeOptionalField(fields []asn1rt.FieldDescriptor, index int, setPresent func(int, bool) *asn1rt.Value) error {
	fd := fields[index]
	if fd.Optional {
		if d.pos >= d.end {
			setPresent(index, false)
			return nil
		}
		h, _, err := decodeHeader(d.data[d.pos:d.end])
		if err != nil {
			return err
		}
		if !fieldPresent(fd, h.Tag) {
			setPresent(index, false)
			return nil
		}
	}
	child := setPresent(index, true)
	return d.decodeField(child, fd)
}

//region leaf variants

func (d *Decoder) VisitNull(v *asn1rt.Value) error {
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitBoolean(v *asn1rt.Value) error {
	if d.end-d.pos != 1 {
		return asn1rt.ErrMalformedHeader
	}
	v.SetBool(d.data[d.pos] != 0)
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitInteger(v *asn1rt.Value) error {
	n, err := decodeSignedInt(d.data[d.pos:d.end])
	if err != nil {
		return err
	}
	v.SetInt(n)
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitEnumerated(v *asn1rt.Value) error {
	return d.VisitInteger(v)
}

func (d *Decoder) VisitOID(v *asn1rt.Value) error {
	oid, err := decodeOID(d.data[d.pos:d.end])
	if err != nil {
		return err
	}
	v.SetOID(oid)
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitRelativeOID(v *asn1rt.Value) error {
	arcs, err := decodeArcs(d.data[d.pos:d.end])
	if err != nil {
		return err
	}
	v.SetRelativeOID(asn1rt.RelativeOID(arcs))
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitBitString(v *asn1rt.Value) error {
	content := d.data[d.pos:d.end]
	if len(content) == 0 {
		return asn1rt.ErrMalformedHeader
	}
	unused := int(content[0])
	if unused > 7 || (unused > 0 && len(content) == 1) {
		return asn1rt.ErrMalformedHeader
	}
	bytes := append([]byte(nil), content[1:]...)
	v.SetBitString(asn1rt.BitString{Bytes: bytes, BitLength: len(bytes)*8 - unused})
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitOctetString(v *asn1rt.Value) error {
	v.SetBytes(append([]byte(nil), d.data[d.pos:d.end]...))
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitString(v *asn1rt.Value) error {
	v.SetStr(string(d.data[d.pos:d.end]))
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitBMPString(v *asn1rt.Value) error {
	content := d.data[d.pos:d.end]
	if len(content)%2 != 0 {
		return asn1rt.ErrMalformedHeader
	}
	units := make([]uint16, len(content)/2)
	for i := range units {
		units[i] = uint16(content[2*i])<<8 | uint16(content[2*i+1])
	}
	v.SetCodeUnits(units)
	d.pos = d.end
	return nil
}

func (d *Decoder) VisitGeneralizedTime(v *asn1rt.Value) error {
	t, err := parseGeneralizedTime(string(d.data[d.pos:d.end]))
	if err != nil {
		return err
	}
	v.SetTime(t)
	d.pos = d.end
	return nil
}

//endregion

func (d *Decoder) VisitChoice(v *asn1rt.Value) error {
	if d.pos >= d.end {
		return asn1rt.ErrTruncated
	}
	h, n, err := decodeHeader(d.data[d.pos:d.end])
	if err != nil {
		return err
	}
	ci := v.Descriptor().Choice
	idx, ok := ci.FindTag(h.Tag)
	if !ok {
		if embedded, isEmbedded := ci.EmbeddedChoiceIndex(); isEmbedded {
			child := v.Select(embedded)
			return d.VisitChoice(child)
		}
		if !ci.Extensible {
			return asn1rt.ErrUnknownAlternative
		}
		total := n + h.Length
		if d.pos+total > d.end {
			return asn1rt.ErrTruncated
		}
		d.pos += total
		v.Select(-2)
		return nil
	}
	child := v.Select(idx)
	return d.decodeField(child, ci.Alternative(idx))
}

func (d *Decoder) VisitOpenType(v *asn1rt.Value) error {
	if ot := v.Descriptor().OpenType; ot != nil && ot.Content != nil {
		inner := ot.Content.New(ot.Content)
		if err := d.decodeTop(inner); err != nil {
			return err
		}
		v.SetOpenValue(inner)
		return nil
	}
	h, n, err := decodeHeader(d.data[d.pos:d.end])
	if err != nil {
		return err
	}
	total := n + h.Length
	if d.pos+total > d.end {
		return asn1rt.ErrTruncated
	}
	v.SetOpenRaw(append([]byte(nil), d.data[d.pos:d.pos+total]...))
	d.pos += total
	return nil
}

//region SEQUENCE protocol

func (d *Decoder) PreDecodeExtensionRoots(v *asn1rt.Value) asn1rt.HookResult {
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeExtensionRoot(v *asn1rt.Value, fieldIndex int) asn1rt.HookResult {
	fields := v.Descriptor().Sequence.Fields
	if err := d.decodeOptionalField(fields, fieldIndex, v.SetFieldPresent); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) PreDecodeExtensions(v *asn1rt.Value) asn1rt.HookResult {
	v.SetHasExtensions(d.pos < d.end)
	if d.pos >= d.end {
		return asn1rt.ResultNoExtension
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeKnownExtension(v *asn1rt.Value, extIndex int) asn1rt.HookResult {
	extensions := v.Descriptor().Sequence.Extensions
	if d.pos >= d.end {
		return asn1rt.ResultStop
	}
	if err := d.decodeOptionalField(extensions, extIndex, v.SetExtensionPresent); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeUnknownExtensions(v *asn1rt.Value) asn1rt.HookResult {
	for d.pos < d.end {
		h, n, err := decodeHeader(d.data[d.pos:d.end])
		if err != nil {
			return asn1rt.ResultFail
		}
		total := n + h.Length
		if d.pos+total > d.end {
			return asn1rt.ResultFail
		}
		d.pos += total
	}
	return asn1rt.ResultContinue
}

func (d *Decoder) DecodeElement(v *asn1rt.Value) (bool, error) {
	if d.pos >= d.end {
		return false, nil
	}
	elem := v.AppendElement()
	if err := d.decodeTop(elem); err != nil {
		return false, err
	}
	return true, nil
}

//endregion
