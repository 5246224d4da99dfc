// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-asn1rt/asn1rt"
)

func booleanDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantBoolean, Tag: asn1rt.TagBoolean, New: asn1rt.NewValue}
}

func integerDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantInteger, Tag: asn1rt.TagInteger, New: asn1rt.NewValue}
}

func oidDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantOID, Tag: asn1rt.TagOID, New: asn1rt.NewValue}
}

func octetStringDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantOctetString, Tag: asn1rt.TagOctetString, New: asn1rt.NewValue}
}

// ip4AddressMessage builds a SEQUENCE { mId [1] EXPLICIT CHOICE { ip4Address
// [0] IMPLICIT SEQUENCE { address [0] IMPLICIT OCTET STRING, portNumber [1]
// IMPLICIT INTEGER }, ... }, ... }, modeled on the mId/IP4Address shape of
// H.248 (MEGACO) MediaGatewayControl ASN.1 messages: a CHOICE must be
// EXPLICIT-tagged since it carries no tag of its own, while its SEQUENCE
// alternative is IMPLICIT-tagged in turn.
func ip4AddressMessage() *asn1rt.Descriptor {
	ip4 := &asn1rt.SequenceInfo{
		Fields: []asn1rt.FieldDescriptor{
			{Name: "address", Desc: octetStringDescriptor(), Tag: asn1rt.MakeTag(asn1rt.ClassContextSpecific, 0), HasTag: true},
			{Name: "portNumber", Desc: integerDescriptor(), Tag: asn1rt.MakeTag(asn1rt.ClassContextSpecific, 1), HasTag: true},
		},
	}
	ip4Desc := &asn1rt.Descriptor{Variant: asn1rt.VariantSequence, Tag: asn1rt.TagSequence, New: asn1rt.NewValue, Sequence: ip4}

	mId := asn1rt.NewChoiceDescriptor(0, "MId", asn1rt.NewValue, true,
		[]asn1rt.FieldDescriptor{
			{Name: "ip4Address", Desc: ip4Desc, Tag: asn1rt.MakeTag(asn1rt.ClassContextSpecific, 0), HasTag: true},
		}, nil)

	seq := &asn1rt.SequenceInfo{
		Fields: []asn1rt.FieldDescriptor{
			{Name: "mId", Desc: mId, Tag: asn1rt.MakeTag(asn1rt.ClassContextSpecific, 1), HasTag: true, Explicit: true},
		},
		Extensible: true,
	}
	return &asn1rt.Descriptor{Variant: asn1rt.VariantSequence, Tag: asn1rt.TagSequence, New: asn1rt.NewValue, Sequence: seq}
}

func TestDecode_IP4AddressChoice(t *testing.T) {
	// mId [1] EXPLICIT { ip4Address [0] { address="\xA4\x30\x33\xEE", port=5020 } },
	// the literal fixture bytes used for the mId field of an H.248 MegacoMessage.
	data := []byte{
		0x30, 0x0E,
		0xA1, 0x0C,
		0xA0, 0x0A,
		0x80, 0x04, 0xA4, 0x30, 0x33, 0xEE,
		0x81, 0x02, 0x13, 0x9C,
	}
	v := asn1rt.NewValue(ip4AddressMessage())
	n, err := Decode(data, v)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	mId := v.Field(0)
	require.Equal(t, 0, mId.Selected())
	ip4 := mId.ChoiceValue()
	assert.Equal(t, []byte{0xA4, 0x30, 0x33, 0xEE}, ip4.Field(0).Bytes())
	assert.Equal(t, int64(5020), ip4.Field(1).Int())
}

func TestDecode_Boolean(t *testing.T) {
	tests := map[string]struct {
		data []byte
		want bool
	}{
		"True":  {[]byte{0x01, 0x01, 0xff}, true},
		"False": {[]byte{0x01, 0x01, 0x00}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := asn1rt.NewValue(booleanDescriptor())
			n, err := Decode(tt.data, v)
			require.NoError(t, err)
			assert.Equal(t, len(tt.data), n)
			assert.Equal(t, tt.want, v.Bool())
		})
	}
}

func TestDecode_Integer(t *testing.T) {
	v := asn1rt.NewValue(integerDescriptor())
	n, err := Decode([]byte{0x02, 0x02, 0x13, 0x9C}, v)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(0x139C), v.Int())
}

func TestDecode_OID(t *testing.T) {
	v := asn1rt.NewValue(oidDescriptor())
	n, err := Decode([]byte{0x06, 0x03, 0x00, 0x10, 0x01}, v)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, asn1rt.ObjectIdentifier{0, 0, 16, 1}, v.OID())
}

func TestDecode_TagMismatch(t *testing.T) {
	v := asn1rt.NewValue(booleanDescriptor())
	_, err := Decode([]byte{0x02, 0x01, 0x00}, v)
	require.ErrorIs(t, err, asn1rt.ErrTagMismatch)
}

// extensibleChoiceSequence builds the descriptor for a SEQUENCE { a INTEGER,
// b CHOICE { x BOOLEAN, y INTEGER } OPTIONAL, ... }, with b an untagged
// embedded CHOICE whose alternatives are each IMPLICIT-tagged by their own
// universal tags.
func extensibleChoiceSequence() *asn1rt.Descriptor {
	choice := asn1rt.NewChoiceDescriptor(0, "B", asn1rt.NewValue, false,
		[]asn1rt.FieldDescriptor{
			{Name: "x", Desc: booleanDescriptor(), Tag: asn1rt.TagBoolean, HasTag: true},
			{Name: "y", Desc: integerDescriptor(), Tag: asn1rt.TagInteger, HasTag: true},
		}, nil)
	seq := &asn1rt.SequenceInfo{
		Fields: []asn1rt.FieldDescriptor{
			{Name: "a", Desc: integerDescriptor(), Tag: asn1rt.TagInteger, HasTag: true},
			{Name: "b", Desc: choice, Optional: true},
		},
		Extensible: true,
	}
	return &asn1rt.Descriptor{Variant: asn1rt.VariantSequence, Tag: asn1rt.TagSequence, New: asn1rt.NewValue, Sequence: seq}
}

func TestDecode_SequenceWithEmbeddedChoice(t *testing.T) {
	// SEQUENCE { a=5, b=CHOICE x=TRUE }
	data := []byte{
		0x30, 0x06,
		0x02, 0x01, 0x05,
		0x01, 0x01, 0xff,
	}
	v := asn1rt.NewValue(extensibleChoiceSequence())
	n, err := Decode(data, v)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, int64(5), v.Field(0).Int())
	require.True(t, v.FieldPresent(1))
	b := v.Field(1)
	assert.Equal(t, 0, b.Selected())
	assert.True(t, b.ChoiceValue().Bool())
}

func TestDecode_SequenceOptionalFieldAbsent(t *testing.T) {
	// SEQUENCE { a=5 }, b omitted entirely.
	data := []byte{
		0x30, 0x03,
		0x02, 0x01, 0x05,
	}
	v := asn1rt.NewValue(extensibleChoiceSequence())
	n, err := Decode(data, v)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.False(t, v.FieldPresent(1))
	assert.False(t, v.HasExtensions())
}

// choiceOfChoice builds a CHOICE { inner CHOICE { p BOOLEAN, q INTEGER },
// z OID }, where "inner" is itself an untagged embedded CHOICE: it carries no
// tag of its own, so the outer CHOICE's tag table holds the sentinel entry at
// index 0 for it.
func choiceOfChoice() *asn1rt.Descriptor {
	inner := asn1rt.NewChoiceDescriptor(0, "Inner", asn1rt.NewValue, false,
		[]asn1rt.FieldDescriptor{
			{Name: "p", Desc: booleanDescriptor(), Tag: asn1rt.TagBoolean, HasTag: true},
			{Name: "q", Desc: integerDescriptor(), Tag: asn1rt.TagInteger, HasTag: true},
		}, nil)
	return asn1rt.NewChoiceDescriptor(0, "Outer", asn1rt.NewValue, false,
		[]asn1rt.FieldDescriptor{
			{Name: "inner", Desc: inner},
			{Name: "z", Desc: oidDescriptor(), Tag: asn1rt.TagOID, HasTag: true},
		}, nil)
}

func TestDecode_ChoiceAlternativeIsEmbeddedChoice(t *testing.T) {
	// Outer selects "inner" (tag 0, sentinel), which in turn selects "q"
	// INTEGER=7, resolved only by recursing past the sentinel since neither
	// CHOICE's own tag table lists TagInteger directly at the outer level.
	data := []byte{0x02, 0x01, 0x07}
	v := asn1rt.NewValue(choiceOfChoice())
	n, err := Decode(data, v)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	assert.Equal(t, 0, v.Selected())
	inner := v.ChoiceValue()
	assert.Equal(t, 1, inner.Selected())
	assert.Equal(t, int64(7), inner.ChoiceValue().Int())
}
