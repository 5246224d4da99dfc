// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package avn

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

func namedIntegerDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{
		Variant: asn1rt.VariantInteger, Tag: asn1rt.TagInteger, New: asn1rt.NewValue,
		Names: []asn1rt.NamedNumber{{Name: "red", Value: 0}, {Name: "green", Value: 1}, {Name: "blue", Value: 2}},
	}
}

func oidDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantOID, Tag: asn1rt.TagOID, New: asn1rt.NewValue}
}

func octetStringDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantOctetString, Tag: asn1rt.TagOctetString, New: asn1rt.NewValue}
}

func bitStringDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantBitString, Tag: asn1rt.TagBitString, New: asn1rt.NewValue}
}

func sequenceOfIntegerDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{
		Variant: asn1rt.VariantSequenceOf, Tag: asn1rt.TagSequence, New: asn1rt.NewValue,
		SeqOf: &asn1rt.SequenceOfInfo{Element: integerDescriptor()},
	}
}

// twoOptionalFieldSequence builds SEQUENCE { fieldA INTEGER OPTIONAL,
// fieldB INTEGER OPTIONAL }, the fixture named in the testable-properties
// scenario for AVN output with only the second optional field present.
func twoOptionalFieldSequence() *asn1rt.Descriptor {
	seq := &asn1rt.SequenceInfo{
		Fields: []asn1rt.FieldDescriptor{
			{Name: "fieldA", Desc: integerDescriptor(), Optional: true},
			{Name: "fieldB", Desc: integerDescriptor(), Optional: true},
		},
	}
	return &asn1rt.Descriptor{Variant: asn1rt.VariantSequence, Tag: asn1rt.TagSequence, New: asn1rt.NewValue, Sequence: seq}
}

func extensibleChoiceSequence() *asn1rt.Descriptor {
	choice := asn1rt.NewChoiceDescriptor(0, "b", asn1rt.NewValue, false,
		[]asn1rt.FieldDescriptor{
			{Name: "x", Desc: booleanDescriptor()},
			{Name: "y", Desc: integerDescriptor()},
		}, nil)
	seq := &asn1rt.SequenceInfo{
		Fields: []asn1rt.FieldDescriptor{
			{Name: "a", Desc: integerDescriptor()},
			{Name: "b", Desc: choice, Optional: true},
		},
	}
	return &asn1rt.Descriptor{Variant: asn1rt.VariantSequence, Tag: asn1rt.TagSequence, New: asn1rt.NewValue, Sequence: seq}
}

func TestDecode_Boolean(t *testing.T) {
	tests := map[string]struct {
		text string
		want bool
	}{
		"True":  {"TRUE", true},
		"False": {"FALSE", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := asn1rt.NewValue(booleanDescriptor())
			require.NoError(t, Decode(tt.text, v))
			assert.Equal(t, tt.want, v.Bool())
		})
	}
}

func TestDecode_Integer(t *testing.T) {
	v := asn1rt.NewValue(integerDescriptor())
	require.NoError(t, Decode("5020", v))
	assert.Equal(t, int64(5020), v.Int())
}

func TestDecode_NegativeInteger(t *testing.T) {
	v := asn1rt.NewValue(integerDescriptor())
	require.NoError(t, Decode("-7", v))
	assert.Equal(t, int64(-7), v.Int())
}

func TestDecode_NamedInteger(t *testing.T) {
	v := asn1rt.NewValue(namedIntegerDescriptor())
	require.NoError(t, Decode("green", v))
	assert.Equal(t, int64(1), v.Int())
}

func TestDecode_OID(t *testing.T) {
	v := asn1rt.NewValue(oidDescriptor())
	require.NoError(t, Decode("{ 0 0 16 1 }", v))
	assert.Equal(t, asn1rt.ObjectIdentifier{0, 0, 16, 1}, v.OID())
}

func TestDecode_OctetString(t *testing.T) {
	v := asn1rt.NewValue(octetStringDescriptor())
	require.NoError(t, Decode("'A4 30 33 EE'H", v))
	assert.Equal(t, []byte{0xA4, 0x30, 0x33, 0xEE}, v.Bytes())
}

func TestDecode_BitString(t *testing.T) {
	v := asn1rt.NewValue(bitStringDescriptor())
	require.NoError(t, Decode("'1011'B", v))
	bs := v.BitStringValue()
	assert.Equal(t, 4, bs.BitLength)
	assert.Equal(t, []byte{0b1011_0000}, bs.Bytes)
}

func TestDecode_SequenceOptionalFieldSecondOnly(t *testing.T) {
	v := asn1rt.NewValue(twoOptionalFieldSequence())
	require.NoError(t, Decode("{\n  fieldB 9\n}", v))
	assert.False(t, v.FieldPresent(0))
	require.True(t, v.FieldPresent(1))
	assert.Equal(t, int64(9), v.Field(1).Int())
}

func TestDecode_SequenceWithEmbeddedChoice(t *testing.T) {
	v := asn1rt.NewValue(extensibleChoiceSequence())
	require.NoError(t, Decode("{ a 5, b x : TRUE }", v))
	assert.Equal(t, int64(5), v.Field(0).Int())
	require.True(t, v.FieldPresent(1))
	b := v.Field(1)
	assert.Equal(t, 0, b.Selected())
	assert.True(t, b.ChoiceValue().Bool())
}

func TestDecode_UnknownChoiceAlternative_Fails(t *testing.T) {
	v := asn1rt.NewValue(extensibleChoiceSequence())
	choice := asn1rt.NewValue(v.Descriptor().Sequence.Fields[1].Desc)
	require.ErrorIs(t, Decode("z : TRUE", choice), asn1rt.ErrUnknownAlternative)
}

func TestDecode_SequenceOf(t *testing.T) {
	v := asn1rt.NewValue(sequenceOfIntegerDescriptor())
	require.NoError(t, Decode("{\n  1,\n  2,\n  3\n}", v))
	require.Len(t, v.Elements(), 3)
	assert.Equal(t, int64(1), v.Elements()[0].Int())
	assert.Equal(t, int64(2), v.Elements()[1].Int())
	assert.Equal(t, int64(3), v.Elements()[2].Int())
}

func TestDecode_TrailingGarbageFails(t *testing.T) {
	v := asn1rt.NewValue(integerDescriptor())
	require.ErrorIs(t, Decode("5 6", v), asn1rt.ErrMalformedHeader)
}
