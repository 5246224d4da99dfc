// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package per

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-asn1rt/asn1rt"
)

func booleanDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantBoolean, Tag: asn1rt.TagBoolean, New: asn1rt.NewValue}
}

func unconstrainedIntegerDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantInteger, Tag: asn1rt.TagInteger, New: asn1rt.NewValue}
}

func constrainedIntegerDescriptor(lower, upper int64) *asn1rt.Descriptor {
	return &asn1rt.Descriptor{
		Variant: asn1rt.VariantInteger, Tag: asn1rt.TagInteger, New: asn1rt.NewValue,
		Constraint: asn1rt.Constraint{Kind: asn1rt.FixedConstraint, Lower: lower, Upper: upper},
	}
}

func oidDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{Variant: asn1rt.VariantOID, Tag: asn1rt.TagOID, New: asn1rt.NewValue}
}

// extensibleChoiceSequence builds SEQUENCE { a INTEGER(0..255), b CHOICE { x
// BOOLEAN, y INTEGER(0..255) } OPTIONAL, ... }.
func extensibleChoiceSequence() *asn1rt.Descriptor {
	choice := asn1rt.NewChoiceDescriptor(0, "B", asn1rt.NewValue, false,
		[]asn1rt.FieldDescriptor{
			{Name: "x", Desc: booleanDescriptor()},
			{Name: "y", Desc: constrainedIntegerDescriptor(0, 255)},
		}, nil)
	seq := &asn1rt.SequenceInfo{
		Fields: []asn1rt.FieldDescriptor{
			{Name: "a", Desc: constrainedIntegerDescriptor(0, 255)},
			{Name: "b", Desc: choice, Optional: true},
		},
		Extensible: true,
	}
	return &asn1rt.Descriptor{Variant: asn1rt.VariantSequence, Tag: asn1rt.TagSequence, New: asn1rt.NewValue, Sequence: seq}
}

func sequenceOfIntegerDescriptor() *asn1rt.Descriptor {
	return &asn1rt.Descriptor{
		Variant: asn1rt.VariantSequenceOf, Tag: asn1rt.TagSequence, New: asn1rt.NewValue,
		SeqOf: &asn1rt.SequenceOfInfo{Element: unconstrainedIntegerDescriptor()},
	}
}

func TestDecode_Boolean(t *testing.T) {
	tests := map[string]struct {
		data []byte
		want bool
	}{
		"True":  {[]byte{0x80}, true},
		"False": {[]byte{0x00}, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := asn1rt.NewValue(booleanDescriptor())
			_, err := Decode(tt.data, v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Bool())
		})
	}
}

func TestDecode_ConstrainedInteger(t *testing.T) {
	v := asn1rt.NewValue(constrainedIntegerDescriptor(0, 255))
	n, err := Decode([]byte{0x7F}, v)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(0x7F), v.Int())
}

func TestDecode_OID(t *testing.T) {
	v := asn1rt.NewValue(oidDescriptor())
	n, err := Decode([]byte{0x03, 0x00, 0x10, 0x01}, v)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, asn1rt.ObjectIdentifier{0, 0, 16, 1}, v.OID())
}

func TestDecode_SequenceWithEmbeddedChoice(t *testing.T) {
	data, err := Encode(func() *asn1rt.Value {
		v := asn1rt.NewValue(extensibleChoiceSequence())
		v.Field(0).SetInt(5)
		b := v.SetFieldPresent(1, true)
		b.Select(0).SetBool(true)
		return v
	}())
	require.NoError(t, err)

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
	data, err := Encode(func() *asn1rt.Value {
		v := asn1rt.NewValue(extensibleChoiceSequence())
		v.Field(0).SetInt(9)
		v.SetFieldPresent(1, false)
		return v
	}())
	require.NoError(t, err)

	v := asn1rt.NewValue(extensibleChoiceSequence())
	_, err = Decode(data, v)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v.Field(0).Int())
	assert.False(t, v.FieldPresent(1))
	assert.False(t, v.HasExtensions())
}

func TestDecode_SequenceOf(t *testing.T) {
	built := asn1rt.NewValue(sequenceOfIntegerDescriptor())
	for _, n := range []int64{1, 2, 3} {
		built.AppendElement().SetInt(n)
	}
	data, err := Encode(built)
	require.NoError(t, err)

	v := asn1rt.NewValue(sequenceOfIntegerDescriptor())
	_, err = Decode(data, v)
	require.NoError(t, err)
	require.Len(t, v.Elements(), 3)
	assert.Equal(t, int64(1), v.Elements()[0].Int())
	assert.Equal(t, int64(2), v.Elements()[1].Int())
	assert.Equal(t, int64(3), v.Elements()[2].Int())
}
