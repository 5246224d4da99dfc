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

func TestEncode_Boolean(t *testing.T) {
	v := asn1rt.NewValue(booleanDescriptor())
	v.SetBool(true)
	data, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, data)
}

func TestEncode_ConstrainedInteger(t *testing.T) {
	v := asn1rt.NewValue(constrainedIntegerDescriptor(0, 255))
	v.SetInt(0x7F)
	data, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7F}, data)
}

func TestEncode_OID(t *testing.T) {
	v := asn1rt.NewValue(oidDescriptor())
	v.SetOID(asn1rt.ObjectIdentifier{0, 0, 16, 1})
	data, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x03, 0x00, 0x10, 0x01}, data)
}

func TestRoundTrip_SequenceWithEmbeddedChoiceExtension(t *testing.T) {
	v := asn1rt.NewValue(extensibleChoiceSequence())
	v.Field(0).SetInt(42)
	b := v.SetFieldPresent(1, true)
	b.Select(1).SetInt(17)

	data, err := Encode(v)
	require.NoError(t, err)

	got := asn1rt.NewValue(extensibleChoiceSequence())
	n, err := Decode(data, got)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, int64(42), got.Field(0).Int())
	require.True(t, got.FieldPresent(1))
	assert.Equal(t, 1, got.Field(1).Selected())
	assert.Equal(t, int64(17), got.Field(1).ChoiceValue().Int())
}

func TestRoundTrip_SequenceOf(t *testing.T) {
	v := asn1rt.NewValue(sequenceOfIntegerDescriptor())
	for _, n := range []int64{-5, 0, 100000} {
		v.AppendElement().SetInt(n)
	}
	data, err := Encode(v)
	require.NoError(t, err)

	got := asn1rt.NewValue(sequenceOfIntegerDescriptor())
	_, err = Decode(data, got)
	require.NoError(t, err)
	require.Len(t, got.Elements(), 3)
	assert.Equal(t, int64(-5), got.Elements()[0].Int())
	assert.Equal(t, int64(0), got.Elements()[1].Int())
	assert.Equal(t, int64(100000), got.Elements()[2].Int())
}

func TestMarshalUnmarshal(t *testing.T) {
	data, err := Marshal(constrainedIntegerDescriptor(0, 1000), func(v *asn1rt.Value) {
		v.SetInt(512)
	})
	require.NoError(t, err)

	v, err := Unmarshal(data, constrainedIntegerDescriptor(0, 1000))
	require.NoError(t, err)
	assert.Equal(t, int64(512), v.Int())

	_, err = Unmarshal(append(data, 0x00), constrainedIntegerDescriptor(0, 1000))
	require.ErrorIs(t, err, asn1rt.ErrTruncated)
}
