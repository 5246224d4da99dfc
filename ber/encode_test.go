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

func TestEncode_Boolean(t *testing.T) {
	tests := map[string]struct {
		value bool
		want  []byte
	}{
		"True":  {true, []byte{0x01, 0x01, 0xff}},
		"False": {false, []byte{0x01, 0x01, 0x00}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v := asn1rt.NewValue(booleanDescriptor())
			v.SetBool(tt.value)
			got, err := Encode(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Integer(t *testing.T) {
	v := asn1rt.NewValue(integerDescriptor())
	v.SetInt(0x139C)
	got, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x02, 0x13, 0x9C}, got)
}

func TestEncode_OID(t *testing.T) {
	v := asn1rt.NewValue(oidDescriptor())
	v.SetOID(asn1rt.ObjectIdentifier{0, 0, 16, 1})
	got, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x03, 0x00, 0x10, 0x01}, got)
}

func TestEncode_SequenceWithEmbeddedChoice(t *testing.T) {
	v := asn1rt.NewValue(extensibleChoiceSequence())
	v.Field(0).SetInt(5)
	b := v.SetFieldPresent(1, true)
	b.Select(0).SetBool(true)
	got, err := Encode(v)
	require.NoError(t, err)
	want := []byte{
		0x30, 0x06,
		0x02, 0x01, 0x05,
		0x01, 0x01, 0xff,
	}
	assert.Equal(t, want, got)
}

func TestEncode_SequenceOptionalFieldAbsent(t *testing.T) {
	v := asn1rt.NewValue(extensibleChoiceSequence())
	v.Field(0).SetInt(5)
	got, err := Encode(v)
	require.NoError(t, err)
	want := []byte{
		0x30, 0x03,
		0x02, 0x01, 0x05,
	}
	assert.Equal(t, want, got)
}

func TestRoundTrip_IP4AddressChoice(t *testing.T) {
	// The mId/ip4Address fixture: OCTET STRING "\xA4\x30\x33\xEE" selected as
	// alternative 0 of an extensible CHOICE, inside a larger SEQUENCE, per an
	// H.248 (MEGACO) MediaGatewayControl message.
	data := []byte{
		0x30, 0x0E,
		0xA1, 0x0C,
		0xA0, 0x0A,
		0x80, 0x04, 0xA4, 0x30, 0x33, 0xEE,
		0x81, 0x02, 0x13, 0x9C,
	}
	decoded := asn1rt.NewValue(ip4AddressMessage())
	n, err := Decode(data, decoded)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	got, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestRoundTrip_SequenceWithEmbeddedChoice(t *testing.T) {
	v := asn1rt.NewValue(extensibleChoiceSequence())
	v.Field(0).SetInt(7)
	b := v.SetFieldPresent(1, true)
	b.Select(1).SetInt(-3)
	data, err := Encode(v)
	require.NoError(t, err)

	decoded := asn1rt.NewValue(extensibleChoiceSequence())
	n, err := Decode(data, decoded)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, int64(7), decoded.Field(0).Int())
	assert.Equal(t, 1, decoded.Field(1).Selected())
	assert.Equal(t, int64(-3), decoded.Field(1).ChoiceValue().Int())
}
