// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitString_At(t *testing.T) {
	s := BitString{Bytes: []byte{0b1011_0000}, BitLength: 4}
	require.Equal(t, 1, s.At(0))
	require.Equal(t, 0, s.At(1))
	require.Equal(t, 1, s.At(2))
	require.Equal(t, 1, s.At(3))
}

func TestBitString_Compare(t *testing.T) {
	short := BitString{Bytes: []byte{0xFF}, BitLength: 2}
	long := BitString{Bytes: []byte{0x00}, BitLength: 4}
	require.Negative(t, short.Compare(long))
	require.Positive(t, long.Compare(short))
	require.Zero(t, short.Compare(short))
}

func TestObjectIdentifier_Compare(t *testing.T) {
	a := ObjectIdentifier{0, 0, 16, 1}
	b := ObjectIdentifier{0, 0, 16, 2}
	c := ObjectIdentifier{0, 0, 16}
	require.Negative(t, a.Compare(b))
	require.Negative(t, c.Compare(a)) // a proper prefix sorts first
	require.True(t, a.Equal(ObjectIdentifier{0, 0, 16, 1}))
}

func TestObjectIdentifier_DottedString(t *testing.T) {
	require.Equal(t, "0.0.16.1", ObjectIdentifier{0, 0, 16, 1}.DottedString())
}

func TestGeneralizedTime_String(t *testing.T) {
	tests := map[string]struct {
		t    GeneralizedTime
		want string
	}{
		"UTC":   {GeneralizedTime{Year: 1985, Month: 11, Day: 6, Hour: 21, Minute: 6, Second: 21, UTC: true}, "19851106210621Z"},
		"Local": {GeneralizedTime{Year: 1985, Month: 11, Day: 6, Hour: 21, Minute: 6, Second: 21, Local: true}, "19851106210621"},
		"Offset": {
			GeneralizedTime{Year: 2582, Month: 11, Day: 6, Hour: 21, Minute: 6, Second: 21, MinuteOffset: 5 * 60},
			"25821106210621+0500",
		},
		"Millis": {GeneralizedTime{Year: 1999, Month: 1, Day: 1, Millisecond: 500, UTC: true}, "19990101000000.500Z"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.t.String())
		})
	}
}

func TestGeneralizedTime_IsValid(t *testing.T) {
	require.True(t, GeneralizedTime{Year: 1, Month: 1, Day: 1, UTC: true}.IsValid())
	require.False(t, GeneralizedTime{Year: 0, Month: 1, Day: 1}.IsValid())
	require.False(t, GeneralizedTime{Year: 1, Month: 13, Day: 1}.IsValid())
}
