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

func TestHeader_appendTo(t *testing.T) {
	tests := map[string]struct {
		h    Header
		want []byte
	}{
		"EndOfContents": {Header{asn1rt.TagReserved, 0, false}, []byte{0x00, 0x00}},
		"UTF8String":    {Header{asn1rt.TagUTF8String, 5, false}, []byte{0x0C, 0x05}},
		"LongTag":       {Header{asn1rt.ClassContextSpecific | 173, 8, true}, []byte{0xBF, 0x81, 0x2D, 0x08}},
		"Sequence":      {Header{asn1rt.TagSequence, 60, true}, []byte{0x30, 60}},
		"LongSequence":  {Header{asn1rt.TagSequence, 746, true}, []byte{0x30, 0x80 | 0x02, 0x02, 0xEA}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, len(tt.want), tt.h.numBytes())
			got := tt.h.appendTo(nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeHeader(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		wantN   int
		want    Header
		wantErr error
	}{
		"UTF8String": {[]byte{0x0C, 0x05, 0x00}, 2, Header{asn1rt.TagUTF8String, 5, false}, nil},
		"LongTag":    {[]byte{0xBF, 0x81, 0x2D, 0x08, 0x00, 0x00}, 4, Header{asn1rt.ClassContextSpecific | 173, 8, true}, nil},
		"Sequence":   {[]byte{0x30, 60}, 2, Header{asn1rt.TagSequence, 60, true}, nil},
		"LongSequence": {
			[]byte{0x30, 0x80 | 0x02, 0x02, 0xEA}, 4, Header{asn1rt.TagSequence, 746, true}, nil,
		},
		"Truncated":     {nil, 0, Header{}, asn1rt.ErrTruncated},
		"NoLength":      {[]byte{0x30}, 0, Header{}, asn1rt.ErrTruncated},
		"ShortTag":      {[]byte{0xBF, 0x81, 0x2D}, 0, Header{}, asn1rt.ErrTruncated},
		"ShortLength":   {[]byte{0x30, 0x80 | 0x02, 0x02}, 0, Header{}, asn1rt.ErrTruncated},
		"Indefinite":    {[]byte{0x30, 0x80}, 0, Header{}, asn1rt.ErrUnsupported},
		"NonMinimalTag": {[]byte{0xBF, 0x80, 0x01}, 0, Header{}, asn1rt.ErrMalformedHeader},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, n, err := decodeHeader(tt.data)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestCombinedLength(t *testing.T) {
	assert.Equal(t, 0, CombinedLength())
	assert.Equal(t, 6, CombinedLength(1, 2, 3))
}
