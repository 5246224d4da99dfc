// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vlq

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

//region Testing Helpers

// readTestCase represents a single reading test case for type T.
type readTestCase[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64] struct {
	data    []byte // input, possibly with trailing bytes after the VLQ
	wantN   int    // expected bytes consumed
	want    T      // expected output
	wantErr error  // expected error
}

func testRead[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](t *testing.T, f func([]byte) (T, int, error), tc readTestCase[T]) {
	t.Helper()
	got, n, err := f(tc.data)
	if tc.wantErr != nil {
		require.ErrorIs(t, err, tc.wantErr)
		return
	}
	require.NoError(t, err)
	require.Equal(t, tc.want, got)
	require.Equal(t, tc.wantN, n)
}

// writeTestCase represents a single writing test case for type T.
type writeTestcase[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64] struct {
	value T
	want  []byte
}

func testWrite[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](t *testing.T, tc writeTestcase[T]) {
	t.Helper()
	require.Equal(t, len(tc.want), Length(tc.value))
	got := Append(nil, tc.value)
	require.Equal(t, tc.want, got)
}

//endregion

//region Read Tests

func Test_Read(t *testing.T) {
	tests := map[string]readTestCase[uint]{
		"SingleByte":    {[]byte{0x05}, 1, 5, nil},
		"MultiByte":     {[]byte{0x85, 0x01, 0x00}, 2, 641, nil},
		"Empty":         {nil, 0, 0, ErrTruncated},
		"UnexpectedEOF": {[]byte{0x81}, 0, 0, ErrTruncated},
		"Overflow":      {[]byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 0, 0, ErrOverflow},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, Read[uint], tc)
		})
	}
}

func TestRead8(t *testing.T) {
	tests := map[string]readTestCase[uint8]{
		"SingleByte": {[]byte{0x05}, 1, 5, nil},
		"Overflow":   {[]byte{0x85, 0x01, 0x00}, 0, 0, ErrOverflow},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, Read[uint8], tc)
		})
	}
}

func TestReadMinimal(t *testing.T) {
	tests := map[string]readTestCase[uint]{
		"NonMinimal": {[]byte{0x80, 0x85, 0x01}, 0, 0, ErrNotMinimal},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			testRead(t, ReadMinimal[uint], tc)
		})
	}
}

//endregion

//region Write Tests

func Test_Append(t *testing.T) {
	tests := []writeTestcase[uint]{
		{0, []byte{0x00}},
		{25, []byte{25}},
		{641, []byte{0x85, 0x01}},
	}
	for _, tc := range tests {
		t.Run(strconv.FormatUint(uint64(tc.value), 10), func(t *testing.T) {
			testWrite(t, tc)
		})
	}
}

func TestAppend8(t *testing.T) {
	tests := []writeTestcase[uint8]{
		{0, []byte{0x00}},
		{200, []byte{0x81, 0x48}},
	}
	for _, tc := range tests {
		t.Run(strconv.FormatUint(uint64(tc.value), 10), func(t *testing.T) {
			testWrite(t, tc)
		})
	}
}

//endregion

func BenchmarkLength(b *testing.B) {
	for b.Loop() {
		Length(uint8(200))
	}
}
