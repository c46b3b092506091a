// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var qrField = NewField(0x11d, 2)

func TestFieldTables(t *testing.T) {
	f := qrField
	require.Equal(t, byte(1), f.Exp(0))
	require.Equal(t, byte(2), f.Exp(1))
	require.Equal(t, byte(0x1d), f.Exp(8))
	require.Equal(t, byte(1), f.Exp(255))
	for x := 1; x < 256; x++ {
		b := byte(x)
		require.Equal(t, b, f.Exp(f.Log(b)))
		require.Equal(t, byte(1), f.Mul(b, f.Inv(b)), "x=%#x", x)
		require.Equal(t, byte(mul(x, 7, 0x11d)), f.Mul(b, 7))
	}
	require.Equal(t, -1, f.Log(0))
	require.Equal(t, byte(0), f.Mul(0, 9))
}

func TestBadField(t *testing.T) {
	require.Panics(t, func() { NewField(0x100, 2) })
	// x^8+x^4+x^3+x^2+1 = 0x11d; 0x11b has 3 as a generator but not 2.
	require.Panics(t, func() { NewField(0x11b, 2) })
	require.NotPanics(t, func() { NewField(0x11b, 3) })
}

func TestGen(t *testing.T) {
	// Exponents of the degree-7 generator used by 1-L symbols.
	want := []int{0, 87, 229, 146, 149, 238, 102, 21}
	gen := qrField.Gen(7)
	require.Len(t, gen, 8)
	for i, c := range gen {
		require.Equal(t, want[i], qrField.Log(c), "coefficient %d", i)
	}
}

func TestECC(t *testing.T) {
	// HELLO WORLD, version 1, level M.
	data := []byte{
		32, 91, 11, 120, 209, 114, 220, 77,
		67, 64, 236, 17, 236, 17, 236, 17,
	}
	want := []byte{196, 35, 39, 119, 235, 215, 231, 226, 93, 23}
	check := make([]byte, 10)
	NewRSEncoder(qrField, 10).ECC(data, check)
	require.Equal(t, want, check)
}

func TestDecode(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, tc := range []struct{ data, check int }{
		{16, 10}, {19, 7}, {9, 17}, {118, 30}, {15, 28},
	} {
		rs := NewRSEncoder(qrField, tc.check)
		block := make([]byte, tc.data+tc.check)
		r.Read(block[:tc.data])
		rs.ECC(block[:tc.data], block[tc.data:])
		orig := append([]byte(nil), block...)

		n, err := qrField.Decode(block, tc.check)
		require.NoError(t, err)
		require.Zero(t, n)

		nerr := tc.check / 2
		for _, i := range r.Perm(len(block))[:nerr] {
			block[i] ^= byte(1 + r.Intn(255))
		}
		n, err = qrField.Decode(block, tc.check)
		require.NoError(t, err, "%d+%d", tc.data, tc.check)
		require.Equal(t, nerr, n)
		require.Equal(t, orig, block)
	}
}
