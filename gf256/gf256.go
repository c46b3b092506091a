// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and Reed-Solomon coding over it.
package gf256 // import "github.com/unixdj/qrsym/gf256"

import "strconv"

// A Field represents an instance of GF(256) defined by a specific
// polynomial.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte // exp[i] == exp[i+255]
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The Reed-Solomon encoding in QR codes uses
// polynomial 0x11d with generator 2.
//
// The choice of generator α only affects the Exp and Log operations.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}

	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	return &f
}

// nbit returns the number of significant bits in p.
func nbit(p int) uint {
	n := uint(0)
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv divides the polynomial p by q and returns the remainder.
func polyDiv(p, q int) int {
	np := nbit(p)
	nq := nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<(np-1)) != 0 {
			p ^= q << (np - nq)
		}
	}
	return p
}

// mul returns the product x*y mod poly, a GF(256) multiplication.
// It is the shift-and-xor primitive the tables are built from.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// reducible reports whether p is reducible.
func reducible(p int) bool {
	// Multiplying n-bit * n-bit produces (2n-1)-bit,
	// so if p is reducible, one of its factors must be
	// of np/2+1 bits or fewer.
	np := nbit(p)
	for q := 2; q < 1<<(np/2+1); q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y byte) byte {
	return x ^ y
}

// Exp returns the result of α**e in the field.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return f.exp[e%255+255]
	}
	return f.exp[e%255]
}

// Log returns the base-α log of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[255-f.log[x]]
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// Gen returns the Reed-Solomon generator polynomial of degree e,
// (x - α⁰)(x - α¹)…(x - α^(e-1)), highest degree coefficient first.
// The polynomial is monic, so gen[0] is always 1.
func (f *Field) Gen(e int) []byte {
	gen := make([]byte, 1, e+1)
	gen[0] = 1
	for i := 0; i < e; i++ {
		a := f.Exp(i)
		gen = append(gen, 0)
		for k := len(gen) - 1; k > 0; k-- {
			gen[k] ^= f.Mul(gen[k-1], a)
		}
	}
	return gen
}

// An RSEncoder implements Reed-Solomon encoding over a given field
// using a given number of error correction bytes.  An RSEncoder keeps
// no state between calls and is safe for concurrent use.
type RSEncoder struct {
	f    *Field
	c    int
	gen  []byte // generator polynomial, gen[0] == 1
	lgen []byte // log of gen coefficients, 255 for zero
}

// NewRSEncoder returns a new Reed-Solomon encoder
// over the given field and number of error correction bytes.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	gen := f.Gen(c)
	lgen := make([]byte, len(gen))
	for i, v := range gen {
		lgen[i] = f.log[v]
	}
	return &RSEncoder{f: f, c: c, gen: gen, lgen: lgen}
}

// Check returns the number of error correction bytes of rs.
func (rs *RSEncoder) Check() int { return rs.c }

// Gen returns the generator polynomial of rs.  The slice must not be
// modified.
func (rs *RSEncoder) Gen() []byte { return rs.gen }

// ECC writes to check the error correcting code bytes
// for data using the given Reed-Solomon parameters.
// The data bytes are the coefficients of a polynomial, most
// significant first; check receives the remainder of its product by
// x^c divided by the generator polynomial.
func (rs *RSEncoder) ECC(data []byte, check []byte) {
	if len(check) < rs.c {
		panic("gf256: invalid check byte length")
	}
	check = check[:rs.c]
	if rs.c == 0 {
		return
	}
	for i := range check {
		check[i] = 0
	}
	f := rs.f
	lgen := rs.lgen[1:]
	for _, d := range data {
		fb := d ^ check[0]
		copy(check, check[1:])
		check[rs.c-1] = 0
		if fb == 0 {
			continue
		}
		lfb := int(f.log[fb])
		for j, lg := range lgen {
			if rs.gen[j+1] != 0 {
				check[j] ^= f.exp[lfb+int(lg)]
			}
		}
	}
}
