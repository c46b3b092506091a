// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

import "errors"

// ErrTooManyErrors is returned by Decode when the received block
// holds more errors than its check bytes can correct.
var ErrTooManyErrors = errors.New("gf256: too many errors")

// poly is a polynomial over a Field, highest degree coefficient first.
// Leading zeros are stripped; the zero polynomial is poly{0}.
type poly []byte

func newPoly(c []byte) poly {
	i := 0
	for i < len(c)-1 && c[i] == 0 {
		i++
	}
	if len(c) == 0 {
		return poly{0}
	}
	return append(poly(nil), c[i:]...)
}

func monomial(deg int, c byte) poly {
	if c == 0 {
		return poly{0}
	}
	p := make(poly, deg+1)
	p[0] = c
	return p
}

func (p poly) degree() int { return len(p) - 1 }
func (p poly) isZero() bool { return p[0] == 0 }
func (p poly) coeff(d int) byte { return p[len(p)-1-d] }

// eval evaluates p at x.
func (f *Field) eval(p poly, x byte) byte {
	if x == 0 {
		return p.coeff(0)
	}
	r := p[0]
	for _, c := range p[1:] {
		r = f.Mul(r, x) ^ c
	}
	return r
}

func addPoly(a, b poly) poly {
	if len(a) < len(b) {
		a, b = b, a
	}
	sum := append(poly(nil), a...)
	off := len(a) - len(b)
	for i, c := range b {
		sum[off+i] ^= c
	}
	return newPoly(sum)
}

func (f *Field) mulPoly(a, b poly) poly {
	if a.isZero() || b.isZero() {
		return poly{0}
	}
	prod := make([]byte, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			prod[i+j] ^= f.Mul(x, y)
		}
	}
	return newPoly(prod)
}

// scale returns p·c·x^deg.
func (f *Field) scale(p poly, deg int, c byte) poly {
	if c == 0 {
		return poly{0}
	}
	r := make([]byte, len(p)+deg)
	for i, x := range p {
		r[i] = f.Mul(x, c)
	}
	return newPoly(r)
}

// Decode corrects errors in received, a Reed-Solomon block whose last
// nsym bytes are check bytes computed by an RSEncoder over f.
// It corrects received in place and returns the number of bytes
// corrected.  Up to nsym/2 errors can be corrected.
func (f *Field) Decode(received []byte, nsym int) (int, error) {
	p := newPoly(received)
	synd := make([]byte, nsym)
	clean := true
	for i := 0; i < nsym; i++ {
		v := f.eval(p, f.Exp(i))
		synd[nsym-1-i] = v
		if v != 0 {
			clean = false
		}
	}
	if clean {
		return 0, nil
	}
	sigma, omega, err := f.euclid(monomial(nsym, 1), newPoly(synd), nsym)
	if err != nil {
		return 0, err
	}
	loc, err := f.locate(sigma)
	if err != nil {
		return 0, err
	}
	mag := f.magnitudes(omega, loc)
	for i, x := range loc {
		pos := len(received) - 1 - f.Log(x)
		if pos < 0 {
			return 0, ErrTooManyErrors
		}
		received[pos] ^= mag[i]
	}
	return len(loc), nil
}

// euclid runs the extended Euclidean algorithm on a and b until the
// remainder's degree drops below r/2 and returns the error locator
// and error evaluator polynomials.
func (f *Field) euclid(a, b poly, r int) (sigma, omega poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}
	rLast, rCur := a, b
	tLast, tCur := poly{0}, poly{1}
	for 2*rCur.degree() >= r {
		rLastLast, tLastLast := rLast, tLast
		rLast, tLast = rCur, tCur
		if rLast.isZero() {
			return nil, nil, ErrTooManyErrors
		}
		rCur = rLastLast
		q := poly{0}
		inv := f.Inv(rLast.coeff(rLast.degree()))
		for rCur.degree() >= rLast.degree() && !rCur.isZero() {
			d := rCur.degree() - rLast.degree()
			c := f.Mul(rCur.coeff(rCur.degree()), inv)
			q = addPoly(q, monomial(d, c))
			rCur = addPoly(rCur, f.scale(rLast, d, c))
		}
		tCur = addPoly(f.mulPoly(q, tLast), tLastLast)
		if rCur.degree() >= rLast.degree() {
			return nil, nil, ErrTooManyErrors
		}
	}
	s0 := tCur.coeff(0)
	if s0 == 0 {
		return nil, nil, ErrTooManyErrors
	}
	inv := f.Inv(s0)
	return f.scale(tCur, 0, inv), f.scale(rCur, 0, inv), nil
}

// locate finds the roots of sigma by exhaustive search and returns
// their inverses, the error locators.
func (f *Field) locate(sigma poly) ([]byte, error) {
	n := sigma.degree()
	if n == 1 {
		return []byte{sigma.coeff(1)}, nil
	}
	loc := make([]byte, 0, n)
	for i := 1; i < 256 && len(loc) < n; i++ {
		if f.eval(sigma, byte(i)) == 0 {
			loc = append(loc, f.Inv(byte(i)))
		}
	}
	if len(loc) != n {
		return nil, ErrTooManyErrors
	}
	return loc, nil
}

// magnitudes applies Forney's formula.
func (f *Field) magnitudes(omega poly, loc []byte) []byte {
	mag := make([]byte, len(loc))
	for i, x := range loc {
		xinv := f.Inv(x)
		den := byte(1)
		for j, y := range loc {
			if i != j {
				den = f.Mul(den, f.Mul(y, xinv)^1)
			}
		}
		mag[i] = f.Mul(f.eval(omega, xinv), f.Inv(den))
	}
	return mag
}
