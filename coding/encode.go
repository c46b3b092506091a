// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// Encoder encodes a QR symbol.
type Encoder struct {
	v Version
	l Level
	b *Bits
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(v Version, l Level) (*Encoder, error) {
	if !v.IsValid() {
		return nil, ErrVersion
	}
	if !l.IsValid() {
		return nil, ErrLevel
	}
	return &Encoder{v: v, l: l, b: NewBits(v)}, nil
}

func (e *Encoder) Version() Version { return e.v }
func (e *Encoder) Level() Level     { return e.l }

// Bits returns the number of bits written to e.
func (e *Encoder) Bits() int { return e.b.Bits() }

func (e *Encoder) Reset() { e.b.Reset() }

// StructuredAppend writes a structured append header for the symbol
// at position pos of total symbols with the given parity.  It must be
// written before any segment.
func (e *Encoder) StructuredAppend(pos, total int, parity byte) error {
	if e.b.Bits() != 0 {
		return fmt.Errorf("qr: structured append header after data")
	}
	if total < 1 || total > MaxSymbols || pos < 0 || pos >= total {
		return fmt.Errorf("qr: invalid structured append position %d of %d",
			pos, total)
	}
	e.b.Write(StructuredAppendIndicator, IndicatorLength)
	e.b.Write(uint32(pos), 4)
	e.b.Write(uint32(total-1), 4)
	e.b.Write(uint32(parity), 8)
	return nil
}

// Write adds segments to e.
func (e *Encoder) Write(segs ...*Segment) {
	for _, s := range segs {
		s.Encode(e.b, e.v)
	}
}

// DataCodewords returns the data codewords written to e, followed by
// the terminator and padding.
func (e *Encoder) DataCodewords() ([]byte, error) {
	nb := e.v.DataBits(e.l)
	if e.b.Bits() > nb {
		return nil, fmt.Errorf("qr: cannot encode %d bits into %d-bit symbol",
			e.b.Bits(), nb)
	}
	e.b.PadTo(IndicatorLength, nb)
	return e.b.Bytes(), nil
}

// Encode returns the symbol matrix holding the data written to e,
// masked with the mask of lowest penalty, and the mask.
func (e *Encoder) Encode() (Matrix, int, error) {
	data, err := e.DataCodewords()
	if err != nil {
		return nil, 0, err
	}
	m := Layout(e.v, Codewords(data, e.v, e.l))
	m, mask := SelectMask(m, e.v, e.l)
	return m, mask, nil
}
