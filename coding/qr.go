// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: codeword
// tables, segment encoding, Reed-Solomon blocks, module placement and
// masking.
package coding // import "github.com/unixdj/qrsym/coding"

//go:generate sh -c "go run gen.go | gofmt > tables.go"

import (
	"errors"
	"strconv"

	"github.com/unixdj/qrsym/gf256"
)

var (
	ErrLevel   = errors.New("qr: invalid level")
	ErrVersion = errors.New("qr: invalid version")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// The larger the version, the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is between MinVersion and MaxVersion.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// QR version size classes.  Character count indicator lengths
// change between classes.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Size returns the number of modules on a side of a symbol of
// version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// TotalCodewords returns the number of codewords, data and error
// correction, in a symbol of version v.
func (v Version) TotalCodewords() int { return vtab[v].words }

// Blocks returns the number of Reed-Solomon blocks in a symbol of
// version v at level l.
func (v Version) Blocks(l Level) int { return vtab[v].level[l].nblock }

// BlockCheck returns the number of error correction codewords in each
// Reed-Solomon block of a symbol of version v at level l.
func (v Version) BlockCheck(l Level) int { return vtab[v].level[l].check }

// CheckCodewords returns the number of error correction codewords
// in a symbol of version v at level l.
func (v Version) CheckCodewords(l Level) int {
	lev := vtab[v].level[l]
	return lev.nblock * lev.check
}

// DataCodewords returns the number of data codewords that can be
// stored in a symbol of version v at level l.
func (v Version) DataCodewords(l Level) int {
	return v.TotalCodewords() - v.CheckCodewords(l)
}

// DataBits returns the number of data bits that can be
// stored in a symbol of version v at level l.
func (v Version) DataBits(l Level) int { return v.DataCodewords(l) * 8 }

// AlignmentCenters returns the row and column coordinates of
// alignment pattern centers, nil for version 1.  The returned slice
// must not be modified.
func (v Version) AlignmentCenters() []int { return vtab[v].align }

// Info returns the 18-bit version information of v, or 0 for
// versions below 7, which carry none.
func (v Version) Info() uint32 { return uint32(vtab[v].pattern) }

// A version describes metadata associated with a version.
type version struct {
	words   int   // total codewords
	align   []int // alignment pattern centers
	pattern int   // version information
	level   [4]level
}

type level struct {
	nblock int // Reed-Solomon blocks
	check  int // check codewords per block
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15% of codewords can be restored
	Q              // 25% of codewords can be restored
	H              // 30% of codewords can be restored
)

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is one of L, M, Q and H.
func (l Level) IsValid() bool { return L <= l && l <= H }

// Indicator returns the 2-bit error correction level indicator of l
// used in format information: 01, 00, 11 and 10 for L, M, Q and H.
func (l Level) Indicator() int { return int(l) ^ 1 }

// ParseLevel returns the Level named by s, one of "L", "M", "Q" and
// "H" in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		switch s[0] | 0x20 {
		case 'l':
			return L, nil
		case 'm':
			return M, nil
		case 'q':
			return Q, nil
		case 'h':
			return H, nil
		}
	}
	return 0, ErrLevel
}

// FormatInfo returns the 15-bit format information for level l and
// mask, with the format mask pattern applied.
func FormatInfo(l Level, mask int) uint16 { return ftab[l][mask] }

// Bits is a bit stream writer.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a symbol of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, vtab[v].words)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written to b.
func (b *Bits) Bits() int {
	return b.nbit
}

func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

func (b *Bits) growTo(n int) {
	for cap(b.b) < n {
		b.b = append(b.b[:cap(b.b)], 0)[:len(b.b)]
	}
}

// Write appends the nbit low bits of v to b, most significant first.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// PadTo adds up to t zero terminator bits to b, pads it with zeros to
// a byte boundary and then with alternating pad codewords 0xec and
// 0x11 to n bits.  n must be a multiple of 8.
func (b *Bits) PadTo(t, n int) {
	if b.nbit > n {
		panic("qr: too much data")
	}
	b.growTo(n >> 3)
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	for pad := byte(0xec); len(b.b) < n>>3; pad ^= 0xec ^ 0x11 {
		b.b = append(b.b, pad)
	}
	b.nbit = len(b.b) * 8
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}
