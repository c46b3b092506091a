// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// A Mode is a QR segment encoding mode.
type Mode int8

// Encoding modes.  Unknown is the mode before the first segment.
const (
	Unknown      Mode = iota // no mode selected
	Numeric                  // digits 0 to 9
	Alphanumeric             // digits, upper case letters, space and $%*+-./:
	Byte                     // any data in the byte mode charset
	Kanji                    // Shift JIS double byte characters
)

// Mode indicators and lengths.
const (
	IndicatorLength = 4 // mode indicator length in bits

	TerminatorIndicator       = 0
	StructuredAppendIndicator = 3

	// Structured append header: mode indicator, symbol position,
	// total number of symbols minus one, parity.
	StructuredAppendLength = IndicatorLength + 4 + 4 + 8

	// MaxSymbols is the maximum number of symbols in a structured
	// append sequence.
	MaxSymbols = 16
)

var modeNames = [...]string{"unknown", "numeric", "alphanumeric", "byte", "kanji"}

func (m Mode) String() string {
	if m.isValid() || m == Unknown {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) isValid() bool { return Numeric <= m && m <= Kanji }

// Indicator returns the 4-bit mode indicator of m.
func (m Mode) Indicator() uint32 {
	return [...]uint32{0, 1, 2, 4, 8}[m]
}

// Character count indicator lengths by mode and size class.
var countLength = [...][3]int{
	Numeric:      {10, 12, 14},
	Alphanumeric: {9, 11, 13},
	Byte:         {8, 16, 16},
	Kanji:        {8, 10, 12},
}

// CountLength returns the length in bits of the character count
// indicator of m in a symbol of version v.
func (m Mode) CountLength(v Version) int {
	if !m.isValid() {
		return 0
	}
	return countLength[m][v.SizeClass()]
}

// A Char is an input character prepared for encoding.
type Char struct {
	Rune  rune   // the character
	Bytes []byte // its encoding in the byte mode charset
	SJIS  uint16 // Shift JIS code if the character is kanji, or 0
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table.  Used after validation.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 010, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

func isDigit(r rune) bool { return uint32(r-'0') < 10 }

func isAlpha(r rune) bool {
	return alphamask>>(uint32(r)-' ')&1 != 0
}

// IsKanjiCode reports whether the Shift JIS double byte code w is
// encodable in kanji mode.
func IsKanjiCode(w uint16) bool {
	if lo := w & 0xff; lo < 0x40 || lo > 0xfc || lo == 0x7f {
		return false
	}
	return 0x8140 <= w && w <= 0x9ffc || 0xe040 <= w && w <= 0xebbf
}

// InSubset reports whether c is encodable in mode m.
func (m Mode) InSubset(c Char) bool {
	switch m {
	case Numeric:
		return isDigit(c.Rune)
	case Alphanumeric:
		return isAlpha(c.Rune)
	case Byte:
		return len(c.Bytes) != 0
	case Kanji:
		return c.SJIS != 0 && IsKanjiCode(c.SJIS)
	}
	return false
}

// InExclusiveSubset reports whether c is encodable in mode m and in
// none of the modes with smaller character sets: alphanumeric
// excludes digits, byte excludes alphanumeric and kanji characters.
func (m Mode) InExclusiveSubset(c Char) bool {
	switch m {
	case Alphanumeric:
		return isAlpha(c.Rune) && !isDigit(c.Rune)
	case Byte:
		return m.InSubset(c) && !isAlpha(c.Rune) && !Kanji.InSubset(c)
	}
	return m.InSubset(c)
}

// CharBits returns the number of bits c adds to a segment of mode m
// already holding count characters.
func (m Mode) CharBits(c Char, count int) int {
	switch m {
	case Numeric:
		if count%3 == 0 {
			return 4
		}
		return 3
	case Alphanumeric:
		if count%2 == 0 {
			return 6
		}
		return 5
	case Byte:
		return 8 * len(c.Bytes)
	case Kanji:
		return 13
	}
	return 0
}

// SegmentError represents a character outside of a segment's mode.
type SegmentError struct {
	Mode Mode
	Rune rune
}

func (e SegmentError) Error() string {
	return fmt.Sprintf("qr: non-%s character %q", e.Mode, e.Rune)
}

// A Segment is a run of characters encoded in one mode.  Characters
// are packed into codewords as they are appended: three digits per
// numeric codeword, two characters per alphanumeric codeword, one
// byte per byte codeword and one character per kanji codeword.
type Segment struct {
	mode  Mode
	count int      // characters
	bits  int      // data bits, without header
	words []uint16 // codeword values
}

// NewSegment returns an empty segment of mode m.
func NewSegment(m Mode) *Segment {
	if !m.isValid() {
		panic("qr: invalid segment mode " + m.String())
	}
	return &Segment{mode: m}
}

// Mode returns the mode of s.
func (s *Segment) Mode() Mode { return s.mode }

// Len returns the number of characters in s.
func (s *Segment) Len() int { return s.count }

// Bits returns the number of data bits in s, excluding the mode and
// character count indicators.
func (s *Segment) Bits() int { return s.bits }

// Length returns the encoded length of s in bits in a symbol of
// version v, including the mode and character count indicators.
func (s *Segment) Length(v Version) int {
	return IndicatorLength + s.mode.CountLength(v) + s.bits
}

// CharBits returns the number of bits appending c would add to s.
func (s *Segment) CharBits(c Char) int { return s.mode.CharBits(c, s.count) }

// Append adds c to s and returns the number of bits added.
func (s *Segment) Append(c Char) (int, error) {
	if !s.mode.InSubset(c) {
		return 0, SegmentError{s.mode, c.Rune}
	}
	n := s.CharBits(c)
	switch s.mode {
	case Numeric:
		d := uint16(c.Rune - '0')
		if s.count%3 == 0 {
			s.words = append(s.words, d)
		} else {
			s.words[len(s.words)-1] = s.words[len(s.words)-1]*10 + d
		}
		s.count++
	case Alphanumeric:
		a := uint16(alpha[c.Rune&0x3f])
		if s.count%2 == 0 {
			s.words = append(s.words, a)
		} else {
			s.words[len(s.words)-1] = s.words[len(s.words)-1]*45 + a
		}
		s.count++
	case Byte:
		for _, b := range c.Bytes {
			s.words = append(s.words, uint16(b))
		}
		s.count += len(c.Bytes)
	case Kanji:
		w := c.SJIS
		if w <= 0x9ffc {
			w -= 0x8140
		} else {
			w -= 0xc140
		}
		s.words = append(s.words, w>>8*0xc0+w&0xff)
		s.count++
	}
	s.bits += n
	return n, nil
}

// wordBits returns the length in bits of codeword i.
func (s *Segment) wordBits(i int) int {
	last := i == len(s.words)-1
	switch s.mode {
	case Numeric:
		if last {
			return [3]int{10, 4, 7}[s.count%3]
		}
		return 10
	case Alphanumeric:
		if last && s.count%2 != 0 {
			return 6
		}
		return 11
	case Kanji:
		return 13
	}
	return 8
}

// Encode writes s encoded for a symbol of version v to b.
func (s *Segment) Encode(b *Bits, v Version) {
	b.Write(s.mode.Indicator(), IndicatorLength)
	b.Write(uint32(s.count), s.mode.CountLength(v))
	for i, w := range s.words {
		b.Write(uint32(w), s.wordBits(i))
	}
}

// Clone returns a copy of s.
func (s *Segment) Clone() *Segment {
	t := *s
	t.words = append([]uint16(nil), s.words...)
	return &t
}
