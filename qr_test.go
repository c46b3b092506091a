// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unixdj/qrsym/coding"
)

func newSymbols(t *testing.T, opts ...Option) *Symbols {
	t.Helper()
	s, err := New(opts...)
	require.NoError(t, err)
	return s
}

func symbolAt(t *testing.T, s *Symbols, i int) *Symbol {
	t.Helper()
	sym, err := s.At(i)
	require.NoError(t, err)
	return sym
}

// dataCodewords extracts and error checks the data codewords of sym.
func dataCodewords(t *testing.T, sym *Symbol) []byte {
	t.Helper()
	m, mask, err := sym.Encode()
	require.NoError(t, err)
	v, l := sym.Version(), sym.Level()
	require.Equal(t, coding.FormatInfo(l, mask), coding.ReadFormat(m))
	var data []byte
	blocks := coding.Deinterleave(coding.ReadCodewords(coding.Unmask(m, mask)), v, l)
	for _, b := range blocks {
		cw := append(append([]byte(nil), b.Data...), b.Check...)
		n, err := coding.Field.Decode(cw, len(b.Check))
		require.NoError(t, err)
		require.Zero(t, n)
		data = append(data, b.Data...)
	}
	return data
}

// checkCounter checks that the bit count of every symbol of s matches
// its encoding.
func checkCounter(t *testing.T, s *Symbols) {
	t.Helper()
	for _, sym := range s.syms {
		e, err := coding.NewEncoder(sym.version, s.level)
		require.NoError(t, err)
		e.Write(sym.segs...)
		require.Equal(t, sym.counter, e.Bits(), "symbol %d", sym.pos)
		require.LessOrEqual(t, sym.counter, sym.capacity)
	}
}

func TestHelloWorld(t *testing.T) {
	s := newSymbols(t)
	require.NoError(t, s.AppendText("HELLO WORLD"))
	require.Equal(t, 1, s.Len())
	sym := symbolAt(t, s, 0)
	require.Equal(t, Version(1), sym.Version())
	require.Equal(t, []Segment{{coding.Alphanumeric, 11}}, sym.Segments())
	require.Equal(t, 0, sym.Position())
	require.Equal(t, 1, sym.Total())

	require.Equal(t, []byte{
		32, 91, 11, 120, 209, 114, 220, 77,
		67, 64, 236, 17, 236, 17, 236, 17,
	}, dataCodewords(t, sym))

	m, err := sym.Matrix()
	require.NoError(t, err)
	n := m.Size()
	require.Equal(t, 21, n)
	for _, o := range [][2]int{{0, 0}, {0, n - 7}, {n - 7, 0}} {
		for i := 0; i < 7; i++ {
			for j := 0; j < 7; j++ {
				require.Equal(t, coding.ModFinder, m[o[0]+i][o[1]+j].Function())
			}
		}
	}
}

func TestOptions(t *testing.T) {
	s := newSymbols(t)
	require.Equal(t, M, s.Level())
	require.Equal(t, Version(40), s.MaxVersion())
	require.False(t, s.StructuredAppend())
	require.Equal(t, "Shift_JIS", s.Charset())

	s = newSymbols(t, WithLevel(H), WithMaxVersion(7),
		WithStructuredAppend(true), WithCharset("utf8"))
	require.Equal(t, H, s.Level())
	require.Equal(t, Version(7), s.MaxVersion())
	require.True(t, s.StructuredAppend())
	require.Equal(t, "UTF-8", s.Charset())

	_, err := New(WithLevel(Level(4)))
	require.ErrorIs(t, err, coding.ErrLevel)
	_, err = New(WithMaxVersion(0))
	require.ErrorIs(t, err, coding.ErrVersion)
	_, err = New(WithMaxVersion(41))
	require.ErrorIs(t, err, coding.ErrVersion)
	_, err = New(WithCharset("no-such-charset"))
	require.ErrorIs(t, err, ErrCharset)
}

func TestEmptyAndSealed(t *testing.T) {
	s := newSymbols(t)
	require.ErrorIs(t, s.AppendText(""), ErrEmpty)
	require.NoError(t, s.AppendText("a"))
	require.NoError(t, s.AppendText("b"))
	_, err := s.At(1)
	require.ErrorIs(t, err, ErrIndex)
	_, err = s.At(-1)
	require.ErrorIs(t, err, ErrIndex)

	_, err = symbolAt(t, s, 0).Code()
	require.NoError(t, err)
	require.ErrorIs(t, s.AppendText("c"), ErrSealed)
	require.Equal(t, []Segment{{coding.Byte, 2}}, symbolAt(t, s, 0).Segments())
}

func TestCharErrors(t *testing.T) {
	tests := []struct {
		charset string
		text    string
		pos     int
		r       rune
	}{
		{"UTF-8", "ab点", 2, '点'},
		{"UTF-8", "a\xffb", 1, utf8.RuneError},
		{"ISO-8859-1", "a€", 1, '€'},
		{"Shift_JIS", "x\U0001f600", 1, '\U0001f600'},
	}
	for _, tt := range tests {
		s := newSymbols(t, WithCharset(tt.charset))
		require.NoError(t, s.AppendText("1"))
		err := s.AppendText(tt.text)
		var ce *CharError
		require.ErrorAs(t, err, &ce, "%s %q", tt.charset, tt.text)
		require.Equal(t, tt.pos, ce.Pos)
		require.Equal(t, tt.r, ce.Rune)
		require.NotNil(t, ce.Unwrap())
		require.Equal(t, []Segment{{coding.Numeric, 1}}, symbolAt(t, s, 0).Segments())
		require.Equal(t, byte('1'), s.Parity())
	}
}

func TestCharsets(t *testing.T) {
	s := newSymbols(t, WithCharset("ISO-8859-1"))
	require.NoError(t, s.AppendText("aé"))
	require.Equal(t, byte('a'^0xe9), s.Parity())
	require.Equal(t, []Segment{{coding.Byte, 2}}, symbolAt(t, s, 0).Segments())

	s = newSymbols(t, WithCharset("UTF-8"))
	require.NoError(t, s.AppendText("é"))
	require.Equal(t, byte(0xc3^0xa9), s.Parity())
	require.Equal(t, []Segment{{coding.Byte, 2}}, symbolAt(t, s, 0).Segments())

	s = newSymbols(t)
	require.NoError(t, s.AppendText("点茗"))
	require.Equal(t, byte(0x93^0x5f^0xe4^0xaa), s.Parity())
	sym := symbolAt(t, s, 0)
	require.Equal(t, []Segment{{coding.Kanji, 2}}, sym.Segments())
	// 1000 00000010 0110110011111 1101010101010 0000...
	data := dataCodewords(t, sym)
	require.Equal(t, []byte{0x80, 0x26, 0xcf, 0xea, 0xa8, 0x00, 0xec}, data[:7])
}

func TestGrowth(t *testing.T) {
	s := newSymbols(t)
	require.NoError(t, s.AppendText(strings.Repeat("A", 300)))
	sym := symbolAt(t, s, 0)
	require.Equal(t, Version(10), sym.Version())
	checkCounter(t, s)

	// Mixed modes, growing across size classes.
	s = newSymbols(t, WithLevel(H))
	text := "点茗 Tel. +1 555 0100, 12345678901234567890 ABCDEFGHIJKLMNOP"
	for i := 0; i < 8; i++ {
		require.NoError(t, s.AppendText(text))
		checkCounter(t, s)
	}
	require.Equal(t, 1, s.Len())
	require.Greater(t, symbolAt(t, s, 0).Version(), Version(9))
	dataCodewords(t, symbolAt(t, s, 0))
}

func TestBoundary(t *testing.T) {
	// 41 digits fill a 1-L symbol exactly.
	digits := strings.Repeat("1234567890", 5)
	s := newSymbols(t, WithLevel(L), WithMaxVersion(1))
	require.NoError(t, s.AppendText(digits[:40]))
	require.NoError(t, s.AppendText(digits[40:41]))
	sym := symbolAt(t, s, 0)
	require.Equal(t, 152, sym.sym.capacity)
	require.Equal(t, 151, sym.sym.counter)
	require.ErrorIs(t, s.AppendText("1"), ErrTooLong)
	require.Equal(t, []Segment{{coding.Numeric, 41}}, sym.Segments())
	require.Equal(t, 1, s.Len())
	checkCounter(t, s)
	dataCodewords(t, sym)

	// One more digit grows the version.
	s = newSymbols(t, WithLevel(L))
	require.NoError(t, s.AppendText(digits[:41]))
	require.Equal(t, Version(1), symbolAt(t, s, 0).Version())
	require.NoError(t, s.AppendText("1"))
	require.Equal(t, Version(2), symbolAt(t, s, 0).Version())
	checkCounter(t, s)
}

func TestStructuredAppend(t *testing.T) {
	// 35 digits fill a 1-L symbol with a structured append header.
	text := strings.Repeat("0123456789", 4) + "1"
	s := newSymbols(t, WithLevel(L), WithMaxVersion(1),
		WithStructuredAppend(true))
	require.NoError(t, s.AppendText(text))
	require.Equal(t, 2, s.Len())
	checkCounter(t, s)

	var par byte
	for i := 0; i < len(text); i++ {
		par ^= text[i]
	}
	require.Equal(t, par, s.Parity())
	for i, n := range []int{35, 6} {
		sym := symbolAt(t, s, i)
		require.Equal(t, i, sym.Position())
		require.Equal(t, 2, sym.Total())
		require.Equal(t, par, sym.Parity())
		require.Equal(t, []Segment{{coding.Numeric, n}}, sym.Segments())
		data := dataCodewords(t, sym)
		// 0011 position total-1 parity, 0001 numeric mode.
		require.Equal(t, []byte{
			0x30 | byte(i), 0x10 | par>>4, par<<4 | 1,
		}, data[:3])
	}
}

func TestSymbolLimit(t *testing.T) {
	opts := []Option{WithLevel(L), WithMaxVersion(1), WithStructuredAppend(true)}
	s := newSymbols(t, opts...)
	require.ErrorIs(t, s.AppendText(strings.Repeat("7", 16*35+1)), ErrTooLong)
	require.Equal(t, 1, s.Len())
	require.Empty(t, symbolAt(t, s, 0).Segments())
	require.Equal(t, Version(1), s.minVer)
	require.Zero(t, s.Parity())

	require.NoError(t, s.AppendText(strings.Repeat("7", 16*35)))
	require.Equal(t, 16, s.Len())
	checkCounter(t, s)
	require.ErrorIs(t, s.AppendText("7"), ErrTooLong)
	require.Equal(t, 16, s.Len())
	for i := 0; i < s.Len(); i++ {
		require.Equal(t, []Segment{{coding.Numeric, 35}}, symbolAt(t, s, i).Segments())
	}
}

func TestMinVersion(t *testing.T) {
	// Later symbols start at the version the previous one grew to.
	s := newSymbols(t, WithLevel(L), WithMaxVersion(3),
		WithStructuredAppend(true))
	require.NoError(t, s.AppendText(strings.Repeat("Z", 120)))
	require.Equal(t, 2, s.Len())
	require.Equal(t, Version(3), symbolAt(t, s, 0).Version())
	require.Equal(t, Version(3), symbolAt(t, s, 1).Version())
	checkCounter(t, s)
	for i := 0; i < s.Len(); i++ {
		dataCodewords(t, symbolAt(t, s, i))
	}
}

func TestCode(t *testing.T) {
	s := newSymbols(t)
	require.NoError(t, s.AppendText("HELLO WORLD"))
	c, err := symbolAt(t, s, 0).Code()
	require.NoError(t, err)
	require.Equal(t, 21, c.Size)
	require.Equal(t, 3, c.Stride)
	require.True(t, c.Black(0, 0))
	require.False(t, c.Black(7, 7))
	require.False(t, c.Black(-1, 0))

	img := c.Image()
	require.Equal(t, 29*8, img.Bounds().Dx())
	r, _, _, _ := img.At(0, 0).RGBA()
	require.Equal(t, uint32(0xffff), r)
	r, _, _, _ = img.At(4*8, 4*8).RGBA()
	require.Equal(t, uint32(0), r)

	var b bytes.Buffer
	c.Scale = 1
	require.NoError(t, c.EncodePBM(&b))
	hdr := "P4\n29 29\n"
	require.Equal(t, hdr, b.String()[:len(hdr)])
	require.Equal(t, len(hdr)+29*4, b.Len())
	// Row 4 starts with the top left finder pattern.
	row := b.Bytes()[len(hdr)+4*4:]
	require.Equal(t, byte(0x0f), row[0])
	require.Equal(t, byte(0xe0), row[1]&0xf0)

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	require.Len(t, lines, 15)
	require.Equal(t, strings.Repeat("█", 29), lines[0])
	require.True(t, strings.HasPrefix(lines[2], "████ ▄▄▄▄▄ "), lines[2])

	c.Reverse = true
	require.Equal(t, strings.Repeat(" ", 29), strings.Split(c.String(), "\n")[0])
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	s := newSymbols(t, WithLevel(L), WithMaxVersion(2), WithStructuredAppend(true))
	require.NoError(t, s.AppendText(strings.Repeat("9", 100)))
	_, err := symbolAt(t, s, 1).Matrix()
	require.NoError(t, err)
	require.Equal(t, 2, logs.FilterMessage("symbol opened").Len())
	require.Equal(t, 1, logs.FilterMessage("symbol grown").Len())
	require.Equal(t, 1, logs.FilterMessage("symbol rendered").Len())
}
