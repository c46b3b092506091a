// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Module is one cell of a symbol.  The sign encodes its colour,
// positive is dark; the magnitude encodes its function.
type Module int8

// Module functions.
const (
	ModBlank     Module = iota // unclaimed
	ModData                    // data, error correction and remainder bits
	ModAlignment               // alignment pattern
	ModFinder                  // finder pattern
	ModFormat                  // format information and the dark module
	ModSeparator               // light border around finder patterns
	ModTiming                  // timing pattern
	ModVersion                 // version information
)

// Dark reports whether m is a dark module.
func (m Module) Dark() bool { return m > 0 }

// Function returns the function of m, its magnitude.
func (m Module) Function() Module {
	if m < 0 {
		return -m
	}
	return m
}

// colour returns f as a dark module if dark is set, light otherwise.
func colour(f Module, dark bool) Module {
	if dark {
		return f
	}
	return -f
}

// A Matrix is a square grid of modules indexed by row, then column.
type Matrix [][]Module

// NewMatrix returns a blank matrix for a symbol of version v.
func NewMatrix(v Version) Matrix { return newMatrix(v.Size()) }

func newMatrix(n int) Matrix {
	cells := make([]Module, n*n)
	m := make(Matrix, n)
	for i := range m {
		m[i], cells = cells[:n:n], cells[n:]
	}
	return m
}

// Size returns the number of modules on a side of m.
func (m Matrix) Size() int { return len(m) }

// Dark reports whether the module at row r and column c is dark.
// Modules outside m are light.
func (m Matrix) Dark(r, c int) bool {
	return 0 <= r && r < len(m) && 0 <= c && c < len(m) && m[r][c] > 0
}

// Clone returns a copy of m.
func (m Matrix) Clone() Matrix {
	t := newMatrix(len(m))
	for i, row := range m {
		copy(t[i], row)
	}
	return t
}

// QuietZoneWidth is the width in modules of the light border required
// around a symbol.
const QuietZoneWidth = 4

// QuietZone returns a copy of m surrounded by a light border of the
// given width.  Border modules are blank, hence light.
func (m Matrix) QuietZone(width int) Matrix {
	t := newMatrix(len(m) + width*2)
	for i, row := range m {
		copy(t[i+width][width:], row)
	}
	return t
}

// Bitmap returns m as a bitmap with a row of stride bytes per module
// row, most significant bit first, 1 for dark modules.
func (m Matrix) Bitmap() (bitmap []byte, stride int) {
	n := len(m)
	stride = (n + 7) >> 3
	bitmap = make([]byte, n*stride)
	for r, row := range m {
		for c, v := range row {
			if v > 0 {
				bitmap[r*stride+c>>3] |= 0x80 >> (c & 7)
			}
		}
	}
	return bitmap, stride
}

// placeFinders places the three 7×7 finder patterns.
func placeFinders(m Matrix) {
	n := len(m)
	for _, o := range [3][2]int{{0, 0}, {0, n - 7}, {n - 7, 0}} {
		for i := 0; i < 7; i++ {
			for j := 0; j < 7; j++ {
				ring := max(abs(i-3), abs(j-3))
				m[o[0]+i][o[1]+j] = colour(ModFinder, ring != 2)
			}
		}
	}
}

// placeSeparators places light separators around the finder patterns.
func placeSeparators(m Matrix) {
	n := len(m)
	for i := 0; i < 8; i++ {
		m[7][i], m[i][7] = -ModSeparator, -ModSeparator
		m[7][n-1-i], m[i][n-8] = -ModSeparator, -ModSeparator
		m[n-8][i], m[n-1-i][7] = -ModSeparator, -ModSeparator
	}
}

// placeTiming places the timing patterns on row 6 and column 6.
func placeTiming(m Matrix) {
	for i := 8; i <= len(m)-9; i++ {
		v := colour(ModTiming, i%2 == 0)
		m[6][i], m[i][6] = v, v
	}
}

// placeAlignment places 5×5 alignment patterns at every pair of
// centers except those overlapping finder patterns.  They cover the
// timing patterns where they cross them; colours agree there.
func placeAlignment(m Matrix, v Version) {
	pos := v.AlignmentCenters()
	last := len(pos) - 1
	for i, r := range pos {
		for j, c := range pos {
			if i == 0 && (j == 0 || j == last) || i == last && j == 0 {
				continue
			}
			for y := -2; y <= 2; y++ {
				for x := -2; x <= 2; x++ {
					ring := max(abs(x), abs(y))
					m[r+y][c+x] = colour(ModAlignment, ring != 1)
				}
			}
		}
	}
}

// reserveFormat reserves the format information modules as light
// format modules and places the dark module.
func reserveFormat(m Matrix) {
	n := len(m)
	for i := 0; i <= 8; i++ {
		if i != 6 {
			m[8][i], m[i][8] = -ModFormat, -ModFormat
		}
	}
	for i := n - 8; i < n; i++ {
		m[8][i], m[i][8] = -ModFormat, -ModFormat
	}
	m[n-8][8] = ModFormat
}

// reserveVersion reserves the version information modules of
// versions 7 and up as light version modules.
func reserveVersion(m Matrix, v Version) {
	if v < 7 {
		return
	}
	n := len(m)
	for i := 0; i < 6; i++ {
		for j := n - 11; j <= n-9; j++ {
			m[i][j], m[j][i] = -ModVersion, -ModVersion
		}
	}
}

// zigzag calls f for every module of an n×n matrix in data placement
// order: two columns at a time from the right, upwards then
// downwards, right column first, skipping the vertical timing
// pattern.
func zigzag(n int, f func(r, c int)) {
	up := true
	for right := n - 1; right > 0; right -= 2 {
		if right == 6 {
			right--
		}
		for i := 0; i < n; i++ {
			r := i
			if up {
				r = n - 1 - i
			}
			f(r, right)
			f(r, right-1)
		}
		up = !up
	}
}

// placeData writes codewords to the blank modules of m in zigzag
// order.  Blank modules left over are light remainder modules.
func placeData(m Matrix, codewords []byte) {
	s := NewBitStream(codewords)
	zigzag(len(m), func(r, c int) {
		if m[r][c] == ModBlank {
			m[r][c] = colour(ModData, s.Next() != 0)
		}
	})
	if s.pos != len(codewords)*8 {
		panic("qr: internal error: codewords do not fit")
	}
}

// Layout returns the unmasked matrix of a symbol of version v holding
// codewords, the final codeword sequence.  Function patterns are
// placed, and format and version information modules are reserved.
func Layout(v Version, codewords []byte) Matrix {
	if len(codewords) != v.TotalCodewords() {
		panic("qr: wrong codeword count")
	}
	m := NewMatrix(v)
	placeFinders(m)
	placeSeparators(m)
	placeTiming(m)
	placeAlignment(m, v)
	reserveFormat(m)
	reserveVersion(m, v)
	placeData(m, codewords)
	return m
}

// ReadCodewords returns the codewords stored in the data modules of
// the unmasked matrix m, read in zigzag order.
func ReadCodewords(m Matrix) []byte {
	v := Version((len(m) - 17) / 4)
	if !v.IsValid() || v.Size() != len(m) {
		return nil
	}
	b := NewBits(v)
	nbit := v.TotalCodewords() * 8
	zigzag(len(m), func(r, c int) {
		if b.nbit < nbit && m[r][c].Function() == ModData {
			var bit uint32
			if m[r][c].Dark() {
				bit = 1
			}
			b.Write(bit, 1)
		}
	})
	return b.Bytes()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
