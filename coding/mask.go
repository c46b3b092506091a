// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// NumMasks is the number of data mask patterns.
const NumMasks = 8

// Mask patterns:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var maskFunc = [NumMasks]func(r, c int) bool{
	func(r, c int) bool { return (r+c)%2 == 0 },
	func(r, c int) bool { return r%2 == 0 },
	func(r, c int) bool { return c%3 == 0 },
	func(r, c int) bool { return (r+c)%3 == 0 },
	func(r, c int) bool { return (r/2+c/3)%2 == 0 },
	func(r, c int) bool { return r*c%2+r*c%3 == 0 },
	func(r, c int) bool { return (r*c%2+r*c%3)%2 == 0 },
	func(r, c int) bool { return ((r+c)%2+r*c%3)%2 == 0 },
}

// MaskBit reports whether the data module at row r and column c is
// inverted by mask.
func MaskBit(mask, r, c int) bool { return maskFunc[mask](r, c) }

// ApplyMask returns a copy of m with the data modules selected by
// mask inverted.  Masking is its own inverse, so ApplyMask also
// removes a mask.
func ApplyMask(m Matrix, mask int) Matrix {
	t := m.Clone()
	f := maskFunc[mask]
	for r, row := range t {
		for c, v := range row {
			if v.Function() == ModData && f(r, c) {
				row[c] = -v
			}
		}
	}
	return t
}

// Unmask returns a copy of m with mask removed.
func Unmask(m Matrix, mask int) Matrix { return ApplyMask(m, mask) }

// PlaceFormat writes the format information for level l and mask
// to m.
func PlaceFormat(m Matrix, l Level, mask int) {
	n := len(m)
	fb := FormatInfo(l, mask)
	for i := 0; i < 15; i++ {
		v := colour(ModFormat, fb>>i&1 != 0)
		switch {
		case i < 6:
			m[i][8] = v
		case i < 8:
			m[i+1][8] = v
		default:
			m[n-15+i][8] = v
		}
		switch {
		case i < 8:
			m[8][n-1-i] = v
		case i == 8:
			m[8][7] = v
		default:
			m[8][14-i] = v
		}
	}
	m[n-8][8] = ModFormat
}

// ReadFormat returns the format information stored in column 8 of m.
func ReadFormat(m Matrix) uint16 {
	n := len(m)
	var fb uint16
	for i := 14; i >= 0; i-- {
		r := i
		switch {
		case i >= 8:
			r = n - 15 + i
		case i >= 6:
			r = i + 1
		}
		fb <<= 1
		if m[r][8].Dark() {
			fb |= 1
		}
	}
	return fb
}

// PlaceVersion writes the version information of v to m.
func PlaceVersion(m Matrix, v Version) {
	if v < 7 {
		return
	}
	n := len(m)
	info := v.Info()
	for i := 0; i < 18; i++ {
		mod := colour(ModVersion, info>>i&1 != 0)
		r, c := i/3, n-11+i%3
		m[r][c], m[c][r] = mod, mod
	}
}

// Penalty scoring constants.
const (
	minRun    = 5  // run penalty: minimum run length
	runPoints = 3  // run penalty: points for a minimum run
	boxPoints = 3  // points per uniform 2×2 box
	findPts   = 40 // points per 1:1:3:1:1 pattern
	balPoints = 10 // points per 5% of deviation from 50% dark
)

// Penalty returns the mask penalty of m, the sum of RunPenalty,
// BoxPenalty, FinderPenalty and BalancePenalty.  The mask with the
// lowest penalty is chosen.
func Penalty(m Matrix) int {
	return RunPenalty(m) + BoxPenalty(m) + FinderPenalty(m) +
		BalancePenalty(m)
}

// lines calls f with every row and then every column of m as a
// function reporting whether the i-th module is dark.
func lines(m Matrix, f func(dark func(i int) bool)) {
	for r := range m {
		row := m[r]
		f(func(i int) bool { return row[i] > 0 })
	}
	for c := range m {
		f(func(i int) bool { return m[i][c] > 0 })
	}
}

// runs returns the lengths of the runs of same colour modules in a
// line of n modules, and whether the first run is dark.
func runs(n int, dark func(i int) bool) (lens []int, first bool) {
	first = dark(0)
	cur, l := first, 0
	for i := 0; i < n; i++ {
		if d := dark(i); d != cur {
			lens = append(lens, l)
			cur, l = d, 0
		}
		l++
	}
	return append(lens, l), first
}

// RunPenalty scores runs of 5 or more same colour modules in rows and
// columns: 3 points for 5 modules, plus one for each further module.
func RunPenalty(m Matrix) int {
	p := 0
	lines(m, func(dark func(int) bool) {
		lens, _ := runs(len(m), dark)
		for _, l := range lens {
			if l >= minRun {
				p += runPoints + l - minRun
			}
		}
	})
	return p
}

// BoxPenalty scores 3 points for every possibly overlapping 2×2 box
// of same colour modules.
func BoxPenalty(m Matrix) int {
	p := 0
	for r := 0; r+1 < len(m); r++ {
		for c := 0; c+1 < len(m); c++ {
			d := m[r][c] > 0
			if (m[r][c+1] > 0) == d && (m[r+1][c] > 0) == d &&
				(m[r+1][c+1] > 0) == d {
				p += boxPoints
			}
		}
	}
	return p
}

// FinderPenalty scores 40 points for every dark:light:dark:light:dark
// pattern in 1:1:3:1:1 proportion in rows and columns, with a light
// run at least four times the unit wide on either side.  The quiet
// zone counts as light.
func FinderPenalty(m Matrix) int {
	q := m.QuietZone(QuietZoneWidth)
	p := 0
	lines(q, func(dark func(int) bool) {
		lens, first := runs(len(q), dark)
		// The quiet zone makes the first and last runs light.
		if first {
			panic("qr: internal error: dark quiet zone")
		}
		// Dark runs are at odd indices.
		for i := 3; i+3 < len(lens); i += 2 {
			k := lens[i]
			if k%3 != 0 {
				continue
			}
			k /= 3
			if lens[i-2] == k && lens[i-1] == k &&
				lens[i+1] == k && lens[i+2] == k &&
				(lens[i-3] >= 4*k || lens[i+3] >= 4*k) {
				p += findPts
			}
		}
	})
	return p
}

// BalancePenalty scores 10 points for every full 5% by which the
// percentage of dark modules, rounded down, deviates from 50%.
func BalancePenalty(m Matrix) int {
	dark := 0
	for _, row := range m {
		for _, v := range row {
			if v > 0 {
				dark++
			}
		}
	}
	pct := dark * 100 / (len(m) * len(m))
	return abs(pct-50) / 5 * balPoints
}

// SelectMask applies each mask to m, the unmasked matrix of a symbol
// of version v at level l, writes the format and version information
// and returns the result with the lowest penalty along with its mask.
// Ties go to the lowest mask.
func SelectMask(m Matrix, v Version, l Level) (Matrix, int) {
	var best Matrix
	bestMask, pen := 0, 1<<30
	for mask := 0; mask < NumMasks; mask++ {
		t := ApplyMask(m, mask)
		PlaceFormat(t, l, mask)
		PlaceVersion(t, v)
		if p := Penalty(t); p < pen {
			best, bestMask, pen = t, mask, p
		}
	}
	return best, bestMask
}
