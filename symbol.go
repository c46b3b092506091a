// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"go.uber.org/zap"

	"github.com/unixdj/qrsym/coding"
)

// A symbol is a symbol under construction.
type symbol struct {
	pos      int     // position in the group
	version  Version // grows as data is added
	capacity int     // data bits available for segments
	counter  int     // data bits used by segments
	segs     []*coding.Segment
	seg      *coding.Segment       // open segment, last of segs
	nseg     [coding.Kanji + 1]int // segments by mode
}

// clone returns a deep copy of sym.
func (sym *symbol) clone() *symbol {
	t := *sym
	t.segs = make([]*coding.Segment, len(sym.segs))
	for i, seg := range sym.segs {
		t.segs[i] = seg.Clone()
	}
	if len(t.segs) != 0 {
		t.seg = t.segs[len(t.segs)-1]
	}
	return &t
}

// grow increments the version of sym.  Character count indicators
// of existing segments are adjusted to the lengths of the new version.
func (sym *symbol) grow(s *Symbols) {
	old := sym.version
	v := old + 1
	for m := coding.Numeric; m <= coding.Kanji; m++ {
		sym.counter += sym.nseg[m] * (m.CountLength(v) - m.CountLength(old))
	}
	sym.version = v
	sym.capacity = s.capacity(v)
	if s.minVer < v {
		s.minVer = v
	}
	Logger().Debug("symbol grown", zap.Int("position", sym.pos),
		zap.Stringer("from", old), zap.Stringer("to", v))
}

// fit grows sym until need() more bits fit and reports whether they do.
// need is called after every growth, as lengths depend on the version.
func (sym *symbol) fit(s *Symbols, need func() int) bool {
	for sym.capacity < sym.counter+need() {
		if sym.version >= s.maxVersion {
			return false
		}
		sym.grow(s)
	}
	return true
}

// setMode opens a segment of mode m in sym if its header and c fit.
func (sym *symbol) setMode(s *Symbols, m coding.Mode, c coding.Char) bool {
	if !sym.fit(s, func() int {
		return coding.IndicatorLength + m.CountLength(sym.version) +
			m.CharBits(c, 0)
	}) {
		return false
	}
	sym.counter += coding.IndicatorLength + m.CountLength(sym.version)
	sym.seg = coding.NewSegment(m)
	sym.segs = append(sym.segs, sym.seg)
	sym.nseg[m]++
	return true
}

// append adds c to the open segment of sym if it fits.
func (sym *symbol) append(s *Symbols, c coding.Char) bool {
	if !sym.fit(s, func() int { return sym.seg.CharBits(c) }) {
		return false
	}
	n, err := sym.seg.Append(c)
	if err != nil {
		panic("qr: internal error: " + err.Error())
	}
	sym.counter += n
	return true
}

// A Symbol is a symbol of a group.
type Symbol struct {
	g   *Symbols
	sym *symbol
}

// Version returns the version of s.
func (s *Symbol) Version() Version { return s.sym.version }

// Position returns the position of s in its group, counting from 0.
func (s *Symbol) Position() int { return s.sym.pos }

// Total returns the number of symbols in the group of s.
func (s *Symbol) Total() int { return len(s.g.syms) }

// Parity returns the structured append parity of the group of s.
func (s *Symbol) Parity() byte { return s.g.parity }

// Level returns the error correction level of s.
func (s *Symbol) Level() Level { return s.g.level }

// Segments returns the modes and lengths of the segments of s.
func (s *Symbol) Segments() []Segment {
	segs := make([]Segment, len(s.sym.segs))
	for i, seg := range s.sym.segs {
		segs[i] = Segment{seg.Mode(), seg.Len()}
	}
	return segs
}

// A Segment describes a segment: its mode and length in characters,
// or in bytes for byte mode.
type Segment struct {
	Mode coding.Mode
	Len  int
}

// Encode returns the module matrix of s with the mask of lowest
// penalty applied, without quiet zone, and the mask.  The matrix is
// computed anew on every call.  Encode seals the group.
func (s *Symbol) Encode() (coding.Matrix, int, error) {
	g, sym := s.g, s.sym
	g.sealed = true
	e, err := coding.NewEncoder(sym.version, g.level)
	if err != nil {
		return nil, 0, err
	}
	if len(g.syms) > 1 {
		err := e.StructuredAppend(sym.pos, len(g.syms), g.parity)
		if err != nil {
			return nil, 0, err
		}
	}
	e.Write(sym.segs...)
	m, mask, err := e.Encode()
	if err != nil {
		return nil, 0, err
	}
	Logger().Debug("symbol rendered", zap.Int("position", sym.pos),
		zap.Stringer("version", sym.version),
		zap.Stringer("level", g.level), zap.Int("mask", mask))
	return m, mask, nil
}

// Matrix returns the module matrix of s.  See Encode.
func (s *Symbol) Matrix() (coding.Matrix, error) {
	m, _, err := s.Encode()
	return m, err
}

// Mask returns the mask chosen for s.  See Encode.
func (s *Symbol) Mask() (int, error) {
	_, mask, err := s.Encode()
	return mask, err
}

// Code returns s as a pixel grid with the default scale and quiet
// zone.  See Encode.
func (s *Symbol) Code() (*Code, error) {
	m, _, err := s.Encode()
	if err != nil {
		return nil, err
	}
	return NewCode(m), nil
}
