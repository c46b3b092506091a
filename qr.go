// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes text as QR code symbols.

Text is appended to a group of symbols created by New.  Modes are
selected character by character, and the symbol grows from version 1
until the text fits.  If structured append is enabled and the text
outgrows the maximum version, it continues in a new symbol, up to 16
symbols linked by a sequence header and a common parity byte.

	syms, err := qr.New(qr.WithLevel(qr.Q), qr.WithMaxVersion(10),
		qr.WithStructuredAppend(true))
	if err != nil {
		return err
	}
	if err := syms.AppendText(text); err != nil {
		return err
	}
	for i := 0; i < syms.Len(); i++ {
		sym, _ := syms.At(i)
		code, err := sym.Code()
		...
	}

Rendering a symbol seals the group: no more text can be appended.
*/
package qr // import "github.com/unixdj/qrsym"

import (
	"errors"

	"go.uber.org/zap"

	"github.com/unixdj/qrsym/coding"
	"github.com/unixdj/qrsym/split"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level = coding.Level

const (
	L = coding.L // 7% of codewords can be restored
	M = coding.M // 15% of codewords can be restored
	Q = coding.Q // 25% of codewords can be restored
	H = coding.H // 30% of codewords can be restored
)

// A Version is a QR version from 1 to 40.
type Version = coding.Version

var (
	ErrCharset = errors.New("qr: unknown charset")
	ErrEmpty   = errors.New("qr: empty text")
	ErrTooLong = errors.New("qr: text too long")
	ErrSealed  = errors.New("qr: symbols already rendered")
	ErrIndex   = errors.New("qr: symbol index out of range")
)

// Symbols is a group of QR symbols holding text appended to it.
// A group holds more than one symbol only if structured append is
// enabled.  Symbols is not safe for concurrent use.
type Symbols struct {
	config
	cs     *charset
	syms   []*symbol
	minVer Version // version of the next new symbol
	parity byte    // xor of all encoded bytes
	sealed bool
}

// New returns an empty symbol group configured by opts.
func New(opts ...Option) (*Symbols, error) {
	s := &Symbols{
		config: config{
			level:      DefaultLevel,
			maxVersion: DefaultMaxVersion,
			charset:    DefaultCharset,
		},
		minVer: coding.MinVersion,
	}
	for _, o := range opts {
		if err := o(&s.config); err != nil {
			return nil, err
		}
	}
	var err error
	if s.cs, err = lookupCharset(s.charset); err != nil {
		return nil, err
	}
	s.open()
	return s, nil
}

// Level returns the error correction level of the symbols.
func (s *Symbols) Level() Level { return s.level }

// MaxVersion returns the highest version a symbol may have.
func (s *Symbols) MaxVersion() Version { return s.maxVersion }

// StructuredAppend reports whether s may hold more than one symbol.
func (s *Symbols) StructuredAppend() bool { return s.structured }

// Charset returns the name of the byte mode charset.
func (s *Symbols) Charset() string { return s.cs.name }

// Len returns the number of symbols in s.
func (s *Symbols) Len() int { return len(s.syms) }

// Parity returns the structured append parity, the xor of every byte
// of text appended to s as encoded in byte or kanji mode.
func (s *Symbols) Parity() byte { return s.parity }

// At returns the i-th symbol of s.
func (s *Symbols) At(i int) (*Symbol, error) {
	if i < 0 || i >= len(s.syms) {
		return nil, ErrIndex
	}
	return &Symbol{s, s.syms[i]}, nil
}

// capacity returns the number of data bits available for segments in
// a symbol of version v.
func (s *Symbols) capacity(v Version) int {
	n := v.DataBits(s.level)
	if s.structured {
		n -= coding.StructuredAppendLength
	}
	return n
}

// open adds a new symbol at the current minimum version.
func (s *Symbols) open() *symbol {
	sym := &symbol{
		pos:      len(s.syms),
		version:  s.minVer,
		capacity: s.capacity(s.minVer),
	}
	s.syms = append(s.syms, sym)
	Logger().Debug("symbol opened",
		zap.Int("position", sym.pos), zap.Stringer("version", sym.version))
	return sym
}

// next opens a new symbol if the group may hold one more.
func (s *Symbols) next() (*symbol, error) {
	if !s.structured || len(s.syms) == coding.MaxSymbols {
		return nil, ErrTooLong
	}
	return s.open(), nil
}

// AppendText appends text to s.  The text must be valid UTF-8 and
// every character must be encodable in the charset of s.
//
// AppendText is atomic: if it returns an error, s is left as it was
// before the call.  Characters are checked before any is appended, so
// a *CharError never leaves partial text behind; ErrTooLong is
// returned when the text does not fit in the maximum version and no
// further symbol can be opened.
func (s *Symbols) AppendText(text string) error {
	if s.sealed {
		return ErrSealed
	}
	if text == "" {
		return ErrEmpty
	}
	chars, err := s.cs.chars(text)
	if err != nil {
		return err
	}
	snap := s.snapshot()
	if err := s.appendChars(chars); err != nil {
		s.restore(snap)
		return err
	}
	s.parity ^= parity(chars)
	return nil
}

func (s *Symbols) appendChars(chars []coding.Char) error {
	sym := s.syms[len(s.syms)-1]
	for i, c := range chars {
		var mode coding.Mode
		if sym.seg == nil {
			mode = split.Initial(chars, i, sym.version)
		} else {
			mode = split.Next(chars, i, sym.seg.Mode(), sym.version)
		}
		if mode == coding.Unknown {
			panic("qr: internal error: no mode for " + string(c.Rune))
		}
		if sym.seg == nil || sym.seg.Mode() != mode {
			if !sym.setMode(s, mode, c) {
				var err error
				if sym, err = s.restart(chars, i); err != nil {
					return err
				}
			}
		}
		if !sym.append(s, c) {
			var err error
			if sym, err = s.restart(chars, i); err != nil {
				return err
			}
			if !sym.append(s, c) {
				return ErrTooLong
			}
		}
	}
	return nil
}

// restart opens a new symbol and a segment in it for chars[i].
func (s *Symbols) restart(chars []coding.Char, i int) (*symbol, error) {
	sym, err := s.next()
	if err != nil {
		return nil, err
	}
	if !sym.setMode(s, split.Initial(chars, i, sym.version), chars[i]) {
		return nil, ErrTooLong
	}
	return sym, nil
}

// A snapshot is the mutable state of Symbols.  Only the last symbol
// and symbols added after it can change.
type snapshot struct {
	n      int
	last   *symbol
	minVer Version
}

func (s *Symbols) snapshot() snapshot {
	return snapshot{len(s.syms), s.syms[len(s.syms)-1].clone(), s.minVer}
}

func (s *Symbols) restore(snap snapshot) {
	for i := snap.n; i < len(s.syms); i++ {
		s.syms[i] = nil
	}
	s.syms = s.syms[:snap.n]
	s.syms[snap.n-1] = snap.last
	s.minVer = snap.minVer
}
