// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/unixdj/qrsym/coding"
)

var errInvalidUTF8 = errors.New("qr: invalid UTF-8")

// A CharError reports a character that cannot be encoded.
type CharError struct {
	Pos     int    // byte offset in the text
	Rune    rune   // the character
	Charset string // byte mode charset
	Err     error  // cause
}

func (e *CharError) Error() string {
	return fmt.Sprintf("qr: cannot encode %q at offset %d in %s: %v",
		e.Rune, e.Pos, e.Charset, e.Err)
}

func (e *CharError) Unwrap() error { return e.Err }

var errKanji = errors.New("kanji mode requires Shift_JIS")

// A charset converts characters to their encodings in the byte mode
// charset and, for kanji, in Shift JIS.
type charset struct {
	name string
	sjis bool // byte mode charset is Shift JIS
	enc  *encoding.Encoder
	kenc *encoding.Encoder // Shift JIS
}

// lookupCharset returns the charset with the given IANA name or alias.
func lookupCharset(name string) (*charset, error) {
	var e encoding.Encoding
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		e, name = unicode.UTF8, "UTF-8"
	default:
		var err error
		if e, err = ianaindex.IANA.Encoding(name); err != nil || e == nil {
			return nil, fmt.Errorf("%w: %q", ErrCharset, name)
		}
		if n, err := ianaindex.IANA.Name(e); err == nil {
			name = n
		}
	}
	return &charset{
		name: name,
		sjis: e == japanese.ShiftJIS || name == "Shift_JIS",
		enc:  e.NewEncoder(),
		kenc: japanese.ShiftJIS.NewEncoder(),
	}, nil
}

// char returns r prepared for encoding.
func (cs *charset) char(r rune) (coding.Char, error) {
	s := string(r)
	c := coding.Char{Rune: r}
	if k, err := cs.kenc.String(s); err == nil && len(k) == 2 {
		if w := uint16(k[0])<<8 | uint16(k[1]); coding.IsKanjiCode(w) {
			if !cs.sjis {
				return c, errKanji
			}
			c.Bytes, c.SJIS = []byte(k), w
			return c, nil
		}
	}
	b, err := cs.enc.String(s)
	if err != nil {
		return c, err
	}
	if b == "" {
		return c, encoding.ErrInvalidUTF8
	}
	c.Bytes = []byte(b)
	return c, nil
}

// chars returns the characters of text prepared for encoding.
func (cs *charset) chars(text string) ([]coding.Char, error) {
	chars := make([]coding.Char, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, n := utf8.DecodeRuneInString(text[i:]); n < 2 {
				return nil, &CharError{i, r, cs.name, errInvalidUTF8}
			}
		}
		c, err := cs.char(r)
		if err != nil {
			return nil, &CharError{i, r, cs.name, err}
		}
		chars = append(chars, c)
	}
	return chars, nil
}

// parity returns the xor of the encoded bytes of chars.
func parity(chars []coding.Char) byte {
	var p byte
	for _, c := range chars {
		for _, b := range c.Bytes {
			p ^= b
		}
	}
	return p
}
