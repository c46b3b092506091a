// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package split selects QR segment modes for a character sequence.

Selection is a state machine run character by character.  The state
is the mode of the open segment; the input is the character at the
current position and the characters following it.  A run of digits or
alphanumeric characters is only worth a segment of its own when it is
long enough to pay for the mode and character count indicators of the
switch, so the decision looks ahead for the length of such runs and
compares it to break-even thresholds.  Thresholds depend on the size
class of the symbol version, as character count indicators get longer
in larger versions.

	From                 Character            Switch to
	Unknown, Kanji       kanji                Kanji
	                     byte only            Byte
	                     letter               Byte if a short letter run
	                                          precedes a byte only
	                                          character, else
	                                          Alphanumeric
	                     digit                Byte or Alphanumeric if a
	                                          short digit run precedes a
	                                          byte only or letter
	                                          character, else Numeric
	Numeric              kanji, byte only,    Kanji, Byte, Alphanumeric
	                     letter
	Alphanumeric         kanji, byte only     Kanji, Byte
	                     digit                Numeric if a long digit
	                                          run precedes a non-digit
	Byte                 kanji                Kanji
	                     digit                Numeric if a long digit
	                                          run precedes a byte only
	                                          character
	                     letter               Alphanumeric if a long
	                                          letter run precedes a
	                                          byte only character

Here a letter is a non-digit alphanumeric character, and a byte only
character is one that is neither alphanumeric nor kanji.
*/
package split // import "github.com/unixdj/qrsym/split"

import "github.com/unixdj/qrsym/coding"

// Break-even run lengths by size class.
var (
	// Initial letters followed by a byte only character.
	initAlphaByte = [3]int{6, 7, 8}
	// Initial digits followed by a byte only character.
	initNumByte = [3]int{4, 4, 5}
	// Initial digits followed by a letter.
	initNumAlpha = [3]int{7, 8, 9}
	// Digits within an alphanumeric segment.
	alphaNum = [3]int{13, 15, 17}
	// Digits within a byte segment.
	byteNum = [3]int{6, 8, 9}
	// Letters within a byte segment.
	byteAlpha = [3]int{11, 15, 16}
)

// run returns the number of consecutive characters of chars from i on
// that are exclusively in mode m.
func run(chars []coding.Char, i int, m coding.Mode) int {
	n := 0
	for ; i+n < len(chars) && m.InExclusiveSubset(chars[i+n]); n++ {
	}
	return n
}

// exclusive reports whether chars has a character at i that is
// exclusively in mode m.
func exclusive(chars []coding.Char, i int, m coding.Mode) bool {
	return i < len(chars) && m.InExclusiveSubset(chars[i])
}

// Initial returns the mode for chars[i] when no segment is open or the
// open segment is a kanji segment, for a symbol of version v.  It
// returns coding.Unknown if chars[i] is encodable in no mode.
func Initial(chars []coding.Char, i int, v coding.Version) coding.Mode {
	class := v.SizeClass()
	c := chars[i]
	switch {
	case coding.Kanji.InSubset(c):
		return coding.Kanji
	case coding.Byte.InExclusiveSubset(c):
		return coding.Byte
	case coding.Alphanumeric.InExclusiveSubset(c):
		n := run(chars, i, coding.Alphanumeric)
		if n < initAlphaByte[class] &&
			exclusive(chars, i+n, coding.Byte) {
			return coding.Byte
		}
		return coding.Alphanumeric
	case coding.Numeric.InSubset(c):
		n := run(chars, i, coding.Numeric)
		if n < initNumByte[class] && exclusive(chars, i+n, coding.Byte) {
			return coding.Byte
		}
		if n < initNumAlpha[class] &&
			exclusive(chars, i+n, coding.Alphanumeric) {
			return coding.Alphanumeric
		}
		return coding.Numeric
	}
	return coding.Unknown
}

// Next returns the mode for chars[i] when the open segment has mode
// cur, for a symbol of version v.  It returns cur to stay in the open
// segment, or coding.Unknown if chars[i] is encodable in no mode.
func Next(chars []coding.Char, i int, cur coding.Mode, v coding.Version) coding.Mode {
	c := chars[i]
	switch cur {
	case coding.Numeric:
		switch {
		case coding.Kanji.InSubset(c):
			return coding.Kanji
		case coding.Byte.InExclusiveSubset(c):
			return coding.Byte
		case coding.Alphanumeric.InExclusiveSubset(c):
			return coding.Alphanumeric
		case coding.Numeric.InSubset(c):
			return coding.Numeric
		}
		return coding.Unknown
	case coding.Alphanumeric:
		switch {
		case coding.Kanji.InSubset(c):
			return coding.Kanji
		case coding.Byte.InExclusiveSubset(c):
			return coding.Byte
		case !coding.Alphanumeric.InSubset(c):
			return coding.Unknown
		}
		// End of input does not terminate the run.
		n := run(chars, i, coding.Numeric)
		if n >= alphaNum[v.SizeClass()] && i+n < len(chars) {
			return coding.Numeric
		}
		return coding.Alphanumeric
	case coding.Byte:
		switch {
		case coding.Kanji.InSubset(c):
			return coding.Kanji
		case !coding.Byte.InSubset(c):
			return coding.Unknown
		}
		class := v.SizeClass()
		if n := run(chars, i, coding.Numeric); n >= byteNum[class] &&
			exclusive(chars, i+n, coding.Byte) {
			return coding.Numeric
		}
		if n := run(chars, i, coding.Alphanumeric); n >= byteAlpha[class] &&
			exclusive(chars, i+n, coding.Byte) {
			return coding.Alphanumeric
		}
		return coding.Byte
	}
	return Initial(chars, i, v)
}

// Modes returns the mode of every character of chars as selected for
// a symbol of version v, starting with no open segment.  It returns
// the index of the first character encodable in no mode, or -1.
func Modes(chars []coding.Char, v coding.Version) ([]coding.Mode, int) {
	modes := make([]coding.Mode, len(chars))
	cur := coding.Unknown
	for i := range chars {
		if cur = Next(chars, i, cur, v); cur == coding.Unknown {
			return modes[:i], i
		}
		modes[i] = cur
	}
	return modes, -1
}
