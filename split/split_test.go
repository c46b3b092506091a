// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package split

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unixdj/qrsym/coding"
)

// kanji characters with their Shift JIS codes.
var sjis = map[rune]uint16{'点': 0x935f, '茗': 0xe4aa}

func chars(s string) []coding.Char {
	c := make([]coding.Char, 0, len(s))
	for _, r := range s {
		ch := coding.Char{Rune: r, Bytes: []byte(string(r))}
		if w, ok := sjis[r]; ok {
			ch.Bytes, ch.SJIS = []byte{byte(w >> 8), byte(w)}, w
		}
		c = append(c, ch)
	}
	return c
}

const (
	U = coding.Unknown
	N = coding.Numeric
	A = coding.Alphanumeric
	B = coding.Byte
	K = coding.Kanji
)

func TestInitial(t *testing.T) {
	tests := []struct {
		s    string
		v    coding.Version
		want coding.Mode
	}{
		{"12345678901234567890123", 5, N},
		{"点", 1, K},
		{"a", 1, B},
		{"é", 40, B},
		{"123a", 1, B},
		{"123a", 10, B},
		{"1234a", 1, N},
		{"1234a", 10, N},
		{"1234a", 27, B},
		{"123456A", 1, A},
		{"1234567A", 1, N},
		{"1234567A", 10, A},
		{"12345678A", 27, A},
		{"123456789A", 27, N},
		{"123", 1, N},
		{"ABCDEa", 1, B},
		{"ABCDEFa", 1, A},
		{"ABCDEFa", 10, B},
		{"ABCDEFGa", 27, B},
		{"ABCDEFGHa", 27, A},
		{"ABCDE1", 1, A},
		{"ABCDE", 1, A},
		{"AB点", 1, A},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Initial(chars(tt.s), 0, tt.v), "%q at %d", tt.s, tt.v)
	}
	require.Equal(t, U, Initial([]coding.Char{{Rune: 0x10000}}, 0, 1))
}

func TestNext(t *testing.T) {
	tests := []struct {
		s    string
		cur  coding.Mode
		v    coding.Version
		want coding.Mode
	}{
		{"1", N, 1, N},
		{"A", N, 1, A},
		{"a", N, 1, B},
		{"点", N, 1, K},

		{"A", A, 1, A},
		{"a", A, 1, B},
		{"点", A, 1, K},
		{"1234567890123A", A, 1, N},
		{"123456789012A", A, 1, A},
		{"1234567890123", A, 1, A},
		{"1234567890123a", A, 1, N},
		{"1234567890123A", A, 10, A},
		{"123456789012345A", A, 10, N},
		{"12345678901234567A", A, 27, N},

		{"点", B, 1, K},
		{"a", B, 1, B},
		{"123456a", B, 1, N},
		{"12345a", B, 1, B},
		{"123456", B, 1, B},
		{"123456A", B, 1, B},
		{"12345678a", B, 10, N},
		{"1234567a", B, 10, B},
		{"ABCDEFGHIJKa", B, 1, A},
		{"ABCDEFGHIJa", B, 1, B},
		{"ABCDEFGHIJK", B, 1, B},
		{"ABCDEFGHIJK1a", B, 1, B},
		{"ABCDEFGHIJKLMNOa", B, 10, A},
		{"ABCDEFGHIJKLMNOPa", B, 27, A},

		{"a", K, 1, B},
		{"点", K, 1, K},
		{"1234", U, 1, N},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Next(chars(tt.s), 0, tt.cur, tt.v),
			"%q in %s at %d", tt.s, tt.cur, tt.v)
	}
}

func TestModes(t *testing.T) {
	pattern := func(s string) string {
		modes, bad := Modes(chars(s), 1)
		require.Equal(t, -1, bad)
		var b strings.Builder
		for _, m := range modes {
			b.WriteString("?NABK"[m : m+1])
		}
		return b.String()
	}
	require.Equal(t, "AAAAAAAAAAA", pattern("HELLO WORLD"))
	require.Equal(t, strings.Repeat("N", 23), pattern("12345678901234567890123"))
	require.Equal(t, "BBBBBBBBBBBB", pattern("hello, world"))
	require.Equal(t, "AAAAANNNNNNNNNNNNNAA",
		pattern("ABCD:1234567890123:X"))
	require.Equal(t, "BBNNNNNNBB", pattern("ab123456cd"))
	require.Equal(t, "BBBBBBBBBB", pattern("a:123456:b"))
	require.Equal(t, "KKBB", pattern("点茗ab"))

	in := chars("ABC")
	in = append(in[:2], coding.Char{Rune: 0x1f600}, in[2])
	modes, bad := Modes(in, 1)
	require.Equal(t, 2, bad)
	require.Equal(t, []coding.Mode{A, A}, modes)
}

func ExampleModes() {
	var in []coding.Char
	for _, r := range "Tel. +1 555 0100" {
		in = append(in, coding.Char{Rune: r, Bytes: []byte(string(r))})
	}
	modes, _ := Modes(in, 1)
	fmt.Println(modes[0], modes[1], modes[5])
	// Output: byte byte byte
}
