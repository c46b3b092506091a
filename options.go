// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import "github.com/unixdj/qrsym/coding"

// Defaults used by New.
const (
	DefaultLevel      = M
	DefaultMaxVersion = coding.MaxVersion
	DefaultCharset    = "Shift_JIS"
)

// config holds the settings of a symbol group.
type config struct {
	level      Level
	maxVersion Version
	structured bool
	charset    string
}

// An Option configures a symbol group created by New.
type Option func(*config) error

// WithLevel sets the error correction level of all symbols.
func WithLevel(l Level) Option {
	return func(c *config) error {
		if !l.IsValid() {
			return coding.ErrLevel
		}
		c.level = l
		return nil
	}
}

// WithMaxVersion sets the highest version a symbol may grow to.
func WithMaxVersion(v Version) Option {
	return func(c *config) error {
		if !v.IsValid() {
			return coding.ErrVersion
		}
		c.maxVersion = v
		return nil
	}
}

// WithStructuredAppend allows text exceeding the capacity of one
// symbol to continue in up to 16 linked symbols.
func WithStructuredAppend(on bool) Option {
	return func(c *config) error {
		c.structured = on
		return nil
	}
}

// WithCharset sets the character encoding of byte mode segments by
// its IANA name.  Kanji mode is only used with Shift JIS.
func WithCharset(name string) Option {
	return func(c *config) error {
		c.charset = name
		return nil
	}
}
