// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"image/color"
	"strings"

	"github.com/unixdj/qrsym/coding"
)

// A Code is a square pixel grid.  Image returns it as an image.Image,
// EncodePBM writes it in PBM format and String draws it as text.
type Code struct {
	Bitmap  []byte          // 1 is black, 0 is white
	Size    int             // number of pixels on a side
	Stride  int             // number of bytes per row
	Scale   int             // number of image pixels per QR pixel
	Border  int             // width of quiet zone in QR pixels
	Reverse bool            // reverse colours
	Palette *[2]color.Color // background and foreground, for Image
}

// NewCode returns a Code displaying m at scale 8 with a quiet zone of
// coding.QuietZoneWidth.
func NewCode(m coding.Matrix) *Code {
	bitmap, stride := m.Bitmap()
	return &Code{
		Bitmap: bitmap,
		Size:   m.Size(),
		Stride: stride,
		Scale:  8,
		Border: coding.QuietZoneWidth,
	}
}

// Black returns true if the pixel at (x,y) is black.
// Pixels outside the grid are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7&^x)) != 0
}

// dark reports whether the pixel at (x,y) is drawn in the foreground
// colour, taking c.Reverse into account.
func (c *Code) dark(x, y int) bool { return c.Black(x, y) != c.Reverse }

// Image returns an Image displaying the code with its quiet zone.
func (c *Code) Image() image.Image {
	pal := color.Palette{color.Gray{0xff}, color.Gray{0x00}}
	if c.Palette != nil {
		pal = color.Palette{c.Palette[0], c.Palette[1]}
	}
	return &codeImage{c, pal}
}

// codeImage implements image.Image.
type codeImage struct {
	*Code
	pal color.Palette
}

// scale returns c.Scale, at least 1.
func (c *Code) scale() int { return max(c.Scale, 1) }

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.scale()
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

// ColorIndexAt returns the palette index of the pixel at (x,y).
func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if s := c.scale(); c.dark(x/s-c.Border, y/s-c.Border) {
		return 1
	}
	return 0
}

func (c *codeImage) ColorModel() color.Model { return c.pal }

// String returns the code with its quiet zone drawn in half block
// characters, two rows per line, ignoring c.Scale.  Black modules are
// drawn as blank space, for terminals with light text on a dark
// background; c.Reverse inverts that.
func (c *Code) String() string {
	var b strings.Builder
	lo, hi := -c.Border, c.Size+c.Border
	for y := lo; y < hi; y += 2 {
		for x := lo; x < hi; x++ {
			i := 0
			if c.dark(x, y) {
				i |= 1
			}
			if y+1 < hi && c.dark(x, y+1) {
				i |= 2
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Half blocks by the darkness of the upper (bit 0) and lower (bit 1)
// modules.
var halfBlocks = [4]string{"█", "▄", "▀", " "}
