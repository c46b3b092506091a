// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code with
// its quiet zone to w, for use with netpbm.  EncodePBM disregards
// c.Palette, as other PNM formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	b := bufio.NewWriter(w)
	scale := c.scale()
	pix := c.Size + 2*c.Border
	length := scale * pix
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	row := make([]byte, (length+7)/8)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < length; x++ {
			if c.dark(x/scale-c.Border, y) {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}
