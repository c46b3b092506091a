// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrsym/gf256"

// A Block is a Reed-Solomon block: data codewords and the error
// correction codewords protecting them.
type Block struct {
	Data  []byte
	Check []byte
}

// Reed-Solomon encoders by number of check codewords, for every
// block size in the version table.
var rsenc = func() (enc [31]*gf256.RSEncoder) {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, lev := range vtab[v].level {
			if enc[lev.check] == nil {
				enc[lev.check] = gf256.NewRSEncoder(Field, lev.check)
			}
		}
	}
	return
}()

// blockSizes returns the number of blocks of version v at level l,
// the number of data codewords in the preceding blocks, and the
// number of preceding blocks.  The following blocks hold one data
// codeword more.
func blockSizes(v Version, l Level) (n, size, pre int) {
	n = v.Blocks(l)
	nd := v.DataCodewords(l)
	return n, nd / n, n - nd%n
}

// MakeBlocks splits data, the data codewords of a symbol of version v
// at level l, into Reed-Solomon blocks and computes their error
// correction codewords.
func MakeBlocks(data []byte, v Version, l Level) []Block {
	if len(data) != v.DataCodewords(l) {
		panic("qr: wrong data length")
	}
	n, size, pre := blockSizes(v, l)
	check := v.BlockCheck(l)
	rs := rsenc[check]
	blocks := make([]Block, n)
	for i := range blocks {
		db := size
		if i >= pre {
			db++
		}
		b := &blocks[i]
		b.Data, data = data[:db:db], data[db:]
		b.Check = make([]byte, check)
		rs.ECC(b.Data, b.Check)
	}
	return blocks
}

// Interleave returns the final codeword sequence of blocks: the
// data codewords taken column by column across blocks, then the
// error correction codewords likewise.
func Interleave(blocks []Block) []byte {
	var nd, nc, maxd int
	for _, b := range blocks {
		nd += len(b.Data)
		nc += len(b.Check)
		maxd = max(maxd, len(b.Data))
	}
	out := make([]byte, 0, nd+nc)
	for i := 0; i < maxd; i++ {
		for _, b := range blocks {
			if i < len(b.Data) {
				out = append(out, b.Data[i])
			}
		}
	}
	if len(blocks) != 0 {
		for i := range blocks[0].Check {
			for _, b := range blocks {
				out = append(out, b.Check[i])
			}
		}
	}
	return out
}

// Deinterleave splits codewords, the final codeword sequence of a
// symbol of version v at level l, back into Reed-Solomon blocks.
func Deinterleave(codewords []byte, v Version, l Level) []Block {
	if len(codewords) != v.TotalCodewords() {
		panic("qr: wrong codeword count")
	}
	n, size, pre := blockSizes(v, l)
	check := v.BlockCheck(l)
	blocks := make([]Block, n)
	for i := range blocks {
		db := size
		if i >= pre {
			db++
		}
		blocks[i] = Block{make([]byte, db), make([]byte, check)}
	}
	k := 0
	for i := 0; i <= size; i++ {
		for j := range blocks {
			if d := blocks[j].Data; i < len(d) {
				d[i] = codewords[k]
				k++
			}
		}
	}
	for i := 0; i < check; i++ {
		for j := range blocks {
			blocks[j].Check[i] = codewords[k]
			k++
		}
	}
	return blocks
}

// Codewords returns the final codeword sequence for data, the data
// codewords of a symbol of version v at level l.
func Codewords(data []byte, v Version, l Level) []byte {
	return Interleave(MakeBlocks(data, v, l))
}
