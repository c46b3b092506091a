// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/unixdj/qrsym"
)

func Example() {
	syms, err := qr.New(qr.WithLevel(qr.M))
	if err != nil {
		log.Fatalln(err)
	}
	if err := syms.AppendText("HELLO WORLD"); err != nil {
		log.Fatalln(err)
	}
	sym, err := syms.At(0)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println(syms.Len(), sym.Version(), sym.Segments())
	// Output: 1 1 [{alphanumeric 11}]
}

func ExampleSymbols_AppendText() {
	syms, err := qr.New(qr.WithLevel(qr.L), qr.WithMaxVersion(1),
		qr.WithStructuredAppend(true))
	if err != nil {
		log.Fatalln(err)
	}
	if err := syms.AppendText(strings.Repeat("0123456789", 7)); err != nil {
		log.Fatalln(err)
	}
	for i := 0; i < syms.Len(); i++ {
		sym, _ := syms.At(i)
		fmt.Printf("%d/%d %v\n", sym.Position()+1, sym.Total(), sym.Segments())
	}
	// Output:
	// 1/2 [{numeric 35}]
	// 2/2 [{numeric 35}]
}
