// Command qr encodes text as one or more QR code symbols.
package main

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"go.uber.org/zap"

	"github.com/unixdj/qrsym"
	"github.com/unixdj/qrsym/coding"
)

// A transform maps a pixel of the output code of size n to the pixel
// of the input code it is copied from.
type transform func(x, y, n int) (int, int)

var g = struct {
	scale   int             // image pixels per module
	border  int             // quiet zone, -1 for default
	palette *[2]color.Color // set by -B or -F
	format  *format         // output format
	reverse bool            // inverted colours
	base    string          // output filename without extension
	ext     string          // output filename extension
	split   bool            // number output files
	upper   bool            // convert input to uppercase
	debug   bool            // log debug messages
	ops     []transform     // flips and rotations, in order
	bg, fg  rgba
	colour  bool
	opts    []qr.Option
}{
	bg: rgba{0xff, 0xff, 0xff, 0xff},
	fg: rgba{0x00, 0x00, 0x00, 0xff},
}

// A format is an output file format.
type format struct {
	name   string
	encode func(*qr.Code, io.Writer) error
}

var formats = []format{
	{"png", func(c *qr.Code, w io.Writer) error { return png.Encode(w, c.Image()) }},
	{"pbm", (*qr.Code).EncodePBM},
	{"utf8", func(c *qr.Code, w io.Writer) error {
		_, err := io.WriteString(w, c.String())
		return err
	}},
	{"ascii", ascii},
}

// formatNames returns the names of the output formats and their
// inverted variants.
func formatNames() []string {
	var names []string
	for _, f := range formats {
		names = append(names, f.name, f.name+"i")
	}
	return names
}

func setFormat(name string) {
	for i := range formats {
		f := &formats[i]
		if name == f.name || name == f.name+"i" {
			g.format, g.reverse = f, name != f.name
			return
		}
	}
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	fmt.Fprintf(w, "Usage: %s %s [text ...]\n", cl.Program(), cl.UsageLine())
	fmt.Fprint(w, `Encode text as QR code.  Arguments are joined with spaces;
without arguments, standard input is encoded minus its final newline.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	b.WriteTo(w)
}

// A flagFunc is a flag that runs a function when seen.
type flagFunc func()

func (flagFunc) String() string                    { return "" }
func (f flagFunc) Set(string, getopt.Option) error { f(); return nil }

func version() {
	fmt.Println(`qr 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.ops = append(g.ops, func(x, y, n int) (int, int) { return n - 1 - x, y })
}

func rotate() {
	g.ops = append(g.ops, func(x, y, n int) (int, int) { return n - 1 - y, x })
}

// An rgba is a colour given on the command line.
type rgba color.RGBA

func (c *rgba) String() string {
	s := fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	if c.A != 0xff {
		s += fmt.Sprintf("%02x", c.A)
	}
	return s
}

// Set parses RGB, RGBA, RRGGBB or RRGGBBAA in hex.
func (c *rgba) Set(s string, _ getopt.Option) error {
	hex := s
	switch len(s) {
	case 3, 4:
		var b strings.Builder
		for _, r := range s {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	case 6, 8:
	default:
		return fmt.Errorf("%q: colour must have 3, 4, 6 or 8 hex digits", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour", s)
	}
	*c = rgba{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}
	g.colour = true
	return nil
}

func parseFlags() {
	getopt.SetUsage(func() {
		printUsage(os.Stderr)
		os.Exit(2)
	})
	getopt.Flag(flagFunc(func() {
		printUsage(os.Stdout)
		os.Exit(0)
	}), 'h', "print this help and exit").SetFlag()
	getopt.Flag(flagFunc(version), 'V', "print version and exit").SetFlag()

	lev := getopt.Enum('l', []string{"l", "m", "q", "h", "L", "M", "Q", "H"},
		"m", "error correction level from lowest to highest", "l|m|q|h")
	ver := getopt.Unsigned('v', uint64(qr.DefaultMaxVersion),
		&getopt.UnsignedLimit{Base: 0, Bits: 8,
			Min: uint64(coding.MinVersion), Max: uint64(coding.MaxVersion)},
		"largest QR version to use", "version")
	multi := getopt.Bool('S', "split text over up to 16 symbols "+
		"using structured append when it does not fit in one")
	charset := getopt.StringLong("charset", 'c', qr.DefaultCharset,
		"IANA name of the byte mode charset; "+
			"kanji mode is only available with Shift_JIS", "name")
	getopt.Flag(&g.upper, 'i', "convert text to uppercase")

	typ := getopt.Enum('t', formatNames(), "", "output format: "+
		strings.Join(formatNames(), ", ")+"; an \"i\" suffix inverts "+
		"colours; defaults to utf8 when writing to a terminal, "+
		"png otherwise", "type")
	out := getopt.String('o', "", "write to file instead of standard "+
		"output; several symbols go to file-01.ext, file-02.ext and so on",
		"file")
	scale := getopt.Unsigned('s', 8,
		&getopt.UnsignedLimit{Base: 0, Bits: 16, Min: 1, Max: 1 << 12},
		"image pixels per module for png and pbm", "scale")
	border := getopt.Int('m', -1, "quiet zone width in modules, "+
		"4 unless given", "margin")
	getopt.FlagLong(&g.fg, "foreground", 'F',
		"png foreground colour as RGB[A] or RRGGBB[AA]", "colour")
	getopt.FlagLong(&g.bg, "background", 'B',
		"png background colour, see -F", "colour")
	getopt.Flag(flagFunc(flip), 'f',
		"mirror left to right; -f and -r apply in order").SetFlag()
	getopt.Flag(flagFunc(rotate), 'r',
		"rotate 90° counterclockwise").SetFlag()
	getopt.Flag(&g.debug, 'd', "log encoding steps to standard error")

	getopt.Parse()

	l, err := coding.ParseLevel(*lev)
	if err != nil {
		log.Fatalln(err)
	}
	g.opts = []qr.Option{
		qr.WithLevel(l),
		qr.WithMaxVersion(qr.Version(*ver)),
		qr.WithStructuredAppend(*multi),
		qr.WithCharset(*charset),
	}
	g.scale, g.border = int(*scale), *border
	if *typ == "" {
		*typ = "png"
		if *out == "" && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*typ = "utf8"
		}
	}
	setFormat(*typ)
	if *out != "-" {
		g.ext = path.Ext(*out)
		g.base = strings.TrimSuffix(*out, g.ext)
	}
	if g.colour {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
}

// input returns the text to encode.
func input() string {
	if args := getopt.Args(); len(args) != 0 {
		return strings.Join(args, " ")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalln(err)
	}
	s := strings.TrimSuffix(string(b), "\n")
	return strings.TrimSuffix(s, "\r")
}

func main() {
	log.SetFlags(0)
	parseFlags()
	if g.debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalln(err)
		}
		defer l.Sync()
		qr.SetLogger(l)
	}

	text := input()
	if g.upper {
		text = strings.ToUpper(text)
	}
	syms, err := qr.New(g.opts...)
	if err != nil {
		log.Fatalln(err)
	}
	if err := syms.AppendText(text); err != nil {
		log.Fatalln(err)
	}
	g.split = syms.Len() > 1
	for i := 0; i < syms.Len(); i++ {
		sym, err := syms.At(i)
		if err != nil {
			log.Fatalln(err)
		}
		c, err := sym.Code()
		if err != nil {
			log.Fatalln(err)
		}
		if err := write(i, c); err != nil {
			log.Fatalln(err)
		}
	}
}

// write writes the i-th symbol to its output.
func write(i int, c *qr.Code) error {
	c = orient(c)
	c.Scale, c.Palette, c.Reverse = g.scale, g.palette, g.reverse
	if g.border >= 0 {
		c.Border = g.border
	}
	if g.base == "" && g.ext == "" {
		return g.format.encode(c, os.Stdout)
	}
	name := g.base + g.ext
	if g.split {
		name = fmt.Sprintf("%s-%02d%s", g.base, i+1, g.ext)
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := g.format.encode(c, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// orient returns c flipped and rotated as requested on the command
// line.
func orient(c *qr.Code) *qr.Code {
	if len(g.ops) == 0 {
		return c
	}
	n := c.Size
	t := *c
	t.Bitmap = make([]byte, len(c.Bitmap))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			sx, sy := x, y
			for i := len(g.ops) - 1; i >= 0; i-- {
				sx, sy = g.ops[i](sx, sy, n)
			}
			if c.Black(sx, sy) {
				t.Bitmap[y*t.Stride+x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return &t
}

// ascii writes c as text, "##" per dark module and two spaces per
// light one.
func ascii(c *qr.Code, w io.Writer) error {
	var b bytes.Buffer
	for y := -c.Border; y < c.Size+c.Border; y++ {
		for x := -c.Border; x < c.Size+c.Border; x++ {
			if c.Black(x, y) != c.Reverse {
				b.WriteString("##")
			} else {
				b.WriteString("  ")
			}
		}
		b.WriteByte('\n')
	}
	_, err := b.WriteTo(w)
	return err
}
