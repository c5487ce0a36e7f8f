// Package fastcolor writes fixed-width, optionally coloured, terminal columns.
package fastcolor

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Color is an ANSI SGR escape sequence. The empty Color writes plain text.
type Color string

const resetSeq = "\x1b[0m"

var (
	Reset   Color = ""
	Bold    Color = "\x1b[1m"
	FgRed         = MustHex("#e06c75")
	FgGreen       = MustHex("#98c379")
	FgBlue        = MustHex("#61afef")
)

var enabled = true

// SetEnabled turns colour output on or off for every Color.
func SetEnabled(on bool) {
	enabled = on
}

// FromColorful returns the 24-bit foreground escape for c.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color(fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b))
}

// MustHex is like FromColorful for a "#rrggbb" string and panics if it is
// malformed.
func MustHex(hex string) Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return FromColorful(c)
}

// WriteStringFixed writes s truncated or padded to width display cells.
func (c Color) WriteStringFixed(w io.StringWriter, s string, width int, rightJustify bool) {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "~")
	}
	if rightJustify {
		s = runewidth.FillLeft(s, width)
	} else {
		s = runewidth.FillRight(s, width)
	}
	c.WriteString(w, s)
}

// WriteString writes s wrapped in c.
func (c Color) WriteString(w io.StringWriter, s string) {
	if !enabled || c == "" {
		w.WriteString(s)
		return
	}
	w.WriteString(string(c))
	w.WriteString(s)
	w.WriteString(resetSeq)
}
