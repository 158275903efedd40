package main

import (
	"io"

	"github.com/arnodel/fieldstream/extract"
)

// Some color ANSI codes
var (
	Reset = []byte("\033[0m")

	Yellow     = []byte("\033[33m")
	Green      = []byte("\033[32m")
	Cyan       = []byte("\033[36m")
	BrightBlue = []byte("\033[94m")
)

// Colorizer wraps field content and values in ANSI color codes.  A nil
// *Colorizer prints text unchanged.
type Colorizer struct {
	ContentColorCode []byte
	ValueColorCodes  [3][]byte
	ResetCode        []byte
}

var defaultColorizer = Colorizer{
	ContentColorCode: Green,
	ValueColorCodes:  [3][]byte{extract.Boolean: Cyan, extract.Integer: Yellow, extract.String: BrightBlue},
	ResetCode:        Reset,
}

// PrintContent writes a piece of field content as it is streamed.
func (c *Colorizer) PrintContent(w io.Writer, content string) error {
	if c == nil {
		_, err := io.WriteString(w, content)
		return err
	}
	return c.print(w, c.ContentColorCode, content)
}

// PrintValue writes the final value of a field of the given kind.
func (c *Colorizer) PrintValue(w io.Writer, kind extract.Kind, value string) error {
	if c == nil || int(kind) >= len(c.ValueColorCodes) {
		_, err := io.WriteString(w, value)
		return err
	}
	return c.print(w, c.ValueColorCodes[kind], value)
}

func (c *Colorizer) print(w io.Writer, code []byte, text string) error {
	if _, err := w.Write(code); err != nil {
		return err
	}
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	_, err := w.Write(c.ResetCode)
	return err
}
