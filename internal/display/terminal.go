// Package display renders counting results for people: a summary report on a
// terminal and the annotated image as a file.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/ironsheep/coin-counter/internal/report"
)

// Swatch is the glyph drawn before each item line.
const Swatch = "■"

const (
	header = "SUMMARY REPORT"
	rule   = "-------------------------"
)

// Options controls terminal rendering.
type Options struct {
	// NoColor disables ANSI escapes. The swatch glyph is still printed.
	NoColor bool
}

// WriteReport writes the summary: a header, a rule, one swatch-prefixed line
// per denomination, a second rule and the total line.
func WriteReport(w io.Writer, rep report.Report, opts Options) error {
	var b strings.Builder

	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(rule)
	b.WriteByte('\n')

	for _, line := range rep.Lines {
		if line.Kind == report.KindTotal {
			b.WriteString(rule)
			b.WriteByte('\n')
			b.WriteString(line.Text)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(swatch(line, opts))
		b.WriteByte(' ')
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// swatch returns the coloured glyph for line using a 24-bit foreground escape.
func swatch(line report.Line, opts Options) string {
	if opts.NoColor || !line.HasSwatch() {
		return Swatch
	}
	c := line.Color
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", c.R, c.G, c.B, Swatch)
}
