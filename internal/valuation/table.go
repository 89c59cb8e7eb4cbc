// Package valuation maps coin class labels to monetary values and display colours.
//
// A Table is built once at startup and never mutated. Lookups for labels the
// table does not know are not errors: they resolve to value 0 and FallbackColor.
package valuation

import (
	"fmt"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is used for labels missing from the table (pure green).
var FallbackColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}

// Currency is the unit suffix used in reports.
const Currency = "Ft"

// Entry describes one denomination.
type Entry struct {
	Label string
	Value int
	Color color.NRGBA
}

// Hex returns the entry colour as "#rrggbb".
func (e Entry) Hex() string {
	return HexOf(e.Color)
}

// Spec is the declarative form of an Entry, with the colour as a hex string.
type Spec struct {
	Label string
	Value int
	Color string
}

// Table is an immutable label lookup.
type Table struct {
	entries map[string]Entry
}

// DefaultSpecs are the Hungarian forint coins recognised by the model.
var DefaultSpecs = []Spec{
	{Label: "5ft", Value: 5, Color: "#ffd700"},
	{Label: "10ft", Value: 10, Color: "#fae6e6"},
	{Label: "50ft", Value: 50, Color: "#32cd32"},
	{Label: "100ft", Value: 100, Color: "#8a2be2"},
	{Label: "200ft", Value: 200, Color: "#ff0000"},
}

// New builds a Table from specs. Negative values, duplicate labels and
// unparsable colours are rejected.
func New(specs []Spec) (*Table, error) {
	entries := make(map[string]Entry, len(specs))
	for _, s := range specs {
		if s.Label == "" {
			return nil, fmt.Errorf("empty label in valuation table")
		}
		if s.Value < 0 {
			return nil, fmt.Errorf("negative value %d for label %q", s.Value, s.Label)
		}
		if _, dup := entries[s.Label]; dup {
			return nil, fmt.Errorf("duplicate label %q in valuation table", s.Label)
		}
		c, err := colorful.Hex(s.Color)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q for label %q: %w", s.Color, s.Label, err)
		}
		r, g, b := c.RGB255()
		entries[s.Label] = Entry{
			Label: s.Label,
			Value: s.Value,
			Color: color.NRGBA{R: r, G: g, B: b, A: 255},
		}
	}
	return &Table{entries: entries}, nil
}

// MustNew is like New but panics on error. Intended for package-level tables.
func MustNew(specs []Spec) *Table {
	t, err := New(specs)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in forint table.
func Default() *Table {
	return MustNew(DefaultSpecs)
}

// Lookup returns the entry for label and whether it exists.
func (t *Table) Lookup(label string) (Entry, bool) {
	e, ok := t.entries[label]
	return e, ok
}

// ValueOf returns the monetary value of label, or 0 if unknown.
func (t *Table) ValueOf(label string) int {
	if e, ok := t.Lookup(label); ok {
		return e.Value
	}
	return 0
}

// ColorOf returns the display colour of label, or FallbackColor if unknown.
func (t *Table) ColorOf(label string) color.NRGBA {
	if e, ok := t.Lookup(label); ok {
		return e.Color
	}
	return FallbackColor
}

// Entries returns a copy of all entries, highest value first, ties by label.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// HexOf formats an opaque colour as "#rrggbb".
func HexOf(c color.NRGBA) string {
	cf, _ := colorful.MakeColor(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	return cf.Hex()
}
