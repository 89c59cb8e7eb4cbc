// Package report turns an aggregation into ordered, human-readable summary lines.
//
// Item lines are sorted by denomination value, highest first. Labels with equal
// value are ordered by label so output never depends on map iteration. The last
// line is always the total.
package report

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/ironsheep/coin-counter/internal/tally"
	"github.com/ironsheep/coin-counter/internal/valuation"
)

// Table is what the formatter needs from a valuation table.
type Table interface {
	ValueOf(label string) int
	ColorOf(label string) color.NRGBA
}

// Kind distinguishes line types for display surfaces.
type Kind int

const (
	KindItem Kind = iota
	KindTotal
)

func (k Kind) String() string {
	switch k {
	case KindItem:
		return "item"
	case KindTotal:
		return "total"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Line is one display line. Item lines carry the swatch colour of their label.
type Line struct {
	Kind     Kind
	Text     string
	Label    string
	Count    int
	Value    int
	Subtotal int
	Color    color.NRGBA
}

// HasSwatch reports whether the line should be shown with a colour swatch.
func (l Line) HasSwatch() bool {
	return l.Kind == KindItem
}

// Report is the ordered summary of one image.
type Report struct {
	Lines []Line
	Total int
}

// Format builds the report for res.
func Format(res tally.Result, table Table) Report {
	labels := make([]string, 0, len(res.Counts))
	for label := range res.Counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		vi, vj := table.ValueOf(labels[i]), table.ValueOf(labels[j])
		if vi != vj {
			return vi > vj
		}
		return labels[i] < labels[j]
	})

	lines := make([]Line, 0, len(labels)+1)
	for _, label := range labels {
		count := res.Counts[label]
		value := table.ValueOf(label)
		lines = append(lines, Line{
			Kind:     KindItem,
			Text:     ItemText(label, count, value),
			Label:    label,
			Count:    count,
			Value:    value,
			Subtotal: res.Subtotal(label, table),
			Color:    table.ColorOf(label),
		})
	}
	lines = append(lines, Line{
		Kind: KindTotal,
		Text: TotalText(res.Total),
	})

	return Report{Lines: lines, Total: res.Total}
}

// ItemText renders "<count>x  <label padded to 8> = <subtotal> Ft".
func ItemText(label string, count, value int) string {
	return fmt.Sprintf("%dx  %-8s = %d %s", count, label, count*value, valuation.Currency)
}

// TotalText renders "TOTAL: <total> Ft".
func TotalText(total int) string {
	return fmt.Sprintf("TOTAL: %d %s", total, valuation.Currency)
}

// Items returns the item lines only.
func (r Report) Items() []Line {
	items := make([]Line, 0, len(r.Lines))
	for _, l := range r.Lines {
		if l.Kind == KindItem {
			items = append(items, l)
		}
	}
	return items
}

// String joins the line texts with newlines.
func (r Report) String() string {
	texts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}
